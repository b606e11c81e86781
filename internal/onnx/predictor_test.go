package onnx

import (
	"errors"
	"testing"
)

func TestNewPredictorRequiresModelPath(t *testing.T) {
	_, err := NewPredictor(PredictorConfig{})
	if !errors.Is(err, ErrPrediction) {
		t.Errorf("error = %v, want ErrPrediction", err)
	}
}

func TestNewPredictorRejectsShortWindow(t *testing.T) {
	_, err := NewPredictor(PredictorConfig{ModelPath: "model.onnx", SequenceLength: 1})
	if !errors.Is(err, ErrPrediction) {
		t.Errorf("error = %v, want ErrPrediction", err)
	}
}

func TestNewPredictorMissingModelFile(t *testing.T) {
	_, err := NewPredictor(PredictorConfig{ModelPath: "/nonexistent/model.onnx"})
	if !errors.Is(err, ErrPrediction) {
		t.Errorf("error = %v, want ErrPrediction", err)
	}
}

func TestLoaderStickyError(t *testing.T) {
	l := NewLoader(PredictorConfig{})

	_, err1 := l.Get()
	_, err2 := l.Get()
	if !errors.Is(err1, ErrPrediction) {
		t.Fatalf("first Get error = %v, want ErrPrediction", err1)
	}
	if err2 != err1 {
		t.Errorf("second Get returned a different error: %v vs %v", err2, err1)
	}

	// Close on a never-loaded predictor is a no-op.
	l.Close()
}
