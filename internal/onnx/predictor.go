package onnx

import (
	"context"
	"errors"
	"fmt"

	"github.com/d7mtg/AlephTools/internal/hebrew"
)

// ErrPrediction is the single failure kind surfaced for any model
// acquisition or invocation problem. Wrapped errors carry the diagnostic
// cause.
var ErrPrediction = errors.New("prediction failed")

// Graph node names of the exported niqqud model.
const (
	inputNode      = "input"
	niqqudNode     = "niqqud"
	dageshNode     = "dagesh"
	sinNode        = "sin"
	defaultSeqLen  = 126
	predictorGraph = "nakdimon"
)

// PredictorConfig describes how to load the niqqud model.
type PredictorConfig struct {
	ModelPath      string
	LibraryPath    string
	APIVersion     uint32
	SequenceLength int
}

// Predictor runs the per-character sequence labeling model. It pads input
// index sequences to the model's fixed length and returns one score row
// per padded position for each of the three diacritic channels.
// A Predictor is safe for concurrent Predict calls.
type Predictor struct {
	runner *Runner
	seqLen int
}

// NewPredictor loads the ONNX graph once. The returned predictor owns the
// underlying session until Close.
func NewPredictor(cfg PredictorConfig) (*Predictor, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: model path is required", ErrPrediction)
	}
	if cfg.SequenceLength == 0 {
		cfg.SequenceLength = defaultSeqLen
	}
	if cfg.SequenceLength < 2 {
		return nil, fmt.Errorf("%w: sequence length %d is too short", ErrPrediction, cfg.SequenceLength)
	}

	runner, err := NewRunner(predictorGraph, cfg.ModelPath, RunnerConfig{
		LibraryPath: cfg.LibraryPath,
		APIVersion:  cfg.APIVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}

	return &Predictor{runner: runner, seqLen: cfg.SequenceLength}, nil
}

// SequenceLength returns the fixed input length of the model.
func (p *Predictor) SequenceLength() int {
	return p.seqLen
}

// Predict pads indices with MASK up to the model's fixed length and runs
// the graph. It returns three per-position score matrices, one row per
// padded position.
func (p *Predictor) Predict(ctx context.Context, indices []int64) (niqqud, dagesh, sin [][]float32, err error) {
	if len(indices) > p.seqLen {
		return nil, nil, nil, fmt.Errorf("%w: input length %d exceeds model window %d", ErrPrediction, len(indices), p.seqLen)
	}

	padded := make([]int64, p.seqLen)
	copy(padded, indices)

	input, err := NewTensor(padded, []int64{1, int64(p.seqLen)})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: build input tensor: %v", ErrPrediction, err)
	}

	outputs, err := p.runner.Run(ctx, map[string]*Tensor{inputNode: input})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrPrediction, err)
	}

	niqqud, err = p.channel(outputs, niqqudNode, hebrew.NiqqudClassCount())
	if err != nil {
		return nil, nil, nil, err
	}
	dagesh, err = p.channel(outputs, dageshNode, hebrew.DageshClassCount())
	if err != nil {
		return nil, nil, nil, err
	}
	sin, err = p.channel(outputs, sinNode, hebrew.SinClassCount())
	if err != nil {
		return nil, nil, nil, err
	}
	return niqqud, dagesh, sin, nil
}

func (p *Predictor) channel(outputs map[string]*Tensor, name string, classes int) ([][]float32, error) {
	t, ok := outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: model output %q missing", ErrPrediction, name)
	}
	rows, err := t.Rows(p.seqLen, classes)
	if err != nil {
		return nil, fmt.Errorf("%w: output %q: %v", ErrPrediction, name, err)
	}
	return rows, nil
}

// Close releases the underlying ORT session.
func (p *Predictor) Close() {
	p.runner.Close()
}
