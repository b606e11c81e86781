package onnx

import "sync"

// Loader hands out a process-wide predictor, created lazily on first use
// and exactly once. Callers that hold a Loader receive a handle rather
// than reaching for a global; a failed load is sticky until the process
// restarts, matching the model's load-once lifecycle.
type Loader struct {
	cfg  PredictorConfig
	once sync.Once
	p    *Predictor
	err  error
}

// NewLoader returns a loader that will create the predictor from cfg on
// the first Get call.
func NewLoader(cfg PredictorConfig) *Loader {
	return &Loader{cfg: cfg}
}

// Get returns the shared predictor, loading it on first call. Concurrent
// callers block until the single load attempt finishes.
func (l *Loader) Get() (*Predictor, error) {
	l.once.Do(func() {
		l.p, l.err = NewPredictor(l.cfg)
	})
	return l.p, l.err
}

// Close releases the predictor if it was ever loaded.
func (l *Loader) Close() {
	if l.p != nil {
		l.p.Close()
	}
}
