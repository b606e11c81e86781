package nikud

import (
	"context"
	"sync"
	"time"
)

// Phase is the controller's lifecycle state for the current request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseRunning
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the observable output of the controller: the latest
// vocalized text, whether work is in progress, and the typed error of the
// last failed request, tagged with the request it answers.
type Snapshot struct {
	Phase     Phase
	RequestID uint64
	Text      string
	Busy      bool
	Err       error
}

// ControllerConfig tunes the controller's debounce behavior.
type ControllerConfig struct {
	// Debounce is the quiet interval after the last Generate call before
	// a run starts.
	Debounce time.Duration
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{Debounce: 300 * time.Millisecond}
}

// Controller debounces Generate calls and runs vocalization in the
// background. At most one run is in flight; a newer request cancels any
// pending timer and any running work before starting, so an observer
// never sees a stale result after a newer request was issued.
type Controller struct {
	svc      *Service
	debounce time.Duration

	mu        sync.Mutex
	seq       uint64
	timer     *time.Timer
	cancelRun context.CancelFunc
	snap      Snapshot

	updates chan Snapshot
}

func NewController(svc *Service, cfg ControllerConfig) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultControllerConfig().Debounce
	}
	return &Controller{
		svc:      svc,
		debounce: cfg.Debounce,
		updates:  make(chan Snapshot, 1),
	}
}

// Generate observes a new value of the source text. Empty input completes
// immediately with empty output and a cleared error; anything else is
// stripped of existing diacritics, debounced, then run in the background.
func (c *Controller) Generate(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()
	id := c.seq

	if input == "" {
		c.snap = Snapshot{Phase: PhaseCompleted, RequestID: id}
		c.publishLocked()
		return
	}

	c.snap.Phase = PhaseDebouncing
	c.snap.RequestID = id
	c.snap.Busy = true
	c.snap.Err = nil

	c.timer = time.AfterFunc(c.debounce, func() {
		c.run(id, input)
	})
}

// Cancel discards any pending timer and any in-flight run without
// publishing a result, returning the controller to idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()
	c.snap.Phase = PhaseIdle
	c.snap.Busy = false
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Text returns the latest vocalized output, empty until first success.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Text
}

// Busy reports whether a request is debouncing or running.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Busy
}

// Err returns the typed error of the last failed request, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Err
}

// Updates delivers snapshots as requests complete or fail. The channel
// holds only the most recent snapshot: a slow observer sees the latest
// state, never a stale one.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// supersedeLocked invalidates prior work: it bumps the request sequence,
// stops a pending debounce timer, and cancels an in-flight run.
func (c *Controller) supersedeLocked() {
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
}

func (c *Controller) run(id uint64, input string) {
	c.mu.Lock()
	if id != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelRun = cancel
	c.timer = nil
	c.snap.Phase = PhaseRunning
	c.mu.Unlock()

	out, err := c.svc.Vocalize(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()
	if id != c.seq {
		// Superseded or cancelled: discard whatever the run produced.
		return
	}
	c.cancelRun = nil
	c.snap.Busy = false
	if err != nil {
		c.snap.Phase = PhaseFailed
		c.snap.Err = err
	} else {
		c.snap.Phase = PhaseCompleted
		c.snap.Text = out
		c.snap.Err = nil
	}
	c.publishLocked()
}

// publishLocked replaces any undelivered snapshot with the current one.
func (c *Controller) publishLocked() {
	select {
	case c.updates <- c.snap:
	default:
		select {
		case <-c.updates:
		default:
		}
		select {
		case c.updates <- c.snap:
		default:
		}
	}
}
