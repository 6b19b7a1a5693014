package sampler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/sample"
)

// Interval is the fixed period between ticks.
const Interval = 2000 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by Start while a tick loop is active.
	ErrAlreadyRunning = errors.New("already running")
	// ErrPermissionDenied is returned by Start when the permission gate refuses.
	ErrPermissionDenied = errors.New("microphone permission denied")
)

// State is the recorder state.
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// PermissionGate decides whether capture may start.
type PermissionGate interface {
	Granted() bool
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock sets the clock driving the tick loop.
func WithClock(c clockwork.Clock) Option {
	return func(s *Sampler) { s.clock = c }
}

// WithGate sets the permission gate checked by Start.
func WithGate(g PermissionGate) Option {
	return func(s *Sampler) { s.gate = g }
}

// WithSource replaces the record source (defaults to sample.Simulated).
func WithSource(src func(time.Time) sample.Record) Option {
	return func(s *Sampler) { s.source = src }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Sampler) { s.logger = l }
}

// Sampler emits one record to its consumer per tick while running.
type Sampler struct {
	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc // cancellation token of the active loop
	loopDone chan struct{}      // closed when the active loop has exited
	ticks    int

	emit   func(sample.Record)
	clock  clockwork.Clock
	gate   PermissionGate
	source func(time.Time) sample.Record
	logger *zap.SugaredLogger
}

// New creates an idle Sampler that hands every record to emit. emit runs on
// the loop goroutine; it must return quickly and must not call Stop.
func New(emit func(sample.Record), opts ...Option) *Sampler {
	s := &Sampler{
		emit:   emit,
		clock:  clockwork.NewRealClock(),
		source: sample.Simulated,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins ticking. Tick 0 fires immediately, then one tick every
// Interval until Stop is called or ctx is cancelled. A ctx that is already
// done is refused with its error.
func (s *Sampler) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return ErrAlreadyRunning
	}
	if s.gate != nil && !s.gate.Granted() {
		return ErrPermissionDenied
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.state = StateRunning
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	s.ticks = 0

	go s.loop(loopCtx, s.loopDone)

	s.logger.Debugw("sampler: started", "interval", Interval)
	return nil
}

// Stop returns to idle and cancels the tick loop. It blocks until the loop
// has exited, so no tick fires after Stop returns. Calling Stop while idle
// is a no-op.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	loopDone := s.loopDone
	wasRunning := s.state == StateRunning
	s.state = StateIdle
	s.cancel = nil
	if cancel != nil {
		cancel()
	}
	s.mu.Unlock()

	if loopDone != nil {
		<-loopDone
	}
	if wasRunning {
		s.logger.Debugw("sampler: stopped", "ticks", s.Ticks())
	}
}

// State reports the current state.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ticks returns the number of records emitted since the last Start.
func (s *Sampler) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func (s *Sampler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.release(done)

	start := s.clock.Now()
	if !s.tick(ctx, start) {
		return
	}

	// Tick n is due at start + n*Interval. A late wakeup emits every slot
	// that fell due, each stamped with its own due time.
	next := start.Add(Interval)
	timer := s.clock.NewTimer(next.Sub(s.clock.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.Chan():
			now := s.clock.Now()
			for !next.After(now) {
				if !s.tick(ctx, next) {
					return
				}
				next = next.Add(Interval)
			}
			timer.Reset(next.Sub(s.clock.Now()))
		}
	}
}

// tick emits the record due at at if the sampler is still running. It
// reports whether the loop should keep going.
func (s *Sampler) tick(ctx context.Context, at time.Time) bool {
	s.mu.Lock()
	if s.state != StateRunning || ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.ticks++
	n := s.ticks
	s.mu.Unlock()

	rec := s.source(at)
	s.logger.Debugw("sampler: tick", "n", n, "at", rec.Timestamp.Format(sample.TimestampLayout))
	if s.emit != nil {
		s.emit(rec)
	}
	return true
}

// release moves back to idle when the loop ended because its parent
// context was cancelled rather than through Stop.
func (s *Sampler) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loopDone == done && s.state == StateRunning {
		s.state = StateIdle
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.logger.Debugw("sampler: context cancelled", "ticks", s.ticks)
	}
}
