// Package app drives a capture session: it starts and stops the sampler,
// collects its records, and writes them out on request.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/csvlog"
	"github.com/Danondso/sigcap/internal/notify"
	"github.com/Danondso/sigcap/internal/sample"
	"github.com/Danondso/sigcap/internal/sampler"
)

// Notice texts shown to the user.
const (
	MsgPermissionDenied  = "Permissions not granted!"
	MsgAlreadyRecording  = "Already recording."
	MsgStarted           = "Started recording signals."
	MsgStopped           = "Stopped playing and recording."
	MsgNothingToSave     = "No data to save."
	MsgPermissionGranted = "Audio recording permission granted!"
	MsgPermissionRefused = "Audio recording permission denied!"
)

// Chimer plays audio cues around a recording.
type Chimer interface {
	PlayStart()
	PlayStop()
}

// Gate reports whether microphone access is granted.
type Gate interface {
	Granted() bool
}

// Options configures a Controller. Zero fields get harmless defaults.
type Options struct {
	Destination string
	Gate        Gate
	Notifier    notify.Notifier
	Chime       Chimer
	Clock       clockwork.Clock
	Logger      *zap.SugaredLogger
	// OnSample, if set, is called on the sampler goroutine after each
	// record is logged. Stop waits for it to return.
	OnSample func(sample.Record)
}

// Controller owns one sampler and the log it feeds.
type Controller struct {
	sampler  *sampler.Sampler
	log      *csvlog.Log
	dest     string
	gate     Gate
	notifier notify.Notifier
	chime    Chimer
	logger   *zap.SugaredLogger
	onSample func(sample.Record)

	// startMu serializes Start and Stop.
	startMu sync.Mutex

	mu       sync.Mutex
	session  string
	active   bool // a session was started and not yet stopped
	announce bool // tick 0 of a new session still owes MsgStarted
}

// New creates an idle Controller.
func New(opts Options) *Controller {
	c := &Controller{
		log:      csvlog.New(),
		dest:     opts.Destination,
		gate:     opts.Gate,
		notifier: opts.Notifier,
		chime:    opts.Chime,
		logger:   opts.Logger,
		onSample: opts.OnSample,
	}
	if c.dest == "" {
		c.dest = csvlog.FileName
	}
	if c.notifier == nil {
		c.notifier = notify.Discard
	}
	if c.logger == nil {
		c.logger = zap.NewNop().Sugar()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	sopts := []sampler.Option{
		sampler.WithClock(clock),
		sampler.WithLogger(c.logger),
	}
	if c.gate != nil {
		sopts = append(sopts, sampler.WithGate(c.gate))
	}
	c.sampler = sampler.New(c.record, sopts...)
	return c
}

func (c *Controller) record(r sample.Record) {
	c.mu.Lock()
	announce := c.announce
	c.announce = false
	c.mu.Unlock()
	if announce {
		c.notifier.Notify(MsgStarted)
	}

	c.log.Append(r)
	c.notifier.Notify(fmt.Sprintf("Recording signal: %s Hz", sample.FormatFloat(r.Frequency)))
	if c.onSample != nil {
		c.onSample(r)
	}
}

// CheckPermission reports the gate's answer to the user and returns it.
func (c *Controller) CheckPermission() bool {
	if c.gate == nil || c.gate.Granted() {
		c.notifier.Notify(MsgPermissionGranted)
		return true
	}
	c.notifier.Notify(MsgPermissionRefused)
	return false
}

// Start begins a recording session. Refusals (ErrPermissionDenied,
// ErrAlreadyRunning) are announced and returned. MsgStarted is sent ahead
// of the first sample's notice.
func (c *Controller) Start(ctx context.Context) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	id := uuid.NewString()
	fresh := c.sampler.State() == sampler.StateIdle
	if fresh {
		c.mu.Lock()
		c.announce = true
		c.mu.Unlock()
	}

	err := c.sampler.Start(ctx)
	if err != nil && fresh {
		c.mu.Lock()
		c.announce = false
		c.mu.Unlock()
	}
	switch {
	case errors.Is(err, sampler.ErrPermissionDenied):
		c.logger.Warnw("recording refused", "reason", err)
		c.notifier.Notify(MsgPermissionDenied)
		return err
	case errors.Is(err, sampler.ErrAlreadyRunning):
		c.logger.Debugw("recording already active")
		c.notifier.Notify(MsgAlreadyRecording)
		return err
	case err != nil:
		return fmt.Errorf("start sampler: %w", err)
	}

	c.mu.Lock()
	c.session = id
	c.active = true
	c.mu.Unlock()

	c.logger.Infow("recording started", "session", id)
	if c.chime != nil {
		c.chime.PlayStart()
	}
	return nil
}

// Stop ends the recording session. It is a no-op when no session is
// active. A session whose context was cancelled is still announced as
// stopped.
func (c *Controller) Stop() {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.sampler.Stop()

	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.announce = false
	session := c.session
	c.mu.Unlock()
	if !wasActive {
		return
	}

	c.logger.Infow("recording stopped", "session", session, "records", c.log.Len())
	if c.chime != nil {
		c.chime.PlayStop()
	}
	c.notifier.Notify(MsgStopped)
}

// Save writes every record captured so far to the destination. A failed
// save keeps the records for a later retry.
func (c *Controller) Save() (csvlog.FlushResult, error) {
	res, err := c.log.Flush(c.dest)
	if err != nil {
		c.logger.Errorw("error writing CSV file", "path", c.dest, "err", err)
		c.notifier.Notify("Error saving data: " + errorCause(err))
		return res, err
	}
	if res.Empty() {
		c.notifier.Notify(MsgNothingToSave)
		return res, nil
	}
	c.logger.Infow("data saved", "path", res.Path, "rows", res.Rows)
	c.notifier.Notify("Data saved to " + res.Path)
	return res, nil
}

// StopAndSave stops recording and writes the log.
func (c *Controller) StopAndSave() (csvlog.FlushResult, error) {
	c.Stop()
	return c.Save()
}

// State reports whether a session is running.
func (c *Controller) State() sampler.State {
	return c.sampler.State()
}

// Count returns the number of records captured.
func (c *Controller) Count() int {
	return c.log.Len()
}

// Records returns a copy of the captured records.
func (c *Controller) Records() []sample.Record {
	return c.log.Records()
}

// Destination returns the CSV path.
func (c *Controller) Destination() string {
	return c.dest
}

// Session returns the id of the current or last session, or "".
func (c *Controller) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func errorCause(err error) string {
	var ioErr *csvlog.IOError
	if errors.As(err, &ioErr) && ioErr.Err != nil {
		return ioErr.Err.Error()
	}
	return err.Error()
}
