// Package notify shows short, self-dismissing user notices. At most one
// notice is visible at a time; triggers arriving while one is showing are
// dropped.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DisplayDuration is how long a notice stays visible.
const DisplayDuration = 2000 * time.Millisecond

// Notifier displays a short user-facing message.
type Notifier interface {
	Notify(text string)
}

// Func adapts a plain function to Notifier.
type Func func(text string)

// Notify implements Notifier.
func (f Func) Notify(text string) { f(text) }

// Discard drops every notice.
var Discard Notifier = Func(func(string) {})

// Throttle tracks the single visible notice. The zero value has nothing
// visible.
type Throttle struct {
	id    uint64
	text  string
	shown time.Time
	open  bool
}

// Offer shows text unless another notice is still visible at now. It
// returns the id of the shown notice and true, or false if text was
// dropped.
func (t *Throttle) Offer(now time.Time, text string) (uint64, bool) {
	if t.visible(now) {
		return 0, false
	}
	t.id++
	t.text = text
	t.shown = now
	t.open = true
	return t.id, true
}

// Current returns the visible notice, if any.
func (t Throttle) Current(now time.Time) (string, bool) {
	if !t.visible(now) {
		return "", false
	}
	return t.text, true
}

// Dismiss hides notice id. Stale ids are ignored.
func (t *Throttle) Dismiss(id uint64) {
	if t.open && t.id == id {
		t.open = false
		t.text = ""
	}
}

func (t Throttle) visible(now time.Time) bool {
	return t.open && now.Sub(t.shown) < DisplayDuration
}

// LogNotifier writes throttled notices to a logger.
type LogNotifier struct {
	mu       sync.Mutex
	throttle Throttle
	clock    clockwork.Clock
	logger   *zap.SugaredLogger
}

// NewLogNotifier returns a Notifier for headless runs.
func NewLogNotifier(logger *zap.SugaredLogger, clock clockwork.Clock) *LogNotifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LogNotifier{clock: clock, logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(text string) {
	n.mu.Lock()
	_, shown := n.throttle.Offer(n.clock.Now(), text)
	n.mu.Unlock()

	if shown {
		n.logger.Infow(text)
		return
	}
	n.logger.Debugw("notice dropped", "text", text)
}
