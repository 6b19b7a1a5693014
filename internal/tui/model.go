package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/clipboard"
	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/csvlog"
	"github.com/Danondso/sigcap/internal/notify"
	"github.com/Danondso/sigcap/internal/sample"
	"github.com/Danondso/sigcap/internal/sampler"
)

// Recorder is the capture session driven by the TUI.
type Recorder interface {
	Start(ctx context.Context) error
	Stop()
	Save() (csvlog.FlushResult, error)
	StopAndSave() (csvlog.FlushResult, error)
	Destination() string
}

// State represents the screen state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateSaving
)

// Messages sent through the Bubble Tea update loop.

// SampleMsg carries a record captured by the sampler.
type SampleMsg struct {
	Record sample.Record
}

// NoticeMsg asks the TUI to show a notice.
type NoticeMsg struct {
	Text string
}

// ToggleMsg is sent by the global hotkey.
type ToggleMsg struct{}

type noticeExpiredMsg struct {
	ID uint64
}

type startedMsg struct {
	Err error
}

type savedMsg struct {
	Result  csvlog.FlushResult
	Err     error
	Stopped bool
}

type copiedMsg struct {
	Path string
	Err  error
}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time    string // e.g. "11:27:53.120"
	Level   string // e.g. "DEBUG", "INFO"
	Message string
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

// Model is the Bubble Tea model for the sigcap TUI.
type Model struct {
	State        State
	Count        int
	LastRecord   *sample.Record
	LastSaved    string
	Config       *config.Config
	ConfigPath   string
	ThemeName    string
	Recorder     Recorder
	HotkeyName   string
	Logger       *zap.SugaredLogger
	Clock        clockwork.Clock
	DebugMode    bool
	DebugEntries []DebugEntry

	notice notify.Throttle
	ctx    context.Context
}

// NewModel creates a new TUI model. Sampler goroutines started from the
// model are bound to ctx.
func NewModel(ctx context.Context, cfg *config.Config, rec Recorder, logger *zap.SugaredLogger, debug bool) Model {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	theme := LoadTheme(cfg.Theme)
	applyTheme(theme)
	return Model{
		State:      StateIdle,
		Config:     cfg,
		ThemeName:  theme.Name,
		Recorder:   rec,
		HotkeyName: cfg.Hotkey.Key,
		Logger:     logger,
		Clock:      clockwork.NewRealClock(),
		DebugMode:  debug,
		ctx:        ctx,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case ToggleMsg:
		if m.State == StateRecording {
			m.State = StateSaving
			return m, m.stopAndSaveCmd()
		}
		if m.State == StateIdle {
			return m, m.startCmd()
		}

	case startedMsg:
		switch {
		case msg.Err == nil:
			// Tick 0 may already have been delivered; keep it.
			m.State = StateRecording
		case errors.Is(msg.Err, sampler.ErrAlreadyRunning):
			m.State = StateRecording
		default:
			m.Logger.Debugw("start refused", "err", msg.Err)
		}

	case savedMsg:
		if msg.Stopped {
			m.State = StateIdle
		}
		if msg.Err == nil && !msg.Result.Empty() {
			m.LastSaved = msg.Result.Path
		}

	case SampleMsg:
		rec := msg.Record
		m.Count++
		m.LastRecord = &rec

	case NoticeMsg:
		return m.offer(msg.Text)

	case noticeExpiredMsg:
		m.notice.Dismiss(msg.ID)

	case copiedMsg:
		if msg.Err != nil {
			m.Logger.Warnw("clipboard copy failed", "err", msg.Err)
			return m.offer("Copy failed: " + msg.Err.Error())
		}
		return m.offer("Copied " + msg.Path)

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quitCmd()
	case "s":
		return m, m.startCmd()
	case "x":
		if m.State == StateRecording {
			m.State = StateSaving
		}
		return m, m.stopAndSaveCmd()
	case "w":
		return m, m.saveCmd()
	case "y":
		return m, m.copyCmd()
	case "t":
		next := NextTheme(m.ThemeName)
		m.ThemeName = next.Name
		applyTheme(next)
		return m, m.persistThemeCmd()
	}
	return m, nil
}

// offer shows text unless another notice is visible, and schedules its
// dismissal.
func (m Model) offer(text string) (tea.Model, tea.Cmd) {
	id, ok := m.notice.Offer(m.Clock.Now(), text)
	if !ok {
		m.Logger.Debugw("notice dropped", "text", text)
		return m, nil
	}
	return m, tea.Tick(notify.DisplayDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{ID: id}
	})
}

// Notice returns the visible notice, if any.
func (m Model) Notice() (string, bool) {
	return m.notice.Current(m.Clock.Now())
}

// quitCmd stops the recorder off the update loop, since Stop waits for a
// sampler goroutine that may be delivering a message to this program.
func (m Model) quitCmd() tea.Cmd {
	rec := m.Recorder
	return func() tea.Msg {
		if rec != nil {
			rec.Stop()
		}
		return tea.Quit()
	}
}

func (m Model) startCmd() tea.Cmd {
	rec := m.Recorder
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		return startedMsg{Err: rec.Start(ctx)}
	}
}

func (m Model) stopAndSaveCmd() tea.Cmd {
	rec := m.Recorder
	return func() tea.Msg {
		res, err := rec.StopAndSave()
		return savedMsg{Result: res, Err: err, Stopped: true}
	}
}

func (m Model) saveCmd() tea.Cmd {
	rec := m.Recorder
	return func() tea.Msg {
		res, err := rec.Save()
		return savedMsg{Result: res, Err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	path := m.LastSaved
	if path == "" && m.Recorder != nil {
		path = m.Recorder.Destination()
	}
	return func() tea.Msg {
		return copiedMsg{Path: path, Err: clipboard.Copy(path)}
	}
}

func (m Model) persistThemeCmd() tea.Cmd {
	if m.ConfigPath == "" || m.Config == nil {
		return nil
	}
	cfg := *m.Config
	cfg.Theme = m.ThemeName
	path := m.ConfigPath
	logger := m.Logger
	return func() tea.Msg {
		if err := config.Save(path, &cfg); err != nil {
			logger.Warnw("saving theme failed", "path", path, "err", err)
			return NoticeMsg{Text: fmt.Sprintf("Theme not saved: %v", err)}
		}
		logger.Debugw("theme saved", "theme", cfg.Theme)
		return nil
	}
}
