package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/csvlog"
	"github.com/Danondso/sigcap/internal/notify"
	"github.com/Danondso/sigcap/internal/sample"
	"github.com/Danondso/sigcap/internal/sampler"
)

// mockRecorder implements Recorder for testing.
type mockRecorder struct {
	mu       sync.Mutex
	startErr error
	saveRes  csvlog.FlushResult
	saveErr  error
	starts   int
	stops    int
	saves    int
}

func (m *mockRecorder) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return m.startErr
}

func (m *mockRecorder) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *mockRecorder) Save() (csvlog.FlushResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return m.saveRes, m.saveErr
}

func (m *mockRecorder) StopAndSave() (csvlog.FlushResult, error) {
	m.Stop()
	return m.Save()
}

func (m *mockRecorder) Destination() string { return "/tmp/" + csvlog.FileName }

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

func newTestModel() (Model, *mockRecorder, *clockwork.FakeClock) {
	rec := &mockRecorder{}
	fc := clockwork.NewFakeClockAt(epoch)
	m := NewModel(context.Background(), config.Default(), rec, nil, false)
	m.Clock = fc
	return m, rec, fc
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialState(t *testing.T) {
	m, _, _ := newTestModel()
	if m.State != StateIdle {
		t.Errorf("expected StateIdle, got %d", m.State)
	}
	if m.Count != 0 || m.LastRecord != nil {
		t.Error("expected no samples")
	}
}

func TestStartKeyRunsRecorder(t *testing.T) {
	m, rec, _ := newTestModel()
	_, cmd := update(m, key("s"))
	if cmd == nil {
		t.Fatal("expected start command")
	}
	msg := cmd()
	if rec.starts != 1 {
		t.Errorf("expected recorder started once, got %d", rec.starts)
	}
	model, _ := update(m, msg)
	if model.State != StateRecording {
		t.Errorf("expected StateRecording, got %d", model.State)
	}
}

func TestStartRefusedStaysIdle(t *testing.T) {
	m, _, _ := newTestModel()
	model, _ := update(m, startedMsg{Err: sampler.ErrPermissionDenied})
	if model.State != StateIdle {
		t.Errorf("expected StateIdle, got %d", model.State)
	}
}

func TestStartWhileRunningKeepsRecording(t *testing.T) {
	m, _, _ := newTestModel()
	model, _ := update(m, startedMsg{Err: sampler.ErrAlreadyRunning})
	if model.State != StateRecording {
		t.Errorf("expected StateRecording, got %d", model.State)
	}
}

func TestToggleStartsWhenIdle(t *testing.T) {
	m, rec, _ := newTestModel()
	_, cmd := update(m, ToggleMsg{})
	if cmd == nil {
		t.Fatal("expected start command")
	}
	if _, ok := cmd().(startedMsg); !ok {
		t.Error("expected startedMsg")
	}
	if rec.starts != 1 {
		t.Errorf("expected one start, got %d", rec.starts)
	}
}

func TestToggleStopsAndSavesWhenRecording(t *testing.T) {
	m, rec, _ := newTestModel()
	rec.saveRes = csvlog.FlushResult{Path: "/tmp/out.csv", Rows: 3}
	m.State = StateRecording

	model, cmd := update(m, ToggleMsg{})
	if model.State != StateSaving {
		t.Errorf("expected StateSaving, got %d", model.State)
	}
	if cmd == nil {
		t.Fatal("expected stop command")
	}
	msg := cmd()
	if rec.stops != 1 || rec.saves != 1 {
		t.Errorf("expected one stop and one save, got %d/%d", rec.stops, rec.saves)
	}

	model, _ = update(model, msg)
	if model.State != StateIdle {
		t.Errorf("expected StateIdle, got %d", model.State)
	}
	if model.LastSaved != "/tmp/out.csv" {
		t.Errorf("expected LastSaved set, got %q", model.LastSaved)
	}
}

func TestToggleIgnoredWhileSaving(t *testing.T) {
	m, _, _ := newTestModel()
	m.State = StateSaving
	if _, cmd := update(m, ToggleMsg{}); cmd != nil {
		t.Error("expected no command while saving")
	}
}

func TestSaveWithoutStopping(t *testing.T) {
	m, rec, _ := newTestModel()
	m.State = StateRecording
	_, cmd := update(m, key("w"))
	if cmd == nil {
		t.Fatal("expected save command")
	}
	model, _ := update(m, cmd())
	if rec.stops != 0 {
		t.Error("expected recorder not stopped")
	}
	if model.State != StateRecording {
		t.Errorf("expected StateRecording, got %d", model.State)
	}
}

func TestFailedSaveKeepsLastSaved(t *testing.T) {
	m, _, _ := newTestModel()
	m.LastSaved = "/tmp/earlier.csv"
	model, _ := update(m, savedMsg{Err: errors.New("disk full"), Stopped: true})
	if model.LastSaved != "/tmp/earlier.csv" {
		t.Errorf("expected LastSaved unchanged, got %q", model.LastSaved)
	}
}

func TestSampleMsgUpdatesCount(t *testing.T) {
	m, _, _ := newTestModel()
	for i := 0; i < 3; i++ {
		m, _ = update(m, SampleMsg{Record: sample.Simulated(epoch.Add(time.Duration(i) * sampler.Interval))})
	}
	if m.Count != 3 {
		t.Errorf("expected count 3, got %d", m.Count)
	}
	if m.LastRecord == nil || !m.LastRecord.Timestamp.Equal(epoch.Add(2*sampler.Interval)) {
		t.Errorf("unexpected last record %+v", m.LastRecord)
	}
	view := m.View()
	if !strings.Contains(view, "440.0") {
		t.Error("expected view to contain the last sample row")
	}
	if !strings.Contains(view, "3 samples") {
		t.Error("expected view to contain the sample count")
	}
}

func TestFirstSampleBeforeStartedMsg(t *testing.T) {
	m, _, _ := newTestModel()
	m, _ = update(m, SampleMsg{Record: sample.Simulated(epoch)})
	m, _ = update(m, startedMsg{})
	if m.State != StateRecording {
		t.Errorf("expected StateRecording, got %v", m.State)
	}
	if m.LastRecord == nil || m.Count != 1 {
		t.Errorf("expected tick 0 kept, got count=%d last=%+v", m.Count, m.LastRecord)
	}
}

func TestNoticeThrottle(t *testing.T) {
	m, _, fc := newTestModel()

	m, cmd := update(m, NoticeMsg{Text: "Started recording signals."})
	if cmd == nil {
		t.Fatal("expected dismissal tick for shown notice")
	}
	m, cmd = update(m, NoticeMsg{Text: "Recording signal: 440.0 Hz"})
	if cmd != nil {
		t.Error("expected second notice to be dropped")
	}
	if text, ok := m.Notice(); !ok || text != "Started recording signals." {
		t.Errorf("expected first notice visible, got %q %v", text, ok)
	}

	fc.Advance(notify.DisplayDuration)
	if _, ok := m.Notice(); ok {
		t.Error("expected notice hidden after display duration")
	}
	m, cmd = update(m, NoticeMsg{Text: "Data saved to /tmp/x.csv"})
	if cmd == nil {
		t.Error("expected new notice once the previous expired")
	}
	if !strings.Contains(m.View(), "Data saved to /tmp/x.csv") {
		t.Error("expected view to contain the notice")
	}
}

func TestNoticeExpiredDismisses(t *testing.T) {
	m, _, _ := newTestModel()
	m, _ = update(m, NoticeMsg{Text: "first"})

	// Stale ids are ignored.
	m, _ = update(m, noticeExpiredMsg{ID: 99})
	if _, ok := m.Notice(); !ok {
		t.Fatal("expected notice still visible after stale dismissal")
	}

	m, _ = update(m, noticeExpiredMsg{ID: 1})
	if _, ok := m.Notice(); ok {
		t.Error("expected notice dismissed")
	}
}

func TestCopiedMsgShowsNotice(t *testing.T) {
	m, _, _ := newTestModel()
	m, _ = update(m, copiedMsg{Path: "/tmp/out.csv"})
	if text, _ := m.Notice(); text != "Copied /tmp/out.csv" {
		t.Errorf("unexpected notice %q", text)
	}

	m, _, _ = newTestModel()
	m, _ = update(m, copiedMsg{Err: fmt.Errorf("no clipboard")})
	if text, _ := m.Notice(); text != "Copy failed: no clipboard" {
		t.Errorf("unexpected notice %q", text)
	}
}

func TestQuitStopsRecorder(t *testing.T) {
	m, rec, _ := newTestModel()
	_, cmd := update(m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if rec.stops != 1 {
		t.Errorf("expected recorder stopped on quit, got %d", rec.stops)
	}
}

func TestThemeKeyCycles(t *testing.T) {
	m, _, _ := newTestModel()
	if m.ThemeName != "Synthwave" {
		t.Fatalf("expected Synthwave, got %q", m.ThemeName)
	}
	m, cmd := update(m, key("t"))
	if m.ThemeName != "Oscilloscope" {
		t.Errorf("expected Oscilloscope, got %q", m.ThemeName)
	}
	if cmd != nil {
		t.Error("expected no persist command without a config path")
	}
	applyTheme(LoadTheme("synthwave"))
}

func TestThemeKeyPersists(t *testing.T) {
	m, _, _ := newTestModel()
	m.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	m, cmd := update(m, key("t"))
	if cmd == nil {
		t.Fatal("expected persist command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	cfg, err := config.Load(m.ConfigPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != m.ThemeName {
		t.Errorf("expected saved theme %q, got %q", m.ThemeName, cfg.Theme)
	}
	applyTheme(LoadTheme("synthwave"))
}

func TestViewContainsTitle(t *testing.T) {
	m, _, _ := newTestModel()
	if !strings.Contains(m.View(), "SIGCAP") {
		t.Error("expected view to contain 'SIGCAP'")
	}
}

func TestViewShowsBadges(t *testing.T) {
	m, _, _ := newTestModel()
	if !strings.Contains(m.View(), "Idle") {
		t.Error("expected view to contain 'Idle'")
	}
	m.State = StateRecording
	if !strings.Contains(m.View(), "Recording") {
		t.Error("expected view to contain 'Recording'")
	}
	m.State = StateSaving
	if !strings.Contains(m.View(), "Saving") {
		t.Error("expected view to contain 'Saving'")
	}
}

func TestViewShowsDestination(t *testing.T) {
	m, _, _ := newTestModel()
	if !strings.Contains(m.View(), csvlog.FileName) {
		t.Error("expected view to contain the output path")
	}
}

func TestDebugLogMsgAddsEntry(t *testing.T) {
	m, _, _ := newTestModel()
	entry := DebugEntry{Time: "11:00:00.000", Level: "INFO", Message: "hello"}
	model, _ := update(m, DebugLogMsg{Entry: entry})
	if len(model.DebugEntries) != 1 {
		t.Fatalf("expected 1 debug entry, got %d", len(model.DebugEntries))
	}
	if model.DebugEntries[0].Message != "hello" {
		t.Errorf("expected 'hello', got %q", model.DebugEntries[0].Message)
	}
}

func TestDebugLogTruncatesToMax(t *testing.T) {
	m, _, _ := newTestModel()
	for i := 0; i < maxDebugLines+10; i++ {
		entry := DebugEntry{Time: "11:00:00.000", Level: "DEBUG", Message: fmt.Sprintf("line %d", i)}
		m, _ = update(m, DebugLogMsg{Entry: entry})
	}
	if len(m.DebugEntries) != maxDebugLines {
		t.Errorf("expected %d debug entries, got %d", maxDebugLines, len(m.DebugEntries))
	}
	if m.DebugEntries[0].Message != "line 10" {
		t.Errorf("expected oldest message to be 'line 10', got %q", m.DebugEntries[0].Message)
	}
}

func TestViewShowsDebugPanel(t *testing.T) {
	m, _, _ := newTestModel()
	entry := DebugEntry{Time: "11:00:00.000", Level: "DEBUG", Message: "test message"}
	model, _ := update(m, DebugLogMsg{Entry: entry})
	view := model.View()
	if !strings.Contains(view, "Debug") {
		t.Error("expected view to contain 'Debug' panel title")
	}
	if !strings.Contains(view, "test message") {
		t.Error("expected view to contain debug message")
	}
}

func TestViewHidesDebugPanelWhenEmpty(t *testing.T) {
	m, _, _ := newTestModel()
	if strings.Contains(m.View(), "Debug") {
		t.Error("expected view to NOT contain 'Debug' panel when no debug lines")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want DebugEntry
	}{
		{
			name: "with fields",
			line: "11:27:53.777\tDEBUG\tsampler: tick\t{\"n\": 2}",
			want: DebugEntry{Time: "11:27:53.777", Level: "DEBUG", Message: "sampler: tick {\"n\": 2}"},
		},
		{
			name: "message only",
			line: "11:27:53.777\tINFO\tStarted recording signals.",
			want: DebugEntry{Time: "11:27:53.777", Level: "INFO", Message: "Started recording signals."},
		},
		{
			name: "unstructured",
			line: "portaudio: something odd",
			want: DebugEntry{Level: "DEBUG", Message: "portaudio: something odd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLine(tt.line); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestLogWriterSendsEntries(t *testing.T) {
	ch := make(chanSender, 2)
	w := NewLogWriter(ch)

	line := "11:27:53.777\tINFO\tdata saved\n"
	n, err := w.Write([]byte(line))
	if err != nil || n != len(line) {
		t.Fatalf("write: n=%d err=%v", n, err)
	}

	select {
	case msg := <-ch:
		dm, ok := msg.(DebugLogMsg)
		if !ok {
			t.Fatalf("expected DebugLogMsg, got %T", msg)
		}
		if dm.Entry.Message != "data saved" || dm.Entry.Level != "INFO" {
			t.Errorf("unexpected entry %+v", dm.Entry)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message sent")
	}
}

func TestRegisterCustomThemes(t *testing.T) {
	RegisterCustomThemes([]config.CustomTheme{
		{Name: "Sonar", Primary: "#00FF00", Background: "#000000"},
		{Name: "synthwave", Primary: "#123456"},
		{Name: ""},
	})
	if got := LoadTheme("sonar"); got.Name != "Sonar" {
		t.Errorf("expected custom theme Sonar, got %q", got.Name)
	}
	if got := LoadTheme("synthwave"); got.Title != "#FF6AC1" {
		t.Errorf("expected built-in synthwave untouched, got %q", got.Title)
	}
	sonar := LoadTheme("sonar")
	if sonar.Title != "#00FF00" || sonar.Background != "#000000" {
		t.Errorf("expected configured colors, got %+v", sonar)
	}
	if sonar.Frame != LoadTheme("synthwave").Frame {
		t.Errorf("expected unset color to fall back, got %q", sonar.Frame)
	}
	names := ThemeNames()
	if names[len(names)-1] != "sonar" {
		t.Errorf("expected sonar appended to cycle, got %v", names)
	}
}
