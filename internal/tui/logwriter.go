package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running Bubble Tea program.
type Sender interface {
	Send(msg tea.Msg)
}

// LogWriter is an io.Writer that sends each written line as a DebugLogMsg
// to a Bubble Tea program. Use it as the sink of the zap logger.
type LogWriter struct {
	program Sender
}

// NewLogWriter creates a LogWriter that sends debug lines to the given program.
func NewLogWriter(p Sender) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send is done in a goroutine to avoid
// deadlocking when called from inside a Bubble Tea command function.
func (w *LogWriter) Write(b []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		if line == "" {
			continue
		}
		entry := parseLine(line)
		go w.program.Send(DebugLogMsg{Entry: entry})
	}
	return len(b), nil
}

// parseLine splits a console-encoded zap line into its columns.
// Expected format: "HH:MM:SS.mmm<TAB>LEVEL<TAB>message[<TAB>{fields}]".
// Lines that do not match are kept whole as the message.
func parseLine(line string) DebugEntry {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) < 3 || !looksLikeTime(parts[0]) {
		return DebugEntry{Level: "DEBUG", Message: line}
	}
	entry := DebugEntry{
		Time:    parts[0],
		Level:   parts[1],
		Message: parts[2],
	}
	if len(parts) == 4 && parts[3] != "" {
		entry.Message += " " + parts[3]
	}
	return entry
}

func looksLikeTime(s string) bool {
	return len(s) >= 8 && s[2] == ':' && s[5] == ':'
}
