package tui

import (
	"fmt"
	"strings"

	"github.com/Danondso/sigcap/internal/sample"
)

// panelWidth is the total outer width of the main panel.
// st.frame has: border (1+1) = 2, padding (2+2) = 4, total chrome = 6.
const panelWidth = 80
const panelWidthForStyle = panelWidth - 2 // passed to st.frame.Width()
const panelContentWidth = panelWidth - 6  // actual usable text area

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	titleText := "  SIGCAP  "
	barTotal := panelContentWidth - len(titleText)
	barLeft := barTotal / 2
	barRight := barTotal - barLeft
	title := strings.Repeat("▓", barLeft) + titleText + strings.Repeat("▓", barRight)
	b.WriteString(st.title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(st.label.Render("Status:   "))
	b.WriteString(m.renderBadge())
	b.WriteString(st.body.Render(fmt.Sprintf("  %d samples", m.Count)))
	b.WriteString("\n\n")

	b.WriteString(st.label.Render("Last sample:"))
	b.WriteString("\n")
	if m.LastRecord != nil {
		b.WriteString(st.sample.Render(renderRecord(*m.LastRecord)))
	} else {
		b.WriteString(st.body.Render("(none yet)"))
	}
	b.WriteString("\n\n")

	b.WriteString(st.label.Render("Output:   "))
	b.WriteString(st.body.Render(truncate(m.destination(), panelContentWidth-10)))
	b.WriteString("\n\n")

	if text, ok := m.Notice(); ok {
		b.WriteString(st.notice.Width(panelContentWidth).Render(text))
	} else {
		b.WriteString(st.body.Render(" "))
	}
	b.WriteString("\n\n")

	keyName := strings.TrimPrefix(m.HotkeyName, "KEY_")
	if keyName != "" {
		b.WriteString(st.hotkey.Render(fmt.Sprintf("Hotkey: %s (press to start/stop)", keyName)))
		b.WriteString("\n")
	}
	b.WriteString(st.muted.Render("s start  x stop+save  w save  y copy path  t theme  q quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return st.frame.Width(panelWidthForStyle).Render(b.String())
}

func (m Model) destination() string {
	if m.LastSaved != "" {
		return m.LastSaved
	}
	if m.Recorder != nil {
		return m.Recorder.Destination()
	}
	return ""
}

func renderRecord(r sample.Record) string {
	return strings.Join(r.Fields(), "  ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

const debugPanelMaxLines = 5

// Debug table column widths. Row content must fit within panelContentWidth.
const (
	colTimeWidth  = 12
	colLevelWidth = 6
	colSepWidth   = 3 // " │ "
	colMsgWidth   = panelContentWidth - colTimeWidth - colLevelWidth - colSepWidth*2
)

func (m Model) renderDebugPanel() string {
	sep := st.rule.Render(" │ ")
	rule := st.muted.Render(strings.Repeat("─", panelContentWidth))

	var db strings.Builder

	db.WriteString(st.mutedBold.Render("Debug"))
	db.WriteString("\n")
	db.WriteString(rule)
	db.WriteString("\n")

	db.WriteString(
		st.mutedBold.Width(colTimeWidth).Render("TIME") +
			sep +
			st.mutedBold.Width(colLevelWidth).Render("LEVEL") +
			sep +
			st.mutedBold.Width(colMsgWidth).Render("MESSAGE"))
	db.WriteString("\n")
	db.WriteString(rule)

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, entry := range entries {
		timeStr := entry.Time
		if len(timeStr) > colTimeWidth {
			timeStr = timeStr[:colTimeWidth]
		}

		level := entry.Level
		if len(level) > colLevelWidth {
			level = level[:colLevelWidth]
		}

		msg := entry.Message
		if len(msg) > colMsgWidth {
			msg = msg[:colMsgWidth-3] + "..."
		}

		db.WriteString("\n")
		db.WriteString(
			st.muted.Width(colTimeWidth).Render(timeStr) +
				sep +
				st.level.Width(colLevelWidth).Render(level) +
				sep +
				st.muted.Width(colMsgWidth).Render(msg))
	}

	return db.String()
}

func (m Model) renderBadge() string {
	switch m.State {
	case StateRecording:
		return st.recording.Render("● Recording...")
	case StateSaving:
		return st.saving.Render("● Saving...")
	default:
		return st.idle.Render("● Idle")
	}
}
