package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/sigcap/internal/config"
)

// Theme assigns a color to each role the view draws.
type Theme struct {
	Name       string
	Title      lipgloss.Color // title bar, recording badge
	Frame      lipgloss.Color // border, labels, hotkey line
	Sample     lipgloss.Color // last sample row
	Notice     lipgloss.Color
	Idle       lipgloss.Color
	Busy       lipgloss.Color // saving badge, debug level column
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color // key hints, debug panel
	Rule       lipgloss.Color // debug column separators
}

const defaultTheme = "synthwave"

var builtins = []Theme{
	{
		Name:       "Synthwave",
		Title:      "#FF6AC1",
		Frame:      "#00E5FF",
		Sample:     "#B388FF",
		Notice:     "#FF8A80",
		Idle:       "#64FFDA",
		Busy:       "#FFAB40",
		Background: "#1A1A2E",
		Text:       "#E0E0E0",
		Muted:      "#666666",
		Rule:       "#444444",
	},
	{
		// Green phosphor trace on a dark tube.
		Name:       "Oscilloscope",
		Title:      "#39FF14",
		Frame:      "#1FAA59",
		Sample:     "#B6FF9E",
		Notice:     "#FFD23F",
		Idle:       "#39FF14",
		Busy:       "#FFD23F",
		Background: "#0B1A0F",
		Text:       "#C8F7C5",
		Muted:      "#4C7A55",
		Rule:       "#244A2C",
	},
	{
		Name:       "Monochrome",
		Title:      "#FFFFFF",
		Frame:      "#CCCCCC",
		Sample:     "#AAAAAA",
		Notice:     "#FFFFFF",
		Idle:       "#CCCCCC",
		Busy:       "#FFFFFF",
		Background: "#000000",
		Text:       "#FFFFFF",
		Muted:      "#888888",
		Rule:       "#444444",
	},
}

// themes holds built-in and registered custom themes by lower-cased name;
// cycle is the order the theme key steps through.
var (
	themes = map[string]Theme{}
	cycle  []string
)

func init() {
	for _, t := range builtins {
		key := strings.ToLower(t.Name)
		themes[key] = t
		cycle = append(cycle, key)
	}
	applyTheme(themes[defaultTheme])
}

// ThemeNames returns the theme keys in cycle order.
func ThemeNames() []string {
	return cycle
}

// LoadTheme looks name up case-insensitively, falling back to synthwave.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes[defaultTheme]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) Theme {
	current = strings.ToLower(current)
	for i, key := range cycle {
		if key == current {
			return themes[cycle[(i+1)%len(cycle)]]
		}
	}
	return themes[cycle[0]]
}

// RegisterCustomThemes adds config palettes to the cycle. Unnamed entries
// and names already taken are skipped. Colors left empty fall back to the
// default palette.
func RegisterCustomThemes(custom []config.CustomTheme) {
	base := themes[defaultTheme]
	pick := func(c string, fallback lipgloss.Color) lipgloss.Color {
		if c == "" {
			return fallback
		}
		return lipgloss.Color(c)
	}
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if _, taken := themes[key]; key == "" || taken {
			continue
		}
		themes[key] = Theme{
			Name:       ct.Name,
			Title:      pick(ct.Primary, base.Title),
			Frame:      pick(ct.Secondary, base.Frame),
			Sample:     pick(ct.Accent, base.Sample),
			Notice:     pick(ct.Error, base.Notice),
			Idle:       pick(ct.Success, base.Idle),
			Busy:       pick(ct.Warning, base.Busy),
			Background: pick(ct.Background, base.Background),
			Text:       pick(ct.Text, base.Text),
			Muted:      pick(ct.Dimmed, base.Muted),
			Rule:       pick(ct.Separator, base.Rule),
		}
		cycle = append(cycle, key)
	}
}

// styles is every style View renders with.
type styles struct {
	title     lipgloss.Style
	frame     lipgloss.Style
	label     lipgloss.Style
	sample    lipgloss.Style
	hotkey    lipgloss.Style
	notice    lipgloss.Style
	body      lipgloss.Style
	muted     lipgloss.Style
	mutedBold lipgloss.Style
	idle      lipgloss.Style
	recording lipgloss.Style
	saving    lipgloss.Style
	level     lipgloss.Style
	rule      lipgloss.Style
}

var st styles

func applyTheme(t Theme) {
	st = newStyles(t)
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Background(t.Background)
	}
	return styles{
		title: fg(t.Title).Bold(true).MarginBottom(1),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Frame).
			Padding(1, 2).
			Background(t.Background),
		label:     fg(t.Frame).Bold(true),
		sample:    fg(t.Sample),
		hotkey:    fg(t.Frame),
		notice:    fg(t.Notice).Italic(true),
		body:      fg(t.Text),
		muted:     fg(t.Muted),
		mutedBold: fg(t.Muted).Bold(true),
		idle:      fg(t.Idle).Bold(true),
		recording: fg(t.Title).Bold(true),
		saving:    fg(t.Busy).Bold(true),
		level:     fg(t.Busy),
		rule:      fg(t.Rule),
	}
}
