package hotkey

import (
	"fmt"
	"strings"
)

// Hotkey settings name keys in evdev form ("KEY_F9"). The "KEY_" prefix is
// optional, and a combo joins modifiers and a key with "+", as in
// "Option+R" or "Ctrl+Shift+KEY_S".

var keyAliases = map[string]string{
	"OPTION": "KEY_LEFTALT",
	"ALT":    "KEY_LEFTALT",
	"CTRL":   "KEY_LEFTCTRL",
	"SHIFT":  "KEY_LEFTSHIFT",
	"CMD":    "KEY_LEFTMETA",
	"META":   "KEY_LEFTMETA",
	"RETURN": "KEY_ENTER",
	"ESCAPE": "KEY_ESC",
}

var modifierKeys = map[string]bool{
	"KEY_LEFTALT":    true,
	"KEY_RIGHTALT":   true,
	"KEY_LEFTCTRL":   true,
	"KEY_RIGHTCTRL":  true,
	"KEY_LEFTSHIFT":  true,
	"KEY_RIGHTSHIFT": true,
	"KEY_LEFTMETA":   true,
	"KEY_RIGHTMETA":  true,
}

// CanonicalKey returns the evdev name for one key spelling: "r", "R" and
// "key_r" all become "KEY_R".
func CanonicalKey(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if alias, ok := keyAliases[n]; ok {
		return alias
	}
	if !strings.HasPrefix(n, "KEY_") {
		n = "KEY_" + n
	}
	return n
}

// Combo is a parsed hotkey setting.
type Combo struct {
	Mods []string // canonical modifier names, in setting order
	Key  string   // canonical key name
}

// ParseCombo splits a hotkey setting into canonical names. Whether the
// platform can bind the result is left to the listener.
func ParseCombo(setting string) (Combo, error) {
	setting = strings.TrimSpace(setting)
	if setting == "" {
		return Combo{}, fmt.Errorf("empty hotkey")
	}

	parts := strings.Split(setting, "+")
	var c Combo
	for _, part := range parts[:len(parts)-1] {
		mod := CanonicalKey(part)
		if !modifierKeys[mod] {
			return Combo{}, fmt.Errorf("unknown modifier %q in %q (valid: Option, Alt, Ctrl, Shift, Cmd)", strings.TrimSpace(part), setting)
		}
		c.Mods = append(c.Mods, mod)
	}

	c.Key = CanonicalKey(parts[len(parts)-1])
	if c.Key == "" {
		return Combo{}, fmt.Errorf("missing key in %q", setting)
	}
	if modifierKeys[c.Key] && len(c.Mods) > 0 {
		return Combo{}, fmt.Errorf("%q ends in a modifier", setting)
	}
	return c, nil
}
