//go:build darwin

package hotkey

import (
	"context"
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// darwinMods binds the canonical modifier names; macOS does not tell
// left from right.
var darwinMods = map[string]hotkey.Modifier{
	"KEY_LEFTALT":    hotkey.ModOption,
	"KEY_RIGHTALT":   hotkey.ModOption,
	"KEY_LEFTCTRL":   hotkey.ModCtrl,
	"KEY_RIGHTCTRL":  hotkey.ModCtrl,
	"KEY_LEFTSHIFT":  hotkey.ModShift,
	"KEY_RIGHTSHIFT": hotkey.ModShift,
	"KEY_LEFTMETA":   hotkey.ModCmd,
	"KEY_RIGHTMETA":  hotkey.ModCmd,
}

// darwinKeys covers the keys the Linux listener can watch, so a hotkey
// setting moves between machines unchanged.
var darwinKeys = map[string]hotkey.Key{
	"KEY_ESC":   hotkey.KeyEscape,
	"KEY_TAB":   hotkey.KeyTab,
	"KEY_ENTER": hotkey.KeyReturn,
	"KEY_SPACE": hotkey.KeySpace,
	"KEY_R":     hotkey.KeyR,
	"KEY_S":     hotkey.KeyS,
	"KEY_F1":    hotkey.KeyF1,
	"KEY_F2":    hotkey.KeyF2,
	"KEY_F3":    hotkey.KeyF3,
	"KEY_F4":    hotkey.KeyF4,
	"KEY_F5":    hotkey.KeyF5,
	"KEY_F6":    hotkey.KeyF6,
	"KEY_F7":    hotkey.KeyF7,
	"KEY_F8":    hotkey.KeyF8,
	"KEY_F9":    hotkey.KeyF9,
	"KEY_F10":   hotkey.KeyF10,
	"KEY_F11":   hotkey.KeyF11,
	"KEY_F12":   hotkey.KeyF12,
	"KEY_F13":   hotkey.KeyF13,
	"KEY_F14":   hotkey.KeyF14,
	"KEY_F15":   hotkey.KeyF15,
	"KEY_F16":   hotkey.KeyF16,
	"KEY_F17":   hotkey.KeyF17,
	"KEY_F18":   hotkey.KeyF18,
	"KEY_F19":   hotkey.KeyF19,
	"KEY_F20":   hotkey.KeyF20,
}

// ParseHotkeyCombo resolves a hotkey setting for RegisterEventHotKey. A
// bare key such as "KEY_F9" binds as Option+key, since macOS global
// hotkeys need a modifier.
func ParseHotkeyCombo(setting string) ([]hotkey.Modifier, hotkey.Key, string, error) {
	c, err := ParseCombo(setting)
	if err != nil {
		return nil, 0, "", err
	}

	key, ok := darwinKeys[c.Key]
	if !ok {
		return nil, 0, "", fmt.Errorf("key %s cannot be bound as a global hotkey", c.Key)
	}

	mods := []hotkey.Modifier{hotkey.ModOption}
	if len(c.Mods) > 0 {
		mods = mods[:0]
		for _, name := range c.Mods {
			mods = append(mods, darwinMods[name])
		}
	}
	return mods, key, strings.TrimSpace(setting), nil
}

type darwinListener struct {
	mods    []hotkey.Modifier
	key     hotkey.Key
	keyName string
	hk      *hotkey.Hotkey
}

// NewListener creates a Listener for the given modifier+key combo.
func NewListener(mods []hotkey.Modifier, key hotkey.Key, keyName string) Listener {
	return &darwinListener{mods: mods, key: key, keyName: keyName}
}

// Start registers the hotkey and calls onPress on each key-down until ctx
// is cancelled.
func (l *darwinListener) Start(ctx context.Context, onPress func()) error {
	l.hk = hotkey.New(l.mods, l.key)
	if err := l.hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w (grant Accessibility permissions in System Settings > Privacy & Security)", l.keyName, err)
	}
	defer l.hk.Unregister()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hk.Keydown():
			if onPress != nil {
				onPress()
			}
		case <-l.hk.Keyup():
		}
	}
}

// Stop unregisters the hotkey.
func (l *darwinListener) Stop() {
	if l.hk != nil {
		l.hk.Unregister()
	}
}

func (l *darwinListener) KeyName() string {
	return l.keyName
}
