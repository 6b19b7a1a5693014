//go:build linux

package hotkey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// keyNameMap maps evdev key name strings to their numeric codes.
var keyNameMap = map[string]evdev.EvCode{
	"KEY_ESC":        1,
	"KEY_TAB":        15,
	"KEY_R":          19,
	"KEY_ENTER":      28,
	"KEY_LEFTCTRL":   29,
	"KEY_S":          31,
	"KEY_GRAVE":      41,
	"KEY_LEFTSHIFT":  42,
	"KEY_RIGHTSHIFT": 54,
	"KEY_LEFTALT":    56,
	"KEY_SPACE":      57,
	"KEY_CAPSLOCK":   58,
	"KEY_F1":         59,
	"KEY_F2":         60,
	"KEY_F3":         61,
	"KEY_F4":         62,
	"KEY_F5":         63,
	"KEY_F6":         64,
	"KEY_F7":         65,
	"KEY_F8":         66,
	"KEY_F9":         67,
	"KEY_F10":        68,
	"KEY_SCROLLLOCK": 70,
	"KEY_F11":        87,
	"KEY_F12":        88,
	"KEY_RIGHTCTRL":  97,
	"KEY_RIGHTALT":   100,
	"KEY_INSERT":     110,
	"KEY_PAUSE":      119,
	"KEY_LEFTMETA":   125,
	"KEY_RIGHTMETA":  126,
	"KEY_RECORD":     167,
	"KEY_F13":        183,
	"KEY_F14":        184,
	"KEY_F15":        185,
	"KEY_F16":        186,
	"KEY_F17":        187,
	"KEY_F18":        188,
	"KEY_F19":        189,
	"KEY_F20":        190,
}

// KeyCodeFromName maps a hotkey setting to an evdev code. evdev watches a
// single key, so combos with modifiers are refused.
func KeyCodeFromName(name string) (evdev.EvCode, error) {
	c, err := ParseCombo(name)
	if err != nil {
		return 0, err
	}
	if len(c.Mods) > 0 {
		return 0, fmt.Errorf("hotkey %q: modifier combos are not supported on Linux, use a single key such as KEY_F9", name)
	}
	code, ok := keyNameMap[c.Key]
	if !ok {
		return 0, fmt.Errorf("unknown key name: %s", name)
	}
	return code, nil
}

// FindKeyboard opens devicePath, or scans /dev/input/event* for the first
// device that looks like a real keyboard.
func FindKeyboard(devicePath string) (*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := evdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}
	sortEventPaths(paths)

	for _, path := range paths {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if isKeyboard(dev.CapableTypes(), dev.CapableEvents(evdev.EV_KEY)) {
			return dev, nil
		}
		_ = dev.Close()
	}
	return nil, fmt.Errorf("no keyboard device found in /dev/input/event*")
}

// sortEventPaths orders event device paths numerically (event7 before event10).
func sortEventPaths(paths []string) {
	num := func(p string) int {
		n, _ := strconv.Atoi(strings.TrimPrefix(filepath.Base(p), "event"))
		return n
	}
	sort.Slice(paths, func(i, j int) bool { return num(paths[i]) < num(paths[j]) })
}

// isKeyboard accepts devices with letter keys (KEY_A and KEY_Z) and no
// relative axes, which rules out mice and power buttons.
func isKeyboard(types []evdev.EvType, keys []evdev.EvCode) bool {
	for _, t := range types {
		if t == evdev.EV_REL {
			return false
		}
	}
	var hasA, hasZ bool
	for _, code := range keys {
		switch code {
		case 30: // KEY_A
			hasA = true
		case 44: // KEY_Z
			hasZ = true
		}
	}
	return hasA && hasZ
}

type linuxListener struct {
	dev     *evdev.InputDevice
	keyCode evdev.EvCode
	keyName string
	mu      sync.Mutex
	closed  bool
}

// NewListener creates a Listener for keyCode on dev.
func NewListener(dev *evdev.InputDevice, keyCode evdev.EvCode, keyName string) Listener {
	return &linuxListener{dev: dev, keyCode: keyCode, keyName: keyName}
}

// Start reads evdev events until ctx is cancelled or the device closes,
// calling onPress for each key-down of the configured key. Key repeats
// and releases are ignored.
func (l *linuxListener) Start(ctx context.Context, onPress func()) error {
	errCh := make(chan error, 1)

	go func() {
		for {
			ev, err := l.dev.ReadOne()
			if err != nil {
				errCh <- l.readErr(err)
				return
			}
			if ev.Type == evdev.EV_KEY && ev.Code == l.keyCode && ev.Value == 1 && onPress != nil {
				onPress()
			}
		}
	}()

	select {
	case <-ctx.Done():
		l.Stop()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// readErr maps a read failure to nil when it was caused by closing the device.
func (l *linuxListener) readErr(err error) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed || os.IsNotExist(err) ||
		strings.Contains(err.Error(), "file already closed") ||
		strings.Contains(err.Error(), "bad file descriptor") {
		return nil
	}
	return fmt.Errorf("read event: %w", err)
}

// Stop closes the device, ending Start.
func (l *linuxListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		_ = l.dev.Close()
	}
}

func (l *linuxListener) KeyName() string {
	return l.keyName
}
