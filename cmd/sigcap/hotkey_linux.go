//go:build linux

package main

import (
	"os"
	"syscall"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/hotkey"
)

func startMain(f func()) {
	f()
}

func createListener(cfg *config.Config, logger *zap.SugaredLogger) (hotkey.Listener, error) {
	keyCode, err := hotkey.KeyCodeFromName(cfg.Hotkey.Key)
	if err != nil {
		return nil, err
	}
	logger.Debugw("hotkey", "key", cfg.Hotkey.Key, "code", keyCode)

	dev, err := hotkey.FindKeyboard(cfg.Hotkey.Device)
	if err != nil {
		return nil, err
	}
	logger.Debugw("keyboard device", "path", dev.Path())

	return hotkey.NewListener(dev, keyCode, cfg.Hotkey.Key), nil
}

// initPortAudio suppresses ALSA/JACK noise during PortAudio initialization
// by temporarily redirecting stderr to /dev/null, then calls portaudio.Initialize().
func initPortAudio() error {
	stderrFd := int(os.Stderr.Fd()) //nolint:gosec // fd fits in int on all supported platforms
	savedStderr, err := syscall.Dup(stderrFd)
	if err != nil {
		return portaudio.Initialize()
	}
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		_ = syscall.Close(savedStderr)
		return portaudio.Initialize()
	}
	_ = syscall.Dup2(int(devNull.Fd()), stderrFd)
	_ = devNull.Close()

	initErr := portaudio.Initialize()

	_ = syscall.Dup2(savedStderr, stderrFd)
	_ = syscall.Close(savedStderr)

	return initErr
}

func terminatePortAudio() {
	_ = portaudio.Terminate()
}
