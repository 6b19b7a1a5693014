//go:build darwin

package main

import (
	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
	"golang.design/x/mainthread"

	"github.com/Danondso/sigcap/internal/config"
	"github.com/Danondso/sigcap/internal/hotkey"
)

// startMain runs f with the main thread free for the Cocoa event loop,
// which global hotkey registration depends on.
func startMain(f func()) {
	mainthread.Init(f)
}

func createListener(cfg *config.Config, logger *zap.SugaredLogger) (hotkey.Listener, error) {
	mods, key, keyName, err := hotkey.ParseHotkeyCombo(cfg.Hotkey.Key)
	if err != nil {
		return nil, err
	}
	logger.Debugw("hotkey", "key", keyName)

	return hotkey.NewListener(mods, key, keyName), nil
}

// initPortAudio initializes PortAudio. CoreAudio needs no stderr suppression.
func initPortAudio() error {
	return portaudio.Initialize()
}

func terminatePortAudio() {
	_ = portaudio.Terminate()
}
