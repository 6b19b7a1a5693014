package permission

import "github.com/gordonklaus/portaudio"

// MicGate grants access when PortAudio exposes a default input device.
// portaudio.Initialize() must have been called before using it.
type MicGate struct{}

// Granted implements Gate.
func (MicGate) Granted() bool {
	return MicAvailable()
}

// Name returns the input device name, or "" if there is none.
func (MicGate) Name() string {
	return MicName()
}

// MicAvailable returns true if PortAudio can find a default input device
// with at least one input channel.
func MicAvailable() bool {
	dev, err := portaudio.DefaultInputDevice()
	return err == nil && dev != nil && dev.MaxInputChannels > 0
}

func portaudioName() string {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		return ""
	}
	return dev.Name
}
