//go:build darwin

package permission

// MicName returns the PortAudio name of the default input device.
func MicName() string {
	return portaudioName()
}
