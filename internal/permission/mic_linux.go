//go:build linux

package permission

import (
	"os/exec"
	"strings"
)

// MicName returns a human-readable name for the default input device,
// preferring the pactl description (PulseAudio/PipeWire) over the
// PortAudio name.
func MicName() string {
	if name := micNameFromPactl(); name != "" {
		return name
	}
	return portaudioName()
}

func micNameFromPactl() string {
	out, err := exec.Command("pactl", "get-default-source").Output()
	if err != nil {
		return ""
	}
	source := strings.TrimSpace(string(out))
	if source == "" {
		return ""
	}

	out, err = exec.Command("pactl", "list", "sources").Output()
	if err != nil {
		return ""
	}
	return describeSource(string(out), source)
}

// describeSource finds the Description line of the named source in
// `pactl list sources` output. Monitor sources capture playback, not a
// microphone, so they yield "".
func describeSource(listing, source string) string {
	inSource := false
	for _, line := range strings.Split(listing, "\n") {
		trimmed := strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(trimmed, "Name: "); ok {
			inSource = name == source
			continue
		}
		if !inSource {
			continue
		}
		if desc, ok := strings.CutPrefix(trimmed, "Description: "); ok {
			if strings.HasPrefix(desc, "Monitor of ") {
				return ""
			}
			return desc
		}
	}
	return ""
}
