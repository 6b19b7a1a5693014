package chime

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSynthesizesDefaults(t *testing.T) {
	p, err := New("", "", true, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.startData) < 44 {
		t.Errorf("expected synthesized start cue, got %d bytes", len(p.startData))
	}
	if len(p.stopData) < 44 {
		t.Errorf("expected synthesized stop cue, got %d bytes", len(p.stopData))
	}
	if !p.enabled {
		t.Error("expected enabled")
	}
}

func TestNewDisabled(t *testing.T) {
	p, err := New("", "", false, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.enabled {
		t.Error("expected disabled")
	}
	// no-ops when disabled
	p.PlayStart()
	p.PlayStop()
}

func TestNewWithCustomPaths(t *testing.T) {
	dir := t.TempDir()
	startPath := filepath.Join(dir, "start.wav")
	stopPath := filepath.Join(dir, "stop.wav")

	cue, err := RenderCue(16000, 300, 600)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(startPath, cue, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stopPath, cue, 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := New(startPath, stopPath, true, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.startData) != len(cue) || len(p.stopData) != len(cue) {
		t.Error("expected custom cue data to be used")
	}
}

func TestNewWithBadPath(t *testing.T) {
	if _, err := New("/nonexistent/path/start.wav", "", true, 0, nil); err == nil {
		t.Error("expected error for nonexistent start path")
	}
	if _, err := New("", "/nonexistent/path/stop.wav", true, 0, nil); err == nil {
		t.Error("expected error for nonexistent stop path")
	}
}

func TestNewRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "start.wav")
	if err := os.WriteFile(path, []byte("definitely not riff data, just text padding to exceed a header"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path, "", true, 0, nil); err == nil {
		t.Error("expected error for a non-WAV chime file")
	}
}
