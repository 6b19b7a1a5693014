package permission

import "testing"

func TestStatic(t *testing.T) {
	if !Static(true).Granted() {
		t.Error("expected Static(true) to grant")
	}
	if Static(false).Granted() {
		t.Error("expected Static(false) to deny")
	}
}

func TestMicGateImplementsGate(t *testing.T) {
	var _ Gate = MicGate{}
}
