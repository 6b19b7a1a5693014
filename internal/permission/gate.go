// Package permission decides whether signal capture may start.
package permission

// Gate reports whether microphone access is granted.
type Gate interface {
	Granted() bool
}

// Static is a Gate with a fixed answer.
type Static bool

// Granted implements Gate.
func (s Static) Granted() bool { return bool(s) }
