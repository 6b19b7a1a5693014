package hotkey

import "context"

// Listener watches a global key and calls onPress on every key-down.
type Listener interface {
	Start(ctx context.Context, onPress func()) error
	Stop()
	KeyName() string
}
