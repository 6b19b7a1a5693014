// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	atclip "github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (xclip/xsel/wl-copy on Linux).
var ErrUnsupported = errors.New("no clipboard utility available")

// Copy places text on the system clipboard.
func Copy(text string) error {
	if atclip.Unsupported {
		return ErrUnsupported
	}
	if err := atclip.WriteAll(text); err != nil {
		return fmt.Errorf("write to clipboard: %w", err)
	}
	return nil
}
