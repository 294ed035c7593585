// Package viewer opens solved images in the desktop's default application.
package viewer

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/browser"
)

// Viewer opens files for a human to look at.
type Viewer struct {
	// Open hands a file path to the platform opener.
	Open func(path string) error
}

// New returns a Viewer backed by the system's default file handler. The
// opener's own output is discarded so it cannot mix with JSON-RPC traffic
// on stdout.
func New() *Viewer {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Viewer{Open: browser.OpenFile}
}

// Show opens path. It is shaped to be used as a FileCompositor PostSave
// callback.
func (v *Viewer) Show(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := v.Open(abs); err != nil {
		return fmt.Errorf("failed to open viewer for %s: %w", abs, err)
	}
	return nil
}
