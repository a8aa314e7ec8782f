// Package platform selects the windowing backend for the build target and
// provides the stand-in parent window the demo host embeds the editor into.
package platform

import (
	"errors"

	"github.com/1broseidon/plugview/internal/handle"
)

// ErrNoParentProvider is returned where the demo host cannot create a parent window.
var ErrNoParentProvider = errors.New("no parent window provider on this platform")

// ParentOptions describes the top-level window that hosts the editor.
type ParentOptions struct {
	Display string
	Title   string
	Width   int
	Height  int
}

// Parent is a host-owned top-level window.
type Parent interface {
	Handle() handle.Parent
	Close() error
}

// Provider creates parent windows with fixed options.
type Provider struct {
	Options ParentOptions
}

// NewParent creates a parent window using p.Options.
func (p Provider) NewParent() (Parent, error) {
	return newParent(p.Options)
}
