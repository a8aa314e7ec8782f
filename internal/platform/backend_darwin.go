//go:build darwin

package platform

import (
	"github.com/1broseidon/plugview/internal/cocoa"
	"github.com/1broseidon/plugview/internal/window"
)

// NewBackend returns the Cocoa backend. display is ignored.
func NewBackend(string) window.Backend {
	return cocoa.NewBackend()
}

func newParent(ParentOptions) (Parent, error) {
	return nil, ErrNoParentProvider
}
