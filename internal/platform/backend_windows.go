//go:build windows

package platform

import (
	"github.com/1broseidon/plugview/internal/win32"
	"github.com/1broseidon/plugview/internal/window"
)

// NewBackend returns the Win32 backend. display is ignored.
func NewBackend(string) window.Backend {
	return win32.NewBackend()
}

func newParent(ParentOptions) (Parent, error) {
	return nil, ErrNoParentProvider
}
