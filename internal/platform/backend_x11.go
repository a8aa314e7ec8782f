//go:build !windows && !darwin

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
	"github.com/1broseidon/plugview/internal/x11"
)

// NewBackend returns the X11 backend. An empty display uses $DISPLAY.
func NewBackend(display string) window.Backend {
	return x11.NewBackend(display)
}

type x11Parent struct {
	conn *x11.Connection
	win  *xwindow.Window
}

func newParent(opts ParentOptions) (Parent, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	x, y := conn.ActiveMonitor().Center(opts.Width, opts.Height)
	win, err := conn.CreateTopLevelWindow(x, y, opts.Width, opts.Height, opts.Title)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.XUtil.Sync()
	return &x11Parent{conn: conn, win: win}, nil
}

func (p *x11Parent) Handle() handle.Parent { return handle.Parent(p.win.Id) }

func (p *x11Parent) Close() error {
	p.win.Destroy()
	p.conn.Close()
	return nil
}
