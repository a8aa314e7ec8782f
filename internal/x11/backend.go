// Package x11 is the X11 windowing backend: child windows created with
// xgb/xgbutil, an xevent-driven pump, and an xgraphics-backed presenter.
package x11

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
)

// ErrUnsupportedDepth is returned when the screen depth cannot hold a BGRA surface.
var ErrUnsupportedDepth = errors.New("unsupported screen depth")

// ErrUnknownWindow is returned by NewPresenter for a window this backend did not create.
var ErrUnknownWindow = errors.New("window not created by this backend")

// ErrLoopStuck is returned by Destroy when the event loop did not exit.
var ErrLoopStuck = errors.New("x11 event loop did not exit")

const loopExitTimeout = 2 * time.Second

// Backend creates editor windows on an X server. Each window gets its own
// connection, so independent editors share nothing.
type Backend struct {
	display string

	mu      sync.Mutex
	windows map[xproto.Window]*Window
}

var _ window.Backend = (*Backend)(nil)

// NewBackend returns a backend that uses display when a handle does not name one.
func NewBackend(display string) *Backend {
	return &Backend{
		display: display,
		windows: make(map[xproto.Window]*Window),
	}
}

func (b *Backend) Platform() handle.Platform { return handle.PlatformX11 }

// CreateWindow creates a child of parent and starts its event pump.
func (b *Backend) CreateWindow(parent handle.Native, opts window.Options, h window.Handler) (window.Window, error) {
	xw, ok := parent.(handle.XlibWindow)
	if !ok {
		return nil, handle.Check(parent, handle.PlatformX11)
	}
	display := xw.Display
	if display == "" {
		display = b.display
	}

	conn, err := NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}

	xwin, err := conn.CreateChildWindow(xproto.Window(xw.Window), opts.Width, opts.Height, opts.Title)
	if err != nil {
		conn.Close()
		return nil, err
	}

	w := &Window{
		backend: b,
		conn:    conn,
		win:     xwin,
		display: display,
		width:   opts.Width,
		height:  opts.Height,
	}
	w.pump = startPump(conn.XUtil, xwin.Id, opts.Interval(), h)

	b.mu.Lock()
	b.windows[xwin.Id] = w
	b.mu.Unlock()
	return w, nil
}

// NewPresenter binds an xgraphics image to a window created by this backend.
func (b *Backend) NewPresenter(raw handle.Native, width, height int) (window.Presenter, error) {
	xw, ok := raw.(handle.XlibWindow)
	if !ok {
		return nil, handle.Check(raw, handle.PlatformX11)
	}

	b.mu.Lock()
	w := b.windows[xproto.Window(xw.Window)]
	b.mu.Unlock()
	if w == nil {
		return nil, fmt.Errorf("0x%x: %w", xw.Window, ErrUnknownWindow)
	}

	if depth := w.conn.RootDepth(); depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedDepth, depth)
	}

	ximg := xgraphics.New(w.conn.XUtil, image.Rect(0, 0, width, height))
	if err := ximg.XSurfaceSet(w.win.Id); err != nil {
		return nil, fmt.Errorf("create pixmap: %w", err)
	}
	return &Presenter{ximg: ximg, wid: w.win.Id, width: width, height: height}, nil
}

func (b *Backend) forget(wid xproto.Window) {
	b.mu.Lock()
	delete(b.windows, wid)
	b.mu.Unlock()
}

// Window is an editor child window on X11.
type Window struct {
	backend *Backend
	conn    *Connection
	win     *xwindow.Window
	pump    *pump
	display string
	width   int
	height  int

	destroyOnce sync.Once
}

func (w *Window) RawHandle() handle.Native {
	return handle.XlibWindow{Window: uint32(w.win.Id), Display: w.display}
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) StopEvents() { w.pump.stop() }

// Destroy stops the pump, destroys the X window and closes its connection.
// The connection is only closed once the event loop has returned; if the
// loop does not exit in time the connection is left open and an error is
// returned.
func (w *Window) Destroy() error {
	var err error
	w.destroyOnce.Do(func() {
		w.pump.stop()
		w.backend.forget(w.win.Id)
		w.win.Destroy()
		if !w.pump.waitExit(loopExitTimeout) {
			err = ErrLoopStuck
			return
		}
		w.conn.Close()
	})
	return err
}

// Presenter copies frames into an X pixmap and paints it onto the window.
type Presenter struct {
	ximg   *xgraphics.Image
	wid    xproto.Window
	width  int
	height int
}

func (p *Presenter) Present(img image.Image) error {
	if p.ximg == nil {
		return errors.New("presenter released")
	}
	window.CopyBGRA(p.ximg.Pix, p.ximg.Stride, p.width, p.height, img)
	p.ximg.XDraw()
	p.ximg.XPaint(p.wid)
	return nil
}

func (p *Presenter) Release() error {
	if p.ximg == nil {
		return nil
	}
	p.ximg.Destroy()
	p.ximg = nil
	return nil
}
