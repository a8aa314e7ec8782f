//go:build windows

package win32

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
)

const (
	wsChild        = 0x40000000
	wsVisible      = 0x10000000
	wsClipSiblings = 0x04000000
	csOwnDC        = 0x0020
	idcArrow       = 32512
	frameTimerID   = 1
	dibRGBColors   = 0
	biRGB          = 0
)

const className = "PlugviewEditorWindow"

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procRegisterClassExW  = user32.NewProc("RegisterClassExW")
	procCreateWindowExW   = user32.NewProc("CreateWindowExW")
	procDestroyWindow     = user32.NewProc("DestroyWindow")
	procDefWindowProcW    = user32.NewProc("DefWindowProcW")
	procLoadCursorW       = user32.NewProc("LoadCursorW")
	procSetTimer          = user32.NewProc("SetTimer")
	procKillTimer         = user32.NewProc("KillTimer")
	procGetDC             = user32.NewProc("GetDC")
	procReleaseDC         = user32.NewProc("ReleaseDC")
	procValidateRect      = user32.NewProc("ValidateRect")
	procIsWindow          = user32.NewProc("IsWindow")
	procSetDIBitsToDevice = gdi32.NewProc("SetDIBitsToDevice")
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

var (
	registerOnce sync.Once
	registerErr  error
	instance     windows.Handle

	// live maps an HWND to its window so the shared window procedure can
	// find the handler.
	liveMu sync.Mutex
	live   = map[uintptr]*Window{}
)

func registerClass() error {
	registerOnce.Do(func() {
		if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
			registerErr = fmt.Errorf("module handle: %w", err)
			return
		}
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)
		name, _ := windows.UTF16PtrFromString(className)
		wc := wndClassEx{
			Style:     csOwnDC,
			WndProc:   windows.NewCallback(wndProc),
			Instance:  instance,
			Cursor:    windows.Handle(cursor),
			ClassName: name,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))
		if atom, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
			registerErr = fmt.Errorf("RegisterClassExW: %w", err)
		}
	})
	return registerErr
}

func wndProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	liveMu.Lock()
	w := live[hwnd]
	liveMu.Unlock()

	if w != nil && !w.stopped.Load() {
		switch m := uint32(msg); {
		case m == wmTimer && wParam == frameTimerID:
			w.handler.OnFrame()
			return 0
		case m == wmEditorMessage:
			w.handler.OnMessage(messageFromParams(wParam, lParam))
			return 0
		case m == wmEraseBkgnd:
			return 1
		default:
			if ev, ok := translate(m, wParam, lParam); ok {
				w.handler.OnEvent(ev)
			}
			if m == wmPaint {
				procValidateRect.Call(hwnd, 0)
				return 0
			}
		}
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wParam, lParam)
	return ret
}

// Backend creates editor windows with user32.
type Backend struct{}

var _ window.Backend = (*Backend)(nil)

func NewBackend() *Backend { return &Backend{} }

func (b *Backend) Platform() handle.Platform { return handle.PlatformWin32 }

// CreateWindow creates a WS_CHILD window in parent and starts its frame timer.
// Events arrive through the message loop of the calling thread.
func (b *Backend) CreateWindow(parent handle.Native, opts window.Options, h window.Handler) (window.Window, error) {
	hw, ok := parent.(handle.Win32Hwnd)
	if !ok {
		return nil, handle.Check(parent, handle.PlatformWin32)
	}
	if ok, _, _ := procIsWindow.Call(hw.HWND); ok == 0 {
		return nil, fmt.Errorf("parent HWND 0x%x is not a window", hw.HWND)
	}
	if err := registerClass(); err != nil {
		return nil, err
	}

	cls, _ := windows.UTF16PtrFromString(className)
	title, _ := windows.UTF16PtrFromString(opts.Title)
	hwnd, _, err := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(cls)),
		uintptr(unsafe.Pointer(title)),
		wsChild|wsVisible|wsClipSiblings,
		0, 0, uintptr(opts.Width), uintptr(opts.Height),
		hw.HWND, 0, uintptr(instance), 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("CreateWindowExW: %w", err)
	}

	w := &Window{hwnd: hwnd, handler: h, width: opts.Width, height: opts.Height}
	liveMu.Lock()
	live[hwnd] = w
	liveMu.Unlock()

	if id, _, err := procSetTimer.Call(hwnd, frameTimerID, uintptr(opts.Interval().Milliseconds()), 0); id == 0 {
		w.Destroy()
		return nil, fmt.Errorf("SetTimer: %w", err)
	}
	return w, nil
}

// NewPresenter returns a GDI presenter for a window.
func (b *Backend) NewPresenter(raw handle.Native, width, height int) (window.Presenter, error) {
	hw, ok := raw.(handle.Win32Hwnd)
	if !ok {
		return nil, handle.Check(raw, handle.PlatformWin32)
	}
	if ok, _, _ := procIsWindow.Call(hw.HWND); ok == 0 {
		return nil, fmt.Errorf("HWND 0x%x is not a window", hw.HWND)
	}
	return &Presenter{
		hwnd:   hw.HWND,
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}, nil
}

// Window is an editor child window on Windows.
type Window struct {
	hwnd    uintptr
	handler window.Handler
	width   int
	height  int

	stopped     atomic.Bool
	stopOnce    sync.Once
	destroyOnce sync.Once
}

func (w *Window) RawHandle() handle.Native { return handle.Win32Hwnd{HWND: w.hwnd} }

func (w *Window) Size() (int, int) { return w.width, w.height }

// StopEvents kills the frame timer and detaches the handler. Callbacks run on
// the thread that owns the window, so none is in flight when the owner calls this.
func (w *Window) StopEvents() {
	w.stopOnce.Do(func() {
		w.stopped.Store(true)
		procKillTimer.Call(w.hwnd, frameTimerID)
	})
}

func (w *Window) Destroy() error {
	var err error
	w.destroyOnce.Do(func() {
		w.StopEvents()
		liveMu.Lock()
		delete(live, w.hwnd)
		liveMu.Unlock()
		if ok, _, e := procDestroyWindow.Call(w.hwnd); ok == 0 {
			err = fmt.Errorf("DestroyWindow: %w", e)
		}
	})
	return err
}

// Presenter blits frames with SetDIBitsToDevice.
type Presenter struct {
	hwnd   uintptr
	width  int
	height int
	pix    []byte
}

func (p *Presenter) Present(img image.Image) error {
	if p.pix == nil {
		return errors.New("presenter released")
	}
	window.CopyBGRA(p.pix, p.width*4, p.width, p.height, img)

	hdc, _, _ := procGetDC.Call(p.hwnd)
	if hdc == 0 {
		return errors.New("GetDC failed")
	}
	defer procReleaseDC.Call(p.hwnd, hdc)

	bmi := bitmapInfo{Header: bitmapInfoHeader{
		Width:       int32(p.width),
		Height:      -int32(p.height), // top-down rows
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	bmi.Header.Size = uint32(unsafe.Sizeof(bmi.Header))

	lines, _, _ := procSetDIBitsToDevice.Call(
		hdc, 0, 0, uintptr(p.width), uintptr(p.height),
		0, 0, 0, uintptr(p.height),
		uintptr(unsafe.Pointer(&p.pix[0])),
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
	)
	if lines == 0 {
		return errors.New("SetDIBitsToDevice copied no lines")
	}
	return nil
}

func (p *Presenter) Release() error {
	p.pix = nil
	return nil
}
