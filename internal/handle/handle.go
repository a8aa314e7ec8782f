// Package handle turns the opaque parent window reference a plugin host hands
// to an editor into a typed native handle.
//
// This package is the trust boundary for host pointers: Resolve assumes the
// host supplies a value that is valid for the platform the binary was built
// for and of the expected underlying type. Nothing outside this package
// reinterprets a host pointer.
package handle

import (
	"errors"
	"fmt"
)

// Platform identifies a native windowing family.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformX11
	PlatformWin32
	PlatformMacOS
)

func (p Platform) String() string {
	switch p {
	case PlatformX11:
		return "x11"
	case PlatformWin32:
		return "win32"
	case PlatformMacOS:
		return "macos"
	default:
		return "unknown"
	}
}

// Parent is the opaque parent window reference supplied by the host. It is
// never owned: the editor must not free it or outlive it.
type Parent uintptr

// Native is a resolved native handle. It is one of XlibWindow, Win32Hwnd or
// MacOSView.
type Native interface {
	Platform() Platform
	isNative()
}

// XlibWindow identifies an X11 window. An empty Display means the process
// default display.
type XlibWindow struct {
	Window  uint32
	Display string
}

// Win32Hwnd identifies a Windows window.
type Win32Hwnd struct {
	HWND uintptr
}

// MacOSView identifies an NSView together with the NSWindow that hosts it.
type MacOSView struct {
	NSView   uintptr
	NSWindow uintptr
}

func (XlibWindow) Platform() Platform { return PlatformX11 }
func (Win32Hwnd) Platform() Platform  { return PlatformWin32 }
func (MacOSView) Platform() Platform  { return PlatformMacOS }

func (XlibWindow) isNative() {}
func (Win32Hwnd) isNative()  {}
func (MacOSView) isNative()  {}

func (h XlibWindow) String() string {
	if h.Display == "" {
		return fmt.Sprintf("x11:0x%x", h.Window)
	}
	return fmt.Sprintf("x11:0x%x@%s", h.Window, h.Display)
}

func (h Win32Hwnd) String() string { return fmt.Sprintf("win32:0x%x", h.HWND) }

func (h MacOSView) String() string {
	return fmt.Sprintf("macos:view=0x%x,window=0x%x", h.NSView, h.NSWindow)
}

// ErrNilParent is returned when the host passes a zero parent reference.
var ErrNilParent = errors.New("nil parent window handle")

// MismatchError reports a resolved handle whose platform is not the one the
// windowing layer expects.
type MismatchError struct {
	Got  Platform
	Want Platform
	Err  error
}

func (e *MismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handle mismatch: got %s, want %s: %v", e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("handle mismatch: got %s, want %s", e.Got, e.Want)
}

func (e *MismatchError) Unwrap() error { return e.Err }

// Check returns a *MismatchError if h does not belong to want.
func Check(h Native, want Platform) error {
	if h == nil {
		return &MismatchError{Got: PlatformUnknown, Want: want, Err: ErrNilParent}
	}
	if got := h.Platform(); got != want {
		return &MismatchError{Got: got, Want: want}
	}
	return nil
}
