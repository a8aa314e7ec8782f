//go:build darwin

package handle

import "github.com/ebitengine/purego/objc"

// BuildPlatform is the platform every handle produced by this binary belongs to.
const BuildPlatform = PlatformMacOS

var selWindow = objc.RegisterName("window")

// Resolve maps the host's NSView pointer to a MacOSView. Embedding anchors on
// the view's window, so the window is read from the view here.
func Resolve(p Parent) (Native, error) {
	if p == 0 {
		return nil, &MismatchError{Got: PlatformUnknown, Want: BuildPlatform, Err: ErrNilParent}
	}
	view := objc.ID(p)
	win := view.Send(selWindow)
	return MacOSView{NSView: uintptr(view), NSWindow: uintptr(win)}, nil
}
