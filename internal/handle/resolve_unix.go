//go:build !windows && !darwin

package handle

import "os"

// BuildPlatform is the platform every handle produced by this binary belongs to.
const BuildPlatform = PlatformX11

// Resolve maps the host's parent reference to an X11 window on the default
// display. Hosts on X11 pass the window id itself, not a pointer to it.
func Resolve(p Parent) (Native, error) {
	if p == 0 {
		return nil, &MismatchError{Got: PlatformUnknown, Want: BuildPlatform, Err: ErrNilParent}
	}
	return XlibWindow{Window: uint32(p), Display: os.Getenv("DISPLAY")}, nil
}
