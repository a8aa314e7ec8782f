//go:build windows

package handle

// BuildPlatform is the platform every handle produced by this binary belongs to.
const BuildPlatform = PlatformWin32

// Resolve maps the host's parent reference to an HWND.
func Resolve(p Parent) (Native, error) {
	if p == 0 {
		return nil, &MismatchError{Got: PlatformUnknown, Want: BuildPlatform, Err: ErrNilParent}
	}
	return Win32Hwnd{HWND: uintptr(p)}, nil
}
