//go:build !windows && !darwin

package handle

import (
	"errors"
	"testing"
)

func TestResolveProducesOnlyXlibWindows(t *testing.T) {
	t.Setenv("DISPLAY", ":3")

	for _, p := range []Parent{1, 0x1400007, 0xffffffff} {
		h, err := Resolve(p)
		if err != nil {
			t.Fatalf("Resolve(0x%x): %v", uintptr(p), err)
		}
		xw, ok := h.(XlibWindow)
		if !ok {
			t.Fatalf("Resolve(0x%x) = %T, want XlibWindow", uintptr(p), h)
		}
		if xw.Window != uint32(p) || xw.Display != ":3" {
			t.Fatalf("Resolve(0x%x) = %+v", uintptr(p), xw)
		}
		if h.Platform() != BuildPlatform {
			t.Fatalf("platform %s, want %s", h.Platform(), BuildPlatform)
		}
	}
}

func TestResolveRejectsZeroParent(t *testing.T) {
	_, err := Resolve(0)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) || !errors.Is(err, ErrNilParent) {
		t.Fatalf("expected nil-parent mismatch, got %v", err)
	}
}
