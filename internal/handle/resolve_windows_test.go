//go:build windows

package handle

import "testing"

func TestResolveProducesOnlyWin32Handles(t *testing.T) {
	for _, p := range []Parent{1, 0x20a3c} {
		h, err := Resolve(p)
		if err != nil {
			t.Fatalf("Resolve(0x%x): %v", uintptr(p), err)
		}
		hw, ok := h.(Win32Hwnd)
		if !ok || hw.HWND != uintptr(p) {
			t.Fatalf("Resolve(0x%x) = %#v", uintptr(p), h)
		}
	}
	if _, err := Resolve(0); err == nil {
		t.Fatal("expected error for zero parent")
	}
}
