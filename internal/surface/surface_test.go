package surface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window/windowtest"
)

func TestCreateFlushDestroy(t *testing.T) {
	backend := windowtest.NewBackend(handle.PlatformX11)
	raw := handle.XlibWindow{Window: 42}

	b, err := Create(backend, raw, 64, 32)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w, h := b.Size(); w != 64 || h != 32 {
		t.Fatalf("Size() = %dx%d", w, h)
	}

	b.Context().SetRGB(1, 0, 0)
	b.Context().DrawRectangle(0, 0, 64, 32)
	if err := b.Context().Fill(); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	p := backend.LastPresenter()
	if p.Presented() != 1 {
		t.Fatalf("presented %d frames, want 1", p.Presented())
	}
	r, g, bl, _ := p.Last().At(10, 10).RGBA()
	if c := (color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}); c.R < 250 || c.G > 5 || c.B > 5 {
		t.Fatalf("presented pixel = %+v, want red", c)
	}

	if err := b.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if backend.LivePresenters() != 0 {
		t.Fatalf("presenter leaked")
	}
	if b.Context() != nil {
		t.Fatal("context still reachable after Destroy")
	}
	if err := b.Flush(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("Flush after Destroy = %v, want ErrDestroyed", err)
	}
	if err := b.Destroy(); err != nil {
		t.Fatalf("second Destroy: %v", err)
	}
}

func TestCreateRejectedByBackend(t *testing.T) {
	backend := windowtest.NewBackend(handle.PlatformX11)
	backend.FailSurface = windowtest.ErrUnsupportedFormat

	_, err := Create(backend, handle.XlibWindow{Window: 1}, 500, 500)
	var cerr *CreationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CreationError, got %v", err)
	}
	if !errors.Is(err, windowtest.ErrUnsupportedFormat) {
		t.Fatalf("cause not preserved: %v", err)
	}
	if cerr.Platform != handle.PlatformX11 || cerr.Width != 500 {
		t.Fatalf("unexpected error fields: %+v", cerr)
	}
}

func TestCreateRejectsForeignHandle(t *testing.T) {
	backend := windowtest.NewBackend(handle.PlatformX11)

	_, err := Create(backend, handle.Win32Hwnd{HWND: 9}, 10, 10)
	var cerr *CreationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CreationError, got %v", err)
	}
	if backend.LivePresenters() != 0 {
		t.Fatal("presenter created for foreign handle")
	}
}

func TestCreateRejectsEmptySize(t *testing.T) {
	backend := windowtest.NewBackend(handle.PlatformX11)
	if _, err := Create(backend, handle.XlibWindow{Window: 1}, 0, 10); err == nil {
		t.Fatal("expected error for zero width")
	}
}
