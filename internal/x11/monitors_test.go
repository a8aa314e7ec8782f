package x11

import "testing"

func TestClipToWorkarea(t *testing.T) {
	m := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}

	got := clip(m, 0, 32, 1920, 1048)
	if got.Y != 32 || got.Height != 1048 || got.Width != 1920 {
		t.Fatalf("unexpected clip: %+v", got)
	}

	// A workarea on another monitor leaves this one untouched.
	got = clip(m, 1920, 0, 1280, 1024)
	if got != m {
		t.Fatalf("expected monitor unchanged, got %+v", got)
	}
}

func TestMonitorCenter(t *testing.T) {
	m := Monitor{X: 1920, Y: 0, Width: 1280, Height: 1024}
	x, y := m.Center(500, 500)
	if x != 1920+390 || y != 262 {
		t.Fatalf("Center = (%d,%d)", x, y)
	}

	small := Monitor{X: 0, Y: 0, Width: 400, Height: 300}
	x, y = small.Center(500, 500)
	if x != 0 || y != 0 {
		t.Fatalf("expected clamp to origin, got (%d,%d)", x, y)
	}
}

func TestMonitorContains(t *testing.T) {
	m := Monitor{X: 100, Y: 100, Width: 10, Height: 10}
	if !m.contains(100, 100) || m.contains(110, 100) || m.contains(99, 105) {
		t.Fatal("contains boundaries wrong")
	}
}
