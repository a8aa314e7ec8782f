package editor

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/surface"
	"github.com/1broseidon/plugview/internal/window/windowtest"
)

func TestFrameHandlerWithoutBindingIsNoop(t *testing.T) {
	var logs bytes.Buffer
	h := newFrameHandler(nil, slog.New(slog.NewTextHandler(&logs, nil)))

	h.OnFrame()

	if h.frames.Load() != 0 || h.faults.Load() != 0 || logs.Len() != 0 {
		t.Fatalf("detached handler did work: frames=%d faults=%d logs=%q", h.frames.Load(), h.faults.Load(), logs.String())
	}
}

func TestFrameHandlerRecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	// A nil renderer panics inside Render; the tick must survive it.
	h := newFrameHandler(nil, slog.New(slog.NewTextHandler(&logs, nil)))

	backend := windowtest.NewBackend(handle.PlatformX11)
	b, err := surface.Create(backend, handle.XlibWindow{Window: 1}, 10, 10)
	if err != nil {
		t.Fatalf("surface.Create: %v", err)
	}
	defer b.Destroy()
	h.attach(b)

	h.OnFrame()

	if h.faults.Load() != 1 {
		t.Fatalf("faults = %d, want 1", h.faults.Load())
	}
	if !strings.Contains(logs.String(), "frame skipped") {
		t.Fatalf("panic not logged:\n%s", logs.String())
	}
}
