package editor

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/1broseidon/plugview/internal/render"
	"github.com/1broseidon/plugview/internal/surface"
	"github.com/1broseidon/plugview/internal/window"
)

// frameHandler receives the window's pump callbacks. The binding is attached
// after the window exists and detached before it is torn down, so ticks that
// arrive outside that span draw nothing.
type frameHandler struct {
	renderer *render.Renderer
	logger   *slog.Logger

	binding atomic.Pointer[surface.Binding]
	frames  atomic.Int64
	faults  atomic.Int64
}

var _ window.Handler = (*frameHandler)(nil)

func newFrameHandler(r *render.Renderer, logger *slog.Logger) *frameHandler {
	return &frameHandler{renderer: r, logger: logger}
}

func (h *frameHandler) attach(b *surface.Binding) { h.binding.Store(b) }

func (h *frameHandler) detach() { h.binding.Store(nil) }

func (h *frameHandler) OnEvent(ev window.Event) {
	h.logger.Debug("editor event", "kind", ev.Kind, "x", ev.X, "y", ev.Y, "button", ev.Button, "key", ev.Key)
}

func (h *frameHandler) OnMessage(msg window.Message) {
	h.logger.Debug("editor message", "data", msg.Data)
}

// OnFrame draws one frame. Faults are logged and the frame is skipped; the
// window stays open.
func (h *frameHandler) OnFrame() {
	b := h.binding.Load()
	if b == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.faults.Add(1)
			fault := &render.Fault{Step: "panic", Err: fmt.Errorf("%v", r)}
			h.logger.Error("frame skipped", "error", fault, "stack", string(debug.Stack()))
		}
	}()

	width, height := b.Size()
	if err := h.renderer.Render(b.Context(), b, width, height); err != nil {
		h.faults.Add(1)
		h.logger.Error("frame skipped", "error", err)
		return
	}
	h.frames.Add(1)
}
