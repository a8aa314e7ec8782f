package editor

import (
	"log/slog"

	"github.com/1broseidon/plugview/internal/handle"
)

// Adapter is the editor capability handed to a plugin host. Each call maps
// directly onto the wrapped Session.
type Adapter struct {
	session *Session
	logger  *slog.Logger
}

// NewAdapter wraps s.
func NewAdapter(s *Session, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{session: s, logger: logger}
}

func (a *Adapter) Position() (x, y int32) {
	px, py := a.session.Position()
	return int32(px), int32(py)
}

func (a *Adapter) Size() (width, height int32) {
	w, h := a.session.Size()
	return int32(w), int32(h)
}

// Open embeds the editor into parent and reports success. Failures are
// logged; the editor is left closed.
func (a *Adapter) Open(parent uintptr) bool {
	if err := a.session.Open(handle.Parent(parent)); err != nil {
		a.logger.Error("failed to open editor", "parent", parent, "error", err)
		return false
	}
	return true
}

func (a *Adapter) IsOpen() bool { return a.session.IsOpen() }

func (a *Adapter) Close() { a.session.Close() }

// Session returns the wrapped session.
func (a *Adapter) Session() *Session { return a.session }
