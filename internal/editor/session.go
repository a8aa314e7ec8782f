// Package editor implements the embeddable editor: a session that owns the
// child window and its drawing surface, and the adapter a plugin host drives.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/render"
	"github.com/1broseidon/plugview/internal/surface"
	"github.com/1broseidon/plugview/internal/window"
)

// Fixed editor geometry.
const (
	Width     = 500
	Height    = 500
	PositionX = 0
	PositionY = 0

	DefaultTitle = "plugview"
)

// ErrAlreadyOpen is returned by Open when the session is already open.
var ErrAlreadyOpen = errors.New("editor already open")

// ErrRetired is returned by Open after Retire.
var ErrRetired = errors.New("editor session retired")

// State is the session lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Resolver turns a host parent reference into a native handle.
type Resolver func(handle.Parent) (handle.Native, error)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTitle sets the native window title.
func WithTitle(title string) SessionOption {
	return func(s *Session) {
		if title != "" {
			s.title = title
		}
	}
}

// WithFrameInterval sets the frame tick period.
func WithFrameInterval(d time.Duration) SessionOption {
	return func(s *Session) { s.frameInterval = d }
}

// WithResolver replaces handle.Resolve.
func WithResolver(r Resolver) SessionOption {
	return func(s *Session) { s.resolve = r }
}

// Session owns at most one native window and the surface bound to it.
//
// Invariant: state is StateOpen exactly when both win and binding are set.
// Session is not safe for concurrent use; the host calls it from one thread.
type Session struct {
	backend  window.Backend
	renderer *render.Renderer
	logger   *slog.Logger

	title         string
	frameInterval time.Duration
	resolve       Resolver

	state   State
	win     window.Window
	binding *surface.Binding
	frames  *frameHandler
	stats   Stats
	retired bool
}

// NewSession creates a closed session.
func NewSession(backend window.Backend, r *render.Renderer, logger *slog.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		backend:  backend,
		renderer: r,
		logger:   logger,
		title:    DefaultTitle,
		resolve:  handle.Resolve,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open resolves parent, creates the child window and binds a surface to it.
// On failure nothing created by this call survives and the session stays closed.
func (s *Session) Open(parent handle.Parent) error {
	if s.retired {
		return ErrRetired
	}
	if s.state == StateOpen {
		return ErrAlreadyOpen
	}

	native, err := s.resolve(parent)
	if err != nil {
		return err
	}
	if err := handle.Check(native, s.backend.Platform()); err != nil {
		return err
	}

	frames := newFrameHandler(s.renderer, s.logger)
	win, err := s.backend.CreateWindow(native, window.Options{
		Title:         s.title,
		Width:         Width,
		Height:        Height,
		FrameInterval: s.frameInterval,
	}, frames)
	if err != nil {
		return fmt.Errorf("create editor window: %w", err)
	}

	w, h := win.Size()
	binding, err := surface.Create(s.backend, win.RawHandle(), w, h)
	if err != nil {
		win.StopEvents()
		if derr := win.Destroy(); derr != nil {
			s.logger.Warn("failed to destroy editor window", "error", derr)
		}
		return err
	}

	frames.attach(binding)
	s.win = win
	s.binding = binding
	s.frames = frames
	s.state = StateOpen
	s.stats.Opens++

	s.logger.Debug("editor opened", "parent", native, "window", win.RawHandle(), "width", w, "height", h)
	return nil
}

// Close tears the session down in reverse creation order: event delivery,
// then the surface (context before presenter), then the window. Closing a
// closed session does nothing.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}

	s.win.StopEvents()
	s.frames.detach()
	s.stats.Frames += s.frames.frames.Load()
	s.stats.Faults += s.frames.faults.Load()

	if err := s.binding.Destroy(); err != nil {
		s.logger.Error("failed to release surface", "error", err)
	}
	if err := s.win.Destroy(); err != nil {
		s.logger.Error("failed to destroy editor window", "error", err)
	}

	s.win = nil
	s.binding = nil
	s.frames = nil
	s.state = StateClosed
	s.logger.Debug("editor closed")
}

// Retire closes the session for good; every later Open fails with ErrRetired.
func (s *Session) Retire() {
	s.Close()
	s.retired = true
}

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool { return s.state == StateOpen }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Position returns the editor position, in any state.
func (s *Session) Position() (x, y int) { return PositionX, PositionY }

// Size returns the editor size, in any state.
func (s *Session) Size() (width, height int) { return Width, Height }

// Stats counts frames across the session's lifetime.
type Stats struct {
	Opens  int
	Frames int64
	Faults int64
}

// Stats returns lifetime counters, including the currently open window.
func (s *Session) Stats() Stats {
	st := s.stats
	if s.frames != nil {
		st.Frames += s.frames.frames.Load()
		st.Faults += s.frames.faults.Load()
	}
	return st
}
