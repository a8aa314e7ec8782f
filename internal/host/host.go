// Package host is a minimal stand-in for a plugin host: it owns a parent
// window and a UI thread, and drives the editor capability from that thread.
package host

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/platform"
)

var (
	ErrOpenFailed = errors.New("editor failed to open")
	ErrShutdown   = errors.New("host shut down")
)

// Editor is the editor capability as a host sees it.
type Editor interface {
	Size() (width, height int32)
	Open(parent uintptr) bool
	IsOpen() bool
	Close()
}

// ParentProvider creates the window the editor is embedded into.
type ParentProvider interface {
	NewParent() (platform.Parent, error)
}

// Status is a snapshot of the host's editor.
type Status struct {
	Open   bool    `json:"open"`
	Parent uintptr `json:"parent,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Opens  int     `json:"opens"`
}

// Host serializes every editor call onto one OS-locked goroutine.
type Host struct {
	provider ParentProvider
	editor   Editor
	logger   *slog.Logger

	calls chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once

	// owned by the UI goroutine
	parent platform.Parent
	opens  int
}

func New(p ParentProvider, ed Editor, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Host{
		provider: p,
		editor:   ed,
		logger:   logger,
		calls:    make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Host) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.done)

	for {
		select {
		case fn := <-h.calls:
			fn()
		case <-h.quit:
			h.closeEditor()
			return
		}
	}
}

// Do runs fn on the UI goroutine and waits for it to return.
func (h *Host) Do(fn func()) error {
	finished := make(chan struct{})
	select {
	case h.calls <- func() { defer close(finished); fn() }:
	case <-h.done:
		return ErrShutdown
	}
	<-finished
	return nil
}

// OpenEditor creates a parent window and opens the editor inside it.
func (h *Host) OpenEditor() error {
	var err error
	if derr := h.Do(func() { err = h.openEditor() }); derr != nil {
		return derr
	}
	return err
}

func (h *Host) openEditor() error {
	if h.editor.IsOpen() {
		return editor.ErrAlreadyOpen
	}
	parent, err := h.provider.NewParent()
	if err != nil {
		return err
	}
	if !h.editor.Open(uintptr(parent.Handle())) {
		if cerr := parent.Close(); cerr != nil {
			h.logger.Warn("close parent window", "error", cerr)
		}
		return ErrOpenFailed
	}
	h.parent = parent
	h.opens++
	h.logger.Debug("editor opened", "parent", uintptr(parent.Handle()))
	return nil
}

// CloseEditor closes the editor and its parent window. Closing a closed editor is a no-op.
func (h *Host) CloseEditor() error {
	return h.Do(h.closeEditor)
}

func (h *Host) closeEditor() {
	h.editor.Close()
	if h.parent != nil {
		if err := h.parent.Close(); err != nil {
			h.logger.Warn("close parent window", "error", err)
		}
		h.parent = nil
	}
}

// Status reports the editor state. After Shutdown it reports a closed editor.
func (h *Host) Status() Status {
	var st Status
	h.Do(func() {
		w, ht := h.editor.Size()
		st = Status{
			Open:   h.editor.IsOpen(),
			Width:  int(w),
			Height: int(ht),
			Opens:  h.opens,
		}
		if h.parent != nil {
			st.Parent = uintptr(h.parent.Handle())
		}
	})
	return st
}

// Shutdown closes the editor and stops the UI goroutine.
func (h *Host) Shutdown() {
	h.once.Do(func() { close(h.quit) })
	<-h.done
}
