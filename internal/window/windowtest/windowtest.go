// Package windowtest provides an in-memory window.Backend for tests. It counts
// native resources, records the order in which they are torn down, and lets
// tests drive frame ticks and inject failures.
package windowtest

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
)

// ErrUnsupportedFormat mimics a backend that cannot bind to a handle's pixel format.
var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// Journal entries recorded by the fake backend.
const (
	EntryWindowCreate    = "window.create"
	EntryWindowStop      = "window.stop-events"
	EntryWindowDestroy   = "window.destroy"
	EntryPresenterCreate = "presenter.create"
	EntryPresenterFree   = "presenter.release"
)

// Backend is a fake window.Backend.
type Backend struct {
	mu sync.Mutex

	platform handle.Platform
	nextID   uintptr

	// FailWindow, when set, is returned from CreateWindow.
	FailWindow error
	// FailSurface, when set, is returned from NewPresenter.
	FailSurface error
	// FailPresent, when set, is returned from every Present call.
	FailPresent error

	windowsCreated     int
	windowsDestroyed   int
	presentersCreated  int
	presentersReleased int

	journal    []string
	windows    []*Window
	presenters []*Presenter
}

var _ window.Backend = (*Backend)(nil)

// NewBackend returns a fake backend for platform p.
func NewBackend(p handle.Platform) *Backend {
	return &Backend{platform: p, nextID: 0x100}
}

func (b *Backend) Platform() handle.Platform { return b.platform }

// CreateWindow creates a fake child window. Frames are only delivered when a
// test calls Tick.
func (b *Backend) CreateWindow(parent handle.Native, opts window.Options, h window.Handler) (window.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailWindow != nil {
		return nil, b.FailWindow
	}
	if err := handle.Check(parent, b.platform); err != nil {
		return nil, err
	}

	b.nextID++
	w := &Window{
		backend: b,
		raw:     rawHandle(b.platform, b.nextID),
		parent:  parent,
		opts:    opts,
		handler: h,
	}
	b.windowsCreated++
	b.windows = append(b.windows, w)
	b.journal = append(b.journal, EntryWindowCreate)
	return w, nil
}

// NewPresenter creates a fake presenter for raw.
func (b *Backend) NewPresenter(raw handle.Native, width, height int) (window.Presenter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailSurface != nil {
		return nil, b.FailSurface
	}
	if err := handle.Check(raw, b.platform); err != nil {
		return nil, err
	}
	p := &Presenter{backend: b, width: width, height: height}
	b.presentersCreated++
	b.presenters = append(b.presenters, p)
	b.journal = append(b.journal, EntryPresenterCreate)
	return p, nil
}

// LiveWindows returns the number of windows created and not yet destroyed.
func (b *Backend) LiveWindows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windowsCreated - b.windowsDestroyed
}

// LivePresenters returns the number of presenters created and not yet released.
func (b *Backend) LivePresenters() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentersCreated - b.presentersReleased
}

// WindowsCreated returns the total number of windows ever created.
func (b *Backend) WindowsCreated() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windowsCreated
}

// Journal returns a copy of the lifecycle journal.
func (b *Backend) Journal() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.journal))
	copy(out, b.journal)
	return out
}

// ResetJournal clears the journal.
func (b *Backend) ResetJournal() {
	b.mu.Lock()
	b.journal = nil
	b.mu.Unlock()
}

// LastWindow returns the most recently created window, or nil.
func (b *Backend) LastWindow() *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.windows) == 0 {
		return nil
	}
	return b.windows[len(b.windows)-1]
}

// LastPresenter returns the most recently created presenter, or nil.
func (b *Backend) LastPresenter() *Presenter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.presenters) == 0 {
		return nil
	}
	return b.presenters[len(b.presenters)-1]
}

func (b *Backend) record(entry string) {
	b.mu.Lock()
	b.journal = append(b.journal, entry)
	b.mu.Unlock()
}

func rawHandle(p handle.Platform, id uintptr) handle.Native {
	switch p {
	case handle.PlatformX11:
		return handle.XlibWindow{Window: uint32(id), Display: ":test"}
	case handle.PlatformWin32:
		return handle.Win32Hwnd{HWND: id}
	case handle.PlatformMacOS:
		return handle.MacOSView{NSView: id, NSWindow: id + 1}
	default:
		panic(fmt.Sprintf("windowtest: no raw handle for platform %s", p))
	}
}

// Window is a fake child window.
type Window struct {
	backend *Backend
	raw     handle.Native
	parent  handle.Native
	opts    window.Options

	mu        sync.Mutex
	handler   window.Handler
	stopped   bool
	destroyed bool
}

func (w *Window) RawHandle() handle.Native { return w.raw }

func (w *Window) Size() (int, int) { return w.opts.Width, w.opts.Height }

// Parent returns the handle the window was created under.
func (w *Window) Parent() handle.Native { return w.parent }

// Options returns the options the window was created with.
func (w *Window) Options() window.Options { return w.opts }

func (w *Window) StopEvents() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	w.handler = nil
	w.backend.record(EntryWindowStop)
}

func (w *Window) Destroy() error {
	w.StopEvents()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return nil
	}
	w.destroyed = true

	w.backend.mu.Lock()
	w.backend.windowsDestroyed++
	w.backend.journal = append(w.backend.journal, EntryWindowDestroy)
	w.backend.mu.Unlock()
	return nil
}

// Destroyed reports whether Destroy has been called.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// Tick delivers one frame tick, as the pump would. It reports whether a
// handler was registered to receive it.
func (w *Window) Tick() bool {
	h := w.currentHandler()
	if h == nil {
		return false
	}
	h.OnFrame()
	return true
}

// Send delivers a UI event.
func (w *Window) Send(ev window.Event) bool {
	h := w.currentHandler()
	if h == nil {
		return false
	}
	h.OnEvent(ev)
	return true
}

// Post delivers an inert message.
func (w *Window) Post(msg window.Message) bool {
	h := w.currentHandler()
	if h == nil {
		return false
	}
	h.OnMessage(msg)
	return true
}

func (w *Window) currentHandler() window.Handler {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handler
}

// Presenter is a fake presenter that keeps the last presented frame.
type Presenter struct {
	backend *Backend
	width   int
	height  int

	mu        sync.Mutex
	presented int
	last      image.Image
	released  bool
}

func (p *Presenter) Present(img image.Image) error {
	p.backend.mu.Lock()
	fail := p.backend.FailPresent
	p.backend.mu.Unlock()
	if fail != nil {
		return fail
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return errors.New("windowtest: present after release")
	}
	p.presented++
	p.last = img
	return nil
}

func (p *Presenter) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true

	p.backend.mu.Lock()
	p.backend.presentersReleased++
	p.backend.journal = append(p.backend.journal, EntryPresenterFree)
	p.backend.mu.Unlock()
	return nil
}

// Presented returns how many frames were presented.
func (p *Presenter) Presented() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presented
}

// Last returns the last presented frame.
func (p *Presenter) Last() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Size returns the size the presenter was created with.
func (p *Presenter) Size() (int, int) { return p.width, p.height }
