// Package window defines the contract between the editor core and a native
// windowing backend: a child window with an event pump, and a presenter that
// pushes pixels into that window.
package window

import (
	"image"
	"time"

	"github.com/1broseidon/plugview/internal/handle"
)

// DefaultFrameInterval is the frame tick period used when Options leaves it unset.
const DefaultFrameInterval = 16 * time.Millisecond

// Options describes the child window to create.
type Options struct {
	Title         string
	Width         int
	Height        int
	FrameInterval time.Duration
}

// Interval returns the frame tick period, falling back to DefaultFrameInterval.
func (o Options) Interval() time.Duration {
	if o.FrameInterval <= 0 {
		return DefaultFrameInterval
	}
	return o.FrameInterval
}

// EventKind classifies a forwarded UI event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventMouseEnter
	EventMouseLeave
	EventKeyDown
	EventKeyUp
	EventFocusIn
	EventFocusOut
	EventExpose
)

func (k EventKind) String() string {
	switch k {
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseEnter:
		return "mouse-enter"
	case EventMouseLeave:
		return "mouse-leave"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventFocusIn:
		return "focus-in"
	case EventFocusOut:
		return "focus-out"
	case EventExpose:
		return "expose"
	default:
		return "unknown"
	}
}

// Event is a generic UI event. The core forwards these without interpreting them.
type Event struct {
	Kind   EventKind
	X      int
	Y      int
	Button int
	Key    uint32
}

// Message is the single inert message type a window accepts.
type Message struct {
	Data [5]uint32
}

// Handler receives callbacks from a window's event pump. All three methods
// are called on the same goroutine and never concurrently.
type Handler interface {
	OnEvent(ev Event)
	OnMessage(msg Message)
	OnFrame()
}

// Window is a native child window owned by the editor.
type Window interface {
	// RawHandle returns the handle of the window itself. It is only valid
	// between creation and Destroy.
	RawHandle() handle.Native
	Size() (width, height int)
	// StopEvents unregisters the handler and returns once no callback is
	// running. It is safe to call more than once.
	StopEvents()
	// Destroy releases the native window. Calls after the first are no-ops.
	Destroy() error
}

// Presenter is a drawing surface bound to a window's raw handle.
type Presenter interface {
	Present(img image.Image) error
	Release() error
}

// Backend creates windows and presenters for one platform.
type Backend interface {
	Platform() handle.Platform
	CreateWindow(parent handle.Native, opts Options, h Handler) (Window, error)
	NewPresenter(raw handle.Native, width, height int) (Presenter, error)
}
