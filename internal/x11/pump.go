package x11

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/plugview/internal/window"
)

// pump runs the xevent main loop for one window and interleaves frame ticks
// with event callbacks. xevent.MainPing hands each event to this goroutine
// between a before/after ping pair, so callbacks and ticks never overlap.
type pump struct {
	handler window.Handler

	// quitLoop asks the event loop to exit; wake unblocks its pending read
	// so it can notice.
	quitLoop func()
	wake     func()

	stopped  atomic.Bool
	quit     chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

func newPump(h window.Handler, quitLoop, wake func()) *pump {
	return &pump{
		handler:  h,
		quitLoop: quitLoop,
		wake:     wake,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

func startPump(xu *xgbutil.XUtil, wid xproto.Window, interval time.Duration, h window.Handler) *pump {
	p := newPump(h, func() { xevent.Quit(xu) }, func() { wakeLoop(xu) })
	p.connect(xu, wid)

	before, after, quitPing := xevent.MainPing(xu)
	go p.run(interval, before, after, quitPing)
	return p
}

// wakeLoop sends an empty ClientMessage to the connection's own dummy window.
// With no event mask the server delivers it to the window's creator, which is
// this connection, so a blocked read returns.
func wakeLoop(xu *xgbutil.XUtil) {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xu.Dummy(),
		Type:   xproto.AtomNone,
		Data:   xproto.ClientMessageDataUnionData32New(make([]uint32, 5)),
	}
	xproto.SendEvent(xu.Conn(), false, xu.Dummy(), 0, string(ev.Bytes()))
}

func (p *pump) run(interval time.Duration, before, after, quitPing chan struct{}) {
	defer close(p.exited)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-before:
			<-after
		case <-ticker.C:
			p.handler.OnFrame()
		case <-quitPing:
			p.stopped.Store(true)
			close(p.done)
			return
		case <-p.quit:
			// No callback is running here: events are handled between
			// before and after.
			p.stopped.Store(true)
			ticker.Stop()
			close(p.done)
			p.quitLoop()
			p.wake()
			drain(before, after, quitPing)
			return
		}
	}
}

func drain(before, after, quitPing chan struct{}) {
	for {
		select {
		case <-before:
			<-after
		case <-quitPing:
			return
		}
	}
}

// stop detaches the handler and waits until no callback is running. The event
// loop may still be reading from the connection afterwards; see waitExit.
func (p *pump) stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		<-p.done
	})
}

// waitExit reports whether the event loop returned within timeout. The
// connection must not be closed before that: xgbutil treats a closed event
// channel during a read as fatal.
func (p *pump) waitExit(timeout time.Duration) bool {
	select {
	case <-p.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *pump) deliver(ev window.Event) {
	if p.stopped.Load() {
		return
	}
	p.handler.OnEvent(ev)
}

func (p *pump) connect(xu *xgbutil.XUtil, wid xproto.Window) {
	xevent.ExposeFun(func(_ *xgbutil.XUtil, e xevent.ExposeEvent) {
		p.deliver(window.Event{Kind: window.EventExpose, X: int(e.X), Y: int(e.Y)})
	}).Connect(xu, wid)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, e xevent.ButtonPressEvent) {
		p.deliver(window.Event{Kind: window.EventMouseDown, X: int(e.EventX), Y: int(e.EventY), Button: int(e.Detail)})
	}).Connect(xu, wid)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, e xevent.ButtonReleaseEvent) {
		p.deliver(window.Event{Kind: window.EventMouseUp, X: int(e.EventX), Y: int(e.EventY), Button: int(e.Detail)})
	}).Connect(xu, wid)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, e xevent.MotionNotifyEvent) {
		p.deliver(window.Event{Kind: window.EventMouseMove, X: int(e.EventX), Y: int(e.EventY)})
	}).Connect(xu, wid)

	xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, e xevent.EnterNotifyEvent) {
		p.deliver(window.Event{Kind: window.EventMouseEnter, X: int(e.EventX), Y: int(e.EventY)})
	}).Connect(xu, wid)

	xevent.LeaveNotifyFun(func(_ *xgbutil.XUtil, e xevent.LeaveNotifyEvent) {
		p.deliver(window.Event{Kind: window.EventMouseLeave, X: int(e.EventX), Y: int(e.EventY)})
	}).Connect(xu, wid)

	xevent.KeyPressFun(func(_ *xgbutil.XUtil, e xevent.KeyPressEvent) {
		p.deliver(window.Event{Kind: window.EventKeyDown, Key: uint32(e.Detail)})
	}).Connect(xu, wid)

	xevent.KeyReleaseFun(func(_ *xgbutil.XUtil, e xevent.KeyReleaseEvent) {
		p.deliver(window.Event{Kind: window.EventKeyUp, Key: uint32(e.Detail)})
	}).Connect(xu, wid)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, _ xevent.FocusInEvent) {
		p.deliver(window.Event{Kind: window.EventFocusIn})
	}).Connect(xu, wid)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, _ xevent.FocusOutEvent) {
		p.deliver(window.Event{Kind: window.EventFocusOut})
	}).Connect(xu, wid)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, e xevent.ClientMessageEvent) {
		if p.stopped.Load() {
			return
		}
		p.handler.OnMessage(messageFromClient(e.Data.Data32))
	}).Connect(xu, wid)
}

func messageFromClient(data []uint32) window.Message {
	var msg window.Message
	copy(msg.Data[:], data)
	return msg
}
