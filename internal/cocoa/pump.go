// Package cocoa is the macOS windowing backend: an NSView added as a subview
// of the host's view, driven through the Objective-C runtime with purego, and
// a presenter that hands CGImages to the view's layer.
package cocoa

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/plugview/internal/window"
)

const maxQueuedMessages = 16

// dispatcher runs fn asynchronously on the thread that owns the view. On
// macOS that is the main queue.
type dispatcher func(fn func())

// pump turns ticker ticks and posted messages into callbacks dispatched to
// the view's thread. At most one frame is queued at a time; callbacks run
// under mu, so stop waits for one that is in flight.
type pump struct {
	handler  window.Handler
	dispatch dispatcher

	mu      sync.Mutex
	stopped bool

	framePending atomic.Bool
	queued       atomic.Int32

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startPump(interval time.Duration, h window.Handler, d dispatcher) *pump {
	p := &pump{
		handler:  h,
		dispatch: d,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run(interval)
	return p
}

func (p *pump) run(interval time.Duration) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			if p.framePending.CompareAndSwap(false, true) {
				p.dispatch(p.frame)
			}
		}
	}
}

func (p *pump) frame() {
	defer p.framePending.Store(false)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.handler.OnFrame()
}

// post queues msg for the handler. It reports false once the pump has stopped
// or the queue is full.
func (p *pump) post(msg window.Message) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	if p.queued.Add(1) > maxQueuedMessages {
		p.queued.Add(-1)
		return false
	}
	p.dispatch(func() {
		defer p.queued.Add(-1)
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.stopped {
			return
		}
		p.handler.OnMessage(msg)
	})
	return true
}

// stop waits for an in-flight callback and drops everything still queued.
// Called on the view's thread it never blocks on a callback, since callbacks
// run on that same thread.
func (p *pump) stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		<-p.done
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
	})
}
