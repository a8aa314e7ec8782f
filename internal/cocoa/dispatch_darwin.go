//go:build darwin

package cocoa

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	dispatchOnce sync.Once
	dispatchErr  error

	dispatchAsyncF func(queue, context, work uintptr)
	mainQueue      uintptr
	trampoline     uintptr

	workMu   sync.Mutex
	work     = make(map[uintptr]func())
	nextWork uintptr
)

// loadDispatch resolves dispatch_async_f and the main queue from libSystem.
// purego callbacks are a limited resource, so one trampoline serves every
// dispatched closure; the context argument selects the closure.
func loadDispatch() error {
	dispatchOnce.Do(func() {
		lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			dispatchErr = fmt.Errorf("load libSystem: %w", err)
			return
		}
		q, err := purego.Dlsym(lib, "_dispatch_main_q")
		if err != nil {
			dispatchErr = fmt.Errorf("resolve main queue: %w", err)
			return
		}
		mainQueue = q
		purego.RegisterLibFunc(&dispatchAsyncF, lib, "dispatch_async_f")
		trampoline = purego.NewCallback(runWork)
	})
	return dispatchErr
}

// dispatchMain runs fn on the main thread's run loop.
func dispatchMain(fn func()) {
	workMu.Lock()
	nextWork++
	id := nextWork
	work[id] = fn
	workMu.Unlock()
	dispatchAsyncF(mainQueue, id, trampoline)
}

func runWork(id uintptr) {
	workMu.Lock()
	fn := work[id]
	delete(work, id)
	workMu.Unlock()
	if fn != nil {
		fn()
	}
}
