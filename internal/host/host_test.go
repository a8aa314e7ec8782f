package host

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/platform"
	"github.com/1broseidon/plugview/internal/render"
	"github.com/1broseidon/plugview/internal/window/windowtest"
)

type fakeParent struct {
	id     handle.Parent
	closed atomic.Bool
}

func (p *fakeParent) Handle() handle.Parent { return p.id }
func (p *fakeParent) Close() error          { p.closed.Store(true); return nil }

type fakeProvider struct {
	mu      sync.Mutex
	next    handle.Parent
	parents []*fakeParent
	err     error
}

func (f *fakeProvider) NewParent() (platform.Parent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.next++
	p := &fakeParent{id: f.next}
	f.parents = append(f.parents, p)
	return p, nil
}

func newTestHost(t *testing.T) (*Host, *fakeProvider, *windowtest.Backend) {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	backend := windowtest.NewBackend(handle.PlatformX11)
	session := editor.NewSession(backend, r, nil, editor.WithResolver(func(p handle.Parent) (handle.Native, error) {
		return handle.XlibWindow{Window: uint32(p)}, nil
	}))
	provider := &fakeProvider{next: 0x600000}
	h := New(provider, editor.NewAdapter(session, nil), nil)
	t.Cleanup(h.Shutdown)
	return h, provider, backend
}

func TestOpenCloseEditor(t *testing.T) {
	h, provider, backend := newTestHost(t)

	if err := h.OpenEditor(); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	st := h.Status()
	if !st.Open || st.Width != 500 || st.Height != 500 || st.Opens != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Parent != 0x600001 {
		t.Fatalf("parent = 0x%x", st.Parent)
	}
	got := backend.LastWindow().Parent()
	if got != (handle.XlibWindow{Window: 0x600001}) {
		t.Fatalf("editor parented to %v", got)
	}

	if err := h.CloseEditor(); err != nil {
		t.Fatalf("CloseEditor: %v", err)
	}
	if h.Status().Open {
		t.Fatal("editor still open")
	}
	if !provider.parents[0].closed.Load() {
		t.Fatal("parent window not closed")
	}
	if backend.LiveWindows() != 0 {
		t.Fatalf("live windows = %d", backend.LiveWindows())
	}
}

func TestOpenTwice(t *testing.T) {
	h, provider, _ := newTestHost(t)
	if err := h.OpenEditor(); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if err := h.OpenEditor(); !errors.Is(err, editor.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
	if len(provider.parents) != 1 {
		t.Fatalf("created %d parents, want 1", len(provider.parents))
	}
}

func TestOpenFailureClosesParent(t *testing.T) {
	h, provider, backend := newTestHost(t)
	backend.FailSurface = windowtest.ErrUnsupportedFormat

	if err := h.OpenEditor(); !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
	if !provider.parents[0].closed.Load() {
		t.Fatal("parent window leaked after failed open")
	}
	if st := h.Status(); st.Open || st.Opens != 0 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestProviderError(t *testing.T) {
	h, provider, _ := newTestHost(t)
	provider.err = platform.ErrNoParentProvider
	if err := h.OpenEditor(); !errors.Is(err, platform.ErrNoParentProvider) {
		t.Fatalf("expected ErrNoParentProvider, got %v", err)
	}
}

func TestShutdownClosesEditor(t *testing.T) {
	h, provider, backend := newTestHost(t)
	if err := h.OpenEditor(); err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	h.Shutdown()
	h.Shutdown()

	if backend.LiveWindows() != 0 || !provider.parents[0].closed.Load() {
		t.Fatal("shutdown left resources open")
	}
	if err := h.OpenEditor(); !errors.Is(err, ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
	if h.Status().Open {
		t.Fatal("status after shutdown should be closed")
	}
}

func TestDoRunsOnOneGoroutine(t *testing.T) {
	h, _, _ := newTestHost(t)

	var inFlight atomic.Int32
	var overlap atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Do(func() {
				if inFlight.Add(1) > 1 {
					overlap.Store(true)
				}
				inFlight.Add(-1)
			})
		}()
	}
	wg.Wait()
	if overlap.Load() {
		t.Fatal("Do calls overlapped")
	}
}
