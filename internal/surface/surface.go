// Package surface binds a drawing context to a native window's surface.
package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
)

// ErrDestroyed is returned by Flush after Destroy.
var ErrDestroyed = errors.New("surface destroyed")

// Binder creates presenters for a window's raw handle. window.Backend
// satisfies it.
type Binder interface {
	NewPresenter(raw handle.Native, width, height int) (window.Presenter, error)
}

// CreationError reports that the drawing backend could not bind to a handle.
type CreationError struct {
	Platform handle.Platform
	Width    int
	Height   int
	Err      error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create %s surface %dx%d: %v", e.Platform, e.Width, e.Height, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Binding owns one presenter and one drawing context that targets it.
// The context is always closed before the presenter is released.
type Binding struct {
	presenter window.Presenter
	ctx       *gg.Context
	width     int
	height    int
}

// Create binds a new surface to raw. Any failure is reported as a *CreationError.
func Create(b Binder, raw handle.Native, width, height int) (*Binding, error) {
	platform := handle.PlatformUnknown
	if raw != nil {
		platform = raw.Platform()
	}
	if width <= 0 || height <= 0 {
		return nil, &CreationError{Platform: platform, Width: width, Height: height, Err: errors.New("invalid size")}
	}

	p, err := b.NewPresenter(raw, width, height)
	if err != nil {
		return nil, &CreationError{Platform: platform, Width: width, Height: height, Err: err}
	}

	return &Binding{
		presenter: p,
		ctx:       gg.NewContext(width, height),
		width:     width,
		height:    height,
	}, nil
}

// Context returns the drawing context, or nil after Destroy.
func (b *Binding) Context() *gg.Context { return b.ctx }

// Size returns the surface size in pixels.
func (b *Binding) Size() (int, int) { return b.width, b.height }

// Flush presents everything drawn so far to the backing window.
func (b *Binding) Flush() error {
	if b.ctx == nil {
		return ErrDestroyed
	}
	if err := b.presenter.Present(b.ctx.Image()); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// Destroy closes the context and then releases the presenter. It must run
// before the owning window is destroyed.
func (b *Binding) Destroy() error {
	if b.ctx == nil {
		return nil
	}
	ctxErr := b.ctx.Close()
	b.ctx = nil

	err := b.presenter.Release()
	b.presenter = nil
	return errors.Join(ctxErr, err)
}
