// Package render draws the editor's demo scene.
package render

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"
)

// Scene constants.
const (
	FontSize = 13.0
	Greeting = "Hello from Go plugin code!"

	squareX    = 200.0
	squareY    = 200.0
	squareSide = 100.0

	circleX      = 200.0
	circleY      = 200.0
	circleRadius = 40.0

	textX = 10.0
	textY = 10.0
)

// Draw steps, in order. A Fault names the step that failed.
const (
	StepBackground = "background"
	StepSquare     = "square"
	StepCircle     = "circle"
	StepText       = "text"
	StepFlush      = "flush"
)

// Canvas is the part of a drawing context the scene uses. *gg.Context satisfies it.
type Canvas interface {
	SetRGB(r, g, b float64)
	SetFont(face text.Face)
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, r float64)
	Fill() error
	MoveTo(x, y float64)
	GetCurrentPoint() (x, y float64, ok bool)
	DrawString(s string, x, y float64)
	ClearPath()
}

// Flusher presents a finished frame.
type Flusher interface {
	Flush() error
}

// Fault reports a drawing backend failure during a frame.
type Fault struct {
	Step string
	Err  error
}

func (f *Fault) Error() string { return fmt.Sprintf("render %s: %v", f.Step, f.Err) }

func (f *Fault) Unwrap() error { return f.Err }

// Renderer draws the fixed scene. Apart from the font face loaded once in
// New it holds no state, so frames depend only on width and height.
type Renderer struct {
	face text.Face
}

// New loads the monospace face used for the greeting.
func New() (*Renderer, error) {
	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("load monospace font: %w", err)
	}
	return &Renderer{face: src.Face(FontSize)}, nil
}

// Render draws one frame into c and flushes it through s.
func (r *Renderer) Render(c Canvas, s Flusher, width, height int) error {
	c.SetFont(r.face)

	c.SetRGB(0.5, 0.5, 0.5)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	if err := c.Fill(); err != nil {
		return &Fault{Step: StepBackground, Err: err}
	}

	c.SetRGB(0.2, 0.2, 0.2)
	c.DrawRectangle(squareX, squareY, squareSide, squareSide)
	if err := c.Fill(); err != nil {
		return &Fault{Step: StepSquare, Err: err}
	}

	c.SetRGB(0.9, 0.9, 0.9)
	c.DrawCircle(circleX, circleY, circleRadius)
	if err := c.Fill(); err != nil {
		return &Fault{Step: StepCircle, Err: err}
	}

	c.SetRGB(0.2, 0.2, 1.0)
	c.MoveTo(textX, textY)
	x, y, _ := c.GetCurrentPoint()
	c.DrawString(Greeting, x, y)
	c.ClearPath()

	if err := s.Flush(); err != nil {
		return &Fault{Step: StepFlush, Err: err}
	}
	return nil
}

type nopFlusher struct{}

func (nopFlusher) Flush() error { return nil }

// Snapshot renders one frame into a new off-screen context.
func (r *Renderer) Snapshot(width, height int) (*gg.Context, error) {
	ctx := gg.NewContext(width, height)
	if err := r.Render(ctx, nopFlusher{}, width, height); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}
