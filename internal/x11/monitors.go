package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one active RandR output.
type Monitor struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors lists the active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// ActiveMonitor returns the monitor under the pointer, falling back to the
// first monitor and then to the whole root window.
func (c *Connection) ActiveMonitor() Monitor {
	screen := c.XUtil.Screen()
	root := Monitor{Name: "root", Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)}

	monitors, err := c.Monitors()
	if err != nil || len(monitors) == 0 {
		return root
	}

	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		for _, m := range monitors {
			if m.contains(int(pointer.RootX), int(pointer.RootY)) {
				return c.clipToWorkarea(m)
			}
		}
	}
	return c.clipToWorkarea(monitors[0])
}

// clipToWorkarea removes panels and docks from m using _NET_WORKAREA.
func (c *Connection) clipToWorkarea(m Monitor) Monitor {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return m
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]
	return clip(m, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height))
}

func clip(m Monitor, x, y, w, h int) Monitor {
	x1 := max(m.X, x)
	y1 := max(m.Y, y)
	x2 := min(m.X+m.Width, x+w)
	y2 := min(m.Y+m.Height, y+h)
	if x2 <= x1 || y2 <= y1 {
		return m
	}
	m.X, m.Y, m.Width, m.Height = x1, y1, x2-x1, y2-y1
	return m
}

// Center returns the origin that centers a w×h window on m, kept on-screen.
func (m Monitor) Center(w, h int) (int, int) {
	x := m.X + (m.Width-w)/2
	y := m.Y + (m.Height-h)/2
	return max(x, m.X), max(y, m.Y)
}
