package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// editorEventMask selects every event the editor forwards.
const editorEventMask = xproto.EventMaskExposure |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskStructureNotify

// backgroundGray matches the scene background so the window does not flash
// before the first frame.
const backgroundGray = 0x808080

// CreateChildWindow creates and maps a fixed-size window inside parent.
func (c *Connection) CreateChildWindow(parent xproto.Window, width, height int, title string) (*xwindow.Window, error) {
	if _, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(parent)).Reply(); err != nil {
		return nil, fmt.Errorf("parent window 0x%x: %w", parent, err)
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, err
	}

	// Value list order follows the bit positions of the mask (low → high):
	// CwBackPixel comes before CwEventMask.
	err = win.CreateChecked(parent, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		backgroundGray, editorEventMask)
	if err != nil {
		return nil, fmt.Errorf("create child of 0x%x: %w", parent, err)
	}

	if err := c.fixSize(win.Id, width, height); err != nil {
		win.Destroy()
		return nil, err
	}
	c.setTitle(win.Id, title)

	win.Map()
	return win, nil
}

// CreateTopLevelWindow creates and maps a fixed-size window on the root at x, y.
func (c *Connection) CreateTopLevelWindow(x, y, width, height int, title string) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, err
	}

	err = win.CreateChecked(c.Root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0, xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, fmt.Errorf("create top-level window: %w", err)
	}

	if err := c.fixSize(win.Id, width, height); err != nil {
		win.Destroy()
		return nil, err
	}
	c.setTitle(win.Id, title)

	win.Map()
	return win, nil
}

// fixSize pins min and max size so window managers do not offer resizing.
func (c *Connection) fixSize(wid xproto.Window, width, height int) error {
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, wid, hints); err != nil {
		return fmt.Errorf("set size hints: %w", err)
	}
	return nil
}

func (c *Connection) setTitle(wid xproto.Window, title string) {
	if title == "" {
		return
	}
	// Errors here only affect decorations; the window is usable without a name.
	_ = icccm.WmNameSet(c.XUtil, wid, title)
	_ = ewmh.WmNameSet(c.XUtil, wid, title)
}
