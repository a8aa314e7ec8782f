// Package win32 is the Windows windowing backend: WS_CHILD windows created
// through user32, WM_TIMER frame ticks, and a GDI presenter.
package win32

import "github.com/1broseidon/plugview/internal/window"

// Window messages handled by the editor window procedure.
const (
	wmDestroy     = 0x0002
	wmSetFocus    = 0x0007
	wmKillFocus   = 0x0008
	wmPaint       = 0x000F
	wmEraseBkgnd  = 0x0014
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmTimer       = 0x0113
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseLeave  = 0x02A3
	wmApp         = 0x8000

	// wmEditorMessage carries the inert editor message in wParam/lParam.
	wmEditorMessage = wmApp + 1
)

// translate maps a window message to a forwarded event. ok is false for
// messages the editor does not forward.
func translate(msg uint32, wParam, lParam uintptr) (ev window.Event, ok bool) {
	x, y := pointFromLParam(lParam)
	switch msg {
	case wmLButtonDown:
		return window.Event{Kind: window.EventMouseDown, X: x, Y: y, Button: 1}, true
	case wmMButtonDown:
		return window.Event{Kind: window.EventMouseDown, X: x, Y: y, Button: 2}, true
	case wmRButtonDown:
		return window.Event{Kind: window.EventMouseDown, X: x, Y: y, Button: 3}, true
	case wmLButtonUp:
		return window.Event{Kind: window.EventMouseUp, X: x, Y: y, Button: 1}, true
	case wmMButtonUp:
		return window.Event{Kind: window.EventMouseUp, X: x, Y: y, Button: 2}, true
	case wmRButtonUp:
		return window.Event{Kind: window.EventMouseUp, X: x, Y: y, Button: 3}, true
	case wmMouseMove:
		return window.Event{Kind: window.EventMouseMove, X: x, Y: y}, true
	case wmMouseLeave:
		return window.Event{Kind: window.EventMouseLeave}, true
	case wmKeyDown:
		return window.Event{Kind: window.EventKeyDown, Key: uint32(wParam)}, true
	case wmKeyUp:
		return window.Event{Kind: window.EventKeyUp, Key: uint32(wParam)}, true
	case wmSetFocus:
		return window.Event{Kind: window.EventFocusIn}, true
	case wmKillFocus:
		return window.Event{Kind: window.EventFocusOut}, true
	case wmPaint:
		return window.Event{Kind: window.EventExpose}, true
	}
	return window.Event{}, false
}

// pointFromLParam unpacks signed client coordinates (GET_X_LPARAM/GET_Y_LPARAM).
func pointFromLParam(lParam uintptr) (int, int) {
	return int(int16(uint16(lParam))), int(int16(uint16(lParam >> 16)))
}

func messageFromParams(wParam, lParam uintptr) window.Message {
	return window.Message{Data: [5]uint32{uint32(wParam), uint32(lParam)}}
}
