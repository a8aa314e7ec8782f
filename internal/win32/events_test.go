package win32

import (
	"testing"

	"github.com/1broseidon/plugview/internal/window"
)

func TestTranslateMouse(t *testing.T) {
	lParam := uintptr(uint32(120)<<16 | uint32(40))
	ev, ok := translate(wmRButtonDown, 0, lParam)
	if !ok {
		t.Fatal("expected right button down to be forwarded")
	}
	if ev.Kind != window.EventMouseDown || ev.Button != 3 || ev.X != 40 || ev.Y != 120 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestTranslateNegativeCoordinates(t *testing.T) {
	// x = -5, y = -1 as packed by the system during mouse capture.
	lParam := uintptr(0xFFFF_FFFB)
	x, y := pointFromLParam(lParam)
	if x != -5 || y != -1 {
		t.Fatalf("pointFromLParam = (%d,%d), want (-5,-1)", x, y)
	}
}

func TestTranslateKeys(t *testing.T) {
	ev, ok := translate(wmKeyUp, 0x41, 0)
	if !ok || ev.Kind != window.EventKeyUp || ev.Key != 0x41 {
		t.Fatalf("unexpected key event: %+v ok=%v", ev, ok)
	}
}

func TestTranslateIgnoresOtherMessages(t *testing.T) {
	for _, msg := range []uint32{wmTimer, wmDestroy, wmEraseBkgnd, wmEditorMessage} {
		if _, ok := translate(msg, 0, 0); ok {
			t.Fatalf("message 0x%x should not be forwarded", msg)
		}
	}
}

func TestMessageFromParams(t *testing.T) {
	msg := messageFromParams(7, 9)
	if msg.Data != [5]uint32{7, 9, 0, 0, 0} {
		t.Fatalf("unexpected message: %v", msg.Data)
	}
}
