//go:build darwin

package cocoa

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"

	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window"
)

type cgPoint struct{ X, Y float64 }
type cgSize struct{ Width, Height float64 }
type cgRect struct {
	Origin cgPoint
	Size   cgSize
}

const (
	kCGImageAlphaNoneSkipFirst = 6
	kCGBitmapByteOrder32Little = 2 << 12
	kCGRenderingIntentDefault  = 0
)

var (
	selAlloc            = objc.RegisterName("alloc")
	selInitWithFrame    = objc.RegisterName("initWithFrame:")
	selAddSubview       = objc.RegisterName("addSubview:")
	selRemoveFromSuper  = objc.RegisterName("removeFromSuperview")
	selRelease          = objc.RegisterName("release")
	selSetWantsLayer    = objc.RegisterName("setWantsLayer:")
	selLayer            = objc.RegisterName("layer")
	selSetContents      = objc.RegisterName("setContents:")
	selRespondsTo       = objc.RegisterName("respondsToSelector:")
	selSetToolTip       = objc.RegisterName("setToolTip:")
	selStringWithUTF8   = objc.RegisterName("stringWithUTF8String:")
	selSetNeedsDisplay  = objc.RegisterName("setNeedsDisplay:")
	classNSView         = objc.GetClass("NSView")
	classNSString       = objc.GetClass("NSString")
	errCoreGraphicsLoad = errors.New("CoreGraphics unavailable")
)

var (
	cgOnce sync.Once
	cgErr  error

	cgColorSpaceCreateDeviceRGB    func() uintptr
	cgColorSpaceRelease            func(uintptr)
	cfDataCreate                   func(alloc uintptr, bytes unsafe.Pointer, length int) uintptr
	cfRelease                      func(uintptr)
	cgDataProviderCreateWithCFData func(data uintptr) uintptr
	cgDataProviderRelease          func(uintptr)
	cgImageCreate                  func(w, h, bpc, bpp, stride int, cs uintptr, info uint32, provider uintptr, decode unsafe.Pointer, interpolate bool, intent int32) uintptr
	cgImageRelease                 func(uintptr)
)

func loadCoreGraphics() error {
	cgOnce.Do(func() {
		cg, err := purego.Dlopen("/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			cgErr = fmt.Errorf("%w: %v", errCoreGraphicsLoad, err)
			return
		}
		cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			cgErr = fmt.Errorf("%w: %v", errCoreGraphicsLoad, err)
			return
		}
		purego.RegisterLibFunc(&cgColorSpaceCreateDeviceRGB, cg, "CGColorSpaceCreateDeviceRGB")
		purego.RegisterLibFunc(&cgColorSpaceRelease, cg, "CGColorSpaceRelease")
		purego.RegisterLibFunc(&cgDataProviderCreateWithCFData, cg, "CGDataProviderCreateWithCFData")
		purego.RegisterLibFunc(&cgDataProviderRelease, cg, "CGDataProviderRelease")
		purego.RegisterLibFunc(&cgImageCreate, cg, "CGImageCreate")
		purego.RegisterLibFunc(&cgImageRelease, cg, "CGImageRelease")
		purego.RegisterLibFunc(&cfDataCreate, cf, "CFDataCreate")
		purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	})
	return cgErr
}

// Backend creates editor views inside the host's NSView. UI events are not
// forwarded on macOS; a ticker schedules frames onto the main queue, so every
// AppKit call happens on the main thread. CreateWindow, Destroy and the
// presenter must be called from the main thread too.
type Backend struct {
	mu    sync.Mutex
	views map[uintptr]*Window
}

var _ window.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{views: make(map[uintptr]*Window)}
}

func (b *Backend) Platform() handle.Platform { return handle.PlatformMacOS }

func (b *Backend) CreateWindow(parent handle.Native, opts window.Options, h window.Handler) (window.Window, error) {
	mv, ok := parent.(handle.MacOSView)
	if !ok {
		return nil, handle.Check(parent, handle.PlatformMacOS)
	}
	if mv.NSView == 0 {
		return nil, handle.ErrNilParent
	}
	if err := loadDispatch(); err != nil {
		return nil, err
	}

	frame := cgRect{Size: cgSize{Width: float64(opts.Width), Height: float64(opts.Height)}}
	view := objc.ID(classNSView).Send(selAlloc).Send(selInitWithFrame, frame)
	if view == 0 {
		return nil, errors.New("NSView initWithFrame failed")
	}
	view.Send(selSetWantsLayer, true)
	if opts.Title != "" {
		view.Send(selSetToolTip, nsString(opts.Title))
	}
	objc.ID(mv.NSView).Send(selAddSubview, view)

	w := &Window{
		backend: b,
		view:    view,
		window:  mv.NSWindow,
		width:   opts.Width,
		height:  opts.Height,
		pump:    startPump(opts.Interval(), h, dispatchMain),
	}
	b.mu.Lock()
	b.views[uintptr(view)] = w
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) NewPresenter(raw handle.Native, width, height int) (window.Presenter, error) {
	mv, ok := raw.(handle.MacOSView)
	if !ok {
		return nil, handle.Check(raw, handle.PlatformMacOS)
	}
	b.mu.Lock()
	w := b.views[mv.NSView]
	b.mu.Unlock()
	if w == nil {
		return nil, fmt.Errorf("view 0x%x not created by this backend", mv.NSView)
	}
	if err := loadCoreGraphics(); err != nil {
		return nil, err
	}
	layer := w.view.Send(selLayer)
	if layer == 0 || !boolSend(layer, selRespondsTo, selSetContents) {
		return nil, errors.New("view has no backing layer")
	}
	cs := cgColorSpaceCreateDeviceRGB()
	if cs == 0 {
		return nil, errors.New("CGColorSpaceCreateDeviceRGB failed")
	}
	return &Presenter{
		view:   w.view,
		layer:  layer,
		space:  cs,
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}, nil
}

func (b *Backend) forget(view objc.ID) {
	b.mu.Lock()
	delete(b.views, uintptr(view))
	b.mu.Unlock()
}

// Window is an editor NSView.
type Window struct {
	backend *Backend
	view    objc.ID
	window  uintptr
	width   int
	height  int
	pump    *pump

	destroyOnce sync.Once
}

func (w *Window) RawHandle() handle.Native {
	return handle.MacOSView{NSView: uintptr(w.view), NSWindow: w.window}
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) StopEvents() { w.pump.stop() }

// Post queues the inert editor message.
func (w *Window) Post(msg window.Message) bool { return w.pump.post(msg) }

func (w *Window) Destroy() error {
	w.destroyOnce.Do(func() {
		w.pump.stop()
		w.backend.forget(w.view)
		w.view.Send(selRemoveFromSuper)
		w.view.Send(selRelease)
	})
	return nil
}

// Presenter wraps each frame in a CGImage and sets it as the layer contents.
type Presenter struct {
	view   objc.ID
	layer  objc.ID
	space  uintptr
	width  int
	height int
	pix    []byte
}

func (p *Presenter) Present(img image.Image) error {
	if p.pix == nil {
		return errors.New("presenter released")
	}
	stride := p.width * 4
	window.CopyBGRA(p.pix, stride, p.width, p.height, img)

	data := cfDataCreate(0, unsafe.Pointer(&p.pix[0]), len(p.pix))
	if data == 0 {
		return errors.New("CFDataCreate failed")
	}
	defer cfRelease(data)
	provider := cgDataProviderCreateWithCFData(data)
	if provider == 0 {
		return errors.New("CGDataProviderCreateWithCFData failed")
	}
	defer cgDataProviderRelease(provider)

	cgimg := cgImageCreate(p.width, p.height, 8, 32, stride, p.space,
		kCGImageAlphaNoneSkipFirst|kCGBitmapByteOrder32Little,
		provider, nil, false, kCGRenderingIntentDefault)
	if cgimg == 0 {
		return errors.New("CGImageCreate failed")
	}
	defer cgImageRelease(cgimg)

	p.layer.Send(selSetContents, cgimg)
	p.view.Send(selSetNeedsDisplay, true)
	return nil
}

func (p *Presenter) Release() error {
	if p.pix == nil {
		return nil
	}
	p.layer.Send(selSetContents, uintptr(0))
	cgColorSpaceRelease(p.space)
	p.pix = nil
	return nil
}

func nsString(s string) objc.ID {
	return objc.ID(classNSString).Send(selStringWithUTF8, s+"\x00")
}

func boolSend(id objc.ID, sel objc.SEL, arg objc.SEL) bool {
	return objc.Send[bool](id, sel, arg)
}
