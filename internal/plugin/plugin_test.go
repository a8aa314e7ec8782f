package plugin

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/window/windowtest"
)

func x11Resolver(p handle.Parent) (handle.Native, error) {
	return handle.XlibWindow{Window: uint32(p)}, nil
}

func newTestPlugin(t *testing.T) (*Plugin, *windowtest.Backend, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	backend := windowtest.NewBackend(handle.PlatformX11)
	p, err := New(nil, backend,
		WithLogger(logger),
		WithSessionOptions(editor.WithResolver(x11Resolver)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, backend, &logs
}

func TestInfo(t *testing.T) {
	p, _, _ := newTestPlugin(t)
	info := p.Info()
	if info.Name != "plugview" || info.UniqueID != 53435 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestInitLogsOnce(t *testing.T) {
	p, _, logs := newTestPlugin(t)
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	defer p.Close()

	out := logs.String()
	if n := strings.Count(out, "msg=init"); n != 1 {
		t.Fatalf("expected one init record, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "plugin=plugview") {
		t.Fatalf("unexpected init record:\n%s", out)
	}
}

func TestGetEditorOnlyOnce(t *testing.T) {
	p, _, _ := newTestPlugin(t)

	if ed, ok := p.GetEditor(); ok || ed != nil {
		t.Fatal("GetEditor before Init should fail")
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Close()

	ed, ok := p.GetEditor()
	if !ok || ed == nil {
		t.Fatal("first GetEditor should return the editor")
	}
	if again, ok := p.GetEditor(); ok || again != nil {
		t.Fatal("second GetEditor should return nothing")
	}
}

func TestCloseClosesOpenEditor(t *testing.T) {
	p, backend, _ := newTestPlugin(t)
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ed, _ := p.GetEditor()
	if !ed.Open(0x2c00007) {
		t.Fatal("Open failed")
	}
	if backend.LiveWindows() != 1 {
		t.Fatalf("live windows = %d", backend.LiveWindows())
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ed.IsOpen() || backend.LiveWindows() != 0 || backend.LivePresenters() != 0 {
		t.Fatal("plugin Close left the editor open")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestInitAfterCloseFails(t *testing.T) {
	p, _, _ := newTestPlugin(t)
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ed, _ := p.GetEditor()
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := p.Init(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Init after Close = %v, want ErrClosed", err)
	}
	if _, ok := p.GetEditor(); ok {
		t.Fatal("GetEditor succeeded after Close")
	}
	if ed.Open(0x2c00007) {
		t.Fatal("adapter from a closed plugin opened an editor")
	}
}

func TestInitWritesConfiguredLogFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "plugview.log")

	p, err := New(cfg, windowtest.NewBackend(handle.PlatformX11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=init") {
		t.Fatalf("log file missing init record:\n%s", data)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Editor.FrameRate = 0
	if _, err := New(cfg, windowtest.NewBackend(handle.PlatformX11)); err == nil {
		t.Fatal("expected invalid config to fail")
	}
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected nil backend to fail")
	}
}

func TestEditorUsesConfiguredTitle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Editor.Title = "Gain"
	backend := windowtest.NewBackend(handle.PlatformX11)
	p, err := New(cfg, backend,
		WithLogger(slog.New(slog.DiscardHandler)),
		WithSessionOptions(editor.WithResolver(x11Resolver)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Close()

	ed, _ := p.GetEditor()
	if !ed.Open(0x2c00007) {
		t.Fatal("Open failed")
	}
	if got := backend.LastWindow().Options().Title; got != "Gain" {
		t.Fatalf("window title = %q", got)
	}
	if got := backend.LastWindow().Options().FrameInterval; got != cfg.FrameInterval() {
		t.Fatalf("frame interval = %v", got)
	}
}
