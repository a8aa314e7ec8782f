// Package plugin is the plugin instance: it owns the diagnostic sink, the
// editor session, and hands the editor capability to the host once.
package plugin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/logging"
	"github.com/1broseidon/plugview/internal/render"
	"github.com/1broseidon/plugview/internal/window"
)

// Info describes the plugin to its host.
type Info struct {
	Name     string
	Vendor   string
	UniqueID int32
	Version  int32
}

// DefaultInfo is the identity reported by every plugview instance.
var DefaultInfo = Info{
	Name:     "plugview",
	Vendor:   "plugview",
	UniqueID: 53435,
	Version:  1,
}

// ErrNotInitialized is returned by operations that need Init first.
var ErrNotInitialized = errors.New("plugin not initialized")

// ErrClosed is returned by Init after Close. A plugin instance is not reused;
// the host creates a new one.
var ErrClosed = errors.New("plugin closed")

// Option customizes a Plugin.
type Option func(*Plugin)

// WithLogger uses logger instead of opening the configured log file.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) { p.logger = logger }
}

// WithSessionOptions passes extra options to the editor session.
func WithSessionOptions(opts ...editor.SessionOption) Option {
	return func(p *Plugin) { p.sessionOpts = append(p.sessionOpts, opts...) }
}

type Plugin struct {
	mu sync.Mutex

	info        Info
	cfg         *config.Config
	backend     window.Backend
	renderer    *render.Renderer
	sessionOpts []editor.SessionOption

	logger  *slog.Logger
	sink    io.Closer
	session *editor.Session
	adapter *editor.Adapter

	initialized bool
	closed      bool
	editorTaken bool
}

// New creates an uninitialized plugin. A nil cfg uses the defaults.
func New(cfg *config.Config, backend window.Backend, opts ...Option) (*Plugin, error) {
	if backend == nil {
		return nil, errors.New("plugin: nil window backend")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r, err := render.New()
	if err != nil {
		return nil, err
	}

	p := &Plugin{
		info:     DefaultInfo,
		cfg:      cfg,
		backend:  backend,
		renderer: r,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Plugin) Info() Info { return p.info }

// Init installs the log sink and creates the editor session. It logs one
// info record. Calling Init twice is a no-op; Init after Close fails with
// ErrClosed.
func (p *Plugin) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.initialized {
		return nil
	}

	if p.logger == nil {
		lc := p.cfg.GetLoggingConfig()
		logger, sink, err := logging.New(logging.Options{
			Enabled:   lc.Enabled,
			Level:     lc.Level,
			FilePath:  lc.File,
			MaxSizeMB: lc.MaxSizeMB,
			MaxFiles:  lc.MaxFiles,
		})
		if err != nil {
			return fmt.Errorf("open log sink: %w", err)
		}
		p.logger = logger
		p.sink = sink
	}
	gg.SetLogger(p.logger.With("component", "gg"))

	opts := []editor.SessionOption{
		editor.WithTitle(p.cfg.Editor.Title),
		editor.WithFrameInterval(p.cfg.FrameInterval()),
	}
	opts = append(opts, p.sessionOpts...)
	p.session = editor.NewSession(p.backend, p.renderer, p.logger, opts...)
	p.adapter = editor.NewAdapter(p.session, p.logger)
	p.initialized = true

	p.logger.Info("init",
		"plugin", p.info.Name,
		"unique_id", p.info.UniqueID,
		"platform", p.backend.Platform().String(),
	)
	return nil
}

// GetEditor hands out the editor capability. Only the first call after Init
// succeeds.
func (p *Plugin) GetEditor() (*editor.Adapter, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.editorTaken {
		return nil, false
	}
	p.editorTaken = true
	return p.adapter, true
}

// Logger returns the plugin's logger, or a discarding logger before Init.
func (p *Plugin) Logger() *slog.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Renderer returns the shared frame renderer.
func (p *Plugin) Renderer() *render.Renderer { return p.renderer }

// Close closes any open editor and the log sink. An adapter handed out
// earlier can no longer open an editor.
func (p *Plugin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.session.Retire()
	p.initialized = false
	p.closed = true

	gg.SetLogger(nil)
	var err error
	if p.sink != nil {
		err = p.sink.Close()
		p.sink = nil
		p.logger = nil
	}
	return err
}
