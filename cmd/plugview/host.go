package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/host"
	"github.com/1broseidon/plugview/internal/platform"
	"github.com/1broseidon/plugview/internal/plugin"
	"github.com/1broseidon/plugview/internal/tui"
)

// demoHost bundles a plugin instance with the host driving its editor.
type demoHost struct {
	plugin *plugin.Plugin
	host   *host.Host
}

func startDemoHost(cfg *config.Config) (*demoHost, error) {
	p, err := plugin.New(cfg, platform.NewBackend(cfg.Display))
	if err != nil {
		return nil, err
	}
	if err := p.Init(); err != nil {
		return nil, err
	}
	ed, ok := p.GetEditor()
	if !ok {
		p.Close()
		return nil, fmt.Errorf("plugin did not provide an editor")
	}

	provider := platform.Provider{Options: platform.ParentOptions{
		Display: cfg.Display,
		Title:   cfg.Editor.Title + " (host)",
		Width:   editor.Width,
		Height:  editor.Height,
	}}
	return &demoHost{plugin: p, host: host.New(provider, ed, p.Logger())}, nil
}

func (d *demoHost) Close() {
	d.host.Shutdown()
	if err := d.plugin.Close(); err != nil {
		log.Printf("Warning: failed to close plugin: %v", err)
	}
}

func runHost(args []string) int {
	fs := flag.NewFlagSet("host", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/plugview/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plugview host [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a host window and embed the editor in it. On a terminal this starts")
		fmt.Fprintln(os.Stderr, "a console for opening and closing the editor and editing settings.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfigResult(*path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	d, err := startDemoHost(res.Config)
	if err != nil {
		log.Fatalf("Failed to start host: %v", err)
	}
	defer d.Close()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return waitForSignal(d.host, os.Stdout)
	}
	err = tui.Run(d.host, tui.Options{ConfigPath: *path, Config: res.Config})
	if err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		return 1
	}
	return 0
}

// waitForSignal opens the editor and keeps it open until SIGINT or SIGTERM.
func waitForSignal(ctrl tui.Controller, w io.Writer) int {
	if err := ctrl.OpenEditor(); err != nil {
		fmt.Fprintf(os.Stderr, "open editor: %v\n", err)
		return 1
	}
	printStatus(w, ctrl.Status())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	<-sigCh
	return 0
}

func printStatus(w io.Writer, st host.Status) {
	if !st.Open {
		fmt.Fprintf(w, "editor: closed (opened %d times)\n", st.Opens)
		return
	}
	fmt.Fprintf(w, "editor: open %dx%d in parent 0x%x (opened %d times)\n", st.Width, st.Height, st.Parent, st.Opens)
}
