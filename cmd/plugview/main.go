package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/editor"
	"github.com/1broseidon/plugview/internal/handle"
	"github.com/1broseidon/plugview/internal/plugin"
	"github.com/1broseidon/plugview/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "host":
		os.Exit(runHost(os.Args[2:]))
	case "render":
		os.Exit(runRender(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "info":
		os.Exit(runInfo(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: plugview <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  host                Run the demo host and embed the editor")
	fmt.Fprintln(w, "  render              Render one editor frame to a PNG file")
	fmt.Fprintln(w, "  info                Show plugin and platform information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'plugview <command> --help' for command-specific options.")
}

func runRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	out := fs.String("o", "scene.png", "Output PNG path")
	width := fs.Int("w", editor.Width, "Image width in pixels")
	height := fs.Int("h", editor.Height, "Image height in pixels")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: plugview render [-o scene.png] [-w 500] [-h 500]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render one editor frame off-screen.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive")
		return 2
	}

	r, err := render.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	dc, err := r.Snapshot(*width, *height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer dc.Close()

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if err := dc.SavePNG(*out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s (%dx%d)\n", *out, *width, *height)
	return 0
}

func runInfo(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: plugview info")
		return 0
	}

	info := plugin.DefaultInfo
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logCfg := cfg.GetLoggingConfig()

	fmt.Printf("name:        %s\n", info.Name)
	fmt.Printf("vendor:      %s\n", info.Vendor)
	fmt.Printf("unique_id:   %d\n", info.UniqueID)
	fmt.Printf("version:     %d\n", info.Version)
	fmt.Printf("platform:    %s\n", handle.BuildPlatform)
	fmt.Printf("editor:      %dx%d at (%d,%d)\n", editor.Width, editor.Height, editor.PositionX, editor.PositionY)
	fmt.Printf("frame_rate:  %d\n", cfg.Editor.FrameRate)
	if logCfg.Enabled {
		fmt.Printf("log_file:    %s\n", logCfg.File)
	} else {
		fmt.Println("log_file:    (disabled)")
	}
	return 0
}
