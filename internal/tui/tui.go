// Package tui is the interactive console of the demo host: it opens and
// closes the embedded editor, keeps an activity log and edits the settings
// that take effect on the next start.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/host"
)

// Controller is the part of *host.Host the console drives.
type Controller interface {
	OpenEditor() error
	CloseEditor() error
	Status() host.Status
}

// Options configures the console.
type Options struct {
	// ConfigPath is where edited settings are saved. Empty uses the default path.
	ConfigPath string
	Config     *config.Config
}

// Run starts the console and blocks until the user quits.
func Run(ctrl Controller, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("console requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(ctrl, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
