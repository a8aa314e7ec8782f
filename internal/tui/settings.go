package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/plugview/internal/config"
)

// settingsForm shows the saved settings and edits them with a huh form.
type settingsForm struct {
	cfg  *config.Config
	path string

	width int

	// Edit mode
	editing bool
	form    *huh.Form
	result  string

	// Form-bound values (strings for huh, converted on submit)
	fTitle     string
	fFrameRate string
	fLogLevel  string
	fLogging   bool
}

func newSettingsForm(cfg *config.Config, path string) settingsForm {
	return settingsForm{cfg: cfg, path: path}
}

func (s *settingsForm) startEditing() tea.Cmd {
	s.fTitle = s.cfg.Editor.Title
	s.fFrameRate = strconv.Itoa(s.cfg.Editor.FrameRate)
	s.fLogLevel = strings.ToLower(s.cfg.Logging.Level)
	if s.fLogLevel == "warning" {
		s.fLogLevel = "warn"
	}
	s.fLogging = s.cfg.Logging.Enabled

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Editor Title").
				Description("Window title of the editor").
				Validate(validateTitle).
				Value(&s.fTitle),

			huh.NewInput().
				Key("frame_rate").
				Title("Frame Rate").
				Description(fmt.Sprintf("Redraws per second (1-%d)", config.MaxFrameRate)).
				Validate(validateFrameRate).
				Value(&s.fFrameRate),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("logging").
				Title("Diagnostic Log").
				Description("Write the rotating log file").
				Value(&s.fLogging),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&s.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
	return s.form.Init()
}

func (s settingsForm) Update(msg tea.Msg) (settingsForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		s.editing = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.result = s.apply()
		s.editing = false
		s.form = nil
		return s, nil
	case huh.StateAborted:
		s.editing = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

// apply saves the form values and returns a line for the status bar. The
// running editor keeps its settings until the next start.
func (s *settingsForm) apply() string {
	next := *s.cfg
	next.Editor.Title = strings.TrimSpace(s.fTitle)
	if v, err := strconv.Atoi(strings.TrimSpace(s.fFrameRate)); err == nil {
		next.Editor.FrameRate = v
	}
	next.Logging.Enabled = s.fLogging
	if s.fLogLevel != "" {
		next.Logging.Level = s.fLogLevel
	}

	path := s.path
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		path = p
	}
	if err := next.SaveToPath(path); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	*s.cfg = next
	return fmt.Sprintf("saved to %s (applies on next start)", path)
}

// takeResult returns and clears the outcome of the last submitted form.
func (s *settingsForm) takeResult() string {
	r := s.result
	s.result = ""
	return r
}

func validateTitle(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("title must not be empty")
	}
	return nil
}

func validateFrameRate(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("frame rate must be a number")
	}
	if n < 1 || n > config.MaxFrameRate {
		return fmt.Errorf("frame rate must be between 1 and %d", config.MaxFrameRate)
	}
	return nil
}

func (s settingsForm) View(width, height int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1)

	if s.editing && s.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Editing Settings") +
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + s.form.View())
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(16).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	logging := "off"
	if s.cfg.Logging.Enabled {
		logging = s.cfg.Logging.Level
	}

	lines := []string{
		"",
		row("Title", s.cfg.Editor.Title),
		row("Frame Rate", strconv.Itoa(s.cfg.Editor.FrameRate)),
		row("Log", logging),
		row("Config", displayOrDefault(s.path, "(default)")),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return style.Render(strings.Join(lines, "\n"))
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
