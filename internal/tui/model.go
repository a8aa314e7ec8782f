package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/host"
)

const maxActivity = 100

// activityItem implements list.Item for the activity log.
type activityItem struct {
	at     time.Time
	action string
	detail string
}

func (i activityItem) Title() string       { return i.at.Format("15:04:05") + "  " + i.action }
func (i activityItem) Description() string { return i.detail }
func (i activityItem) FilterValue() string { return i.action }

// clearStatusMsg clears the status line after a delay.
type clearStatusMsg struct{}

// model is the root bubbletea model for the console.
type model struct {
	ctrl     Controller
	status   host.Status
	activity list.Model
	settings settingsForm

	statusText string

	// Terminal dimensions
	width  int
	height int

	// now is replaced in tests.
	now func() time.Time
}

func newModel(ctrl Controller, opts Options) model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Activity"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return model{
		ctrl:     ctrl,
		status:   ctrl.Status(),
		activity: l,
		settings: newSettingsForm(cfg, opts.ConfigPath),
		now:      time.Now,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.activity.SetSize(m.listWidth(), m.contentHeight())
		m.settings.width = m.width - m.listWidth() - 3
		return m, nil

	case clearStatusMsg:
		m.statusText = ""
		return m, nil
	}

	// The settings form consumes keys; only ctrl+c escapes to quit.
	if m.settings.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		if text := m.settings.takeResult(); text != "" {
			return m.report("settings", text)
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "o":
			return m.openEditor()
		case "c":
			return m.closeEditor()
		case "s":
			m.status = m.ctrl.Status()
			return m.report("status", describeStatus(m.status))
		case "e":
			cmd := m.settings.startEditing()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

func (m model) openEditor() (model, tea.Cmd) {
	if err := m.ctrl.OpenEditor(); err != nil {
		m.status = m.ctrl.Status()
		return m.report("open", fmt.Sprintf("error: %v", err))
	}
	m.status = m.ctrl.Status()
	return m.report("open", describeStatus(m.status))
}

func (m model) closeEditor() (model, tea.Cmd) {
	if err := m.ctrl.CloseEditor(); err != nil {
		return m.report("close", fmt.Sprintf("error: %v", err))
	}
	m.status = m.ctrl.Status()
	return m.report("close", describeStatus(m.status))
}

// report logs an action and shows text on the status line for a few seconds.
func (m model) report(action, text string) (model, tea.Cmd) {
	m.statusText = text
	insert := m.activity.InsertItem(0, activityItem{at: m.now(), action: action, detail: text})
	if n := len(m.activity.Items()); n > maxActivity {
		m.activity.RemoveItem(n - 1)
	}
	return m, tea.Batch(insert, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	}))
}

func describeStatus(st host.Status) string {
	if !st.Open {
		return fmt.Sprintf("editor closed (opened %d times)", st.Opens)
	}
	return fmt.Sprintf("editor open %dx%d in parent 0x%x (opened %d times)", st.Width, st.Height, st.Parent, st.Opens)
}

func (m model) listWidth() int {
	// Activity takes ~45% of width, min 24
	w := m.width * 45 / 100
	if w < 24 {
		w = 24
	}
	return w
}

// contentHeight returns the height available between the bars.
func (m model) contentHeight() int {
	// status bar (1) + status line (1) + help bar (1)
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	helpBar := renderHelpBar(m.settings.editing, m.width)
	height := m.contentHeight()

	left := lipgloss.NewStyle().
		Width(m.listWidth()).
		Height(height).
		Render(m.activity.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))

	right := m.settings.View(m.width-m.listWidth()-3, height)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, " "+sep+" ", right)

	line := lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("214")).
		Padding(0, 1).
		Render(m.statusText)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		columns,
		line,
		helpBar,
	)
}

// renderStatusBar renders the editor state bar.
func renderStatusBar(st host.Status, width int) string {
	var status string
	if st.Open {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " editor open",
			fmt.Sprintf("%dx%d", st.Width, st.Height),
			fmt.Sprintf("parent:0x%x", st.Parent),
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " editor closed"
	}
	status += fmt.Sprintf("  opens:%d", st.Opens)

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(editing bool, width int) string {
	help := "o: open  c: close  s: status  e: edit settings  ↑/↓: scroll  q/ctrl-c: quit"
	if editing {
		help = "enter: next/submit  esc: cancel  ctrl-c: quit"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
