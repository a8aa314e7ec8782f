package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/plugview/internal/config"
	"github.com/1broseidon/plugview/internal/host"
)

type fakeControl struct {
	status host.Status
	err    error
}

func (f *fakeControl) OpenEditor() error {
	if f.err != nil {
		return f.err
	}
	f.status = host.Status{Open: true, Parent: 0x600001, Width: 500, Height: 500, Opens: f.status.Opens + 1}
	return nil
}

func (f *fakeControl) CloseEditor() error {
	f.status.Open = false
	f.status.Parent = 0
	return nil
}

func (f *fakeControl) Status() host.Status { return f.status }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func newTestModel(ctrl Controller, path string) model {
	m := newModel(ctrl, Options{ConfigPath: path, Config: config.DefaultConfig()})
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func TestOpenAndCloseKeys(t *testing.T) {
	ctrl := &fakeControl{}
	m := newTestModel(ctrl, "")

	m, _ = send(t, m, key("o"))
	if !ctrl.status.Open || !m.status.Open {
		t.Fatal("o did not open the editor")
	}
	if !strings.Contains(m.statusText, "open 500x500 in parent 0x600001") {
		t.Fatalf("statusText = %q", m.statusText)
	}

	m, _ = send(t, m, key("c"))
	if ctrl.status.Open || m.status.Open {
		t.Fatal("c did not close the editor")
	}
	if m.statusText != "editor closed (opened 1 times)" {
		t.Fatalf("statusText = %q", m.statusText)
	}

	items := m.activity.Items()
	if len(items) != 2 {
		t.Fatalf("activity has %d items, want 2", len(items))
	}
	first := items[0].(activityItem)
	if first.action != "close" || first.Title() != "03:04:05  close" {
		t.Fatalf("newest activity = %+v", first)
	}
}

func TestOpenErrorIsReported(t *testing.T) {
	ctrl := &fakeControl{err: errors.New("no display")}
	m := newTestModel(ctrl, "")

	m, _ = send(t, m, key("o"))
	if m.statusText != "error: no display" {
		t.Fatalf("statusText = %q", m.statusText)
	}
	if m.status.Open {
		t.Fatal("status should stay closed")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		m := newTestModel(&fakeControl{}, "")
		_, cmd := send(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestClearStatus(t *testing.T) {
	m := newTestModel(&fakeControl{}, "")
	m, _ = send(t, m, key("s"))
	if m.statusText == "" {
		t.Fatal("s should set the status line")
	}
	m, _ = send(t, m, clearStatusMsg{})
	if m.statusText != "" {
		t.Fatalf("statusText = %q after clear", m.statusText)
	}
}

func TestActivityIsBounded(t *testing.T) {
	m := newTestModel(&fakeControl{}, "")
	for i := 0; i < maxActivity+5; i++ {
		m, _ = send(t, m, key("s"))
	}
	if n := len(m.activity.Items()); n != maxActivity {
		t.Fatalf("activity has %d items, want %d", n, maxActivity)
	}
}

func TestEditingCapturesKeys(t *testing.T) {
	ctrl := &fakeControl{}
	m := newTestModel(ctrl, "")

	m, _ = send(t, m, key("e"))
	if !m.settings.editing {
		t.Fatal("e should start editing")
	}
	m, _ = send(t, m, key("o"))
	if ctrl.status.Open {
		t.Fatal("keys should go to the form while editing")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.settings.editing {
		t.Fatal("esc should cancel editing")
	}
}

func TestViewShowsBars(t *testing.T) {
	ctrl := &fakeControl{}
	m := newTestModel(ctrl, "")
	if m.View() != "" {
		t.Fatal("view before the first size message should be empty")
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = send(t, m, key("o"))

	v := m.View()
	for _, want := range []string{"editor open", "parent:0x600001", "q/ctrl-c: quit", "Frame Rate"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestSettingsApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	s := newSettingsForm(cfg, path)
	s.startEditing()

	s.fTitle = "  Gain  "
	s.fFrameRate = "30"
	s.fLogLevel = "debug"
	s.fLogging = false

	text := s.apply()
	if !strings.HasPrefix(text, "saved to "+path) {
		t.Fatalf("apply = %q", text)
	}
	if cfg.Editor.Title != "Gain" || cfg.Editor.FrameRate != 30 || cfg.Logging.Level != "debug" || cfg.Logging.Enabled {
		t.Fatalf("config not updated: %+v", cfg)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Editor.Title != "Gain" || res.Config.Editor.FrameRate != 30 {
		t.Fatalf("saved config = %+v", res.Config.Editor)
	}
}

func TestSettingsApplyRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	s := newSettingsForm(cfg, path)
	s.startEditing()
	s.fFrameRate = "1000"

	text := s.apply()
	if !strings.HasPrefix(text, "error: ") {
		t.Fatalf("apply = %q", text)
	}
	if cfg.Editor.FrameRate != config.DefaultFrameRate {
		t.Fatalf("config changed on invalid input: %d", cfg.Editor.FrameRate)
	}
}

func TestValidators(t *testing.T) {
	if validateTitle(" ") == nil {
		t.Fatal("blank title should be rejected")
	}
	if validateFrameRate("abc") == nil || validateFrameRate("0") == nil {
		t.Fatal("bad frame rates should be rejected")
	}
	if err := validateFrameRate("60"); err != nil {
		t.Fatalf("validateFrameRate(60): %v", err)
	}
}
