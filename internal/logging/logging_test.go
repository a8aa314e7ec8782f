package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plugview.log")
	r, err := OpenRotatingFile(path, 10, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile: %v", err)
	}
	defer r.Close()

	for _, line := range []string{"first-line\n", "second-line\n", "third-line\n", "fourth-line\n"} {
		if _, err := r.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	read := func(p string) string {
		t.Helper()
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		return string(data)
	}

	if got := read(path); got != "fourth-line\n" {
		t.Fatalf("current file = %q", got)
	}
	if got := read(path + ".1"); got != "third-line\n" {
		t.Fatalf(".1 = %q", got)
	}
	if got := read(path + ".2"); got != "second-line\n" {
		t.Fatalf(".2 = %q", got)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no .3 file, stat err = %v", err)
	}
}

func TestRotatingFileAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugview.log")
	if err := os.WriteFile(path, []byte("old\n"), 0600); err != nil {
		t.Fatal(err)
	}

	r, err := OpenRotatingFile(path, 1024, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile: %v", err)
	}
	r.Write([]byte("new\n"))
	r.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "old\nnew\n" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestRotatingFileSurvivesFailedRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugview.log")
	// A non-empty directory where the rotated file should go blocks the rename.
	if err := os.MkdirAll(filepath.Join(path+".1", "keep"), 0755); err != nil {
		t.Fatal(err)
	}

	r, err := OpenRotatingFile(path, 10, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile: %v", err)
	}
	defer r.Close()

	for _, line := range []string{"first-line\n", "second-line\n"} {
		if _, err := r.Write([]byte(line)); err != nil {
			t.Fatalf("Write(%q): %v", line, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first-line\nsecond-line\n" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestRotatingFileReopensLostFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugview.log")
	r, err := OpenRotatingFile(path, 0, 1)
	if err != nil {
		t.Fatalf("OpenRotatingFile: %v", err)
	}
	defer r.Close()

	// As left behind by a rotation whose reopen failed.
	r.file.Close()
	r.file = nil

	if _, err := r.Write([]byte("again\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "again\n" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestWriteAfterClose(t *testing.T) {
	r, err := OpenRotatingFile(filepath.Join(t.TempDir(), "x.log"), 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := r.Write([]byte("x")); err == nil {
		t.Fatal("expected write after close to fail")
	}
}

func TestNewWritesRecordsAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugview.log")
	logger, closer, err := New(Options{Enabled: true, Level: "info", FilePath: path, MaxSizeMB: 1, MaxFiles: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("init", "plugin", "plugview")
	logger.Error("frame skipped", "step", "text")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "msg=init") || !strings.Contains(out, "level=ERROR") {
		t.Fatalf("missing records:\n%s", out)
	}
}

func TestNewDisabled(t *testing.T) {
	logger, closer, err := New(Options{Enabled: false, FilePath: filepath.Join(t.TempDir(), "nope", "x.log")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Error("dropped")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}
