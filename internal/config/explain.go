package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	logging.enabled
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
//	editor.title
//	editor.frame_rate
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "logging.enabled":
		return cfg.Logging.Enabled, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.GetLoggingConfig().File, nil
	case "logging.max_size_mb":
		return cfg.Logging.MaxSizeMB, nil
	case "logging.max_files":
		return cfg.Logging.MaxFiles, nil
	case "editor.title":
		return cfg.Editor.Title, nil
	case "editor.frame_rate":
		return cfg.Editor.FrameRate, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}

// FormatSource renders src for CLI output.
func FormatSource(src Source) string {
	switch src.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	default:
		return "default"
	}
}
