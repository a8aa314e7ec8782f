package config

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawEditorConfig struct {
	Title     *string `yaml:"title"`
	FrameRate *int    `yaml:"frame_rate"`
}

// RawConfig mirrors the YAML file. Nil fields were not set and keep their
// defaults.
type RawConfig struct {
	Display *string           `yaml:"display"`
	Logging *RawLoggingConfig `yaml:"logging"`
	Editor  *RawEditorConfig  `yaml:"editor"`
}
