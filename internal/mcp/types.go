package mcp

// EditorOpenInput is the input for the editor_open tool.
type EditorOpenInput struct{}

// EditorOpenOutput is the output for the editor_open tool.
type EditorOpenOutput struct {
	Open   bool    `json:"open"`
	Parent uintptr `json:"parent"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// EditorCloseInput is the input for the editor_close tool.
type EditorCloseInput struct{}

// EditorCloseOutput is the output for the editor_close tool.
type EditorCloseOutput struct {
	Closed bool `json:"closed"`
}

// EditorStatusInput is the input for the editor_status tool.
type EditorStatusInput struct{}

// EditorStatusOutput is the output for the editor_status tool.
type EditorStatusOutput struct {
	Open   bool    `json:"open"`
	Parent uintptr `json:"parent,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Opens  int     `json:"opens"`
}

// RenderSnapshotInput is the input for the render_snapshot tool.
type RenderSnapshotInput struct {
	Path   string `json:"path" jsonschema:"required,File path the PNG is written to"`
	Width  int    `json:"width,omitempty" jsonschema:"Image width in pixels (default: 500)"`
	Height int    `json:"height,omitempty" jsonschema:"Image height in pixels (default: 500)"`
}

// RenderSnapshotOutput is the output for the render_snapshot tool.
type RenderSnapshotOutput struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
