package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/plugview/internal/editor"
)

func (s *Server) handleEditorOpen(_ context.Context, _ *mcpsdk.CallToolRequest, _ EditorOpenInput) (*mcpsdk.CallToolResult, EditorOpenOutput, error) {
	if err := s.ctrl.OpenEditor(); err != nil {
		s.logger.Warn("editor_open failed", "error", err)
		return nil, EditorOpenOutput{}, fmt.Errorf("open editor: %w", err)
	}
	st := s.ctrl.Status()
	s.logger.Info("editor_open", "parent", st.Parent)
	return nil, EditorOpenOutput{
		Open:   st.Open,
		Parent: st.Parent,
		Width:  st.Width,
		Height: st.Height,
	}, nil
}

func (s *Server) handleEditorClose(_ context.Context, _ *mcpsdk.CallToolRequest, _ EditorCloseInput) (*mcpsdk.CallToolResult, EditorCloseOutput, error) {
	if err := s.ctrl.CloseEditor(); err != nil {
		return nil, EditorCloseOutput{}, fmt.Errorf("close editor: %w", err)
	}
	s.logger.Info("editor_close")
	return nil, EditorCloseOutput{Closed: !s.ctrl.Status().Open}, nil
}

func (s *Server) handleEditorStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EditorStatusInput) (*mcpsdk.CallToolResult, EditorStatusOutput, error) {
	st := s.ctrl.Status()
	return nil, EditorStatusOutput{
		Open:   st.Open,
		Parent: st.Parent,
		Width:  st.Width,
		Height: st.Height,
		Opens:  st.Opens,
	}, nil
}

func (s *Server) handleRenderSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, args RenderSnapshotInput) (*mcpsdk.CallToolResult, RenderSnapshotOutput, error) {
	path := strings.TrimSpace(args.Path)
	if path == "" {
		return nil, RenderSnapshotOutput{}, fmt.Errorf("path is required")
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return nil, RenderSnapshotOutput{}, fmt.Errorf("path must end in .png: %q", path)
	}
	width, height, err := snapshotSize(args.Width, args.Height)
	if err != nil {
		return nil, RenderSnapshotOutput{}, err
	}

	ctx, err := s.renderer.Snapshot(width, height)
	if err != nil {
		return nil, RenderSnapshotOutput{}, err
	}
	defer ctx.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, RenderSnapshotOutput{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := ctx.SavePNG(path); err != nil {
		return nil, RenderSnapshotOutput{}, fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Info("render_snapshot", "path", path, "width", width, "height", height)
	return nil, RenderSnapshotOutput{Path: path, Width: width, Height: height}, nil
}

func snapshotSize(w, h int) (int, int, error) {
	if w == 0 {
		w = editor.Width
	}
	if h == 0 {
		h = editor.Height
	}
	if w < 0 || h < 0 || w > MaxSnapshotSide || h > MaxSnapshotSide {
		return 0, 0, fmt.Errorf("snapshot size %dx%d out of range (1..%d)", w, h, MaxSnapshotSide)
	}
	return w, h, nil
}
