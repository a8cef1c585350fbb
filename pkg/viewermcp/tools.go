// Package viewermcp exposes a viewer session as MCP tools.
package viewermcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bttk/obsidian-viewer/pkg/content"
	"github.com/bttk/obsidian-viewer/pkg/obsidianmd"
	"github.com/bttk/obsidian-viewer/pkg/viewer"
)

// Session is one viewer shared by every tool call.
type Session struct {
	Controller *viewer.Controller
	Page       *viewer.Page
}

// NewSession creates a viewer over provider.
func NewSession(provider content.Provider, opts viewer.Options) *Session {
	page := viewer.NewPage()
	return &Session{
		Controller: viewer.New(provider, opts, page),
		Page:       page,
	}
}

// ensureLoaded lists the root on first use.
func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.Controller.Root().State == viewer.StateExpanded {
		return nil
	}
	return s.Controller.Load(ctx)
}

func (s *Session) treeText() (string, error) {
	var b strings.Builder
	if err := viewer.WriteTree(&b, s.Controller.Root()); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Helper to get arguments map
func getArgs(req mcp.CallToolRequest) map[string]interface{} {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return make(map[string]interface{})
	}
	return args
}

// TreeTool returns the tool definition
func TreeTool() mcp.Tool {
	return mcp.NewTool("notes_tree",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Show the loaded part of the notes tree. Folders marked + are collapsed, > marks the open note"),
		mcp.WithString("format", mcp.Description("Output format: text (default) or json")),
	)
}

// TreeHandler returns the tool handler
func TreeHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.ensureLoaded(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load tree: %v", err)), nil
		}
		format, _ := getArgs(request)["format"].(string)
		if format == "json" {
			return mcp.NewToolResultJSON(s.Controller.Root())
		}
		text, err := s.treeText()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to print tree: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func RegisterTree(srv *server.MCPServer, s *Session) {
	srv.AddTool(TreeTool(), TreeHandler(s))
}

// ToggleFolderTool returns the tool definition
func ToggleFolderTool() mcp.Tool {
	return mcp.NewTool("notes_toggle_folder",
		mcp.WithDescription("Expand or collapse a folder in the notes tree"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Folder path relative to the repository root")),
	)
}

// ToggleFolderHandler returns the tool handler
func ToggleFolderHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := getArgs(request)["path"].(string)
		if !ok {
			return mcp.NewToolResultError("path must be a string"), nil
		}
		if err := s.ensureLoaded(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load tree: %v", err)), nil
		}
		if err := s.Controller.Toggle(ctx, path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to toggle folder: %v", err)), nil
		}
		text, err := s.treeText()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to print tree: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func RegisterToggleFolder(srv *server.MCPServer, s *Session) {
	srv.AddTool(ToggleFolderTool(), ToggleFolderHandler(s))
}

// OpenFileTool returns the tool definition
func OpenFileTool() mcp.Tool {
	return mcp.NewTool("notes_open_file",
		mcp.WithDescription("Open a note and return its rendered HTML"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a note in an expanded folder")),
	)
}

// OpenFileHandler returns the tool handler
func OpenFileHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, ok := getArgs(request)["path"].(string)
		if !ok {
			return mcp.NewToolResultError("path must be a string"), nil
		}
		if err := s.ensureLoaded(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load tree: %v", err)), nil
		}
		if err := s.Controller.SelectFile(ctx, path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open file: %v", err)), nil
		}
		return mcp.NewToolResultJSON(s.Page.State())
	}
}

func RegisterOpenFile(srv *server.MCPServer, s *Session) {
	srv.AddTool(OpenFileTool(), OpenFileHandler(s))
}

// NavigateTool returns the tool definition
func NavigateTool() mcp.Tool {
	return mcp.NewTool("notes_navigate",
		mcp.WithDescription("Follow an internal link or open a path, loading its folders as needed. An empty target goes home"),
		mcp.WithString("target", mcp.Description("Link destination, e.g. docs/Guide.md#Setup, or a path without extension")),
	)
}

// NavigateHandler returns the tool handler
func NavigateHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, _ := getArgs(request)["target"].(string)
		if err := s.Controller.Navigate(ctx, target); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to navigate to %q: %v", target, err)), nil
		}
		return mcp.NewToolResultJSON(s.Page.State())
	}
}

func RegisterNavigate(srv *server.MCPServer, s *Session) {
	srv.AddTool(NavigateTool(), NavigateHandler(s))
}

// PageTool returns the tool definition
func PageTool() mcp.Tool {
	return mcp.NewTool("notes_page",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Return the current content pane: title, HTML, links and breadcrumbs"),
	)
}

// PageHandler returns the tool handler
func PageHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultJSON(s.Page.State())
	}
}

func RegisterPage(srv *server.MCPServer, s *Session) {
	srv.AddTool(PageTool(), PageHandler(s))
}

// ClearCacheTool returns the tool definition
func ClearCacheTool() mcp.Tool {
	return mcp.NewTool("notes_clear_cache",
		mcp.WithDescription("Forget cached notes and folder listings and reload the root"),
	)
}

// ClearCacheHandler returns the tool handler
func ClearCacheHandler(s *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.Controller.ClearCache()
		if err := s.ensureLoaded(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to reload tree: %v", err)), nil
		}
		return mcp.NewToolResultText("Cache cleared"), nil
	}
}

func RegisterClearCache(srv *server.MCPServer, s *Session) {
	srv.AddTool(ClearCacheTool(), ClearCacheHandler(s))
}

// RenderTool returns the tool definition
func RenderTool() mcp.Tool {
	return mcp.NewTool("notes_render",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Render Obsidian markdown (wiki-links, callouts) to HTML without reading the repository"),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown source")),
	)
}

// RenderHandler returns the tool handler
func RenderHandler(s *Session) server.ToolHandlerFunc {
	renderer := obsidianmd.NewRenderer(s.Controller.Options().Extension)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		markdown, ok := getArgs(request)["markdown"].(string)
		if !ok {
			return mcp.NewToolResultError("markdown must be a string"), nil
		}
		fragment, err := renderer.Render(markdown)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render: %v", err)), nil
		}
		return mcp.NewToolResultJSON(fragment)
	}
}

func RegisterRender(srv *server.MCPServer, s *Session) {
	srv.AddTool(RenderTool(), RenderHandler(s))
}

// Registry maps tool names to their register functions.
var Registry = map[string]func(*server.MCPServer, *Session){
	"notes_tree":          RegisterTree,
	"notes_toggle_folder": RegisterToggleFolder,
	"notes_open_file":     RegisterOpenFile,
	"notes_navigate":      RegisterNavigate,
	"notes_page":          RegisterPage,
	"notes_clear_cache":   RegisterClearCache,
	"notes_render":        RegisterRender,
}
