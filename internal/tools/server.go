package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewStdioServer builds an MCP server exposing the five store tools over
// stdio. Steward's own gateway talks to it, but any MCP client works.
func NewStdioServer(store *Store, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"steward-tools",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	readTool := mcp.NewTool("read_file",
		mcp.WithDescription("Read the contents of a file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to read"),
		),
	)
	srv.AddTool(readTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := store.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(content), nil
	})

	searchTool := mcp.NewTool("search_files",
		mcp.WithDescription("Search file paths by substring"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match against file paths"),
		),
	)
	srv.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(store.SearchFiles(query))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	deleteTool := mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to delete"),
		),
	)
	srv.AddTool(deleteTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := store.DeleteFile(path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("deleted"), nil
	})

	getTool := mcp.NewTool("get_record",
		mcp.WithDescription("Fetch a record by key"),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Record key to look up"),
		),
	)
	srv.AddTool(getTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		record, err := store.GetRecord(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(record)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	updateTool := mcp.NewTool("update_record",
		mcp.WithDescription("Apply a field=value patch to a record"),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Record key to update"),
		),
		mcp.WithString("patch",
			mcp.Required(),
			mcp.Description("Single field=value patch to apply"),
		),
	)
	srv.AddTool(updateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		patch, err := request.RequireString("patch")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		field, value, err := SplitPatch(patch)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updated, err := store.UpdateRecord(key, field, value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode record: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	return srv
}

// ServeStdio blocks serving srv on stdin/stdout until EOF.
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}
