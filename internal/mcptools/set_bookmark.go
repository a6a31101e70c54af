package mcptools

import (
	"context"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SetBookmarkHandler returns the handler function for the set_bookmark MCP tool.
func SetBookmarkHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input SetBookmarkInput) (*mcp.CallToolResult, EntryResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SetBookmarkInput) (*mcp.CallToolResult, EntryResult, error) {
		if err := entry.ValidateID(input.ID); err != nil {
			return nil, EntryResult{}, err
		}
		e, err := deps.Journal.SetBookmarked(input.ID, input.Bookmarked)
		if err != nil {
			return nil, EntryResult{}, err
		}
		deps.invalidate()
		return nil, toResult(e, deps.Calendar.Location()), nil
	}
}
