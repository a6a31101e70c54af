package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListCheckItemsHandler returns the handler function for the list_check_items MCP tool.
func ListCheckItemsHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input ListCheckItemsInput) (*mcp.CallToolResult, ListCheckItemsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListCheckItemsInput) (*mcp.CallToolResult, ListCheckItemsOutput, error) {
		items, err := deps.Journal.ListCheckItems()
		if err != nil {
			return nil, ListCheckItemsOutput{}, err
		}
		if input.Limit > 0 && len(items) > input.Limit {
			items = items[:input.Limit]
		}

		results := make([]CheckItemResult, 0, len(items))
		for _, c := range items {
			results = append(results, CheckItemResult{ID: c.ID, Title: c.Title})
		}
		return nil, ListCheckItemsOutput{Items: results}, nil
	}
}
