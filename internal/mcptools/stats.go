package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsHandler returns the handler function for the get_stats MCP tool.
func StatsHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
		sum, err := deps.Journal.Summary(deps.Journal.Now())
		if err != nil {
			return nil, StatsOutput{}, err
		}
		return nil, StatsOutput{
			Count:        sum.Count,
			Streak:       sum.Streak,
			WrittenToday: sum.WrittenToday,
		}, nil
	}
}
