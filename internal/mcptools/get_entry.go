package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetEntryHandler returns the handler function for the get_entry MCP tool.
func GetEntryHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, EntryDetail, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetEntryInput) (*mcp.CallToolResult, EntryDetail, error) {
		if err := entry.ValidateID(input.ID); err != nil {
			return nil, EntryDetail{}, err
		}
		e, err := deps.Journal.Get(input.ID)
		if err != nil {
			return nil, EntryDetail{}, err
		}

		var checklist []string
		for _, item := range e.Checklist {
			checklist = append(checklist, item.Title)
		}
		return nil, EntryDetail{
			ID:         e.ID,
			Date:       dateString(e.Date, deps.Calendar.Location()),
			Title:      e.Title,
			Body:       e.Body,
			Bookmarked: e.Bookmarked,
			Weather:    e.Weather.String(),
			HasImage:   e.HasImage(),
			Checklist:  checklist,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
			UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
		}, nil
	}
}
