package mcptools

import (
	"context"
	"fmt"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CreateEntryHandler returns the handler function for the create_entry MCP tool.
func CreateEntryHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input CreateEntryInput) (*mcp.CallToolResult, CreateEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateEntryInput) (*mcp.CallToolResult, CreateEntryOutput, error) {
		draft := entry.Draft{
			Title:      input.Title,
			Body:       input.Body,
			Bookmarked: input.Bookmarked,
		}

		if input.Date != "" {
			d, err := deps.Calendar.ParseDate(input.Date)
			if err != nil {
				return nil, CreateEntryOutput{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", input.Date)
			}
			draft.Date = &d
		}

		w, err := entry.ParseWeather(input.Weather)
		if err != nil {
			return nil, CreateEntryOutput{}, err
		}
		draft.Weather = w

		if len(input.CheckItemIDs) > 0 {
			checked, err := deps.Journal.Checked(input.CheckItemIDs)
			if err != nil {
				return nil, CreateEntryOutput{}, err
			}
			draft.Checklist = checked
		}

		e, err := deps.Journal.Create(draft)
		if err != nil {
			return nil, CreateEntryOutput{}, err
		}
		deps.invalidate()

		return nil, CreateEntryOutput{
			ID:       e.ID,
			Date:     dateString(e.Date, deps.Calendar.Location()),
			Preview:  e.Headline(200),
			Warnings: entry.Advise(e.Title, e.Body),
		}, nil
	}
}
