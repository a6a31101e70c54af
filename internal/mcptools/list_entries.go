package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultLimit = 20

// ListEntriesHandler returns the handler function for the list_entries MCP tool.
func ListEntriesHandler(deps Deps) func(ctx context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
		entries, err := selectEntries(deps, input)
		if err != nil {
			return nil, ListEntriesOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		needle := strings.ToLower(strings.TrimSpace(input.Query))
		loc := deps.Calendar.Location()

		results := make([]EntryResult, 0, min(limit, len(entries)))
		for _, e := range entries {
			if needle != "" &&
				!strings.Contains(strings.ToLower(e.Title), needle) &&
				!strings.Contains(strings.ToLower(e.Body), needle) {
				continue
			}
			results = append(results, toResult(e, loc))
			if len(results) >= limit {
				break
			}
		}
		return nil, ListEntriesOutput{Entries: results}, nil
	}
}

func selectEntries(deps Deps, input ListEntriesInput) ([]entry.Entry, error) {
	cal := deps.Calendar
	switch {
	case input.Bookmarked:
		return deps.Queries.Bookmarked()
	case input.Month != "":
		month, err := cal.ParseMonth(input.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q (use YYYY-MM)", input.Month)
		}
		return deps.Queries.EntriesInMonth(month)
	case input.StartDate != "" || input.EndDate != "":
		if input.StartDate == "" || input.EndDate == "" {
			return nil, fmt.Errorf("start_date and end_date must be given together")
		}
		start, err := cal.ParseDate(input.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date %q (use YYYY-MM-DD)", input.StartDate)
		}
		end, err := cal.ParseDate(input.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date %q (use YYYY-MM-DD)", input.EndDate)
		}
		return deps.Queries.EntriesInInterval(start, end)
	default:
		return deps.Queries.All()
	}
}
