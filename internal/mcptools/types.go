package mcptools

// ListEntriesInput is the input schema for the list_entries MCP tool.
// Bookmarked wins over Month, and Month wins over a date range.
type ListEntriesInput struct {
	Month      string `json:"month,omitempty" jsonschema:"Month to list as YYYY-MM"`
	StartDate  string `json:"start_date,omitempty" jsonschema:"ISO date lower bound (inclusive)"`
	EndDate    string `json:"end_date,omitempty" jsonschema:"ISO date upper bound (exclusive)"`
	Bookmarked bool   `json:"bookmarked,omitempty" jsonschema:"List bookmarked entries only"`
	Query      string `json:"query,omitempty" jsonschema:"Case-insensitive text to find in title or body"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

// ListEntriesOutput is the output schema for the list_entries MCP tool.
type ListEntriesOutput struct {
	Entries []EntryResult `json:"entries"`
}

// EntryResult is the common output format for entry-related MCP tools.
type EntryResult struct {
	ID         string `json:"id"`
	Date       string `json:"date,omitempty"`
	Title      string `json:"title"`
	Preview    string `json:"preview"`
	Bookmarked bool   `json:"bookmarked"`
	CreatedAt  string `json:"created_at"`
}

// GetEntryInput is the input schema for the get_entry MCP tool.
type GetEntryInput struct {
	ID string `json:"id" jsonschema:"Entry ID"`
}

// EntryDetail is the output schema for the get_entry MCP tool.
type EntryDetail struct {
	ID         string   `json:"id"`
	Date       string   `json:"date,omitempty"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Bookmarked bool     `json:"bookmarked"`
	Weather    string   `json:"weather,omitempty"`
	HasImage   bool     `json:"has_image"`
	Checklist  []string `json:"checklist,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// CreateEntryInput is the input schema for the create_entry MCP tool.
type CreateEntryInput struct {
	Title        string   `json:"title,omitempty" jsonschema:"Entry title"`
	Body         string   `json:"body,omitempty" jsonschema:"Entry body (markdown)"`
	Date         string   `json:"date,omitempty" jsonschema:"Diary date as YYYY-MM-DD; omit for an undated entry"`
	Weather      string   `json:"weather,omitempty" jsonschema:"sunny, cloudy, rainy, snowy, windy, stormy, foggy, or custom:<symbol>:<label>"`
	Bookmarked   bool     `json:"bookmarked,omitempty" jsonschema:"Bookmark the new entry"`
	CheckItemIDs []string `json:"check_item_ids,omitempty" jsonschema:"IDs of check items to tick"`
}

// CreateEntryOutput is the output schema for the create_entry MCP tool.
type CreateEntryOutput struct {
	ID       string   `json:"id"`
	Date     string   `json:"date,omitempty"`
	Preview  string   `json:"preview"`
	Warnings []string `json:"warnings,omitempty"`
}

// SetBookmarkInput is the input schema for the set_bookmark MCP tool.
type SetBookmarkInput struct {
	ID         string `json:"id" jsonschema:"Entry ID"`
	Bookmarked bool   `json:"bookmarked" jsonschema:"true to bookmark, false to remove the bookmark"`
}

// StatsInput is the input schema for the get_stats MCP tool.
type StatsInput struct{}

// StatsOutput is the output schema for the get_stats MCP tool.
type StatsOutput struct {
	Count        int  `json:"count"`
	Streak       int  `json:"streak"`
	WrittenToday bool `json:"written_today"`
}

// ListCheckItemsInput is the input schema for the list_check_items MCP tool.
type ListCheckItemsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of items to return"`
}

// ListCheckItemsOutput is the output schema for the list_check_items MCP tool.
type ListCheckItemsOutput struct {
	Items []CheckItemResult `json:"items"`
}

// CheckItemResult represents a check item in list_check_items output.
type CheckItemResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
