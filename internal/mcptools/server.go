package mcptools

import (
	"context"
	"time"

	"github.com/chris-regnier/daybook/internal/calendar"
	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/journal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Journal is the part of *journal.Store the tools write through.
type Journal interface {
	Create(d entry.Draft) (entry.Entry, error)
	Get(id string) (entry.Entry, error)
	SetBookmarked(id string, bookmarked bool) (entry.Entry, error)
	ListCheckItems() ([]entry.CheckItem, error)
	Checked(ids []string) ([]entry.CheckedItem, error)
	Summary(now time.Time) (journal.Summary, error)
	Now() time.Time
}

// Queries is the part of *query.Engine the tools read through.
type Queries interface {
	EntriesInMonth(ref time.Time) ([]entry.Entry, error)
	EntriesInInterval(start, end time.Time) ([]entry.Entry, error)
	Bookmarked() ([]entry.Entry, error)
	All() ([]entry.Entry, error)
}

// Deps are the services behind the tools. DataDir is used to invalidate
// the shell prompt cache after writes; leave it empty to skip that.
type Deps struct {
	Journal  Journal
	Queries  Queries
	Calendar calendar.Calendar
	DataDir  string
}

// NewDiaryMCPServer creates an in-memory MCP server exposing diary tools.
// Returns the server and a client transport for connecting to it.
func NewDiaryMCPServer(deps Deps) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := CreateMCPServer(deps)

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateMCPServer creates an MCP server with the diary tools registered.
func CreateMCPServer(deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "daybook",
		Version: "1.0.0",
	}, nil)

	// Read tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List diary entries for a month, a date range, or the bookmarks, newest diary date first, optionally filtered by text",
	}, ListEntriesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get the full content of one diary entry",
	}, GetEntryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get the entry count, the consecutive-day writing streak, and whether an entry was written today",
	}, StatsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_check_items",
		Description: "List the reusable checklist items that can be ticked on a new entry",
	}, ListCheckItemsHandler(deps))

	// Write tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_entry",
		Description: "Create a diary entry",
	}, CreateEntryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_bookmark",
		Description: "Bookmark or unbookmark a diary entry",
	}, SetBookmarkHandler(deps))

	return server
}
