package cmd

import (
	"os"

	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/mcptools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes diary tools
over stdio transport. This allows MCP clients like Claude Desktop to read and
write your diary.

Available tools:
  - list_entries: Entries for a month, a date range or the bookmarks
  - get_entry: Full content of one entry
  - get_stats: Entry count, streak and whether you wrote today
  - list_check_items: Reusable checklist items
  - create_entry: Create an entry
  - set_bookmark: Bookmark or unbookmark an entry

Example usage in Claude Desktop config:
  {
    "mcpServers": {
      "daybook": {
        "command": "/path/to/daybook",
        "args": ["mcp-serve"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcptools.CreateMCPServer(mcptools.Deps{
			Journal:  journ,
			Queries:  queries,
			Calendar: journ.Calendar(),
			DataDir:  appConfig.DataDir,
		})

		// stdout is reserved for the protocol.
		log := logger.New(os.Stderr, "daybook mcp")
		log.Info("starting MCP server", "transport", "stdio", "storage", appConfig.Storage, "data_dir", appConfig.DataDir)

		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}
