package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/chris-regnier/daybook/internal/httpapi"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/shell"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diary as a JSON API over HTTP",
	Long: `Serve the diary as a JSON API under /api until interrupted.

Routes:
  GET    /api/entries             ?month=YYYY-MM | ?from=&to= | ?bookmarked=true
  POST   /api/entries
  GET    /api/entries/bookmarked
  GET    /api/entries/{id}
  PATCH  /api/entries/{id}
  DELETE /api/entries/{id}
  GET    /api/months
  GET    /api/months/{YYYY-MM}
  GET    /api/stats
  GET    /api/checkitems
  POST   /api/checkitems
  PATCH  /api/checkitems/{id}
  DELETE /api/checkitems/{id}`,
	Example: `  daybook serve
  daybook serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = appConfig.Server.Addr
		}

		dataDir := appConfig.DataDir
		router := httpapi.NewRouter(httpapi.Deps{
			Journal:  journ,
			Queries:  queries,
			Calendar: journ.Calendar(),
			AfterWrite: func() {
				if err := shell.InvalidateCache(dataDir); err != nil {
					logger.Warn("could not invalidate prompt cache", "err", err)
				}
			},
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.New(os.Stderr, "daybook http")
		log.Info("serving", "addr", addr, "storage", appConfig.Storage)
		return httpapi.Serve(ctx, addr, router)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config server.addr)")
	rootCmd.AddCommand(serveCmd)
}
