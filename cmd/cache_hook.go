package cmd

import (
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/shell"
	"github.com/spf13/cobra"
)

// invalidateCachePostRun is a PostRunE hook that drops the prompt cache
// after mutating commands. A failure is logged and never fails the command.
func invalidateCachePostRun(cmd *cobra.Command, args []string) error {
	if appConfig == nil {
		return nil
	}
	if err := shell.InvalidateCache(appConfig.DataDir); err != nil {
		logger.Warn("could not invalidate prompt cache", "err", err)
	}
	return nil
}
