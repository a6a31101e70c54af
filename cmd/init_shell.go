package cmd

import (
	"strings"

	"github.com/chris-regnier/daybook/internal/shell"
	"github.com/spf13/cobra"
)

var initShellCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Output shell integration script",
	Long: `Output shell integration script for eval.

Generates shell-specific initialization code that sets up:
- Shell completions
- Prompt hook exporting the DAYBOOK_* status variables
- daybook_prompt_info helper function

Supported shells: ` + strings.Join(shell.Shells, ", "),
	Example: `  # Add to ~/.bashrc
  eval "$(daybook init bash)"

  # Add to ~/.zshrc
  eval "$(daybook init zsh)"

  # Add to ~/.config/fish/config.fish
  daybook init fish | source`,
	Args:        cobra.ExactArgs(1),
	ValidArgs:   shell.Shells,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := shell.WriteInit(cmd.OutOrStdout(), args[0]); err != nil {
			return invalidf("%v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initShellCmd)
}
