package shell

import (
	"fmt"
	"io"
)

// Shells lists the shells WriteInit supports.
var Shells = []string{"bash", "zsh", "fish"}

// WriteInit writes the integration script for the named shell.
func WriteInit(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		fmt.Fprint(w, bashInit)
	case "zsh":
		fmt.Fprint(w, zshInit)
	case "fish":
		fmt.Fprint(w, fishInit)
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish)", shell)
	}
	return nil
}

const bashInit = `# daybook shell integration
__daybook_prompt_hook() {
  eval "$(command daybook status --env 2>/dev/null)"
}

daybook_prompt_info() {
  command daybook status 2>/dev/null
}

if [[ -z "$PROMPT_COMMAND" ]]; then
  PROMPT_COMMAND="__daybook_prompt_hook"
else
  PROMPT_COMMAND="__daybook_prompt_hook;${PROMPT_COMMAND}"
fi

eval "$(command daybook completion bash 2>/dev/null)"
`

const zshInit = `# daybook shell integration
__daybook_prompt_hook() {
  eval "$(command daybook status --env 2>/dev/null)"
}

daybook_prompt_info() {
  command daybook status 2>/dev/null
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd __daybook_prompt_hook

eval "$(command daybook completion zsh 2>/dev/null)"
`

const fishInit = `# daybook shell integration
function __daybook_prompt_hook --on-event fish_prompt
  command daybook status --env 2>/dev/null | string replace -r '^export ' 'set -gx ' | string replace '=' ' ' | source
end

function daybook_prompt_info
  command daybook status 2>/dev/null
end

command daybook completion fish 2>/dev/null | source
`
