package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for tsheet.

Commands, flags and project names (for edit --project, comments and
projects rename/rm) are completed.

Bash:
  source <(tsheet completion bash)
  tsheet completion bash > ~/.local/share/bash-completion/completions/tsheet

Zsh:
  mkdir -p ~/.zsh/completion
  tsheet completion zsh > ~/.zsh/completion/_tsheet
  # with fpath=(~/.zsh/completion $fpath) and compinit in ~/.zshrc

Fish:
  tsheet completion fish > ~/.config/fish/completions/tsheet.fish

PowerShell:
  tsheet completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: shells(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

var completionGenerators = map[string]func(w io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

func shells() []string {
	return []string{"bash", "zsh", "fish", "powershell"}
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion writes the completion script of shell to stdout
func generateCompletion(shell string) {
	gen, ok := completionGenerators[shell]
	if !ok {
		fail(fmt.Sprintf("Unsupported shell '%s'", shell), nil, "Supported shells: "+strings.Join(shells(), ", "))
		return
	}

	if err := gen(deps.Stdout); err != nil {
		fail(fmt.Sprintf("Failed to generate %s completion", shell), err, "")
	}
}
