package cli

import (
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// completionGenerators maps shell names to cobra's script generators.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func newCompletionCommand() *cobra.Command {
	shells := lo.Keys(completionGenerators)

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kubesplit.

Bash:
  $ source <(kubesplit completion bash)
  $ kubesplit completion bash > /etc/bash_completion.d/kubesplit

Zsh:
  $ kubesplit completion zsh > "${fpath[1]}/_kubesplit"

Fish:
  $ kubesplit completion fish > ~/.config/fish/completions/kubesplit.fish

PowerShell:
  PS> kubesplit completion powershell | Out-String | Invoke-Expression
`,
		PersistentPreRunE: noConfig,
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         shells,
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}

	return cmd
}
