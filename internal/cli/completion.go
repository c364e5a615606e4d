package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plotline.

Bash:
  $ source <(plotline completion bash)

Zsh:
  $ plotline completion zsh > "${fpath[1]}/_plotline"

Fish:
  $ plotline completion fish > ~/.config/fish/completions/plotline.fish

PowerShell:
  PS> plotline completion powershell | Out-String | Invoke-Expression

Scene arguments complete to .toml files and --item to the items of the
scene already on the command line.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// completeScene completes the scene argument to TOML files.
func completeScene(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeItems completes --item to the item names of the scene argument.
func (c *CLI) completeItems(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	_, tl, err := c.loadScene(cmd.Context(), args[0], 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, len(tl.Items))
	for i, it := range tl.Items {
		names[i] = it.Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
