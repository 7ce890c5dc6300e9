package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/pkg/config"
	"github.com/matzehuels/feyndraw/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for feyndraw.

Besides subcommands, the scripts complete .tex arguments of format, check
and render, and the values of render --format and --view.

  $ source <(feyndraw completion bash)
  $ feyndraw completion zsh > "${fpath[1]}/_feyndraw"
  $ feyndraw completion fish > ~/.config/fish/completions/feyndraw.fish
  PS> feyndraw completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeTeX limits file completion to diagram documents.
func completeTeX(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"tex"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last item of a comma-separated format list,
// skipping formats already named.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	named := parseFormats(prefix)

	var out []string
	for _, f := range config.Formats {
		if strings.HasPrefix(f, last) && !slices.Contains(named, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeViews(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{pipeline.ViewScene, pipeline.ViewTopology}, cobra.ShellCompDirectiveNoFileComp
}
