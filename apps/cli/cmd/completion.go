package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
	"github.com/abdul-hamid-achik/restcheck/packages/reqres"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for restcheck.

Besides commands and flags, the script completes check names for
"run --name", tags for "run --tags" and severities for "run --severity".

Examples:
  source <(restcheck completion bash)
  restcheck completion zsh > "${fpath[1]}/_restcheck"
  restcheck completion fish | source
  restcheck completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(out, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		default:
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func completeCheckNames(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, t := range reqres.Tests() {
		if strings.HasPrefix(t.Name, toComplete) {
			names = append(names, t.Name+"\t"+t.Description)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeTags(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var tags []string
	for _, t := range reqres.Tests() {
		for _, tag := range t.Tags {
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	return completeList(tags, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeSeverities(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range suite.Severities() {
		names = append(names, s.String())
	}
	return completeList(names, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeList completes the last item of a comma-separated value, skipping
// items already given.
func completeList(candidates []string, toComplete string) []string {
	done, last := "", toComplete
	if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	given := splitList(done)

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, last) && !slices.Contains(given, c) {
			out = append(out, done+c)
		}
	}
	return out
}
