package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
	"github.com/abdul-hamid-achik/restcheck/packages/reqres"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered checks",
	Long: `List the checks "restcheck run" would execute, with their story,
severity, tags and argument tuples.

Examples:
  restcheck list`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	reg := suite.NewRegistry()
	if err := reqres.RegisterTests(reg); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	story := ""
	for _, t := range reg.Tests() {
		if t.Story != story {
			story = t.Story
			fmt.Fprintf(w, "\n%s:\n", story)
		}
		fmt.Fprintf(w, "  - %s [%s]\n", t.Name, t.Severity)
		if t.Description != "" {
			fmt.Fprintf(w, "    %s\n", t.Description)
		}
		if len(t.Tags) > 0 {
			fmt.Fprintf(w, "    tags: %s\n", strings.Join(t.Tags, ", "))
		}
		params := t.Params
		if params == nil && t.DataProvider != nil {
			params = t.DataProvider()
		}
		for i, p := range params {
			fmt.Fprintf(w, "    %s[%d]: %v\n", t.Name, i, p)
		}
	}
	fmt.Fprintf(w, "\n%d checks\n", reg.Len())
	return nil
}
