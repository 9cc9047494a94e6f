package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/core/config"
)

var (
	forceInit      bool
	initFormatFlag string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with the default settings to the current directory.

This creates .restcheck.yaml (or .restcheck.json with --format json). The
reqres.in API expects an x-api-key header; add it under headers.

Examples:
  restcheck init
  restcheck init --format json --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
	initCmd.Flags().StringVar(&initFormatFlag, "format", "yaml", "Config format: yaml or json")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	var name string
	switch initFormatFlag {
	case "yaml", "yml":
		name = ".restcheck.yaml"
	case "json":
		name = ".restcheck.json"
	default:
		return exitWith(ExitUsageError, fmt.Errorf("invalid --format %q (use yaml or json)", initFormatFlag))
	}

	path := filepath.Join(cwd, name)
	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := config.DefaultConfig()
	cfg.DefaultQueryParams = map[string]any{}
	cfg.Headers = map[string]string{"User-Agent": "restcheck/" + version}
	if err := cfg.SaveConfig(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
