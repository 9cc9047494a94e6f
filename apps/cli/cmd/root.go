package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	logLevelFlag  string
	logFormatFlag string

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "restcheck",
	Short: "Assertion checks for REST APIs",
	Long: `restcheck runs a suite of HTTP checks against a REST API and reports
every expectation that did not hold.

The built-in suite targets the reqres.in users API. Point it elsewhere with
--base-uri or a .restcheck.yaml file, or start the bundled fake with
"restcheck mock".`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitUsageError
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevelFlag)
	if err != nil {
		return exitWith(ExitUsageError, fmt.Errorf("invalid --log-level: %w", err))
	}
	logger.SetLevel(level)
	logger.SetOutput(cmd.ErrOrStderr())

	switch strings.ToLower(logFormatFlag) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return exitWith(ExitUsageError, fmt.Errorf("invalid --log-format %q (use text or json)", logFormatFlag))
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("RESTCHECK_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error (env: RESTCHECK_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", getEnvString("RESTCHECK_LOG_FORMAT", "text"), "Log format: text or json (env: RESTCHECK_LOG_FORMAT)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
