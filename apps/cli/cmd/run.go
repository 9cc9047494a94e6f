package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/core/config"
	"github.com/abdul-hamid-achik/restcheck/packages/core/suite"
	"github.com/abdul-hamid-achik/restcheck/packages/history"
	"github.com/abdul-hamid-achik/restcheck/packages/http"
	"github.com/abdul-hamid-achik/restcheck/packages/output"
	"github.com/abdul-hamid-achik/restcheck/packages/reqres"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reqres checks",
	Long: `Run the reqres users API checks and report every failed expectation.

Settings come from defaults, then a config file, then RESTCHECK_* environment
variables, then flags.

Request and response logging is written at the info level. --verbose raises
the default warn level to info; --log-level info shows it without the
verbose report.

Examples:
  restcheck run
  restcheck run --base-uri http://localhost:3000/api/users/
  restcheck run --tags auth
  restcheck run --name "validate*" -o junit --output-file report.xml
  restcheck run --severity critical --bail
  restcheck run --name validateStringAssertions -v
  restcheck run --history restcheck.db --watch`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	configFlag     string
	baseURIFlag    string
	timeoutFlag    int
	nameFlag       string
	tagsFlag       string
	severityFlag   string
	outputFlag     string
	outputFileFlag string
	verboseFlag    bool
	noColorFlag    bool
	bailFlag       bool
	rateFlag       float64
	historyFlag    string
	watchFlag      bool
)

func init() {
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("RESTCHECK_CONFIG", ""), "Path to config file (env: RESTCHECK_CONFIG)")
	runCmd.Flags().StringVar(&baseURIFlag, "base-uri", "", "Base URI of the users API (env: "+config.EnvBaseURI+")")
	runCmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "Per-request timeout in milliseconds (env: "+config.EnvTimeoutMs+")")

	// Selection flags
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only checks matching name pattern (* wildcard at either end)")
	runCmd.Flags().StringVarP(&tagsFlag, "tags", "t", getEnvString("RESTCHECK_TAGS", ""), "Run only checks with any of these tags (comma-separated) (env: RESTCHECK_TAGS)")
	runCmd.Flags().StringVar(&severityFlag, "severity", getEnvString("RESTCHECK_SEVERITY", ""), "Run only checks with these severities (comma-separated) (env: RESTCHECK_SEVERITY)")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("RESTCHECK_OUTPUT", ""), "Output format: console, json, junit (env: RESTCHECK_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("RESTCHECK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: RESTCHECK_OUTPUT_FILE)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("RESTCHECK_VERBOSE", false), "Verbose output (env: RESTCHECK_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("RESTCHECK_NO_COLOR", false), "Disable colored output (env: RESTCHECK_NO_COLOR)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("RESTCHECK_BAIL", false), "Stop on first failure (env: RESTCHECK_BAIL)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second, 0 for no limit")
	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("RESTCHECK_HISTORY", ""), "Record runs in this SQLite database (env: RESTCHECK_HISTORY)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when the config file changes")

	cobra.CheckErr(runCmd.RegisterFlagCompletionFunc("name", completeCheckNames))
	cobra.CheckErr(runCmd.RegisterFlagCompletionFunc("tags", completeTags))
	cobra.CheckErr(runCmd.RegisterFlagCompletionFunc("severity", completeSeverities))
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadRunConfig()
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	raiseLogLevel(cmd, cfg)

	code, err := runOnce(ctx, cmd, cfg)
	if err != nil {
		return exitWith(code, err)
	}

	if !watchFlag {
		if code != ExitSuccess {
			return exitWith(code, nil)
		}
		return nil
	}
	return watchConfig(ctx, cmd, cfgPath)
}

// loadRunConfig layers defaults, the config file, the environment and the
// flags, in that order. It returns the config file path, empty when none
// was found.
func loadRunConfig() (*config.Config, string, error) {
	path := configFlag
	if path == "" {
		path = config.FindConfigFile(".")
	}

	cfg := config.DefaultConfig()
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, "", err
	}

	flags := &config.Config{
		BaseURI:          baseURIFlag,
		DefaultTimeoutMs: timeoutFlag,
		RateLimit:        rateFlag,
		OutputFile:       outputFileFlag,
		History:          historyFlag,
	}
	if outputFlag != "" {
		flags.Reporters = []string{strings.ToLower(outputFlag)}
	}
	if bailFlag {
		flags.Bail = config.BoolPtr(true)
	}
	if verboseFlag {
		flags.Verbose = config.BoolPtr(true)
	}
	if noColorFlag {
		flags.NoColor = config.BoolPtr(true)
	}
	cfg = cfg.Merge(flags)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// raiseLogLevel lets verbose runs show the request and response logging,
// which is written at info. An explicit --log-level or RESTCHECK_LOG_LEVEL
// is left alone.
func raiseLogLevel(cmd *cobra.Command, cfg *config.Config) {
	if !cfg.GetVerbose() || cmd.Flags().Changed("log-level") || os.Getenv("RESTCHECK_LOG_LEVEL") != "" {
		return
	}
	if logger.GetLevel() < logrus.InfoLevel {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// runOnce runs the suite with cfg and returns the exit code. A non-nil error
// means the run could not start or its report could not be written.
func runOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (int, error) {
	base, err := cfg.RequestSpec()
	if err != nil {
		return ExitConfigError, err
	}

	severities, err := parseSeverities(severityFlag)
	if err != nil {
		return ExitUsageError, err
	}

	reg := suite.NewRegistry()
	if err := reqres.RegisterTests(reg); err != nil {
		return ExitConfigError, err
	}

	client := http.NewClient(append(cfg.ClientOptions(), http.WithLogger(logger))...)
	runner := suite.NewRunner(&suite.Config{
		Client:      client,
		RequestSpec: base,
		Logger:      logger,
		NameFilter:  nameFlag,
		TagsFilter:  splitList(tagsFlag),
		Severities:  severities,
		Bail:        cfg.GetBail(),
	})

	format := "console"
	if len(cfg.Reporters) > 0 {
		format = cfg.Reporters[0]
	}

	var out io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return ExitConfigError, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	// Timing lines must not corrupt a machine-readable report on stdout.
	timingOut := cmd.OutOrStdout()
	if format != "console" && cfg.OutputFile == "" {
		timingOut = cmd.ErrOrStderr()
	}
	runner.AfterTest(output.ExecutionTimeHook(timingOut))
	recorder := output.NewTimingRecorder()
	runner.AfterTest(recorder.Hook())

	formatter, err := output.New(format, output.Options{
		Writer:    out,
		Verbose:   cfg.GetVerbose(),
		NoColor:   cfg.GetNoColor(),
		SuiteName: "reqres",
	})
	if err != nil {
		return ExitUsageError, err
	}

	formatter.FormatHeader(version)
	result := runner.Run(ctx, reg)
	formatter.FormatResult(result)

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(result.Duration); err != nil {
			return ExitConfigError, fmt.Errorf("error writing output: %w", err)
		}
	}
	if cfg.GetVerbose() {
		recorder.WriteSummary(timingOut)
	}

	if cfg.History != "" {
		if err := recordHistory(ctx, cfg.History, result); err != nil {
			logger.WithError(err).Warn("failed to record history")
		}
	}

	return exitCode(result), nil
}

func parseSeverities(s string) ([]suite.Severity, error) {
	var out []suite.Severity
	for _, name := range splitList(s) {
		sev, err := suite.ParseSeverity(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sev)
	}
	return out, nil
}

func recordHistory(ctx context.Context, path string, result *suite.RunResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, result)
}

// exitCode maps a run to the process exit code. Unreachable API beats
// assertion failures.
func exitCode(result *suite.RunResult) int {
	for _, c := range result.Cases {
		if c.Status == suite.StatusErrored && errors.Is(c.Err, http.ErrTransport) {
			return ExitNetworkError
		}
	}
	if !result.OK() {
		return ExitTestFailure
	}
	return ExitSuccess
}

// watchConfig re-runs the suite whenever the config file is written. Without
// a config file there is nothing to watch.
func watchConfig(ctx context.Context, cmd *cobra.Command, path string) error {
	if path == "" {
		return exitWith(ExitUsageError, errors.New("--watch needs a config file"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	rerun := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			fmt.Fprintf(cmd.OutOrStdout(), "\n\nConfig changed: %s\nRe-running checks...\n\n", path)
			cfg, _, err := loadRunConfig()
			if err != nil {
				logger.WithError(err).Error("config reload failed, keeping watch")
				continue
			}
			if _, err := runOnce(ctx, cmd, cfg); err != nil {
				logger.WithError(err).Error("run failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}
