package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/history"
)

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs and per-check timings",
	Long: `Show runs recorded with "restcheck run --history" and the average,
slowest and latest execution time of every check.

Examples:
  restcheck history --db restcheck.db
  restcheck history --db restcheck.db --limit 20`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("RESTCHECK_HISTORY", "restcheck.db"), "SQLite history database (env: RESTCHECK_HISTORY)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "l", getEnvInt("RESTCHECK_HISTORY_LIMIT", 10), "Number of runs to show (env: RESTCHECK_HISTORY_LIMIT)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyDBFlag)
	if err != nil {
		return exitWith(ExitConfigError, err)
	}
	defer store.Close()

	ctx := cmd.Context()
	runs, err := store.Recent(ctx, historyLimitFlag)
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded in %s\n", historyDBFlag)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tPASSED\tFAILED\tERRORED\tSKIPPED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%dms\t%d\t%d\t%d\t%d\n",
			r.ID, humanize.Time(r.Start), r.Duration.Milliseconds(), r.Passed, r.Failed, r.Errored, r.Skipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tRUNS\tAVG\tMAX\tLAST")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%dms\t%dms\t%dms\n",
			s.Name, humanize.Comma(int64(s.Runs)), s.Average.Milliseconds(), s.Max.Milliseconds(), s.Last.Milliseconds())
	}
	return tw.Flush()
}
