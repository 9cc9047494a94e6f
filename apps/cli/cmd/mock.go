package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/restcheck/packages/mock"
)

var (
	mockPortFlag    int
	mockDelayFlag   string
	mockVerboseFlag bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Start a fake reqres users API",
	Long: `Start an HTTP server that answers like the reqres.in users API, so the
suite can run without network access.

The mock server:
- Serves the twelve reqres users, six per page
- Echoes POST, PUT and PATCH bodies with ids and timestamps
- Registers known users and returns a token
- Can add artificial delays to simulate network latency

Examples:
  restcheck mock
  restcheck mock --port 3000 --delay 100ms
  restcheck run --base-uri http://localhost:3000/api/users/`,
	Args: cobra.NoArgs,
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", getEnvInt("RESTCHECK_MOCK_PORT", 3000), "Port to run the mock server on (env: RESTCHECK_MOCK_PORT)")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Log every request")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return exitWith(ExitUsageError, fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err))
		}
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithVerbose(mockVerboseFlag),
		mock.WithLogger(logger),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d users at http://localhost:%d/api/users/\n", len(mock.Users()), mockPortFlag)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down mock server...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return server.StartWithContext(ctx)
}
