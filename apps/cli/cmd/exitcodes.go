package cmd

// Exit codes for restcheck CLI
const (
	// ExitSuccess indicates all checks passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more checks failed
	ExitTestFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a check could not reach the API
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
