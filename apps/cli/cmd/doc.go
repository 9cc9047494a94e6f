// Package cmd implements the restcheck CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the reqres checks and report failures
//   - list: Display every registered check
//   - mock: Serve a fake reqres users API
//   - history: Show recorded runs and timings
//   - init: Write a default config file
//   - version: Show restcheck version information
//
// Exit codes are listed in exitcodes.go.
package cmd
