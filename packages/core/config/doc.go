// Package config handles configuration loading and management for restcheck.
//
// It provides functionality for:
//   - Loading configuration from .restcheck.json or .restcheck.yaml files
//   - Default configuration values
//   - RESTCHECK_* environment overrides
//   - Building the HTTP client and suite request spec from a configuration
package config
