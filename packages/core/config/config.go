package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/restcheck/packages/http"
)

// ErrInvalidConfig is matched by every error returned from Validate and
// ApplyEnv.
var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvBaseURI   = "RESTCHECK_BASE_URI"
	EnvTimeoutMs = "RESTCHECK_TIMEOUT_MS"
)

// Reporters understood by the run command.
var KnownReporters = []string{"console", "json", "junit"}

// Config represents the restcheck configuration
type Config struct {
	BaseURI            string            `json:"baseUri,omitempty" yaml:"baseUri,omitempty"`
	DefaultTimeoutMs   int               `json:"defaultTimeoutMs,omitempty" yaml:"defaultTimeoutMs,omitempty"`
	DefaultQueryParams map[string]any    `json:"defaultQueryParams,omitempty" yaml:"defaultQueryParams,omitempty"`
	Headers            map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	FollowRedirects    *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects       int               `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`
	ValidateSSL        *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	RateLimit          float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"` // requests per second, 0 disables
	Reporters          []string          `json:"reporters,omitempty" yaml:"reporters,omitempty"`
	OutputFile         string            `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
	History            string            `json:"history,omitempty" yaml:"history,omitempty"` // SQLite path, empty disables
	Bail               *bool             `json:"bail,omitempty" yaml:"bail,omitempty"`
	Verbose            *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor            *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// Timeout returns the default per-call timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DefaultTimeoutMs) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".restcheck.json",
	"restcheck.json",
	".restcheck.yaml",
	".restcheck.yml",
	"restcheck.yaml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	path := FindConfigFile(dir)
	if path == "" {
		return DefaultConfig(), nil
	}
	return loadConfigFromFile(path)
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// loadConfigFromFile decodes path on top of the defaults. Files ending in
// .yaml or .yml are YAML, anything else is JSON.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// ApplyEnv overrides fields from RESTCHECK_* variables found through lookup,
// which is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURI); ok && v != "" {
		c.BaseURI = v
	}
	if v, ok := lookup(EnvTimeoutMs); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvTimeoutMs, v)
		}
		c.DefaultTimeoutMs = ms
	}
	return nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURI) == "" {
		return fmt.Errorf("%w: baseUri is required", ErrInvalidConfig)
	}
	if err := http.ValidateURL(c.BaseURI); err != nil {
		return fmt.Errorf("%w: baseUri: %v", ErrInvalidConfig, err)
	}
	if c.DefaultTimeoutMs < 0 {
		return fmt.Errorf("%w: defaultTimeoutMs must not be negative", ErrInvalidConfig)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("%w: maxRedirects must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rateLimit must not be negative", ErrInvalidConfig)
	}
	for _, r := range c.Reporters {
		if !isKnownReporter(r) {
			return fmt.Errorf("%w: unknown reporter %q (want one of %s)", ErrInvalidConfig, r, strings.Join(KnownReporters, ", "))
		}
	}
	return nil
}

func isKnownReporter(name string) bool {
	for _, r := range KnownReporters {
		if r == name {
			return true
		}
	}
	return false
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseURI != "" {
		result.BaseURI = other.BaseURI
	}
	if other.DefaultTimeoutMs > 0 {
		result.DefaultTimeoutMs = other.DefaultTimeoutMs
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.History != "" {
		result.History = other.History
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	result.Headers = mergeMaps(c.Headers, other.Headers)
	result.DefaultQueryParams = mergeMaps(c.DefaultQueryParams, other.DefaultQueryParams)

	if len(other.Reporters) > 0 {
		result.Reporters = append([]string(nil), other.Reporters...)
	}

	return &result
}

func mergeMaps[V any](base, override map[string]V) map[string]V {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]V, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ClientOptions translates the transport settings into client options.
func (c *Config) ClientOptions() []http.ClientOption {
	opts := []http.ClientOption{
		http.WithTimeout(c.Timeout()),
		http.WithFollowRedirects(c.GetFollowRedirects()),
		http.WithValidateSSL(c.GetValidateSSL()),
		http.WithRateLimit(c.RateLimit),
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(c.MaxRedirects))
	}
	if c.Proxy != "" {
		opts = append(opts, http.WithProxy(c.Proxy))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, http.WithDefaultHeaders(c.Headers))
	}
	return opts
}

// RequestSpec builds the base request spec every suite starts from.
func (c *Config) RequestSpec(opts ...http.SpecOption) (*http.RequestSpec, error) {
	base := []http.SpecOption{http.WithQueryParams(c.DefaultQueryParams)}
	return http.NewRequestSpec(c.BaseURI, append(base, opts...)...)
}

// SaveConfig writes the configuration to path, as YAML when the extension
// asks for it and indented JSON otherwise.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
