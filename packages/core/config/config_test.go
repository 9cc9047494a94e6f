package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://reqres.in/api/users/", cfg.BaseURI)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetBail())
	assert.Equal(t, []string{"console"}, cfg.Reporters)
	assert.NoError(t, cfg.Validate())
}

func TestGetBool_NilDefaults(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".restcheck.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"baseUri": "http://localhost:8080/api/users/",
		"defaultTimeoutMs": 5000,
		"defaultQueryParams": {"page": 2},
		"bail": true
	}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/users/", cfg.BaseURI)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, float64(2), cfg.DefaultQueryParams["page"])
	assert.True(t, cfg.GetBail())
	// defaults survive fields the file leaves out
	assert.Equal(t, 10, cfg.MaxRedirects)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUri: https://reqres.in/api/users/
defaultTimeoutMs: 2500
defaultQueryParams:
  page: 2
headers:
  X-Api-Key: reqres-free-v1
reporters: [console, junit]
rateLimit: 5
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.DefaultTimeoutMs)
	assert.Equal(t, 2, cfg.DefaultQueryParams["page"])
	assert.Equal(t, "reqres-free-v1", cfg.Headers["X-Api-Key"])
	assert.Equal(t, []string{"console", "junit"}, cfg.Reporters)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseUri":`), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestFindAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".restcheck.yml"), []byte("baseUri: http://127.0.0.1:9000/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restcheck.json"), []byte(`{"baseUri": "http://127.0.0.1:9001/"}`), 0644))

	assert.Equal(t, filepath.Join(dir, "restcheck.json"), FindConfigFile(dir))
	cfg, err = FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9001/", cfg.BaseURI)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseURI:   "http://localhost:7070/api/users/",
		EnvTimeoutMs: "1500",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "http://localhost:7070/api/users/", cfg.BaseURI)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())

	env[EnvTimeoutMs] = "soon"
	err := cfg.ApplyEnv(lookup)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty base", mutate: func(c *Config) { c.BaseURI = " " }},
		{name: "bad scheme", mutate: func(c *Config) { c.BaseURI = "ftp://reqres.in" }},
		{name: "negative timeout", mutate: func(c *Config) { c.DefaultTimeoutMs = -1 }},
		{name: "negative redirects", mutate: func(c *Config) { c.MaxRedirects = -1 }},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -2 }},
		{name: "unknown reporter", mutate: func(c *Config) { c.Reporters = []string{"tap"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "1"}
	base.DefaultQueryParams = map[string]any{"page": 2}

	other := &Config{
		DefaultTimeoutMs:   100,
		Headers:            map[string]string{"B": "2"},
		DefaultQueryParams: map[string]any{"delay": 1},
		Bail:               BoolPtr(true),
		Reporters:          []string{"json"},
	}

	merged := base.Merge(other)

	assert.Equal(t, base.BaseURI, merged.BaseURI)
	assert.Equal(t, 100, merged.DefaultTimeoutMs)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.Equal(t, map[string]any{"page": 2, "delay": 1}, merged.DefaultQueryParams)
	assert.True(t, merged.GetBail())
	assert.Equal(t, []string{"json"}, merged.Reporters)

	// receiver untouched
	assert.Equal(t, "1", base.Headers["B"])
	assert.False(t, base.GetBail())
	assert.Same(t, base, base.Merge(nil))
}

func TestRequestSpec(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultQueryParams = map[string]any{"page": 2}

	spec, err := cfg.RequestSpec()
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseURI, spec.BaseURI())
	assert.Equal(t, map[string]string{"page": "2"}, spec.QueryParams())

	assert.NotEmpty(t, cfg.ClientOptions())
}

func TestRequestSpec_LargeIntegerFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".restcheck.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaultQueryParams": {"since": 1700000000, "ratio": 0.25}}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	spec, err := cfg.RequestSpec()
	require.NoError(t, err)
	assert.Equal(t, "1700000000", spec.QueryParams()["since"])
	assert.Equal(t, "0.25", spec.QueryParams()["ratio"])
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.History = "restcheck.db"

			require.NoError(t, cfg.SaveConfig(path))
			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "restcheck.db", loaded.History)
			assert.Equal(t, cfg.BaseURI, loaded.BaseURI)
		})
	}
}
