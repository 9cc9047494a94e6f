package config

// DefaultBaseURI is the public reqres.in users endpoint the suite targets.
const DefaultBaseURI = "https://reqres.in/api/users/"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURI:          DefaultBaseURI,
		DefaultTimeoutMs: 30000, // 30 seconds
		FollowRedirects:  BoolPtr(true),
		MaxRedirects:     10,
		ValidateSSL:      BoolPtr(true),
		Reporters:        []string{"console"},
		Bail:             BoolPtr(false),
		Verbose:          BoolPtr(false),
		NoColor:          BoolPtr(false),
	}
}
