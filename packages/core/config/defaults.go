package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:        30000, // 30 seconds
		ConnectTimeout: 10000, // 10 seconds
		Headers:        nil,
		Cookies:        "",
		Output:         "console",
		LogLevel:       "warn",
		Verbose:        BoolPtr(false),
		NoColor:        BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.ConnectTimeout == defaults.ConnectTimeout &&
		len(c.Headers) == 0 &&
		len(c.Variables) == 0 &&
		c.Cookies == defaults.Cookies &&
		c.History == defaults.History &&
		c.Output == defaults.Output &&
		c.LogLevel == defaults.LogLevel &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
