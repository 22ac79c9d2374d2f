package config

import "time"

// Overrides are settings given on the command line. Zero values leave the
// loaded setting in place.
type Overrides struct {
	BaseURL   string
	Timeout   time.Duration
	Output    string
	NoCache   bool
	RateLimit string
}

// Resolve loads the config file and environment from path and applies
// overrides on top.
func Resolve(path string, o Overrides) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	return cfg.WithOverrides(o)
}

// WithOverrides returns a copy of c with the overrides applied and validated.
func (c Config) WithOverrides(o Overrides) (Config, error) {
	c.merge(Config{
		BaseURL:   o.BaseURL,
		Timeout:   o.Timeout,
		Output:    o.Output,
		RateLimit: o.RateLimit,
	})
	if o.NoCache {
		c.Cache = CacheOff
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
