package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jmf-tools/jmf-cli/internal/validation"
)

const (
	appName = "jmf"

	DefaultBaseURL = "http://localhost:8902"
	DefaultTimeout = 5 * time.Second
	DefaultOutput  = "text"

	// DefaultCacheTTL is how long a cached payload counts as fresh.
	DefaultCacheTTL = 5 * time.Minute

	CacheFile  = "file"
	CacheRedis = "redis"
	CacheOff   = "off"
)

// Environment variables read by Load.
const (
	EnvBaseURL       = "JMF_BASE_URL"
	EnvTimeout       = "JMF_TIMEOUT"
	EnvOutput        = "JMF_OUTPUT"
	EnvCache         = "JMF_CACHE"
	EnvRedisURL      = "JMF_REDIS_URL"
	EnvRedisPassword = "JMF_REDIS_PASSWORD"
	EnvNoCache       = "JMF_NO_CACHE"
	EnvCacheTTL      = "JMF_CACHE_TTL"
	EnvRateLimit     = "JMF_RATE_LIMIT"
	EnvConfig        = "JMF_CONFIG"
)

var userConfigDir = os.UserConfigDir

// Config holds the resolved settings.
type Config struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	Output    string        `yaml:"output" json:"output"`
	Cache     string        `yaml:"cache" json:"cache"`
	CacheTTL  time.Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
	RedisURL  string        `yaml:"redis_url,omitempty" json:"redis_url,omitempty"`
	RateLimit string        `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`

	// Path is the config file that was read, empty if none existed.
	Path string `yaml:"-" json:"path,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Output:   DefaultOutput,
		Cache:    CacheFile,
		CacheTTL: DefaultCacheTTL,
	}
}

// Dir returns the configuration directory ("$XDG_CONFIG_HOME/jmf" or equivalent).
func Dir() (string, error) {
	base, err := userConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", errors.Join(err, herr))
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// DefaultPath returns the config file path, honouring JMF_CONFIG.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadDotEnv loads the .env file from the config directory. Variables that
// are already set are left untouched. A missing file is not an error.
func LoadDotEnv() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load resolves settings from defaults, the config file at path and the
// environment, in increasing order of precedence. An empty path means
// DefaultPath. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	fileCfg, found, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	if found {
		cfg.merge(fileCfg)
		cfg.Path = path
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string) (Config, bool, error) {
	var cfg Config
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, true, nil
}

// merge overlays the non-zero fields of other.
func (c *Config) merge(other Config) {
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		c.Timeout = other.Timeout
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.Cache != "" {
		c.Cache = other.Cache
	}
	if other.CacheTTL > 0 {
		c.CacheTTL = other.CacheTTL
	}
	if other.RedisURL != "" {
		c.RedisURL = other.RedisURL
	}
	if other.RateLimit != "" {
		c.RateLimit = other.RateLimit
	}
}

func (c *Config) applyEnv() error {
	var env Config
	env.BaseURL = firstNonBlankEnv(EnvBaseURL)
	if raw := firstNonBlankEnv(EnvTimeout); raw != "" {
		d, err := ParseTimeout(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		env.Timeout = d
	}
	env.Output = firstNonBlankEnv(EnvOutput)
	env.Cache = firstNonBlankEnv(EnvCache)
	if raw := firstNonBlankEnv(EnvCacheTTL); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s: invalid cache TTL %q", EnvCacheTTL, raw)
		}
		env.CacheTTL = d
	}
	env.RedisURL = firstNonBlankEnv(EnvRedisURL)
	env.RateLimit = firstNonBlankEnv(EnvRateLimit)
	c.merge(env)

	if firstNonBlankEnv(EnvNoCache) != "" {
		c.Cache = CacheOff
	}
	return nil
}

// ParseTimeout accepts a Go duration ("750ms", "5s") or a bare number of
// milliseconds.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %q", raw)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q", raw)
	}
	return d, nil
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if err := validation.ValidateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Output {
	case "text", "json", "jsonl":
	default:
		return fmt.Errorf("invalid output %q: expected text, json or jsonl", c.Output)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL)
	}
	switch c.Cache {
	case CacheFile, CacheOff:
	case CacheRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("cache %q requires redis_url (or %s)", CacheRedis, EnvRedisURL)
		}
	default:
		return fmt.Errorf("invalid cache %q: expected file, redis or off", c.Cache)
	}
	return nil
}

// Save writes the file-backed settings to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
