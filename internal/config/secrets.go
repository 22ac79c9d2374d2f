package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"

	"github.com/jmf-tools/jmf-cli/internal/iocontext"
)

const (
	serviceName      = "jmf"
	redisPasswordKey = "redis_password"

	envKeyringBackend  = "JMF_KEYRING_BACKEND"
	envKeyringPassword = "JMF_KEYRING_PASSWORD"
)

// keyringMode selects which keyring backends may be used.
type keyringMode string

const (
	keyringAuto   keyringMode = "auto"
	keyringFile   keyringMode = "file"
	keyringSystem keyringMode = "system"
)

func parseKeyringMode(s string) keyringMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return keyringFile
	case "system", "os", "native":
		return keyringSystem
	default:
		return keyringAuto
	}
}

// fileOnly reports whether the encrypted file backend is the only option.
// Linux without a session bus has no secret service to talk to.
func (m keyringMode) fileOnly(goos, dbusAddr string) bool {
	switch m {
	case keyringFile:
		return true
	case keyringAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	default:
		return false
	}
}

var openKeyring = keyring.Open

var interactive = func() bool { return iocontext.IsTerminal(os.Stdin) }

// SetOpenKeyring swaps the keyring opener and returns a func restoring it.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	prev := openKeyring
	openKeyring = fn
	return func() { openKeyring = prev }
}

func keyringConfig() keyring.Config {
	mode := parseKeyringMode(os.Getenv(envKeyringBackend))
	cfg := keyring.Config{ServiceName: serviceName}
	if mode == keyringSystem {
		return cfg
	}

	// auto keeps the file backend configured as a fallback for keyring.Open.
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
	if mode.fileOnly(runtime.GOOS, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringFileDir() string {
	dir, err := Dir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(dir, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if pw := os.Getenv(envKeyringPassword); strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if !interactive() {
		return "", fmt.Errorf("set %s to use the file keyring without a terminal", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func withKeyring(fn func(keyring.Keyring) error) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	return fn(ring)
}

// SaveRedisPassword stores the Redis password in the keyring.
func SaveRedisPassword(password string) error {
	if password == "" {
		return errors.New("password is empty")
	}
	return withKeyring(func(ring keyring.Keyring) error {
		item := keyring.Item{Key: redisPasswordKey, Data: []byte(password), Label: "jmf redis cache password"}
		if err := ring.Set(item); err != nil {
			return fmt.Errorf("failed to save redis password: %w", err)
		}
		return nil
	})
}

// LoadRedisPassword returns the Redis password. JMF_REDIS_PASSWORD wins
// over the keyring; a missing entry yields "" and no error.
func LoadRedisPassword() (string, error) {
	if pw := os.Getenv(EnvRedisPassword); pw != "" {
		return pw, nil
	}
	var password string
	err := withKeyring(func(ring keyring.Keyring) error {
		item, err := ring.Get(redisPasswordKey)
		switch {
		case errors.Is(err, keyring.ErrKeyNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("failed to get redis password: %w", err)
		}
		password = string(item.Data)
		return nil
	})
	return password, err
}

// DeleteRedisPassword removes the stored Redis password. Removing a missing
// entry is not an error.
func DeleteRedisPassword() error {
	return withKeyring(func(ring keyring.Keyring) error {
		if err := ring.Remove(redisPasswordKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove redis password: %w", err)
		}
		return nil
	})
}

// RedisURLWithPassword puts password into rawURL's userinfo, keeping any
// username. A URL that already carries a password is returned unchanged.
func RedisURLWithPassword(rawURL, password string) (string, error) {
	if password == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid redis URL: %w", err)
	}
	var user string
	if u.User != nil {
		if _, has := u.User.Password(); has {
			return rawURL, nil
		}
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, password)
	return u.String(), nil
}
