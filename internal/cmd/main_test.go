package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/jmf-tools/jmf-cli/internal/config"
)

func TestMain(m *testing.M) {
	// A shell JMF_OUTPUT must not change what tests see.
	_ = os.Setenv("JMF_OUTPUT", "text")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
