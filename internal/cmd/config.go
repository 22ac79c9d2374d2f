package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/config"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage CLI configuration",
		Long: `Settings are resolved from defaults, the config file, .env and JMF_*
environment variables, then command-line flags, each overriding the last.`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigRedisPasswordCmd())
	return cmd
}

// configView is the printable form of the resolved settings.
type configView struct {
	BaseURL   string `json:"base_url"`
	Timeout   string `json:"timeout"`
	Output    string `json:"output"`
	Cache     string `json:"cache"`
	CacheTTL  string `json:"cache_ttl"`
	RedisURL  string `json:"redis_url,omitempty"`
	RateLimit string `json:"rate_limit,omitempty"`
	Path      string `json:"path,omitempty"`
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"get"},
		Short:   "Show the resolved settings",
		Example: `  jmf config show
  JMF_TIMEOUT=10s jmf config show -o json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			view := configView{
				BaseURL:   cfg.BaseURL,
				Timeout:   cfg.Timeout.String(),
				Output:    cfg.Output,
				Cache:     cfg.Cache,
				CacheTTL:  cfg.CacheTTL.String(),
				RedisURL:  cfg.RedisURL,
				RateLimit: cfg.RateLimit,
				Path:      cfg.Path,
			}
			if structured(cmd) {
				return printJSON(cmd, view)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "Base URL:\t%s\n", view.BaseURL)
			_, _ = fmt.Fprintf(w, "Timeout:\t%s\n", view.Timeout)
			_, _ = fmt.Fprintf(w, "Output:\t%s\n", view.Output)
			_, _ = fmt.Fprintf(w, "Cache:\t%s (ttl %s)\n", view.Cache, view.CacheTTL)
			if view.RedisURL != "" {
				_, _ = fmt.Fprintf(w, "Redis URL:\t%s\n", view.RedisURL)
			}
			if view.RateLimit != "" {
				_, _ = fmt.Fprintf(w, "Rate Limit:\t%s\n", view.RateLimit)
			}
			file := view.Path
			if file == "" {
				file = "(none)"
			}
			_, _ = fmt.Fprintf(w, "Config File:\t%s\n", file)
			return nil
		}),
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, path)
			return nil
		}),
	}
}

// configPath is --config, JMF_CONFIG or the default location.
func configPath() (string, error) {
	if flags.Config != "" {
		return flags.Config, nil
	}
	if p := strings.TrimSpace(os.Getenv(config.EnvConfig)); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved settings to the config file",
		Example: `  jmf config init --base-url https://jmf.example.com --timeout 10s
  jmf config init --force`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			cfg := configFromContext(cmd.Context())
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Wrote %s\n", path)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newConfigRedisPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redis-password",
		Short: "Manage the Redis cache password in the OS keyring",
	}

	var fromStdin bool
	setCmd := &cobra.Command{
		Use:   "set [password]",
		Short: "Store the Redis password",
		Example: `  jmf config redis-password set          # prompts on a terminal
  echo s3cret | jmf config redis-password set --stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			streams := iocontext.GetIO(cmd.Context())
			var password string
			switch {
			case fromStdin && len(args) == 1:
				return fmt.Errorf("cannot use both a password argument and --stdin")
			case len(args) == 1:
				password = args[0]
			case fromStdin || iocontext.IsTerminal(streams.In):
				p, err := streams.ReadSecret("Redis password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = p
			default:
				return fmt.Errorf("a password argument or --stdin is required")
			}
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}
			if err := config.SaveRedisPassword(password); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Redis password saved.\n")
			return nil
		}),
	}
	setCmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the password from stdin")

	clearCmd := &cobra.Command{
		Use:     "clear",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove the stored Redis password",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteRedisPassword(); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Redis password removed.\n")
			return nil
		}),
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}
