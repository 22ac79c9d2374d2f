package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/config"
	"github.com/jmf-tools/jmf-cli/internal/debug"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
	"github.com/jmf-tools/jmf-cli/internal/notify"
	"github.com/jmf-tools/jmf-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output    string
	JSON      bool
	Query     string
	JQ        string
	Template  string
	Compact   bool
	Color     string
	Debug     bool
	Quiet     bool
	Silent    bool
	Timeout   time.Duration
	BaseURL   string
	NoCache   bool
	RateLimit string
	Config    string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call; tests rely on it.
var flags = rootFlags{Color: "auto"}

type configKey struct{}

// configFromContext returns the settings resolved for this invocation.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// .env is read before anything looks at the environment.
	if err := config.LoadDotEnv(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	flags = rootFlags{Color: "auto"}

	root := &cobra.Command{
		Use:   "jmf",
		Short: "Command-line client for the JMF (Jianshu Micro Features) tools API",
		Long: `jmf queries the JMF tools API: service and tool status, user lookups
(membership, lottery awards, article rank history), article analysis and the
debug project hall of fame.

Users can be given as a slug (ea36c8d8aa30) or a profile URL
(https://www.jianshu.com/u/ea36c8d8aa30); articles as a slug or /p/ URL.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // see explainUnknown
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ctx = debug.Setup(ctx, iocontext.GetIO(ctx).ErrOut, debug.OptionsFromEnv(flags.Debug))

			cfgPath := flags.Config
			if cfgPath == "" {
				cfgPath = strings.TrimSpace(os.Getenv(config.EnvConfig))
			}
			cfg, err := config.Resolve(cfgPath, config.Overrides{
				BaseURL:   flags.BaseURL,
				Timeout:   flags.Timeout,
				Output:    normalizeOutputFormat(flags.Output),
				NoCache:   flags.NoCache,
				RateLimit: flags.RateLimit,
			})
			if err != nil {
				return err
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)

			settings, err := outputSettings(cmd, cfg.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithSettings(ctx, settings)
			text := settings.Mode == outfmt.Text

			ioStreams := iocontext.GetIO(ctx)
			if flags.Silent || flags.Quiet {
				ioStreams = ioStreams.Silence(flags.Quiet && text)
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			tracker := &reportTracker{}
			if text {
				tracker.notifier = notify.New(ioStreams.ErrOut)
			}
			ctx = withReporter(ctx, tracker)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	baseIO := iocontext.GetIO(ctx)
	root.SetOut(baseIO.Out)
	root.SetErr(baseIO.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", "", "Output format: text|json|jsonl|ndjson (env JMF_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "jq expression to filter JSON output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.StringVar(&flags.Color, "color", flags.Color, "Color output: auto|always|never")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Per-request timeout (e.g. 5s, 1500ms; env JMF_TIMEOUT)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (env JMF_BASE_URL)")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Bypass the response cache (env JMF_NO_CACHE=1)")
	pf.StringVar(&flags.RateLimit, "rate-limit", "", "Maximum request rate, e.g. 5/s or 100/m (env JMF_RATE_LIMIT)")
	pf.StringVar(&flags.Config, "config", "", "Config file path (env JMF_CONFIG)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "timeout", "to")
	flagAlias(pf, "debug", "dbg")

	root.AddCommand(newStatusCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newArticleCmd())
	root.AddCommand(newThanksCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	at, err := root.ExecuteC()
	if err != nil && !errors.Is(err, errAlreadyHandled) {
		if at == nil {
			at = root
		}
		_, _ = fmt.Fprintln(root.ErrOrStderr(), explainUnknown(err, at))
	}
	return err
}

// outputSettings combines the configured format with --json, --jq and
// --template. A filter or template given without an explicit --output
// switches text output to JSON.
func outputSettings(cmd *cobra.Command, configured string) (outfmt.Settings, error) {
	output := normalizeOutputFormat(configured)
	explicit := flagOrAliasChanged(cmd, "output")
	if flags.JSON {
		if explicit && output != "json" {
			return outfmt.Settings{}, fmt.Errorf("--json conflicts with --output %s", output)
		}
		output = "json"
	}
	query := jqQuery()
	if (query != "" || flags.Template != "") && output == "text" {
		if explicit {
			return outfmt.Settings{}, fmt.Errorf("--jq/--template require --output json or jsonl (or --json)")
		}
		output = "json"
	}

	mode, err := outfmt.Parse(output)
	if err != nil {
		return outfmt.Settings{}, err
	}
	settings := outfmt.Settings{Mode: mode, Compact: flags.Compact, Query: query}
	if flags.Template != "" {
		if settings.Template, err = loadTemplate(flags.Template); err != nil {
			return outfmt.Settings{}, err
		}
	}
	return settings, nil
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
