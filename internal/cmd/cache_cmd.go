package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/cache"
	"github.com/jmf-tools/jmf-cli/internal/config"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the response cache",
		Long: `Responses of list and lookup commands are cached so they can be shown
while the server is unreachable. The cache lives in files by default, or in
Redis with JMF_CACHE=redis.`,
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached responses for the current server",
		Example: `  jmf cache clear
  jmf cache clear --all`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if all {
				dir := resolveCacheDir()
				if dir == "" {
					return fmt.Errorf("could not determine cache directory")
				}
				if err := cache.ClearAll(dir); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				printIfNotQuiet(cmd, "Cache cleared: %s\n", dir)
				return nil
			}

			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.cache == nil {
				printIfNotQuiet(cmd, "Cache is disabled.\n")
				return nil
			}
			if err := rt.cache.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			printIfNotQuiet(cmd, "Cache cleared for %s (%s)\n", rt.cfg.BaseURL, rt.cfg.Cache)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every cache file, for all servers")
	return cmd
}

// cacheLocation describes where cached responses live.
type cacheLocation struct {
	Backend   string `json:"backend"`
	Location  string `json:"location"`
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"size_bytes"`
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache location",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			loc := cacheLocation{Backend: cfg.Cache, Location: cfg.RedisURL}
			if cfg.Cache != config.CacheRedis {
				loc.Location = resolveCacheDir()
				if loc.Location == "" {
					return fmt.Errorf("could not determine cache directory")
				}
				var err error
				if loc.Entries, loc.SizeBytes, err = cache.Usage(loc.Location); err != nil {
					return err
				}
			}
			if structured(cmd) {
				return printJSON(cmd, loc)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			_, _ = fmt.Fprintln(ioStreams.Out, loc.Location)
			if loc.Entries > 0 {
				_, _ = fmt.Fprintf(ioStreams.ErrOut, "%d entries, %d bytes\n", loc.Entries, loc.SizeBytes)
			}
			return nil
		}),
	}
}
