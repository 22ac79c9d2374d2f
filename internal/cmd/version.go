package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/iocontext"
	"github.com/jmf-tools/jmf-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// versionInfo is the structured form of `jmf version`.
type versionInfo struct {
	Version string              `json:"version"`
	Update  *update.CheckResult `json:"update,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Long:    "Print the CLI version. Release builds also look up the latest release on GitHub.",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{Version: version}
			if !skipCheck {
				info.Update = update.CheckForUpdate(cmd.Context(), version)
			}
			if structured(cmd) {
				return printJSON(cmd, info)
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			_, _ = fmt.Fprintf(ioStreams.Out, "jmf version %s\n", info.Version)
			if u := info.Update; u != nil && u.UpdateAvailable {
				_, _ = fmt.Fprintf(ioStreams.ErrOut, "\nUpdate available: %s -> %s\nDownload: %s\n",
					u.CurrentVersion, u.LatestVersion, u.UpdateURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipCheck, "no-update-check", false, "Do not look up the latest release")
	return cmd
}
