package cmd

import (
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/cli"
	"github.com/jmf-tools/jmf-cli/internal/resolve"
	"github.com/jmf-tools/jmf-cli/internal/update"
)

// ToolRow is one line of the tool status table.
type ToolRow struct {
	Tool   string         `json:"tool"`
	Status api.ToolStatus `json:"status"`
}

// StatusInfo is the output of jmf status.
type StatusInfo struct {
	BaseURL         string    `json:"base_url"`
	ServerVersion   string    `json:"server_version"`
	Supported       bool      `json:"supported"`
	CompatNote      string    `json:"compat_note,omitempty"`
	Tools           []ToolRow `json:"tools"`
	CLIVersion      string    `json:"cli_version"`
	GoVersion       string    `json:"go_version"`
	Platform        string    `json:"platform"`
	ServerReachable *bool     `json:"server_reachable,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:     "status [tool]",
		Aliases: []string{"st"},
		Short:   "Show service status, or the status of one tool",
		Long: `Without arguments, show the API version and the availability of every tool.

With a tool name, show that tool's status and data metadata. The name is
matched fuzzily, so "lottery" or "wordcloud" are enough when unambiguous.`,
		Example: `  jmf status
  jmf status --ping
  jmf status VIP-info-viewer
  jmf status wordcloud -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if len(args) == 1 {
				return runToolStatus(cmd, rt, args[0])
			}

			info := StatusInfo{
				BaseURL:    rt.cfg.BaseURL,
				CLIVersion: version,
				GoVersion:  runtime.Version(),
				Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			}
			if ping {
				ok, _ := rt.client.HealthCheck(cmd.Context())
				info.ServerReachable = &ok
				if !ok {
					return printStatus(cmd, info)
				}
			}

			status, err := fetch[api.Status](cmd, rt, api.StatusRequest())
			if err != nil {
				return err
			}
			compat := update.CheckServerCompat(status.Version)
			info.ServerVersion = status.Version
			info.Supported = compat.Supported
			info.CompatNote = compat.Reason
			for _, tool := range api.Tools {
				info.Tools = append(info.Tools, ToolRow{Tool: tool, Status: status.ToolStatus(tool)})
			}
			return printStatus(cmd, info)
		}),
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Check if the API server is reachable")
	flagAlias(cmd.Flags(), "ping", "pg")
	return cmd
}

func printStatus(cmd *cobra.Command, info StatusInfo) error {
	if structured(cmd) {
		return printJSON(cmd, info)
	}

	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintf(w, "Base URL:\t%s\n", info.BaseURL)
	if info.ServerReachable != nil {
		if *info.ServerReachable {
			_, _ = fmt.Fprintf(w, "Server:\t%s\n", green("reachable"))
		} else {
			_, _ = fmt.Fprintf(w, "Server:\t%s\n", red("unreachable"))
		}
	}
	if info.ServerVersion != "" {
		_, _ = fmt.Fprintf(w, "API Version:\t%s\n", info.ServerVersion)
	}
	if info.CompatNote != "" {
		_, _ = fmt.Fprintf(w, "Compatibility:\t%s\n", yellow(info.CompatNote))
	}
	_, _ = fmt.Fprintf(w, "CLI Version:\t%s (%s, %s)\n", info.CLIVersion, info.GoVersion, info.Platform)

	if len(info.Tools) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "TOOL\tSTATUS")
		for _, row := range info.Tools {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", row.Tool, toolStatusText(row.Status))
		}
	}
	return nil
}

func runToolStatus(cmd *cobra.Command, rt *session, query string) error {
	tool, err := resolve.Name(query, api.Tools)
	if err != nil {
		return err
	}

	info, err := fetch[api.ToolStatusInfo](cmd, rt, api.ToolStatusRequest(tool))
	if err != nil {
		return err
	}

	if structured(cmd) {
		return printJSON(cmd, struct {
			Tool string `json:"tool"`
			api.ToolStatusInfo
		}{tool, info})
	}

	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintf(w, "Tool:\t%s\n", tool)
	_, _ = fmt.Fprintf(w, "Status:\t%s\n", toolStatusText(info.Status))
	if info.Reason != "" {
		_, _ = fmt.Fprintf(w, "Reason:\t%s\n", info.Reason)
	}
	if info.LastUpdateTime != 0 {
		_, _ = fmt.Fprintf(w, "Last Update:\t%s\n", cli.FormatUnix(info.LastUpdateTime))
	}
	if info.DataUpdateFreq != "" {
		_, _ = fmt.Fprintf(w, "Update Frequency:\t%s\n", info.DataUpdateFreq)
	}
	if info.DataCount != 0 {
		_, _ = fmt.Fprintf(w, "Records:\t%d\n", info.DataCount)
	}
	if len(info.DataSource) > 0 {
		sources := make([]string, 0, len(info.DataSource))
		for name, url := range info.DataSource {
			sources = append(sources, name+" "+url)
		}
		slices.Sort(sources)
		_, _ = fmt.Fprintf(w, "Data Sources:\t%s\n", strings.Join(sources, ", "))
	}
	return nil
}
