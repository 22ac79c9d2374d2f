package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

func newThanksCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:     "thanks",
		Aliases: []string{"debug-project", "th"},
		Short:   "List the debug project hall of fame",
		Example: `  jmf thanks
  jmf thanks --user ea36c8d8aa30 -o json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			out, err := fetch[api.DebugProjectRecords](cmd, rt, api.DebugProjectRecordsRequest())
			if err != nil {
				return err
			}
			records := out.Records
			if user != "" {
				kept := records[:0]
				for _, r := range records {
					if r.UserSlug == user || r.UserName == user {
						kept = append(kept, r)
					}
				}
				records = kept
			}

			return printList(cmd, records, "No records found.",
				[]string{"ID", "DATE", "TYPE", "MODULE", "USER", "REWARD", "DESCRIPTION"},
				func(r api.DebugProjectRecord) []string {
					return []string{strconv.Itoa(r.ID), r.Date, r.Type, r.Module, r.UserName, fmt.Sprintf("%.0f", r.Reward), r.Description}
				})
		}),
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Only records of this user (slug or name)")
	return cmd
}
