package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/cli"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/urlparse"
	"github.com/jmf-tools/jmf-cli/internal/validation"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users", "u"},
		Short:   "Look up Jianshu users",
		Long: `Look up membership, lottery awards and article rank history of a user.

A user is a slug (ea36c8d8aa30) or a profile URL. Rank commands also accept
--name to look a user up by display name.`,
	}

	cmd.AddCommand(newUserVIPCmd())
	cmd.AddCommand(newUserLotteryCmd())
	cmd.AddCommand(newUserRankCmd())
	cmd.AddCommand(newUserRankSummaryCmd())
	cmd.AddCommand(newUserHistoryNamesCmd())
	cmd.AddCommand(newUserAutocompleteCmd())
	cmd.AddCommand(newUserOverviewCmd())
	return cmd
}

// userRef resolves a positional user or --name into a reference.
func userRef(args []string, name string) (api.UserRef, error) {
	switch {
	case len(args) == 1 && name != "":
		return api.UserRef{}, fmt.Errorf("cannot use both a user argument and --name")
	case len(args) == 1:
		slug, err := urlparse.UserSlug(args[0])
		if err != nil {
			return api.UserRef{}, err
		}
		return api.UserRef{Slug: slug}, nil
	case name != "":
		if err := validation.ValidateName(name); err != nil {
			return api.UserRef{}, err
		}
		return api.UserRef{Name: strings.TrimSpace(name)}, nil
	default:
		return api.UserRef{}, fmt.Errorf("a user slug, URL or --name is required")
	}
}

func newUserVIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "vip <user>",
		Aliases: []string{"vip-info", "member"},
		Short:   "Show membership status",
		Example: `  jmf user vip ea36c8d8aa30
  jmf user vip https://www.jianshu.com/u/ea36c8d8aa30 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			slug, err := urlparse.UserSlug(args[0])
			if err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			info, err := fetch[api.VIPInfo](cmd, rt, api.VIPInfoRequest(slug))
			if err != nil {
				return err
			}
			if structured(cmd) {
				return printJSON(cmd, info)
			}
			printVIPInfo(cmd, info)
			return nil
		}),
	}
}

func printVIPInfo(cmd *cobra.Command, info api.VIPInfo) {
	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintf(w, "User:\t%s\n", info.UserName)
	_, _ = fmt.Fprintf(w, "Member:\t%s\n", yesNo(info.IsVIP))
	if info.IsVIP {
		_, _ = fmt.Fprintf(w, "Type:\t%s\n", info.Type)
		_, _ = fmt.Fprintf(w, "Expires:\t%s\n", cli.FormatUnixDate(info.ExpireDate))
	}
}

func newUserLotteryCmd() *cobra.Command {
	var (
		pf      pageFlags
		exclude []string
	)

	cmd := &cobra.Command{
		Use:     "lottery <user>",
		Aliases: []string{"lottery-win-records", "awards"},
		Short:   "List lottery awards",
		Example: `  jmf user lottery ea36c8d8aa30
  jmf user lottery ea36c8d8aa30 --all --exclude "收益加成卡 100"
  jmf user lottery ea36c8d8aa30 --page 2 --limit 50
  jmf user lottery ea36c8d8aa30 --all --since "30d ago" -o jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			slug, err := urlparse.UserSlug(args[0])
			if err != nil {
				return err
			}
			if err := pf.validate(cmd); err != nil {
				return err
			}
			since, err := pf.sinceTime()
			if err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			q := api.LotteryWinRecordsQuery{UserSlug: slug, Limit: pf.limit, ExcludedAwards: exclude}
			records, err := collectPages(cmd, rt, pf, q.Page, func(p api.LotteryWinRecords) []api.LotteryWinRecord {
				return p.Records
			})
			if err != nil {
				return err
			}
			records = sinceFilter(records, since, func(r api.LotteryWinRecord) int64 { return r.Time })

			return printList(cmd, records, "No lottery awards found.", []string{"TIME", "AWARD"},
				func(r api.LotteryWinRecord) []string {
					return []string{cli.FormatUnix(r.Time), r.RewardName}
				})
		}),
	}

	pf.register(cmd)
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "Leave out an award by name (repeatable)")
	return cmd
}

func newUserRankCmd() *cobra.Command {
	var (
		pf             pageFlags
		name           string
		orderBy        string
		orderDirection string
	)

	cmd := &cobra.Command{
		Use:     "rank [user]",
		Aliases: []string{"rank-records", "ranks"},
		Short:   "List days the user's articles were on the rank list",
		Example: `  jmf user rank ea36c8d8aa30
  jmf user rank --name 初心不变_叶子 --order-by ranking --order-direction asc
  jmf user rank ea36c8d8aa30 --all --max-pages 5 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			user, err := userRef(args, name)
			if err != nil {
				return err
			}
			if err := pf.validate(cmd); err != nil {
				return err
			}
			since, err := pf.sinceTime()
			if err != nil {
				return err
			}
			q := api.OnArticleRankRecordsQuery{
				User:           user,
				OrderBy:        orderBy,
				OrderDirection: orderDirection,
				Limit:          pf.limit,
			}
			if err := q.Validate(); err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			records, err := collectPages(cmd, rt, pf, q.Page, func(p api.OnArticleRankRecords) []api.OnArticleRankRecord {
				return p.Records
			})
			if err != nil {
				return err
			}
			records = sinceFilter(records, since, func(r api.OnArticleRankRecord) int64 { return r.Date })

			return printList(cmd, records, "No rank records found.", []string{"DATE", "RANK", "REWARD", "TITLE"},
				func(r api.OnArticleRankRecord) []string {
					return []string{cli.FormatUnixDate(r.Date), strconv.Itoa(r.Ranking), fmt.Sprintf("%.2f", r.FPReward), r.ArticleTitle}
				})
		}),
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "", "Look the user up by display name")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort by date or ranking")
	cmd.Flags().StringVar(&orderDirection, "order-direction", "", "Sort direction: asc or desc")
	flagAlias(cmd.Flags(), "order-by", "sort")
	flagAlias(cmd.Flags(), "order-direction", "dir")
	return cmd
}

func newUserRankSummaryCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "rank-summary [user]",
		Aliases: []string{"summary"},
		Short:   "Count rank list appearances by band",
		Example: `  jmf user rank-summary ea36c8d8aa30
  jmf user rank-summary --name 初心不变_叶子`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			user, err := userRef(args, name)
			if err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, err := fetch[api.OnArticleRankSummary](cmd, rt, api.OnArticleRankSummaryRequest(user))
			if err != nil {
				return err
			}
			if structured(cmd) {
				return printJSON(cmd, summary)
			}
			printRankSummary(cmd, summary)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Look the user up by display name")
	return cmd
}

func printRankSummary(cmd *cobra.Command, s api.OnArticleRankSummary) {
	w := newTabWriterFromCmd(cmd)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintf(w, "Top 10:\t%d\n", s.Top10)
	_, _ = fmt.Fprintf(w, "Top 30:\t%d\n", s.Top30)
	_, _ = fmt.Fprintf(w, "Top 50:\t%d\n", s.Top50)
	_, _ = fmt.Fprintf(w, "Total:\t%d\n", s.Total)
}

func newUserHistoryNamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "history-names <name>",
		Aliases: []string{"former-names"},
		Short:   "Show rank counts under a user's former names",
		Example: `  jmf user history-names 初心不变_叶子`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := validation.ValidateName(name); err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			out, err := fetch[api.HistoryNamesOnRankSummary](cmd, rt, api.HistoryNamesOnRankSummaryRequest(name))
			if err != nil {
				return err
			}
			if structured(cmd) {
				return printJSON(cmd, out)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			if out.UserURL != "" {
				_, _ = fmt.Fprintf(w, "User:\t%s\n\n", out.UserURL)
			}
			if len(out.HistoryNamesOnRankSummary) == 0 {
				_, _ = fmt.Fprintln(w, "No former names on the rank list.")
				return nil
			}
			names := make([]string, 0, len(out.HistoryNamesOnRankSummary))
			for n := range out.HistoryNamesOnRankSummary {
				names = append(names, n)
			}
			slices.Sort(names)
			_, _ = fmt.Fprintln(w, "NAME\tRANKED")
			for _, n := range names {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", n, out.HistoryNamesOnRankSummary[n])
			}
			return nil
		}),
	}
}

func newUserAutocompleteCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "autocomplete <prefix>",
		Aliases: []string{"complete", "ac"},
		Short:   "Suggest user names starting with a prefix",
		Example: `  jmf user autocomplete 初心
  jmf user autocomplete 初心 --limit 10 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			prefix := strings.TrimSpace(args[0])
			if err := validation.ValidateName(prefix); err != nil {
				return err
			}
			if err := validation.ValidateLimit(limit); err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			// Suggestions are typed interactively, so they skip the cache.
			out, err := trigger[api.NameAutocomplete](cmd, rt, api.NameAutocompleteRequest(prefix, limit))
			if err != nil {
				return err
			}
			if structured(cmd) {
				return printJSON(cmd, out.Names)
			}
			ioOut := newTabWriterFromCmd(cmd)
			defer func() { _ = ioOut.Flush() }()
			for _, n := range out.Names {
				_, _ = fmt.Fprintln(ioOut, n)
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum suggestions (1-100)")
	return cmd
}

// UserOverview combines the main facts about a user.
type UserOverview struct {
	Slug         string                   `json:"slug"`
	URL          string                   `json:"url"`
	VIP          api.VIPInfo              `json:"vip"`
	RankSummary  api.OnArticleRankSummary `json:"rank_summary"`
	RecentAwards []api.LotteryWinRecord   `json:"recent_awards"`
}

func newUserOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "overview <user>",
		Aliases: []string{"show", "get"},
		Short:   "Show membership, rank summary and recent awards together",
		Example: `  jmf user overview ea36c8d8aa30`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			slug, err := urlparse.UserSlug(args[0])
			if err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			overview := UserOverview{Slug: slug, URL: urlparse.UserURL(slug)}
			user := api.UserRef{Slug: slug}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				q := data.NewQuery[api.VIPInfo](rt.exec, func() api.Request {
					return api.VIPInfoRequest(slug)
				}, rt.options(true)...)
				v, err := q.Sync(ctx)
				overview.VIP = v
				return err
			})
			g.Go(func() error {
				q := data.NewQuery[api.OnArticleRankSummary](rt.exec, func() api.Request {
					return api.OnArticleRankSummaryRequest(user)
				}, rt.options(true)...)
				v, err := q.Sync(ctx)
				overview.RankSummary = v
				return err
			})
			g.Go(func() error {
				awards := api.LotteryWinRecordsQuery{UserSlug: slug, Limit: 5}
				pager := data.NewInfinite[api.LotteryWinRecords](rt.exec, func(c data.Cursor[api.LotteryWinRecords]) (api.Request, bool) {
					return awards.Page(c.Page, c.Prev)
				}, rt.options(false)...)
				page, err := pager.NextPage(ctx)
				overview.RecentAwards = page.Records
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if structured(cmd) {
				return printJSON(cmd, overview)
			}

			ioOut := newTabWriterFromCmd(cmd)
			_, _ = fmt.Fprintf(ioOut, "URL:\t%s\n", overview.URL)
			_ = ioOut.Flush()
			printVIPInfo(cmd, overview.VIP)
			printIfNotQuiet(cmd, "\nRank list appearances\n")
			printRankSummary(cmd, overview.RankSummary)
			if len(overview.RecentAwards) > 0 {
				printIfNotQuiet(cmd, "\nRecent lottery awards\n")
				w := newTabWriterFromCmd(cmd)
				for _, r := range overview.RecentAwards {
					_, _ = fmt.Fprintf(w, "%s\t%s\n", cli.FormatUnix(r.Time), r.RewardName)
				}
				_ = w.Flush()
			}
			return nil
		}),
	}
}
