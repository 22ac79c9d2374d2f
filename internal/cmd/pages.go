package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/cli"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/validation"
)

// pageFlags are the pagination flags shared by list commands.
type pageFlags struct {
	limit    int
	all      bool
	maxPages int
	page     int
	since    string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&p.limit, "limit", "l", 0, "Records per page (1-100, default server page size)")
	cmd.Flags().BoolVarP(&p.all, "all", "a", false, "Fetch every page")
	cmd.Flags().IntVar(&p.maxPages, "max-pages", 0, "Stop after this many pages with --all (0 = no limit)")
	cmd.Flags().IntVarP(&p.page, "page", "p", 0, "Fetch only this page (zero-based)")
	cmd.Flags().StringVar(&p.since, "since", "", "Only records since this time (7d ago, yesterday, 2024-01-02)")
	flagAlias(cmd.Flags(), "limit", "lim")
	flagAlias(cmd.Flags(), "max-pages", "mp")
}

func (p *pageFlags) validate(cmd *cobra.Command) error {
	if err := validation.ValidateLimit(p.limit); err != nil {
		return err
	}
	if p.maxPages < 0 {
		return fmt.Errorf("--max-pages must be 0 or greater")
	}
	if cmd.Flags().Changed("page") {
		if p.page < 0 {
			return fmt.Errorf("--page must be 0 or greater")
		}
		if p.all {
			return fmt.Errorf("--page cannot be combined with --all")
		}
	}
	return nil
}

// sinceTime parses --since, returning the zero time when unset.
func (p *pageFlags) sinceTime() (time.Time, error) {
	if p.since == "" {
		return time.Time{}, nil
	}
	return cli.ParseSince(p.since, time.Now())
}

// collectPages fetches records page by page. With --page it requests that
// page once; otherwise it walks the cursor from the first page, stopping
// after one page unless --all is set.
func collectPages[P, R any](
	cmd *cobra.Command,
	rt *session,
	p pageFlags,
	next func(page int, prev *P) (api.Request, bool),
	records func(P) []R,
) ([]R, error) {
	if cmd.Flags().Changed("page") {
		req, _ := next(p.page, nil)
		page, err := trigger[P](cmd, rt, req)
		if err != nil {
			return nil, err
		}
		return records(page), nil
	}

	ctx := cmd.Context()
	pager := data.NewInfinite[P](rt.exec, func(c data.Cursor[P]) (api.Request, bool) {
		return next(c.Page, c.Prev)
	}, rt.options(false)...)

	var out []R
	for fetched := 0; ; fetched++ {
		if fetched > 0 && !p.all {
			break
		}
		if p.maxPages > 0 && fetched >= p.maxPages {
			break
		}
		page, err := pager.NextPage(ctx)
		if errors.Is(err, data.ErrExhausted) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, records(page)...)
	}
	return out, nil
}

// sinceFilter keeps the records whose unix time is at or after since.
func sinceFilter[R any](items []R, since time.Time, at func(R) int64) []R {
	if since.IsZero() {
		return items
	}
	cutoff := since.Unix()
	kept := items[:0]
	for _, item := range items {
		if at(item) >= cutoff {
			kept = append(kept, item)
		}
	}
	return kept
}
