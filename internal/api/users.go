package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// PageSize is the number of records per page on paginated endpoints.
const PageSize = 20

// UserRef identifies a user either by slug or by display name.
// Slug takes precedence when both are set.
type UserRef struct {
	Slug string
	Name string
}

func (u UserRef) validate() error {
	if strings.TrimSpace(u.Slug) == "" && strings.TrimSpace(u.Name) == "" {
		return errors.New("user slug or name is required")
	}
	return nil
}

func (u UserRef) path(suffix string) string {
	if u.Slug != "" {
		return "/v1/users/" + url.PathEscape(u.Slug) + suffix
	}
	return "/v1/users/name/" + url.PathEscape(u.Name) + suffix
}

// optional returns nil for the zero value so the field is left out of the request.
func optional[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}

func pageSize(limit int) int {
	if limit > 0 {
		return limit
	}
	return PageSize
}

// VIPInfoRequest describes GET /v1/users/{slug}/vip-info.
func VIPInfoRequest(userSlug string) Request {
	return Get(UserRef{Slug: userSlug}.path("/vip-info"), nil)
}

// GetVIPInfo fetches membership details for a user.
func GetVIPInfo(ctx context.Context, exec Executor, userSlug string) (*VIPInfo, error) {
	info, err := Do[VIPInfo](ctx, exec, VIPInfoRequest(userSlug))
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LotteryWinRecordsQuery selects lottery awards of a user.
type LotteryWinRecordsQuery struct {
	UserSlug       string
	Limit          int
	ExcludedAwards []string
}

// Page describes the request for page (zero-based) given the previous page.
// It returns false once the previous page came back empty.
func (q LotteryWinRecordsQuery) Page(page int, prev *LotteryWinRecords) (Request, bool) {
	if prev != nil && len(prev.Records) == 0 {
		return Request{}, false
	}
	return Get(UserRef{Slug: q.UserSlug}.path("/lottery-win-records"), Params{
		"offset":          page * pageSize(q.Limit),
		"limit":           optional(q.Limit),
		"excluded_awards": q.ExcludedAwards,
	}), true
}

// OnArticleRankRecordsQuery selects the rank history of a user.
type OnArticleRankRecordsQuery struct {
	User UserRef
	// OrderBy is "date" or "ranking".
	OrderBy string
	// OrderDirection is "asc" or "desc".
	OrderDirection string
	Limit          int
}

// Validate checks the ordering options.
func (q OnArticleRankRecordsQuery) Validate() error {
	if err := q.User.validate(); err != nil {
		return err
	}
	switch q.OrderBy {
	case "", "date", "ranking":
	default:
		return errors.New(`order_by must be "date" or "ranking"`)
	}
	switch q.OrderDirection {
	case "", "asc", "desc":
	default:
		return errors.New(`order_direction must be "asc" or "desc"`)
	}
	return nil
}

// Page describes the request for page (zero-based) given the previous page.
// It returns false once the previous page came back empty.
func (q OnArticleRankRecordsQuery) Page(page int, prev *OnArticleRankRecords) (Request, bool) {
	if prev != nil && len(prev.Records) == 0 {
		return Request{}, false
	}
	return Get(q.User.path("/on-article-rank-records"), Params{
		"order_by":        optional(q.OrderBy),
		"order_direction": optional(q.OrderDirection),
		"offset":          page * pageSize(q.Limit),
		"limit":           optional(q.Limit),
	}), true
}

// OnArticleRankSummaryRequest describes GET /v1/users/.../on-article-rank-summary.
func OnArticleRankSummaryRequest(user UserRef) Request {
	return Get(user.path("/on-article-rank-summary"), nil)
}

// GetOnArticleRankSummary fetches rank band counts for a user.
func GetOnArticleRankSummary(ctx context.Context, exec Executor, user UserRef) (*OnArticleRankSummary, error) {
	if err := user.validate(); err != nil {
		return nil, err
	}
	summary, err := Do[OnArticleRankSummary](ctx, exec, OnArticleRankSummaryRequest(user))
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// NameAutocompleteRequest describes GET /v1/users/name-autocomplete.
func NameAutocompleteRequest(namePart string, limit int) Request {
	return Get("/v1/users/name-autocomplete", Params{
		"name_part": namePart,
		"limit":     optional(limit),
	})
}

// GetNameAutocomplete returns user names starting with namePart.
func GetNameAutocomplete(ctx context.Context, exec Executor, namePart string, limit int) ([]string, error) {
	out, err := Do[NameAutocomplete](ctx, exec, NameAutocompleteRequest(namePart, limit))
	if err != nil {
		return nil, err
	}
	return out.Names, nil
}

// HistoryNamesOnRankSummaryRequest describes
// GET /v1/users/name/{name}/history-names-on-article-rank-summary.
func HistoryNamesOnRankSummaryRequest(userName string) Request {
	return Get(UserRef{Name: userName}.path("/history-names-on-article-rank-summary"), nil)
}

// GetHistoryNamesOnRankSummary fetches rank counts under former names of a user.
func GetHistoryNamesOnRankSummary(ctx context.Context, exec Executor, userName string) (*HistoryNamesOnRankSummary, error) {
	out, err := Do[HistoryNamesOnRankSummary](ctx, exec, HistoryNamesOnRankSummaryRequest(userName))
	if err != nil {
		return nil, err
	}
	return &out, nil
}
