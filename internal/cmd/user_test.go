package cmd

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserSlug = "ea36c8d8aa30"

// lotteryPages serves records in pages keyed by offset and records every
// offset requested.
type lotteryPages struct {
	mu      sync.Mutex
	pages   map[int]string
	offsets []int
	queries []string
}

func (l *lotteryPages) handler(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	l.mu.Lock()
	l.offsets = append(l.offsets, offset)
	l.queries = append(l.queries, r.URL.RawQuery)
	body, ok := l.pages[offset]
	l.mu.Unlock()
	if !ok {
		body = `{"records": []}`
	}
	jsonResponse(200, okEnvelope(body))(w, r)
}

func lotteryRecords(times ...int64) string {
	parts := make([]string, len(times))
	for i, ts := range times {
		parts[i] = fmt.Sprintf(`{"time": %d, "rewardName": "award-%d"}`, ts, ts)
	}
	return `{"records": [` + strings.Join(parts, ",") + `]}`
}

func TestUserVIP_Text(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/vip-info", jsonResponse(200, okEnvelope(`{
			"userName": "初心不变_叶子",
			"isVIP": true,
			"type": "银牌",
			"expireDate": 1767225600
		}`)))
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "vip", "https://www.jianshu.com/u/"+testUserSlug)
	require.NoError(t, err)
	assert.Contains(t, out, "初心不变_叶子")
	assert.Contains(t, out, "银牌")
	assert.Contains(t, out, "yes")
}

func TestUserVIP_InvalidSlugMakesNoCall(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	_, _, err := runCmd(t, "user", "vip", "not a slug")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.hits)
}

func TestUserLottery_AllPages(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{
		0: lotteryRecords(1700000300, 1700000200),
		2: lotteryRecords(1700000100),
	}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "lottery", testUserSlug, "--all", "--limit", "2", "-o", "json")
	require.NoError(t, err)

	items := decodeItems(t, out)
	require.Len(t, items, 3)
	assert.Equal(t, "award-1700000300", items[0]["rewardName"])
	assert.Equal(t, "award-1700000100", items[2]["rewardName"])
	assert.Equal(t, []int{0, 2, 4}, pages.offsets, "walks until an empty page")
}

func TestUserLottery_FirstPageOnlyByDefault(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{
		0:  lotteryRecords(1700000300),
		20: lotteryRecords(1700000200),
	}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "lottery", testUserSlug)
	require.NoError(t, err)
	assert.Contains(t, out, "award-1700000300")
	assert.NotContains(t, out, "award-1700000200")
	assert.Equal(t, []int{0}, pages.offsets)
}

func TestUserLottery_MaxPages(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{
		0: lotteryRecords(3),
		1: lotteryRecords(2),
		2: lotteryRecords(1),
	}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "lottery", testUserSlug, "--all", "--limit", "1", "--max-pages", "2", "-o", "jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, []int{0, 1}, pages.offsets)
}

func TestUserLottery_SinglePage(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{
		100: lotteryRecords(1700000000),
	}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "lottery", testUserSlug, "--page", "2", "--limit", "50", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeItems(t, out), 1)
	assert.Equal(t, []int{100}, pages.offsets)
}

func TestUserLottery_ExcludedAwardsAndSince(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{
		0: lotteryRecords(1700000000, 1500000000),
	}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "lottery", testUserSlug,
		"--exclude", "收益加成卡 100", "--exclude", "四叶草徽章",
		"--since", "2020-01-01", "-o", "json")
	require.NoError(t, err)

	items := decodeItems(t, out)
	require.Len(t, items, 1)
	assert.Equal(t, "award-1700000000", items[0]["rewardName"])
	require.Len(t, pages.queries, 1)
	assert.Equal(t, 2, strings.Count(pages.queries[0], "excluded_awards="))
}

func TestUserLottery_PageConflictsWithAll(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	_, _, err := runCmd(t, "user", "lottery", testUserSlug, "--all", "--page", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page cannot be combined with --all")
}

func TestUserRank_ByName(t *testing.T) {
	var query string
	handler := newRouteHandler().
		On("GET", "/api/v1/users/name/初心不变_叶子/on-article-rank-records", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			jsonResponse(200, okEnvelope(`{"records": [
				{"date": 1700000000, "ranking": 3, "articleTitle": "标题", "articleUrl": "https://www.jianshu.com/p/0b8f4d4b3b6d", "FPReward": 12.5}
			]}`))(w, r)
		})
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "rank", "--name", "初心不变_叶子", "--order-by", "ranking", "--order-direction", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, "标题")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, query, "order_by=ranking")
	assert.Contains(t, query, "order_direction=asc")
	assert.Contains(t, query, "offset=0")
}

func TestUserRank_Validation(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no user", []string{"user", "rank"}, "is required"},
		{"both", []string{"user", "rank", testUserSlug, "--name", "x"}, "cannot use both"},
		{"bad order", []string{"user", "rank", testUserSlug, "--order-by", "title"}, "order_by must be"},
		{"bad limit", []string{"user", "rank", testUserSlug, "--limit", "500"}, "limit must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitUsage, ExitCode(err))
		})
	}
}

func TestUserRankSummary_BadArgumentsWarning(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/on-article-rank-summary", jsonResponse(200, failEnvelope(203, "用户不存在")))
	setupTestEnv(t, handler)

	_, stderr, err := runCmd(t, "user", "rank-summary", testUserSlug)
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "Warning: 用户不存在")
	assert.Equal(t, 1, strings.Count(stderr, "用户不存在"))
}

func TestUserRankSummary_APIErrorJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/on-article-rank-summary", jsonResponse(200, failEnvelope(500, "服务异常")))
	setupTestEnv(t, handler)

	out, stderr, err := runCmd(t, "user", "rank-summary", testUserSlug, "-o", "json")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, exitAPI, ExitCode(err))
	payload := decodeObject(t, stderr)
	assert.Equal(t, "api_error", payload["code"])
}

func TestUserHistoryNames(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/users/name/新名字/history-names-on-article-rank-summary", jsonResponse(200, okEnvelope(`{
			"historyNamesOnrankSummary": {"旧名字": 4, "更旧的名字": 1},
			"userUrl": "https://www.jianshu.com/u/ea36c8d8aa30"
		}`)))
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "history-names", "新名字")
	require.NoError(t, err)
	assert.Contains(t, out, "旧名字")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "https://www.jianshu.com/u/ea36c8d8aa30")
}

func TestUserAutocomplete(t *testing.T) {
	var query string
	handler := newRouteHandler().
		On("GET", "/api/v1/users/name-autocomplete", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			jsonResponse(200, okEnvelope(`{"names": ["初心不变_叶子", "初心"]}`))(w, r)
		})
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "autocomplete", "初心", "--limit", "2", "-o", "json")
	require.NoError(t, err)
	payload := decodeObject(t, out)
	assert.Equal(t, []any{"初心不变_叶子", "初心"}, payload["items"])
	assert.Contains(t, query, "limit=2")
}

func TestUserOverview(t *testing.T) {
	pages := &lotteryPages{pages: map[int]string{0: lotteryRecords(1700000000)}}
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/vip-info", jsonResponse(200, okEnvelope(`{"userName": "叶子", "isVIP": false}`))).
		On("GET", "/api/v1/users/"+testUserSlug+"/on-article-rank-summary", jsonResponse(200, okEnvelope(`{"top10": 1, "top30": 2, "top50": 3, "total": 6}`))).
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", pages.handler)
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "user", "overview", testUserSlug, "-o", "json")
	require.NoError(t, err)

	payload := decodeObject(t, out)
	assert.Equal(t, "https://www.jianshu.com/u/"+testUserSlug, payload["url"])
	summary := payload["rank_summary"].(map[string]any)
	assert.Equal(t, float64(6), summary["total"])
	assert.Len(t, payload["recent_awards"], 1)
}

func TestUserOverview_FailureFailsCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/users/"+testUserSlug+"/vip-info", jsonResponse(500, `oops`)).
		On("GET", "/api/v1/users/"+testUserSlug+"/on-article-rank-summary", jsonResponse(200, okEnvelope(`{}`))).
		On("GET", "/api/v1/users/"+testUserSlug+"/lottery-win-records", jsonResponse(200, okEnvelope(`{"records": []}`)))
	setupTestEnv(t, handler)

	_, stderr, err := runCmd(t, "user", "overview", testUserSlug)
	require.Error(t, err)
	assert.Equal(t, exitServer, ExitCode(err))
	assert.Contains(t, stderr, "HTTP 500")
}
