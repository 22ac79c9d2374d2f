package api

import "time"

// ToolStatus is the availability of a tool as reported by /v1/status.
type ToolStatus string

const (
	ToolNormal      ToolStatus = "NORMAL"
	ToolDowngraded  ToolStatus = "DOWNGRADED"
	ToolUnavailable ToolStatus = "UNAVALIABLE"
)

// Status is the payload of GET /v1/status.
type Status struct {
	Version          string   `json:"version"`
	DowngradedTools  []string `json:"downgradedTools"`
	UnavailableTools []string `json:"unavaliableTools"`
}

// ToolStatusInfo is the payload of GET /v1/status/{tool}.
type ToolStatusInfo struct {
	Status         ToolStatus        `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	LastUpdateTime int64             `json:"lastUpdateTime,omitempty"`
	DataUpdateFreq string            `json:"dataUpdateFreq,omitempty"`
	DataCount      int               `json:"dataCount,omitempty"`
	DataSource     map[string]string `json:"dataSource,omitempty"`
}

// VIPInfo is the payload of GET /v1/users/{slug}/vip-info.
type VIPInfo struct {
	UserName   string `json:"userName"`
	IsVIP      bool   `json:"isVIP"`
	Type       string `json:"type"`
	ExpireDate int64  `json:"expireDate"`
}

// ExpireTime converts ExpireDate (unix seconds) to a time.
func (v VIPInfo) ExpireTime() time.Time {
	return time.Unix(v.ExpireDate, 0)
}

// LotteryWinRecord is one lottery award.
type LotteryWinRecord struct {
	Time       int64  `json:"time"`
	RewardName string `json:"rewardName"`
}

// LotteryWinRecords is one page of lottery awards.
type LotteryWinRecords struct {
	Records []LotteryWinRecord `json:"records"`
}

// OnArticleRankRecord is one day an article of the user was on the rank list.
type OnArticleRankRecord struct {
	Date         int64   `json:"date"`
	Ranking      int     `json:"ranking"`
	ArticleTitle string  `json:"articleTitle"`
	ArticleURL   string  `json:"articleUrl"`
	FPReward     float64 `json:"FPReward"`
}

// OnArticleRankRecords is one page of rank records.
type OnArticleRankRecords struct {
	Records []OnArticleRankRecord `json:"records"`
}

// OnArticleRankSummary counts how often a user reached each rank band.
type OnArticleRankSummary struct {
	Top10 int `json:"top10"`
	Top30 int `json:"top30"`
	Top50 int `json:"top50"`
	Total int `json:"total"`
}

// NameAutocomplete is the payload of GET /v1/users/name-autocomplete.
type NameAutocomplete struct {
	Names []string `json:"names"`
}

// HistoryNamesOnRankSummary maps former user names to their rank counts.
type HistoryNamesOnRankSummary struct {
	HistoryNamesOnRankSummary map[string]int `json:"historyNamesOnrankSummary"`
	UserURL                   string         `json:"userUrl"`
}

// WordFreq is the payload of GET /v1/articles/{slug}/word-freq.
type WordFreq struct {
	Title    string         `json:"title"`
	WordFreq map[string]int `json:"wordFreq"`
}

// LPRecommendCheck is the payload of GET /v1/articles/{slug}/lp-recommend-check.
type LPRecommendCheck struct {
	ArticleTitle         string  `json:"articleTitle"`
	CanRecommendNow      bool    `json:"canRecommendNow"`
	FPReward             float64 `json:"FPReward"`
	NextCanRecommendDate string  `json:"nextCanRecommendDate"`
}

// DebugProjectRecord credits a user for a reported bug.
type DebugProjectRecord struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Module      string  `json:"module"`
	Description string  `json:"description"`
	UserName    string  `json:"userName"`
	UserSlug    string  `json:"userSlug"`
	Reward      float64 `json:"reward"`
}

// DebugProjectRecords is the payload of GET /v1/thanks/debug-project-records.
type DebugProjectRecords struct {
	Records []DebugProjectRecord `json:"records"`
}
