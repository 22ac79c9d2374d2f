package api

import (
	"context"
	"net/url"
)

// WordFreqRequest describes GET /v1/articles/{slug}/word-freq.
func WordFreqRequest(articleSlug string) Request {
	return Get("/v1/articles/"+url.PathEscape(articleSlug)+"/word-freq", nil)
}

// GetWordFreq fetches word frequencies of an article.
func GetWordFreq(ctx context.Context, exec Executor, articleSlug string) (*WordFreq, error) {
	out, err := Do[WordFreq](ctx, exec, WordFreqRequest(articleSlug))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LPRecommendCheckRequest describes GET /v1/articles/{slug}/lp-recommend-check.
func LPRecommendCheckRequest(articleSlug string) Request {
	return Get("/v1/articles/"+url.PathEscape(articleSlug)+"/lp-recommend-check", nil)
}

// GetLPRecommendCheck checks whether an article can be recommended now.
func GetLPRecommendCheck(ctx context.Context, exec Executor, articleSlug string) (*LPRecommendCheck, error) {
	out, err := Do[LPRecommendCheck](ctx, exec, LPRecommendCheckRequest(articleSlug))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DebugProjectRecordsRequest describes GET /v1/thanks/debug-project-records.
func DebugProjectRecordsRequest() Request {
	return Get("/v1/thanks/debug-project-records", nil)
}
