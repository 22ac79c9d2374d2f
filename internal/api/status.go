package api

import (
	"context"
	"net/url"
	"slices"
)

// StatusRequest describes GET /v1/status.
func StatusRequest() Request {
	return Get("/v1/status", nil)
}

// GetStatus fetches the service status.
func GetStatus(ctx context.Context, exec Executor) (*Status, error) {
	status, err := Do[Status](ctx, exec, StatusRequest())
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ToolStatus reports the availability of the tool with the given slug.
// Unavailability takes precedence over downgrade.
func (s *Status) ToolStatus(tool string) ToolStatus {
	if s == nil {
		return ToolNormal
	}
	if slices.Contains(s.UnavailableTools, tool) {
		return ToolUnavailable
	}
	if slices.Contains(s.DowngradedTools, tool) {
		return ToolDowngraded
	}
	return ToolNormal
}

// Tools lists the slugs of the tools served by the API.
var Tools = []string{
	"LP-recommend-checker",
	"on-rank-article-viewer",
	"JPEP-FTN-market-analyzer",
	"lottery-reward-record-viewer",
	"lottery-analyzer",
	"article-publish-time-viewer",
	"article-wordcloud-generator",
	"URL-scheme-convertor",
	"VIP-info-viewer",
}

// ToolStatusRequest describes GET /v1/status/{tool}.
func ToolStatusRequest(tool string) Request {
	return Get("/v1/status/"+url.PathEscape(tool), nil)
}

// GetToolStatus fetches the status and data metadata of a single tool.
func GetToolStatus(ctx context.Context, exec Executor, tool string) (*ToolStatusInfo, error) {
	info, err := Do[ToolStatusInfo](ctx, exec, ToolStatusRequest(tool))
	if err != nil {
		return nil, err
	}
	return &info, nil
}
