package infrastructure

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrMissingRestaurantID = errors.New("analytics request missing restaurant id")

// reportEndpoint describes one analytics route and the query parameters it accepts.
type reportEndpoint struct {
	Key          string
	PathTemplate string
	QueryParams  []string
}

func (e reportEndpoint) BuildPath(restaurantID string) (string, error) {
	trimmed := strings.TrimSpace(restaurantID)
	if trimmed == "" {
		return "", ErrMissingRestaurantID
	}
	return fmt.Sprintf(e.PathTemplate, url.PathEscape(trimmed)), nil
}

// Sanitize keeps the allowed, non-empty parameters of query.
func (e reportEndpoint) Sanitize(query map[string]string) map[string]string {
	out := make(map[string]string, len(e.QueryParams))
	for _, key := range e.QueryParams {
		if value := strings.TrimSpace(query[key]); value != "" {
			out[key] = value
		}
	}
	return out
}

const (
	reportDashboard = "dashboard"
	reportScans     = "scans"
	reportItems     = "items"
	reportTime      = "time"
	reportExport    = "export"
)

func defaultReportEndpoints() map[string]reportEndpoint {
	entries := []reportEndpoint{
		{Key: reportDashboard, PathTemplate: "/analytics/%s/dashboard", QueryParams: []string{"start", "end"}},
		{Key: reportScans, PathTemplate: "/analytics/%s/scans", QueryParams: []string{"start", "end"}},
		{Key: reportItems, PathTemplate: "/analytics/%s/items", QueryParams: []string{"limit"}},
		{Key: reportTime, PathTemplate: "/analytics/%s/time", QueryParams: []string{"start", "end"}},
		{Key: reportExport, PathTemplate: "/analytics/%s/export", QueryParams: []string{"format"}},
	}
	out := make(map[string]reportEndpoint, len(entries))
	for _, entry := range entries {
		out[entry.Key] = entry
	}
	return out
}
