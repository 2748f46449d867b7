package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/platform/apiclient"
)

// AnalyticsAPI implements port.AnalyticsAPI.
type AnalyticsAPI struct {
	client    *apiclient.Client
	endpoints map[string]reportEndpoint
}

func NewAnalyticsAPI(client *apiclient.Client) *AnalyticsAPI {
	return &AnalyticsAPI{client: client, endpoints: defaultReportEndpoints()}
}

func (a *AnalyticsAPI) Dashboard(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Analytics, error) {
	return fetch[domain.Analytics](ctx, a, reportDashboard, restaurantID, rangeQuery(window))
}

func (a *AnalyticsAPI) Scans(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Metrics, error) {
	return fetch[domain.Metrics](ctx, a, reportScans, restaurantID, rangeQuery(window))
}

// PopularItems returns the most viewed items; limit <= 0 leaves the choice to the server.
func (a *AnalyticsAPI) PopularItems(ctx context.Context, restaurantID string, limit int) ([]domain.PopularItem, error) {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	return fetch[[]domain.PopularItem](ctx, a, reportItems, restaurantID, query)
}

func (a *AnalyticsAPI) TimeDistribution(ctx context.Context, restaurantID string, window domain.DateRange) ([]domain.TimeSlot, error) {
	return fetch[[]domain.TimeSlot](ctx, a, reportTime, restaurantID, rangeQuery(window))
}

// Export downloads the report file; the body is returned as is.
func (a *AnalyticsAPI) Export(ctx context.Context, restaurantID string, format domain.ExportFormat) (apiclient.Binary, error) {
	endpoint, path, err := a.resolve(reportExport, restaurantID)
	if err != nil {
		return apiclient.Binary{}, err
	}
	if format == "" {
		format = domain.ExportCSV
	}
	return a.client.Raw(ctx, path, queryOptions(endpoint.Sanitize(map[string]string{"format": string(format)}))...)
}

func fetch[T any](ctx context.Context, a *AnalyticsAPI, key, restaurantID string, query map[string]string) (T, error) {
	endpoint, path, err := a.resolve(key, restaurantID)
	if err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Do[T](ctx, a.client, http.MethodGet, path, queryOptions(endpoint.Sanitize(query))...)
}

func (a *AnalyticsAPI) resolve(key, restaurantID string) (reportEndpoint, string, error) {
	endpoint, ok := a.endpoints[key]
	if !ok {
		return reportEndpoint{}, "", fmt.Errorf("analytics report %q unsupported", key)
	}
	path, err := endpoint.BuildPath(restaurantID)
	if err != nil {
		return reportEndpoint{}, "", err
	}
	return endpoint, path, nil
}

func rangeQuery(window domain.DateRange) map[string]string {
	return map[string]string{"start": window.Start, "end": window.End}
}

func queryOptions(query map[string]string) []apiclient.RequestOption {
	opts := make([]apiclient.RequestOption, 0, len(query))
	for key, value := range query {
		opts = append(opts, apiclient.WithQuery(key, value))
	}
	return opts
}
