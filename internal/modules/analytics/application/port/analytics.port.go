package port

import (
	"context"

	"qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/platform/apiclient"
)

// AnalyticsAPI is the read-only analytics group of the REST backend.
type AnalyticsAPI interface {
	Dashboard(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Analytics, error)
	Scans(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Metrics, error)
	PopularItems(ctx context.Context, restaurantID string, limit int) ([]domain.PopularItem, error)
	TimeDistribution(ctx context.Context, restaurantID string, window domain.DateRange) ([]domain.TimeSlot, error)
	Export(ctx context.Context, restaurantID string, format domain.ExportFormat) (apiclient.Binary, error)
}
