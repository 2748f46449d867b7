package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"qrMenu/internal/modules/analytics/application/port"
	"qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/platform/apiclient"
	"qrMenu/internal/shared/notify"
	"qrMenu/internal/shared/opstate"
)

// AnalyticsService loads analytics reports and keeps the last dashboard. Reads only set the
// error slot; an export failure is also notified.
type AnalyticsService struct {
	api      port.AnalyticsAPI
	notifier notify.Notifier
	logger   *zap.Logger
	state    opstate.State

	mu   sync.RWMutex
	data *domain.Analytics
}

func NewAnalyticsService(api port.AnalyticsAPI, notifier notify.Notifier, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.L()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AnalyticsService{api: api, notifier: notifier, logger: logger.Named("analytics")}
}

func (s *AnalyticsService) Loading() bool { return s.state.Loading() }
func (s *AnalyticsService) Error() string { return s.state.Error() }
func (s *AnalyticsService) ClearError()   { s.state.ClearError() }

// Data returns the last dashboard loaded, nil before the first success.
func (s *AnalyticsService) Data() *domain.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	copied := *s.data
	return &copied
}

func (s *AnalyticsService) Dashboard(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Analytics, error) {
	s.state.Begin()
	defer s.state.End()

	if err := window.Validate(); err != nil {
		s.state.Fail(err)
		return domain.Analytics{}, err
	}
	result, err := s.api.Dashboard(ctx, restaurantID, window)
	if err != nil {
		s.state.Fail(err)
		return domain.Analytics{}, err
	}
	s.mu.Lock()
	s.data = &result
	s.mu.Unlock()
	return result, nil
}

func (s *AnalyticsService) Scans(ctx context.Context, restaurantID string, window domain.DateRange) (domain.Metrics, error) {
	return read(s, func() (domain.Metrics, error) {
		if err := window.Validate(); err != nil {
			return domain.Metrics{}, err
		}
		return s.api.Scans(ctx, restaurantID, window)
	})
}

func (s *AnalyticsService) PopularItems(ctx context.Context, restaurantID string, limit int) ([]domain.PopularItem, error) {
	return read(s, func() ([]domain.PopularItem, error) {
		return s.api.PopularItems(ctx, restaurantID, limit)
	})
}

func (s *AnalyticsService) TimeDistribution(ctx context.Context, restaurantID string, window domain.DateRange) ([]domain.TimeSlot, error) {
	return read(s, func() ([]domain.TimeSlot, error) {
		if err := window.Validate(); err != nil {
			return nil, err
		}
		return s.api.TimeDistribution(ctx, restaurantID, window)
	})
}

// Export downloads the report in the requested format.
func (s *AnalyticsService) Export(ctx context.Context, restaurantID string, format domain.ExportFormat) (apiclient.Binary, error) {
	s.state.Begin()
	defer s.state.End()

	file, err := s.api.Export(ctx, restaurantID, format)
	if err != nil {
		notify.Error(s.notifier, s.state.Fail(err))
		return apiclient.Binary{}, err
	}
	s.logger.Info("analytics exported", zap.String("restaurant_id", restaurantID), zap.String("format", string(format)), zap.Int("bytes", len(file.Data)))
	return file, nil
}

func read[T any](s *AnalyticsService, call func() (T, error)) (T, error) {
	s.state.Begin()
	defer s.state.End()

	result, err := call()
	if err != nil {
		s.state.Fail(err)
		var zero T
		return zero, err
	}
	return result, nil
}
