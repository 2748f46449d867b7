package usecase

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"qrMenu/internal/modules/restaurants/application/port"
	"qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/shared/format"
	"qrMenu/internal/shared/notify"
	"qrMenu/internal/shared/opstate"
)

const (
	MsgCreated         = "Restaurant created successfully!"
	MsgUpdated         = "Restaurant updated successfully!"
	MsgDeleted         = "Restaurant deleted successfully!"
	MsgBrandingUpdated = "Branding updated successfully!"
	MsgQRCodeGenerated = "QR code generated successfully!"
)

// RestaurantService manages the owner's restaurants. Every operation sets loading, clears the
// previous error and calls the backend; local state is only patched after the server confirms.
type RestaurantService struct {
	api      port.RestaurantAPI
	store    port.CurrentStore
	notifier notify.Notifier
	logger   *zap.Logger
	state    opstate.State

	mu          sync.RWMutex
	restaurants []domain.Restaurant
}

func NewRestaurantService(api port.RestaurantAPI, store port.CurrentStore, notifier notify.Notifier, logger *zap.Logger) *RestaurantService {
	if logger == nil {
		logger = zap.L()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &RestaurantService{api: api, store: store, notifier: notifier, logger: logger.Named("restaurants")}
}

func (s *RestaurantService) Loading() bool { return s.state.Loading() }
func (s *RestaurantService) Error() string { return s.state.Error() }
func (s *RestaurantService) ClearError()   { s.state.ClearError() }

// Restaurants returns a copy of the in-memory list.
func (s *RestaurantService) Restaurants() []domain.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.restaurants)
}

// Current returns the persisted current restaurant, nil when none is set.
func (s *RestaurantService) Current() *domain.Restaurant {
	return s.store.CurrentRestaurant()
}

// SetCurrent persists r as current and records it as recently viewed.
func (s *RestaurantService) SetCurrent(r *domain.Restaurant) {
	s.store.SetCurrentRestaurant(r)
}

// Recent returns the recently viewed restaurant ids, most recent first.
func (s *RestaurantService) Recent() []string {
	return s.store.RecentRestaurants()
}

// Create validates the input, derives a slug candidate and registers the restaurant with the
// default branding. The server enforces slug uniqueness.
func (s *RestaurantService) Create(ctx context.Context, in domain.CreateInput) (*domain.Restaurant, error) {
	s.state.Begin()
	defer s.state.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail(err)
	}
	created, err := s.api.Create(ctx, domain.NewCreatePayload(in, format.GenerateSlug(in.Name)))
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.restaurants = append(s.restaurants, created)
	s.mu.Unlock()
	s.SetCurrent(&created)

	s.logger.Info("restaurant created", zap.String("restaurant_id", created.ID), zap.String("slug", created.Slug))
	notify.Success(s.notifier, MsgCreated)
	return &created, nil
}

func (s *RestaurantService) Update(ctx context.Context, id string, in domain.UpdateInput) (*domain.Restaurant, error) {
	s.state.Begin()
	defer s.state.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail(err)
	}
	updated, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.replace(id, updated)
	notify.Success(s.notifier, MsgUpdated)
	return &updated, nil
}

// Delete removes the restaurant, clears it as current and purges it from the recent list.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	s.state.Begin()
	defer s.state.End()

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.restaurants = slices.DeleteFunc(s.restaurants, func(r domain.Restaurant) bool { return r.ID == id })
	s.mu.Unlock()
	if current := s.store.CurrentRestaurant(); current != nil && current.ID == id {
		s.SetCurrent(nil)
	}
	s.store.PurgeRecent(id)

	s.logger.Info("restaurant deleted", zap.String("restaurant_id", id))
	notify.Success(s.notifier, MsgDeleted)
	return nil
}

// Get loads a restaurant by slug and makes it current. Failures are not notified.
func (s *RestaurantService) Get(ctx context.Context, slug string) (*domain.Restaurant, error) {
	s.state.Begin()
	defer s.state.End()

	fetched, err := s.api.GetBySlug(ctx, slug)
	if err != nil {
		s.state.Fail(err)
		return nil, err
	}
	s.SetCurrent(&fetched)
	return &fetched, nil
}

// List replaces the in-memory list with the server's. Failures are not notified.
func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	s.state.Begin()
	defer s.state.End()

	fetched, err := s.api.List(ctx)
	if err != nil {
		s.state.Fail(err)
		return []domain.Restaurant{}, err
	}
	s.mu.Lock()
	s.restaurants = slices.Clone(fetched)
	s.mu.Unlock()
	return fetched, nil
}

func (s *RestaurantService) UpdateBranding(ctx context.Context, id string, branding domain.Branding) (*domain.Restaurant, error) {
	s.state.Begin()
	defer s.state.End()

	if err := branding.Validate(); err != nil {
		return nil, s.fail(err)
	}
	updated, err := s.api.UpdateBranding(ctx, id, branding)
	if err != nil {
		return nil, s.fail(err)
	}
	s.replace(id, updated)
	notify.Success(s.notifier, MsgBrandingUpdated)
	return &updated, nil
}

// GenerateQRCode returns the URL of the generated QR image. An empty table number produces
// the restaurant-wide code.
func (s *RestaurantService) GenerateQRCode(ctx context.Context, id, tableNumber string) (string, error) {
	s.state.Begin()
	defer s.state.End()

	result, err := s.api.GenerateQRCode(ctx, id, tableNumber)
	if err != nil {
		return "", s.fail(err)
	}
	notify.Success(s.notifier, MsgQRCodeGenerated)
	return result.QRCodeURL, nil
}

// QRCodes lists the restaurant's generated QR codes. Failures are not notified.
func (s *RestaurantService) QRCodes(ctx context.Context, id string) (domain.QRCodes, error) {
	s.state.Begin()
	defer s.state.End()

	codes, err := s.api.QRCodes(ctx, id)
	if err != nil {
		s.state.Fail(err)
		return domain.QRCodes{}, err
	}
	return codes, nil
}

// replace swaps the restaurant in the list and in the current slot when it is current.
func (s *RestaurantService) replace(id string, updated domain.Restaurant) {
	s.mu.Lock()
	for i := range s.restaurants {
		if s.restaurants[i].ID == id {
			s.restaurants[i] = updated
		}
	}
	s.mu.Unlock()
	if current := s.store.CurrentRestaurant(); current != nil && current.ID == id {
		s.SetCurrent(&updated)
	}
}

func (s *RestaurantService) fail(err error) error {
	msg := s.state.Fail(err)
	s.logger.Warn("restaurant operation failed", zap.String("error", msg))
	notify.Error(s.notifier, msg)
	return err
}
