package port

import (
	"context"

	"qrMenu/internal/modules/restaurants/domain"
)

// RestaurantAPI is the restaurant group of the REST backend.
type RestaurantAPI interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (domain.Restaurant, error)
	Create(ctx context.Context, payload domain.CreatePayload) (domain.Restaurant, error)
	Update(ctx context.Context, id string, input domain.UpdateInput) (domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
	UpdateBranding(ctx context.Context, id string, branding domain.Branding) (domain.Restaurant, error)
	QRCodes(ctx context.Context, id string) (domain.QRCodes, error)
	GenerateQRCode(ctx context.Context, id, tableNumber string) (domain.QRCodeResult, error)
}

// CurrentStore holds the persisted current restaurant and the recently viewed ids.
type CurrentStore interface {
	CurrentRestaurant() *domain.Restaurant
	SetCurrentRestaurant(r *domain.Restaurant)
	RecentRestaurants() []string
	PurgeRecent(id string)
}
