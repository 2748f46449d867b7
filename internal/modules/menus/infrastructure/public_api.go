package infrastructure

import (
	"context"
	"net/http"
	"net/url"

	analytics "qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/modules/menus/domain"
	restaurants "qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/platform/apiclient"
)

// PublicAPI implements port.PublicAPI.
type PublicAPI struct {
	client *apiclient.Client
}

func NewPublicAPI(client *apiclient.Client) *PublicAPI {
	return &PublicAPI{client: client}
}

func (a *PublicAPI) Menu(ctx context.Context, restaurantSlug string) (domain.PublicMenu, error) {
	return apiclient.Do[domain.PublicMenu](ctx, a.client, http.MethodGet, "/public/menu/"+url.PathEscape(restaurantSlug))
}

func (a *PublicAPI) Restaurant(ctx context.Context, restaurantSlug string) (restaurants.Restaurant, error) {
	return apiclient.Do[restaurants.Restaurant](ctx, a.client, http.MethodGet, "/public/restaurant/"+url.PathEscape(restaurantSlug))
}

func (a *PublicAPI) TrackView(ctx context.Context, restaurantID string, event analytics.ViewEvent) error {
	return a.client.Exec(ctx, http.MethodPost, "/public/analytics/"+url.PathEscape(restaurantID), apiclient.WithBody(event))
}

// QRCode downloads the server-rendered QR image, optionally for one table.
func (a *PublicAPI) QRCode(ctx context.Context, restaurantSlug, table string) (apiclient.Binary, error) {
	return a.client.Raw(ctx, "/public/qr/"+url.PathEscape(restaurantSlug), apiclient.WithQuery("table", table))
}
