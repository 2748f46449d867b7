package infrastructure

import (
	"context"
	"net/http"
	"net/url"

	"qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/platform/apiclient"
)

// RestaurantAPI implements port.RestaurantAPI over the REST client.
type RestaurantAPI struct {
	client *apiclient.Client
}

func NewRestaurantAPI(client *apiclient.Client) *RestaurantAPI {
	return &RestaurantAPI{client: client}
}

func (a *RestaurantAPI) List(ctx context.Context) ([]domain.Restaurant, error) {
	return apiclient.Do[[]domain.Restaurant](ctx, a.client, http.MethodGet, "/restaurants")
}

func (a *RestaurantAPI) GetBySlug(ctx context.Context, slug string) (domain.Restaurant, error) {
	return apiclient.Do[domain.Restaurant](ctx, a.client, http.MethodGet, "/restaurant/"+url.PathEscape(slug))
}

func (a *RestaurantAPI) Create(ctx context.Context, payload domain.CreatePayload) (domain.Restaurant, error) {
	return apiclient.Do[domain.Restaurant](ctx, a.client, http.MethodPost, "/restaurants", apiclient.WithBody(payload))
}

func (a *RestaurantAPI) Update(ctx context.Context, id string, input domain.UpdateInput) (domain.Restaurant, error) {
	return apiclient.Do[domain.Restaurant](ctx, a.client, http.MethodPut, restaurantPath(id), apiclient.WithBody(input))
}

func (a *RestaurantAPI) Delete(ctx context.Context, id string) error {
	return a.client.Exec(ctx, http.MethodDelete, restaurantPath(id))
}

func (a *RestaurantAPI) UpdateBranding(ctx context.Context, id string, branding domain.Branding) (domain.Restaurant, error) {
	return apiclient.Do[domain.Restaurant](ctx, a.client, http.MethodPut, restaurantPath(id)+"/branding", apiclient.WithBody(branding))
}

func (a *RestaurantAPI) QRCodes(ctx context.Context, id string) (domain.QRCodes, error) {
	return apiclient.Do[domain.QRCodes](ctx, a.client, http.MethodGet, restaurantPath(id)+"/qr-codes")
}

// GenerateQRCode asks the server for a QR image URL; an empty table number means the
// restaurant-wide code.
func (a *RestaurantAPI) GenerateQRCode(ctx context.Context, id, tableNumber string) (domain.QRCodeResult, error) {
	body := struct {
		TableNumber string `json:"tableNumber,omitempty"`
	}{TableNumber: tableNumber}
	return apiclient.Do[domain.QRCodeResult](ctx, a.client, http.MethodPost, restaurantPath(id)+"/qr-codes", apiclient.WithBody(body))
}

func restaurantPath(id string) string {
	return "/restaurant/" + url.PathEscape(id)
}
