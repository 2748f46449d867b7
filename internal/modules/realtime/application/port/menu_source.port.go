package port

import (
	"context"

	analytics "qrMenu/internal/modules/analytics/domain"
	menus "qrMenu/internal/modules/menus/domain"
)

// MenuSource is the public side of the REST backend the preview server reads from.
type MenuSource interface {
	Menu(ctx context.Context, restaurantSlug string) (menus.PublicMenu, error)
	TrackView(ctx context.Context, restaurantID string, event analytics.ViewEvent) error
}
