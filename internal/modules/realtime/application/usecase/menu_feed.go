package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	analytics "qrMenu/internal/modules/analytics/domain"
	menus "qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/platform/apiclient"
)

var (
	ErrMissingSlug       = errors.New("missing restaurant slug")
	ErrMissingRestaurant = errors.New("public menu has no restaurant")
)

// Viewer describes the customer that opened a menu, for view tracking.
type Viewer struct {
	UserAgent string
	Table     string
	Referrer  string
}

// MenuFeedUseCase serves public menus to the preview server and pushes fresh copies to
// websocket viewers when a menu changes.
type MenuFeedUseCase struct {
	source      port.MenuSource
	broadcaster *BroadcastUseCase
	cache       *snapshotCache
	logger      *zap.Logger
	now         func() time.Time
}

func NewMenuFeedUseCase(source port.MenuSource, broadcaster *BroadcastUseCase, logger *zap.Logger) *MenuFeedUseCase {
	if logger == nil {
		logger = zap.L()
	}
	return &MenuFeedUseCase{
		source:      source,
		broadcaster: broadcaster,
		cache:       newSnapshotCache(),
		logger:      logger.Named("menu-feed"),
		now:         time.Now,
	}
}

// Load fetches the public menu of slug. When the backend is unreachable a previously fetched
// copy is served instead; a not-found answer evicts it.
func (uc *MenuFeedUseCase) Load(ctx context.Context, slug string) (menus.PublicMenu, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return menus.PublicMenu{}, ErrMissingSlug
	}

	view, err := uc.source.Menu(ctx, slug)
	switch {
	case err == nil:
		uc.cache.set(slug, view, uc.now())
		return view, nil
	case isNotFound(err):
		uc.logger.Warn("public menu not found", zap.String("slug", slug))
		uc.cache.delete(slug)
		return menus.PublicMenu{}, err
	default:
		uc.logger.Error("public menu fetch failed", zap.String("slug", slug), zap.Error(err))
		if cached, ok := uc.cache.get(slug); ok && isTransient(err) {
			uc.logger.Info("serving cached public menu", zap.String("slug", slug), zap.Time("fetched_at", cached.fetchedAt))
			return cached.view, nil
		}
		return menus.PublicMenu{}, err
	}
}

// View loads the menu of slug and applies the filter command. An empty command returns the
// menu as served, empty categories included.
func (uc *MenuFeedUseCase) View(ctx context.Context, slug string, cmd domain.FilterCommand) (menus.PublicMenu, error) {
	if cmd.IsZero() {
		return uc.Load(ctx, slug)
	}
	filters, sort, err := cmd.Resolve()
	if err != nil {
		return menus.PublicMenu{}, err
	}
	view, err := uc.Load(ctx, slug)
	if err != nil {
		return menus.PublicMenu{}, err
	}
	return applyFilters(view, filters, sort), nil
}

// Snapshot builds the message sent to a viewer right after it connects.
func (uc *MenuFeedUseCase) Snapshot(ctx context.Context, slug string, cmd domain.FilterCommand) (*domain.Message, error) {
	view, err := uc.View(ctx, slug, cmd)
	if err != nil {
		return nil, err
	}
	msg := domain.BuildMenuMessage(domain.ActionSnapshot, view, uc.now(), nil)
	if msg == nil {
		return nil, ErrMissingRestaurant
	}
	return msg, nil
}

// TrackView records a menu view. Failures are logged and never surface to the customer.
func (uc *MenuFeedUseCase) TrackView(ctx context.Context, view menus.PublicMenu, viewer Viewer) {
	restaurantID := view.Restaurant.ID
	if restaurantID == "" {
		return
	}
	event := analytics.ViewEvent{
		Event:      analytics.EventMenuView,
		MenuID:     view.Menu.ID,
		DeviceType: analytics.DetectDevice(viewer.UserAgent),
		Table:      strings.TrimSpace(viewer.Table),
		Referrer:   strings.TrimSpace(viewer.Referrer),
		Timestamp:  menus.Timestamp(uc.now()),
	}
	if err := uc.source.TrackView(ctx, restaurantID, event); err != nil {
		uc.logger.Warn("menu view tracking failed", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return
	}
	uc.logger.Debug("menu view tracked", zap.String("restaurant_id", restaurantID), zap.String("device", string(event.DeviceType)))
}

// RefreshRestaurant re-fetches every cached menu of restaurantID and broadcasts the result.
func (uc *MenuFeedUseCase) RefreshRestaurant(ctx context.Context, restaurantID string) {
	slugs := uc.cache.slugsFor(restaurantID)
	if len(slugs) == 0 {
		uc.logger.Debug("no viewers cached for restaurant", zap.String("restaurant_id", restaurantID))
		return
	}
	for _, slug := range slugs {
		uc.refreshSlug(ctx, slug)
	}
}

// RefreshSlug re-fetches one menu and broadcasts it.
func (uc *MenuFeedUseCase) RefreshSlug(ctx context.Context, slug string) {
	uc.refreshSlug(ctx, normalizeSlug(slug))
}

// RefreshAll re-fetches every cached menu.
func (uc *MenuFeedUseCase) RefreshAll(ctx context.Context) {
	for _, slug := range uc.cache.slugs() {
		uc.refreshSlug(ctx, slug)
	}
}

// MenuDeleted tells the viewers of restaurantID that menuID is gone and drops the cached copies
// that still show it.
func (uc *MenuFeedUseCase) MenuDeleted(ctx context.Context, restaurantID, menuID string) {
	for _, slug := range uc.cache.slugsFor(restaurantID) {
		if entry, ok := uc.cache.get(slug); ok && (menuID == "" || entry.view.Menu.ID == menuID) {
			uc.cache.delete(slug)
		}
	}
	uc.broadcaster.Execute(ctx, domain.BuildMenuDeletedMessage(restaurantID, menuID, uc.now()))
	uc.logger.Info("menu deletion broadcast", zap.String("restaurant_id", restaurantID), zap.String("menu_id", menuID))
}

// PublishLocal broadcasts a menu edited through the storage bridge, e.g. by the CLI in another
// process. The restaurant is taken from the cache when one of its menus was already served.
func (uc *MenuFeedUseCase) PublishLocal(ctx context.Context, menu *menus.Menu) {
	if menu == nil || strings.TrimSpace(menu.RestaurantID) == "" {
		return
	}
	view := menus.PublicMenu{Menu: menu.Clone()}
	if entry, ok := uc.cache.restaurantView(menu.RestaurantID); ok {
		view.Restaurant = entry.view.Restaurant
		if entry.view.Menu.ID == menu.ID {
			uc.cache.set(entry.slug, view, uc.now())
		}
	}
	msg := domain.BuildMenuMessage(domain.ActionUpdated, view, uc.now(), domain.Metadata{"source": "storage"})
	uc.broadcaster.Execute(ctx, msg)
	uc.logger.Info("local menu change broadcast", zap.String("restaurant_id", menu.RestaurantID), zap.String("menu_id", menu.ID))
}

func (uc *MenuFeedUseCase) refreshSlug(ctx context.Context, slug string) {
	view, err := uc.source.Menu(ctx, slug)
	switch {
	case isNotFound(err):
		uc.logger.Warn("refresh menu not found", zap.String("slug", slug))
		uc.cache.delete(slug)
		return
	case err != nil:
		uc.logger.Error("refresh menu failed", zap.String("slug", slug), zap.Error(err))
		return
	}
	uc.cache.set(slug, view, uc.now())

	msg := domain.BuildMenuMessage(domain.ActionUpdated, view, uc.now(), nil)
	if msg == nil {
		uc.logger.Debug("refresh menu skipped", zap.String("slug", slug))
		return
	}
	uc.broadcaster.Execute(ctx, msg)
	uc.logger.Info("refreshed menu broadcast", zap.String("slug", slug), zap.String("topic", msg.Topic))
}

func applyFilters(view menus.PublicMenu, filters menus.Filters, sort menus.SortOptions) menus.PublicMenu {
	out := view
	out.Menu = menus.FilterMenu(view.Menu, filters)
	for i := range out.Menu.Categories {
		out.Menu.Categories[i].Items = menus.SortItems(out.Menu.Categories[i].Items, sort)
	}
	return out
}

func isNotFound(err error) bool {
	var apiErr *apiclient.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func isTransient(err error) bool {
	return errors.Is(err, apiclient.ErrTimeout) || errors.Is(err, apiclient.ErrServer) ||
		errors.Is(err, apiclient.ErrTransport) || errors.Is(err, apiclient.ErrRateLimited)
}
