package port

import (
	"context"

	analytics "qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/modules/menus/domain"
	restaurants "qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/platform/apiclient"
)

// MenuAPI is the menu group of the REST backend, categories and items included.
type MenuAPI interface {
	List(ctx context.Context, restaurantID string) ([]domain.Menu, error)
	Get(ctx context.Context, id string) (domain.Menu, error)
	Create(ctx context.Context, payload domain.CreateMenuPayload) (domain.Menu, error)
	Update(ctx context.Context, id string, input domain.UpdateMenuInput) (domain.Menu, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id, name string) (domain.Menu, error)

	Categories(ctx context.Context, menuID string) ([]domain.Category, error)
	AddCategory(ctx context.Context, menuID string, payload domain.NewCategoryPayload) (domain.Category, error)
	UpdateCategory(ctx context.Context, menuID, categoryID string, patch domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, menuID, categoryID string) error
	ReorderCategories(ctx context.Context, menuID string, categoryIDs []string) ([]domain.Category, error)

	Items(ctx context.Context, menuID string) ([]domain.MenuItem, error)
	AddItem(ctx context.Context, menuID string, payload domain.NewItemPayload) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, menuID, itemID string, patch domain.ItemPatch) (domain.MenuItem, error)
	DeleteItem(ctx context.Context, menuID, itemID string) error
	BulkImportItems(ctx context.Context, menuID string, rows []domain.BulkImportRow) (domain.ImportResult, error)
	ReorderItems(ctx context.Context, menuID, categoryID string, itemIDs []string) ([]domain.MenuItem, error)
}

// PublicAPI is the customer-facing group used by scanned QR codes.
type PublicAPI interface {
	Menu(ctx context.Context, restaurantSlug string) (domain.PublicMenu, error)
	Restaurant(ctx context.Context, restaurantSlug string) (restaurants.Restaurant, error)
	TrackView(ctx context.Context, restaurantID string, event analytics.ViewEvent) error
	QRCode(ctx context.Context, restaurantSlug, table string) (apiclient.Binary, error)
}

// CurrentStore holds the persisted current menu.
type CurrentStore interface {
	CurrentMenu() *domain.Menu
	SetCurrentMenu(m *domain.Menu)
}
