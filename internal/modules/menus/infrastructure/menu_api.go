package infrastructure

import (
	"context"
	"net/http"
	"net/url"

	"qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/platform/apiclient"
)

// MenuAPI implements port.MenuAPI over the REST client.
type MenuAPI struct {
	client *apiclient.Client
}

func NewMenuAPI(client *apiclient.Client) *MenuAPI {
	return &MenuAPI{client: client}
}

// List returns every menu, or only those of restaurantID when it is set.
func (a *MenuAPI) List(ctx context.Context, restaurantID string) ([]domain.Menu, error) {
	return apiclient.Do[[]domain.Menu](ctx, a.client, http.MethodGet, "/menu", apiclient.WithQuery("restaurantId", restaurantID))
}

func (a *MenuAPI) Get(ctx context.Context, id string) (domain.Menu, error) {
	return apiclient.Do[domain.Menu](ctx, a.client, http.MethodGet, menuPath(id))
}

func (a *MenuAPI) Create(ctx context.Context, payload domain.CreateMenuPayload) (domain.Menu, error) {
	return apiclient.Do[domain.Menu](ctx, a.client, http.MethodPost, "/menu", apiclient.WithBody(payload))
}

func (a *MenuAPI) Update(ctx context.Context, id string, input domain.UpdateMenuInput) (domain.Menu, error) {
	return apiclient.Do[domain.Menu](ctx, a.client, http.MethodPut, menuPath(id), apiclient.WithBody(input))
}

func (a *MenuAPI) Delete(ctx context.Context, id string) error {
	return a.client.Exec(ctx, http.MethodDelete, menuPath(id))
}

func (a *MenuAPI) Duplicate(ctx context.Context, id, name string) (domain.Menu, error) {
	body := map[string]string{"name": name}
	return apiclient.Do[domain.Menu](ctx, a.client, http.MethodPost, menuPath(id)+"/duplicate", apiclient.WithBody(body))
}

func (a *MenuAPI) Categories(ctx context.Context, menuID string) ([]domain.Category, error) {
	return apiclient.Do[[]domain.Category](ctx, a.client, http.MethodGet, menuPath(menuID)+"/categories")
}

func (a *MenuAPI) AddCategory(ctx context.Context, menuID string, payload domain.NewCategoryPayload) (domain.Category, error) {
	return apiclient.Do[domain.Category](ctx, a.client, http.MethodPost, menuPath(menuID)+"/categories", apiclient.WithBody(payload))
}

func (a *MenuAPI) UpdateCategory(ctx context.Context, menuID, categoryID string, patch domain.CategoryPatch) (domain.Category, error) {
	return apiclient.Do[domain.Category](ctx, a.client, http.MethodPut, categoryPath(menuID, categoryID), apiclient.WithBody(patch))
}

func (a *MenuAPI) DeleteCategory(ctx context.Context, menuID, categoryID string) error {
	return a.client.Exec(ctx, http.MethodDelete, categoryPath(menuID, categoryID))
}

func (a *MenuAPI) ReorderCategories(ctx context.Context, menuID string, categoryIDs []string) ([]domain.Category, error) {
	body := map[string][]string{"categoryIds": nonNil(categoryIDs)}
	return apiclient.Do[[]domain.Category](ctx, a.client, http.MethodPost, menuPath(menuID)+"/categories/reorder", apiclient.WithBody(body))
}

func (a *MenuAPI) Items(ctx context.Context, menuID string) ([]domain.MenuItem, error) {
	return apiclient.Do[[]domain.MenuItem](ctx, a.client, http.MethodGet, menuPath(menuID)+"/items")
}

// AddItem posts the item with its categoryId merged into the body.
func (a *MenuAPI) AddItem(ctx context.Context, menuID string, payload domain.NewItemPayload) (domain.MenuItem, error) {
	return apiclient.Do[domain.MenuItem](ctx, a.client, http.MethodPost, menuPath(menuID)+"/items", apiclient.WithBody(payload))
}

func (a *MenuAPI) UpdateItem(ctx context.Context, menuID, itemID string, patch domain.ItemPatch) (domain.MenuItem, error) {
	return apiclient.Do[domain.MenuItem](ctx, a.client, http.MethodPut, itemPath(menuID, itemID), apiclient.WithBody(patch))
}

func (a *MenuAPI) DeleteItem(ctx context.Context, menuID, itemID string) error {
	return a.client.Exec(ctx, http.MethodDelete, itemPath(menuID, itemID))
}

func (a *MenuAPI) BulkImportItems(ctx context.Context, menuID string, rows []domain.BulkImportRow) (domain.ImportResult, error) {
	if rows == nil {
		rows = []domain.BulkImportRow{}
	}
	body := map[string][]domain.BulkImportRow{"items": rows}
	return apiclient.Do[domain.ImportResult](ctx, a.client, http.MethodPost, menuPath(menuID)+"/items/bulk", apiclient.WithBody(body))
}

func (a *MenuAPI) ReorderItems(ctx context.Context, menuID, categoryID string, itemIDs []string) ([]domain.MenuItem, error) {
	body := struct {
		CategoryID string   `json:"categoryId"`
		ItemIDs    []string `json:"itemIds"`
	}{CategoryID: categoryID, ItemIDs: nonNil(itemIDs)}
	return apiclient.Do[[]domain.MenuItem](ctx, a.client, http.MethodPost, menuPath(menuID)+"/items/reorder", apiclient.WithBody(body))
}

func menuPath(id string) string {
	return "/menu/" + url.PathEscape(id)
}

func categoryPath(menuID, categoryID string) string {
	return menuPath(menuID) + "/categories/" + url.PathEscape(categoryID)
}

func itemPath(menuID, itemID string) string {
	return menuPath(menuID) + "/items/" + url.PathEscape(itemID)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
