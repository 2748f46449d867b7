package infrastructure

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analytics "qrMenu/internal/modules/analytics/domain"
	"qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/platform/apiclient/apitest"
)

func TestMenuAPIListFiltersByRestaurant(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/menu", apitest.OK(`[{"_id":"m1","restaurantId":"r1","name":"Lunch","categories":[]}]`))
	api := NewMenuAPI(srv.Client())

	menus, err := api.List(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "r1", srv.Last().Query["restaurantId"])

	_, err = api.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotContains(t, srv.Last().Query, "restaurantId")
}

func TestMenuAPICategoryRoutes(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/menu/m1/categories", apitest.OK(`{"_id":"c9","name":"Drinks","order":2,"isActive":true,"items":[]}`))
	srv.Handle(http.MethodPut, "/menu/m1/categories/c9", apitest.OK(`{"_id":"c9","name":"Beverages"}`))
	srv.Handle(http.MethodDelete, "/menu/m1/categories/c9", apitest.OK(""))
	srv.Handle(http.MethodPost, "/menu/m1/categories/reorder", apitest.OK(`[]`))
	api := NewMenuAPI(srv.Client())
	ctx := context.Background()

	created, err := api.AddCategory(ctx, "m1", domain.NewCategory(domain.CategoryInput{Name: "Drinks"}, "tmp-1", 2))
	require.NoError(t, err)
	assert.Equal(t, "c9", created.ID)
	assert.JSONEq(t, `{"_id":"tmp-1","name":"Drinks","order":2,"isActive":true,"items":[]}`, string(srv.Last().Body))

	name := "Beverages"
	_, err = api.UpdateCategory(ctx, "m1", "c9", domain.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Beverages"}`, string(srv.Last().Body))

	require.NoError(t, api.DeleteCategory(ctx, "m1", "c9"))

	_, err = api.ReorderCategories(ctx, "m1", []string{"c2", "c1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"categoryIds":["c2","c1"]}`, string(srv.Last().Body))
}

func TestMenuAPIItemRoutes(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/menu/m1/items", apitest.OK(`{"_id":"i7","name":"Soup","price":5}`))
	srv.Handle(http.MethodPost, "/menu/m1/items/reorder", apitest.OK(`[]`))
	srv.Handle(http.MethodPost, "/menu/m1/items/bulk", apitest.OK(`{"successful":1,"failed":1,"errors":[{"row":3,"message":"bad price"}]}`))
	api := NewMenuAPI(srv.Client())
	ctx := context.Background()

	item, err := api.AddItem(ctx, "m1", domain.NewItem(domain.ItemInput{Name: "Soup", Price: 5}, "c1", "tmp-2", 0))
	require.NoError(t, err)
	assert.Equal(t, "i7", item.ID)
	var sent map[string]any
	require.NoError(t, srv.Last().Decode(&sent))
	assert.Equal(t, "c1", sent["categoryId"])
	assert.Equal(t, "tmp-2", sent["_id"])
	assert.Equal(t, float64(0), sent["order"])

	_, err = api.ReorderItems(ctx, "m1", "c1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categoryId":"c1","itemIds":[]}`, string(srv.Last().Body))

	result, err := api.BulkImportItems(ctx, "m1", []domain.BulkImportRow{{CategoryName: "Soups", ItemName: "Miso", Price: 4}})
	require.NoError(t, err)
	assert.Equal(t, domain.ImportResult{Successful: 1, Failed: 1, Errors: []domain.ImportError{{Row: 3, Message: "bad price"}}}, result)
	assert.JSONEq(t, `{"items":[{"categoryName":"Soups","itemName":"Miso","description":"","price":4}]}`, string(srv.Last().Body))
}

func TestMenuAPIDuplicate(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Handle(http.MethodPost, "/menu/m1/duplicate", apitest.OK(`{"_id":"m2","name":"Lunch copy"}`))
	api := NewMenuAPI(srv.Client())

	copyMenu, err := api.Duplicate(context.Background(), "m1", "Lunch copy")
	require.NoError(t, err)
	assert.Equal(t, "m2", copyMenu.ID)
	assert.JSONEq(t, `{"name":"Lunch copy"}`, string(srv.Last().Body))
}

func TestPublicAPI(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	srv.Handle(http.MethodGet, "/public/menu/bistro", apitest.OK(`{"restaurant":{"_id":"r1","slug":"bistro"},"menu":{"_id":"m1","categories":[]}}`))
	srv.Handle(http.MethodPost, "/public/analytics/r1", apitest.OK(""))
	srv.Handle(http.MethodGet, "/public/qr/bistro", apitest.Reply{Body: "\x89PNG", ContentType: "image/png"})
	api := NewPublicAPI(srv.Client())
	ctx := context.Background()

	public, err := api.Menu(ctx, "bistro")
	require.NoError(t, err)
	assert.Equal(t, "r1", public.Restaurant.ID)
	assert.Equal(t, "m1", public.Menu.ID)

	require.NoError(t, api.TrackView(ctx, "r1", analytics.ViewEvent{Event: analytics.EventMenuView, DeviceType: analytics.DeviceMobile}))
	var event analytics.ViewEvent
	require.NoError(t, srv.Last().Decode(&event))
	assert.Equal(t, analytics.DeviceMobile, event.DeviceType)

	image, err := api.QRCode(ctx, "bistro", "12")
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, []byte("\x89PNG"), image.Data)
	assert.Equal(t, "12", srv.Last().Query["table"])
}
