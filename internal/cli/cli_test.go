package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qrMenu/internal/app/store"
	"qrMenu/internal/config"
	qrdomain "qrMenu/internal/modules/qrcodes/domain"
	"qrMenu/internal/platform/apiclient"
	"qrMenu/internal/platform/apiclient/apitest"
	"qrMenu/internal/shared/auth"
)

type harness struct {
	api *apitest.Server
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := apitest.New(t)
	return &harness{
		api: api,
		cfg: &config.Config{
			API:     config.APIConfig{BaseURL: api.URL + "/api", Timeout: 5 * time.Second},
			Storage: config.StorageConfig{Backend: "file", Dir: t.TempDir()},
			Server:  config.ServerConfig{PublicBaseURL: "http://menu.test"},
			Logging: config.LoggingConfig{Level: "error"},
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	err := Execute(context.Background(), Options{
		Out:    &out,
		Err:    io.Discard,
		Config: h.cfg,
		Logger: zap.NewNop(),
	}, args)
	return out.String(), err
}

const restaurantJSON = `{"_id":"r1","name":"Bob's","slug":"bobs","branding":{"primaryColor":"#111111","secondaryColor":"#222222","font":"Inter","theme":"modern"}}`

const menuJSON = `{"_id":"m1","restaurantId":"r1","name":"Lunch","isActive":true,"categories":[
	{"_id":"c1","name":"Mains","order":0,"isActive":true,"items":[
		{"_id":"i1","name":"Soup","price":5,"order":0,"isAvailable":true},
		{"_id":"i2","name":"Stew","price":9,"order":1,"isAvailable":true}]}],"lastUpdated":"2026-01-01T00:00:00.000Z"}`

func TestRestaurantUseSelectsCurrentForLaterCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/restaurant/bobs", apitest.OK(restaurantJSON))
	h.api.Handle(http.MethodGet, "/menu", apitest.OK(`[`+menuJSON+`]`))

	out, err := h.run("restaurant", "use", "bobs")
	require.NoError(t, err)
	assert.Contains(t, out, `"current": "r1"`)

	out, err = h.run("menu", "list")
	require.NoError(t, err)
	calls := h.api.CallsTo(http.MethodGet, "/menu")
	require.Len(t, calls, 1)
	assert.Equal(t, "r1", calls[0].Query["restaurantId"])

	var menus []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &menus))
	require.Len(t, menus, 1)
	assert.Equal(t, "Lunch", menus[0]["name"])

	out, err = h.run("restaurant", "recent")
	require.NoError(t, err)
	assert.JSONEq(t, `["r1"]`, out)
}

func TestMenuListWithoutRestaurant(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.run("menu", "list")
	assert.ErrorIs(t, err, errNoRestaurant)
	assert.Empty(t, h.api.Calls())
}

func TestRestaurantDeleteReportsServerError(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodDelete, "/restaurant/r1", apitest.Fail(http.StatusInternalServerError, "boom"))

	_, err := h.run("restaurant", "delete", "r1")
	assert.ErrorIs(t, err, apiclient.ErrServer)
}

func TestCategoryAddAppendsToCurrentMenu(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/menu/m1", apitest.OK(menuJSON))
	h.api.Handle(http.MethodPost, "/menu/m1/categories", apitest.OK(`{"_id":"c2","name":"Drinks","order":1,"isActive":true,"items":[]}`))

	_, err := h.run("menu", "use", "m1")
	require.NoError(t, err)
	out, err := h.run("category", "add", "Drinks", "--description", "Cold ones")
	require.NoError(t, err)
	assert.Contains(t, out, `"_id": "c2"`)

	var body map[string]any
	require.NoError(t, h.api.Last().Decode(&body))
	assert.Equal(t, "Drinks", body["name"])
	assert.Equal(t, "Cold ones", body["description"])
	assert.EqualValues(t, 1, body["order"])
}

func TestItemReorderPrintsStoredOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/menu/m1", apitest.OK(menuJSON))
	h.api.Handle(http.MethodPost, "/menu/m1/items/reorder", apitest.OK(`[]`))

	_, err := h.run("menu", "use", "m1")
	require.NoError(t, err)
	out, err := h.run("item", "reorder", "--category", "c1", "i2", "ghost", "i1")
	require.NoError(t, err)
	assert.JSONEq(t, `["i2","i1"]`, out)
}

func TestItemImportSkipsUnparseableRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodPost, "/menu/m1/items/bulk", apitest.OK(`{"successful":2,"failed":0,"errors":[]}`))
	h.api.Handle(http.MethodGet, "/menu/m1", apitest.OK(menuJSON))

	sheet := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(sheet, []byte(
		"categoryName,itemName,description,price\n"+
			"Mains,Soup,Hot,5\n"+
			"Mains,Stew,Slow,9.5\n"+
			"Mains,Pie,Flaky,abc\n"), 0o644))

	out, err := h.run("item", "import", "--menu", "m1", sheet)
	require.NoError(t, err)

	var report importReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Result.Successful)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 4, report.Skipped[0].Row)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, h.api.CallsTo(http.MethodPost, "/menu/m1/items/bulk")[0].Decode(&body))
	assert.Len(t, body.Items, 2)
	assert.Len(t, h.api.CallsTo(http.MethodGet, "/menu/m1"), 1)
}

func TestItemImportTemplate(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run("item", "import", "--template")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "categoryName,itemName,"), out)
	assert.Empty(t, h.api.Calls())
}

func TestPrefsPersistBetweenRuns(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.run("prefs", "set", "--theme", "neon")
	assert.ErrorIs(t, err, store.ErrInvalidPreferences)

	_, err = h.run("prefs", "set", "--theme", "dark", "--currency", "eur")
	require.NoError(t, err)

	out, err := h.run("prefs", "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","language":"en","currency":"EUR"}`, out)
}

func TestQRRenderWritesPNG(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	target := filepath.Join(t.TempDir(), "bobs.png")

	out, err := h.run("qr", "render", "bobs", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, `"url": "http://menu.test/menu/bobs"`)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = h.run("qr", "render", "bobs", "--size", "100")
	assert.ErrorIs(t, err, qrdomain.ErrInvalidSize)
}

func TestTokenIssuesValidToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, err := h.run("token", "--subject", "viewer-1")
	assert.Error(t, err)

	h.cfg.Security.JWTSecret = "s3cret"
	out, err := h.run("token", "--subject", "viewer-1", "--restaurant", "r1")
	require.NoError(t, err)

	var issued map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	claims, err := auth.NewJWTValidator("s3cret").Validate(issued["token"])
	require.NoError(t, err)
	assert.Equal(t, "viewer-1", claims.Subject)
	assert.Equal(t, "r1", claims.RestaurantID)
}

func TestAnalyticsDashboardWindow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/analytics/r1/dashboard", apitest.OK(`{"_id":"a1","restaurantId":"r1","metrics":{"totalScans":42,
		"deviceTypes":{"mobile":40,"tablet":1,"desktop":1},"timeDistribution":[{"hour":9,"scans":3},{"hour":12,"scans":20}]}}`))

	out, err := h.run("analytics", "dashboard", "--restaurant", "r1", "--start", "2026-01-01", "--end", "2026-01-31")
	require.NoError(t, err)

	call := h.api.Last()
	assert.Equal(t, "2026-01-01", call.Query["start"])
	assert.Equal(t, "2026-01-31", call.Query["end"])

	var view struct {
		TotalDevices int `json:"totalDevices"`
		PeakHour     struct {
			Hour int `json:"hour"`
		} `json:"peakHour"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 42, view.TotalDevices)
	assert.Equal(t, 12, view.PeakHour.Hour)
}

func TestAnalyticsItemsCSV(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/analytics/r1/items", apitest.OK(`[
		{"itemId":"i1","itemName":"Soup, hot","views":3},
		{"itemId":"i2","itemName":"Stew","views":1}]`))

	out, err := h.run("analytics", "items", "--restaurant", "r1", "--limit", "2", "--csv")
	require.NoError(t, err)
	assert.Equal(t, "itemId,itemName,views,share\ni1,\"Soup, hot\",3,75.0%\ni2,Stew,1,25.0%\n", out)
	assert.Equal(t, "2", h.api.Last().Query["limit"])
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.api.Handle(http.MethodGet, "/health", apitest.OK(`{"status":"ok","timestamp":"2026-01-01T00:00:00Z"}`))

	out, err := h.run("health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","timestamp":"2026-01-01T00:00:00Z"}`, out)
}

func TestDecodeDataRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var patch struct {
		Name *string `json:"name"`
	}
	require.NoError(t, decodeData(`{"name":"Bistro"}`, nil, &patch))
	assert.Equal(t, "Bistro", *patch.Name)

	assert.Error(t, decodeData(`{"nmae":"Bistro"}`, nil, &patch))
	assert.Error(t, decodeData("", nil, &patch))
	require.NoError(t, decodeData("-", strings.NewReader(`{"name":"Stdin"}`), &patch))
	assert.Equal(t, "Stdin", *patch.Name)
}
