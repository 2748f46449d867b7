package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	analytics "qrMenu/internal/modules/analytics/domain"
	menus "qrMenu/internal/modules/menus/domain"
	qrinfra "qrMenu/internal/modules/qrcodes/infrastructure"
	"qrMenu/internal/modules/realtime/application/usecase"
	domain "qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/modules/realtime/infrastructure"
	restaurants "qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/platform/apiclient"
	"qrMenu/internal/shared/auth"
)

type stubSource struct {
	mu    sync.Mutex
	view  menus.PublicMenu
	views []analytics.ViewEvent
}

func (s *stubSource) Menu(_ context.Context, slug string) (menus.PublicMenu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slug != s.view.Restaurant.Slug {
		return menus.PublicMenu{}, &apiclient.Error{Kind: apiclient.ErrRemote, Status: http.StatusNotFound, Message: "Restaurant not found"}
	}
	return s.view, nil
}

func (s *stubSource) TrackView(_ context.Context, _ string, event analytics.ViewEvent) error {
	s.mu.Lock()
	s.views = append(s.views, event)
	s.mu.Unlock()
	return nil
}

func (s *stubSource) tracked() []analytics.ViewEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analytics.ViewEvent(nil), s.views...)
}

func (s *stubSource) rename(item string) {
	s.mu.Lock()
	s.view.Menu.Categories[0].Items[0].Name = item
	s.mu.Unlock()
}

type stubChecker struct{ err error }

func (s stubChecker) Health(context.Context) (apiclient.HealthStatus, error) {
	if s.err != nil {
		return apiclient.HealthStatus{}, s.err
	}
	return apiclient.HealthStatus{Status: "ok"}, nil
}

type fixture struct {
	echo   *echo.Echo
	hub    *infrastructure.Hub
	feed   *usecase.MenuFeedUseCase
	source *stubSource
}

func newFixture(t *testing.T, guard StreamGuard) *fixture {
	t.Helper()
	source := &stubSource{view: menus.PublicMenu{
		Restaurant: restaurants.Restaurant{ID: "r1", Slug: "bistro", Name: "Bistro"},
		Menu: menus.Menu{ID: "m1", RestaurantID: "r1", Categories: []menus.Category{
			{ID: "c1", Name: "Starters", Items: []menus.MenuItem{
				{ID: "i1", Name: "Soup", Price: 6, DietaryTags: []menus.DietaryTag{menus.DietaryVegan}},
				{ID: "i2", Name: "Wings", Price: 9.5},
			}},
		}},
	}}
	hub := infrastructure.NewHub(zap.NewNop())
	broadcast := usecase.NewBroadcastUseCase(hub)
	feed := usecase.NewMenuFeedUseCase(source, broadcast, zap.NewNop())

	e := echo.New()
	e.GET("/health", NewHealthHandler(stubChecker{}, hub, guard))
	e.GET("/menu/:slug", NewMenuHTTPHandler(feed, zap.NewNop()))
	e.GET("/menu/:slug/qr.png", NewQRCodeHandler(qrinfra.NewPNGRenderer("https://menu.example", zap.NewNop()), zap.NewNop()))
	e.GET("/ws/menu/:slug", NewMenuWebsocketHandler(hub, feed, 8, zap.NewNop()))
	e.GET("/ws/notifications", NewNotificationsWebsocketHandler(hub, guard, 8, zap.NewNop()))
	e.POST("/notifications", NewBroadcastHTTPHandler(broadcast, guard, zap.NewNop()))
	return &fixture{echo: e, hub: hub, feed: feed, source: source}
}

func (f *fixture) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"-", ""},
		{" Bistro ", "bistro"},
		{"bobs-caf-1", "bobs-caf-1"},
	}
	for _, tc := range cases {
		if got := normalizeSlug(tc.in); got != tc.want {
			t.Fatalf("normalizeSlug(%q) expected %q got %q", tc.in, tc.want, got)
		}
	}
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/menu/bistro?q=soup&tags=vegan,gluten-free&tags=halal&min=2&available=true&sort=price&dir=desc", nil)
	cmd, err := filterFromQuery(req.URL.Query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Query != "soup" || len(cmd.Tags) != 3 || cmd.Min == nil || *cmd.Min != 2 || cmd.Max != nil {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if cmd.Available == nil || !*cmd.Available || cmd.Popular != nil {
		t.Fatalf("unexpected flags: %#v", cmd)
	}

	for _, raw := range []string{"min=abc", "max=-1", "popular=maybe", "min=NaN"} {
		req := httptest.NewRequest(http.MethodGet, "/menu/bistro?"+raw, nil)
		if _, err := filterFromQuery(req.URL.Query()); !errors.Is(err, domain.ErrInvalidFilter) {
			t.Fatalf("%s: expected invalid filter, got %v", raw, err)
		}
	}
}

func TestMenuHTTPHandlerFiltersAndTracksView(t *testing.T) {
	f := newFixture(t, nil)
	header := http.Header{"User-Agent": []string{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)"}}

	rec := f.do(http.MethodGet, "/menu/bistro?tags=vegan&table=7", "", header)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view menus.PublicMenu
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Menu.Categories) != 1 || len(view.Menu.Categories[0].Items) != 1 || view.Menu.Categories[0].Items[0].ID != "i1" {
		t.Fatalf("unexpected filtered menu: %#v", view.Menu.Categories)
	}

	deadline := time.Now().Add(time.Second)
	for len(f.source.tracked()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	tracked := f.source.tracked()
	if len(tracked) != 1 {
		t.Fatalf("expected one tracked view, got %d", len(tracked))
	}
	if tracked[0].DeviceType != analytics.DeviceMobile || tracked[0].Table != "7" || tracked[0].MenuID != "m1" {
		t.Fatalf("unexpected view event: %#v", tracked[0])
	}
}

func TestMenuHTTPHandlerMapsErrors(t *testing.T) {
	f := newFixture(t, nil)

	cases := []struct {
		target string
		status int
	}{
		{"/menu/unknown", http.StatusNotFound},
		{"/menu/bistro?min=abc", http.StatusBadRequest},
		{"/menu/bistro?min=10&max=2", http.StatusBadRequest},
		{"/menu/bistro?sort=calories", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := f.do(http.MethodGet, tc.target, "", nil); rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.target, tc.status, rec.Code)
		}
	}
}

func TestQRCodeHandler(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/menu/bistro/qr.png?table=4&size=300&level=h", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Fatal("body is not a PNG")
	}

	for _, target := range []string{"/menu/bistro/qr.png?size=50", "/menu/bistro/qr.png?size=big", "/menu/bistro/qr.png?level=X"} {
		if rec := f.do(http.MethodGet, target, "", nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHealthHandlerReportsDegradedBackend(t *testing.T) {
	hub := infrastructure.NewHub(zap.NewNop())
	e := echo.New()
	e.GET("/health", NewHealthHandler(stubChecker{err: &apiclient.Error{Kind: apiclient.ErrTransport, Message: apiclient.MsgFailed}}, hub, auth.NewJWTValidator("s3cret")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "degraded" || body.Backend != nil || body.BackendError == "" || body.Notifications != "token" {
		t.Fatalf("unexpected health body: %#v", body)
	}
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s: %v (status %d)", path, err, status)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg domain.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestMenuWebsocketStreamsSnapshotThenUpdates(t *testing.T) {
	f := newFixture(t, nil)
	server := httptest.NewServer(f.echo)
	defer server.Close()

	conn := dial(t, server, "/ws/menu/bistro?viewer=v1")

	connected := readMessage(t, conn)
	if connected.Topic != domain.TopicSystemConnected || connected.Metadata["restaurantId"] != "r1" {
		t.Fatalf("unexpected first message: %#v", connected)
	}
	snapshot := readMessage(t, conn)
	if snapshot.Action != domain.ActionSnapshot || snapshot.Topic != domain.MenuTopic("r1") {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}

	f.source.rename("Tomato Soup")
	f.feed.RefreshSlug(context.Background(), "bistro")

	update := readMessage(t, conn)
	if update.Action != domain.ActionUpdated || update.Metadata["menuId"] != "m1" {
		t.Fatalf("unexpected update: %#v", update)
	}
	raw, _ := json.Marshal(update.Data)
	if !strings.Contains(string(raw), "Tomato Soup") {
		t.Fatalf("update does not carry the new menu: %s", raw)
	}

	if err := conn.WriteJSON(map[string]any{"action": "filter", "payload": map[string]any{"tags": []string{"vegan"}}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	filtered := readMessage(t, conn)
	if filtered.Action != domain.ActionSnapshot {
		t.Fatalf("expected filtered snapshot, got %#v", filtered)
	}
}

func TestMenuWebsocketRejectsUnknownMenuBeforeUpgrade(t *testing.T) {
	f := newFixture(t, nil)
	server := httptest.NewServer(f.echo)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/menu/unknown"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %#v", resp)
	}
}

func TestNotificationsWebsocketRequiresToken(t *testing.T) {
	guard := auth.NewJWTValidator("s3cret")
	f := newFixture(t, guard)

	if rec := f.do(http.MethodGet, "/ws/notifications", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/ws/notifications?token=garbage", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}
}

func TestBroadcastReachesScopedNotificationClient(t *testing.T) {
	guard := auth.NewJWTValidator("s3cret")
	f := newFixture(t, guard)
	server := httptest.NewServer(f.echo)
	defer server.Close()

	token, err := guard.Issue("owner-1", "r1", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	conn := dial(t, server, "/ws/notifications?token="+token)
	if connected := readMessage(t, conn); connected.Metadata["restaurantId"] != "r1" {
		t.Fatalf("client not scoped to its restaurant: %#v", connected)
	}

	header := http.Header{"Authorization": []string{"Bearer " + token}}
	rec := f.do(http.MethodPost, "/notifications", `{"type":"success","title":"Menu updated successfully!","restaurantId":"r2"}`, header)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	msg := readMessage(t, conn)
	if msg.Topic != domain.TopicNotifications || msg.Metadata["restaurantId"] != "r1" {
		t.Fatalf("scoped token should pin the restaurant: %#v", msg)
	}

	if rec := f.do(http.MethodPost, "/notifications", `{"title":"x"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/notifications", `{"type":"shout","title":"x"}`, header); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}
