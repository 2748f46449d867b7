package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qrMenu/internal/app/store"
	"qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/modules/restaurants/infrastructure"
	"qrMenu/internal/platform/apiclient/apitest"
	"qrMenu/internal/platform/storage"
	"qrMenu/internal/shared/notify"
)

type fixture struct {
	srv      *apitest.Server
	store    *store.Store
	notifier *notify.Recorder
	service  *RestaurantService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	srv := apitest.New(t)
	st := store.New(storage.NewBridge(storage.NewMemoryBackend(), zap.NewNop()), zap.NewNop())
	rec := &notify.Recorder{}
	svc := NewRestaurantService(infrastructure.NewRestaurantAPI(srv.Client()), st, rec, zap.NewNop())
	return fixture{srv: srv, store: st, notifier: rec, service: svc}
}

func TestCreateAppendsAndBecomesCurrent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodPost, "/restaurants", apitest.OK(`{"_id":"r1","name":"Bob's Café #1","slug":"bobs-caf-1"}`))

	created, err := f.service.Create(context.Background(), domain.CreateInput{Name: "Bob's Café #1"})
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)

	var payload domain.CreatePayload
	require.NoError(t, f.srv.Last().Decode(&payload))
	assert.Equal(t, "bobs-caf-1", payload.Slug)
	assert.Equal(t, domain.DefaultBranding(), payload.Branding)

	assert.Len(t, f.service.Restaurants(), 1)
	require.NotNil(t, f.service.Current())
	assert.Equal(t, "r1", f.service.Current().ID)
	assert.Equal(t, []string{"r1"}, f.service.Recent())
	assert.Equal(t, []string{MsgCreated}, f.notifier.Titles(notify.TypeSuccess))
	assert.False(t, f.service.Loading())
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodPost, "/restaurants", apitest.Fail(http.StatusConflict, "Slug already exists"))

	_, err := f.service.Create(context.Background(), domain.CreateInput{Name: "Bistro"})
	require.Error(t, err)

	assert.Empty(t, f.service.Restaurants())
	assert.Nil(t, f.service.Current())
	assert.Equal(t, "Slug already exists", f.service.Error())
	assert.False(t, f.service.Loading())
	assert.Equal(t, []string{"Slug already exists"}, f.notifier.Titles(notify.TypeError))
}

func TestCreateRejectsInvalidInputWithoutCallingServer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.service.Create(context.Background(), domain.CreateInput{Name: " "})
	require.ErrorIs(t, err, domain.ErrMissingName)
	assert.Empty(t, f.srv.Calls())
	assert.Equal(t, domain.ErrMissingName.Error(), f.service.Error())
}

func TestDeleteCurrentClearsAndPurgesRecent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodGet, "/restaurants", apitest.OK(`[{"_id":"r1","name":"A"},{"_id":"r2","name":"B"}]`))
	f.srv.Handle(http.MethodDelete, "/restaurant/r1", apitest.OK(""))
	ctx := context.Background()

	_, err := f.service.List(ctx)
	require.NoError(t, err)
	f.service.SetCurrent(&domain.Restaurant{ID: "r1"})
	f.service.SetCurrent(&domain.Restaurant{ID: "r2"})
	f.service.SetCurrent(&domain.Restaurant{ID: "r1"})

	require.NoError(t, f.service.Delete(ctx, "r1"))

	assert.Nil(t, f.service.Current())
	assert.Equal(t, []string{"r2"}, f.service.Recent())
	require.Len(t, f.service.Restaurants(), 1)
	assert.Equal(t, "r2", f.service.Restaurants()[0].ID)
	assert.Equal(t, []string{MsgDeleted}, f.notifier.Titles(notify.TypeSuccess))
}

func TestUpdateReplacesListAndCurrent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodGet, "/restaurants", apitest.OK(`[{"_id":"r1","name":"A"}]`))
	f.srv.Handle(http.MethodPut, "/restaurant/r1", apitest.OK(`{"_id":"r1","name":"A2"}`))
	ctx := context.Background()

	_, err := f.service.List(ctx)
	require.NoError(t, err)
	f.service.SetCurrent(&domain.Restaurant{ID: "r1", Name: "A"})

	name := "A2"
	_, err = f.service.Update(ctx, "r1", domain.UpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "A2", f.service.Restaurants()[0].Name)
	assert.Equal(t, "A2", f.service.Current().Name)
	assert.Equal(t, []string{MsgUpdated}, f.notifier.Titles(notify.TypeSuccess))
}

func TestGetSetsCurrentWithoutNotifying(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodGet, "/restaurant/bistro", apitest.OK(`{"_id":"r7","slug":"bistro"}`))

	_, err := f.service.Get(context.Background(), "bistro")
	require.NoError(t, err)
	assert.Equal(t, "r7", f.service.Current().ID)

	_, err = f.service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Route not found", f.service.Error())
	assert.Empty(t, f.notifier.All())
}

func TestUpdateBrandingValidatesColors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.service.UpdateBranding(context.Background(), "r1", domain.Branding{PrimaryColor: "red"})
	require.ErrorIs(t, err, domain.ErrInvalidColor)
	assert.Empty(t, f.srv.Calls())
}

func TestGenerateQRCodeReturnsURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.srv.Handle(http.MethodPost, "/restaurant/r1/qr-codes", apitest.OK(`{"qrCodeUrl":"https://cdn/t5.png","tableNumber":"5"}`))

	url, err := f.service.GenerateQRCode(context.Background(), "r1", "5")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/t5.png", url)
	assert.Equal(t, []string{MsgQRCodeGenerated}, f.notifier.Titles(notify.TypeSuccess))
}
