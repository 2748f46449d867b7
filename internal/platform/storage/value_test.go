package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prefs struct {
	Theme    string `json:"theme"`
	Currency string `json:"currency"`
}

func TestValueFreshReadReturnsDefault(t *testing.T) {
	t.Parallel()

	bridge := NewBridge(NewMemoryBackend(), zap.NewNop())
	def := prefs{Theme: "light", Currency: "USD"}

	value := NewValue(bridge, "user_preferences", def)

	assert.Equal(t, def, value.Get())
}

func TestValueSetSurvivesFreshRead(t *testing.T) {
	t.Parallel()

	bridge := NewBridge(NewMemoryBackend(), zap.NewNop())
	value := NewValue(bridge, "user_preferences", prefs{Theme: "light"})

	value.Set(prefs{Theme: "dark", Currency: "EUR"})

	fresh := NewValue(bridge, "user_preferences", prefs{Theme: "light"})
	assert.Equal(t, prefs{Theme: "dark", Currency: "EUR"}, fresh.Get())
}

func TestValueUpdateComposesWithOneWriteEach(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	bridge := NewBridge(backend, zap.NewNop())
	counter := NewValue(bridge, "counter", 0)

	counter.Update(func(prev int) int { return prev + 1 })
	counter.Update(func(prev int) int { return prev + 1 })

	assert.Equal(t, 2, counter.Get())
	assert.Equal(t, 2, backend.Writes())
	assert.Equal(t, 2, Read(bridge, "counter", -1))
}

func TestValueRemoveResetsToDefault(t *testing.T) {
	t.Parallel()

	bridge := NewBridge(NewMemoryBackend(), zap.NewNop())
	value := NewValue(bridge, "draft_menu", "none")
	value.Set("draft")

	value.Remove()

	assert.Equal(t, "none", value.Get())
	assert.Equal(t, "none", Read(bridge, "draft_menu", "none"))
}

func TestValueOnChangeSeesLocalWrites(t *testing.T) {
	t.Parallel()

	bridge := NewBridge(NewMemoryBackend(), zap.NewNop())
	value := NewValue(bridge, "counter", 0)

	var seen []int
	cancel := value.OnChange(func(v int) { seen = append(seen, v) })
	value.Set(4)
	cancel()
	value.Set(5)

	assert.Equal(t, []int{4}, seen)
}

func TestReadReturnsDefaultForCorruptPayload(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), "current_menu", []byte("{not json")))
	bridge := NewBridge(backend, zap.NewNop())

	assert.Equal(t, "fallback", Read(bridge, "current_menu", "fallback"))
}

func TestWriteSwallowsInvalidKey(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	bridge := NewBridge(backend, zap.NewNop())

	bridge.Write("../escape", 1)
	bridge.Remove(" spaced ")

	assert.Equal(t, 0, backend.Writes())
}

func TestValueFollowAppliesForeignChanges(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	local := NewBridge(store.Open(), zap.NewNop())
	remoteBackend := store.Open()
	remote := NewBridge(remoteBackend, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, local.Start(ctx))

	value := NewValue(local, "counter", 0)
	var applied atomic.Int64
	stop := value.OnChange(func(v int) { applied.Store(int64(v)) })
	defer stop()
	unfollow := value.Follow(func(v int) bool { return v >= 0 })
	defer unfollow()

	require.NoError(t, remoteBackend.Set(context.Background(), "counter", []byte("garbage")))
	remote.Write("counter", -3)
	remote.Write("counter", 7)

	require.Eventually(t, func() bool { return applied.Load() == 7 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 7, value.Get())
}

func TestValueFollowDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	localBackend := store.Open()
	local := NewBridge(localBackend, zap.NewNop())
	remote := NewBridge(store.Open(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, local.Start(ctx))

	value := NewValue(local, "current_restaurant", "")
	unfollow := value.Follow(nil)
	defer unfollow()

	remote.Write("current_restaurant", "r1")

	require.Eventually(t, func() bool { return value.Get() == "r1" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, localBackend.Writes())
}

func TestBridgeStartTwice(t *testing.T) {
	t.Parallel()

	bridge := NewBridge(NewMemoryBackend(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bridge.Start(ctx))
	assert.ErrorIs(t, bridge.Start(ctx), ErrAlreadyStarted)
}
