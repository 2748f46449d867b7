// Package store owns the values the client persists between runs: the current restaurant and
// menu, the recently viewed restaurants, user preferences and the draft menu.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	menus "qrMenu/internal/modules/menus/domain"
	restaurants "qrMenu/internal/modules/restaurants/domain"
	"qrMenu/internal/platform/storage"
	"qrMenu/internal/shared/format"
)

const (
	KeyCurrentRestaurant = "current_restaurant"
	KeyCurrentMenu       = "current_menu"
	KeyRecentRestaurants = "recent_restaurants"
	KeyUserPreferences   = "user_preferences"
	KeyDraftMenu         = "draft_menu"

	// MaxRecent caps the recently viewed restaurant list.
	MaxRecent = 10
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences are per-user display settings.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	Currency string `json:"currency"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: "light", Language: "en", Currency: "USD"}
}

// Validate accepts the light and dark themes, a non-empty language and a known currency.
func (p Preferences) Validate() error {
	if p.Theme != "light" && p.Theme != "dark" {
		return errors.Join(ErrInvalidPreferences, errors.New("theme must be light or dark"))
	}
	if strings.TrimSpace(p.Language) == "" {
		return errors.Join(ErrInvalidPreferences, errors.New("language is required"))
	}
	if _, ok := format.LookupCurrency(p.Currency); !ok {
		return errors.Join(ErrInvalidPreferences, errors.New("unknown currency "+p.Currency))
	}
	return nil
}

// Store is the single owner of the persisted keys. Services receive it through their
// CurrentStore ports.
type Store struct {
	bridge *storage.Bridge
	logger *zap.Logger

	restaurant *storage.Value[*restaurants.Restaurant]
	menu       *storage.Value[*menus.Menu]
	recent     *storage.Value[[]string]
	prefs      *storage.Value[Preferences]
	draft      *storage.Value[*menus.Menu]

	mu       sync.Mutex
	unfollow []func()
}

// New loads every key from the bridge.
func New(bridge *storage.Bridge, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.L()
	}
	return &Store{
		bridge:     bridge,
		logger:     logger.Named("store"),
		restaurant: storage.NewValue[*restaurants.Restaurant](bridge, KeyCurrentRestaurant, nil),
		menu:       storage.NewValue[*menus.Menu](bridge, KeyCurrentMenu, nil),
		recent:     storage.NewValue(bridge, KeyRecentRestaurants, []string{}),
		prefs:      storage.NewValue(bridge, KeyUserPreferences, DefaultPreferences()),
		draft:      storage.NewValue[*menus.Menu](bridge, KeyDraftMenu, nil),
	}
}

// CurrentRestaurant returns a copy of the current restaurant, nil when none is set.
func (s *Store) CurrentRestaurant() *restaurants.Restaurant {
	return cloneRestaurant(s.restaurant.Get())
}

// SetCurrentRestaurant persists r as current. A non-nil restaurant also moves to the front
// of the recent list.
func (s *Store) SetCurrentRestaurant(r *restaurants.Restaurant) {
	s.restaurant.Set(cloneRestaurant(r))
	if r != nil {
		s.recent.Update(func(prev []string) []string { return pushRecent(prev, r.ID) })
	}
}

// RecentRestaurants returns the recently viewed ids, most recent first.
func (s *Store) RecentRestaurants() []string {
	return normalizeRecent(s.recent.Get())
}

// PurgeRecent removes every occurrence of id from the recent list.
func (s *Store) PurgeRecent(id string) {
	s.recent.Update(func(prev []string) []string {
		return slices.DeleteFunc(slices.Clone(prev), func(v string) bool { return v == id })
	})
}

func (s *Store) CurrentMenu() *menus.Menu {
	return cloneMenu(s.menu.Get())
}

func (s *Store) SetCurrentMenu(m *menus.Menu) {
	s.menu.Set(cloneMenu(m))
}

func (s *Store) Preferences() Preferences {
	return s.prefs.Get()
}

func (s *Store) SetPreferences(p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.prefs.Set(p)
	return nil
}

// DraftMenu returns the unsaved menu being edited, nil when there is none.
func (s *Store) DraftMenu() *menus.Menu {
	return cloneMenu(s.draft.Get())
}

func (s *Store) SetDraftMenu(m *menus.Menu) {
	s.draft.Set(cloneMenu(m))
}

func (s *Store) ClearDraftMenu() {
	s.draft.Remove()
}

// OnCurrentMenuChange calls fn whenever the current menu changes, locally or in another process.
func (s *Store) OnCurrentMenuChange(fn func(*menus.Menu)) (cancel func()) {
	return s.menu.OnChange(func(m *menus.Menu) { fn(cloneMenu(m)) })
}

// OnCurrentRestaurantChange calls fn whenever the current restaurant changes.
func (s *Store) OnCurrentRestaurantChange(fn func(*restaurants.Restaurant)) (cancel func()) {
	return s.restaurant.OnChange(func(r *restaurants.Restaurant) { fn(cloneRestaurant(r)) })
}

// Follow starts the bridge and applies values written by other processes. Payloads that are
// not well formed are logged and dropped.
func (s *Store) Follow(ctx context.Context) error {
	if err := s.bridge.Start(ctx); err != nil && !errors.Is(err, storage.ErrAlreadyStarted) {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.unfollow) > 0 {
		return nil
	}
	s.unfollow = append(s.unfollow,
		s.restaurant.Follow(func(r *restaurants.Restaurant) bool { return r == nil || strings.TrimSpace(r.ID) != "" }),
		s.menu.Follow(validMenu),
		s.draft.Follow(func(m *menus.Menu) bool { return m == nil || strings.TrimSpace(m.Name) != "" || m.ID != "" }),
		s.recent.Follow(func(ids []string) bool { return !slices.Contains(ids, "") }),
		s.prefs.Follow(func(p Preferences) bool { return p.Validate() == nil }),
	)
	s.logger.Debug("following storage changes")
	return nil
}

// Unfollow stops applying external changes.
func (s *Store) Unfollow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.unfollow {
		cancel()
	}
	s.unfollow = nil
}

func validMenu(m *menus.Menu) bool {
	if m == nil {
		return true
	}
	if strings.TrimSpace(m.ID) == "" {
		return false
	}
	for _, c := range m.Categories {
		if c.ID == "" {
			return false
		}
	}
	return true
}

// pushRecent drops earlier occurrences of id, puts it first and caps the list.
func pushRecent(prev []string, id string) []string {
	out := make([]string, 0, len(prev)+1)
	out = append(out, id)
	for _, v := range prev {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) > MaxRecent {
		out = out[:MaxRecent]
	}
	return out
}

func normalizeRecent(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == MaxRecent {
			break
		}
	}
	return out
}

func cloneRestaurant(r *restaurants.Restaurant) *restaurants.Restaurant {
	if r == nil {
		return nil
	}
	copied := r.Clone()
	return &copied
}

func cloneMenu(m *menus.Menu) *menus.Menu {
	if m == nil {
		return nil
	}
	copied := m.Clone()
	return &copied
}
