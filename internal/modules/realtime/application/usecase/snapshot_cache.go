package usecase

import (
	"strings"
	"sync"
	"time"

	menus "qrMenu/internal/modules/menus/domain"
)

// snapshotCache keeps the last public menu fetched per slug so viewers can be refreshed by
// restaurant id and served when the backend is briefly unavailable.
type snapshotCache struct {
	mu           sync.RWMutex
	entries      map[string]*snapshotCacheEntry
	byRestaurant map[string]map[string]struct{}
}

type snapshotCacheEntry struct {
	slug         string
	restaurantID string
	view         menus.PublicMenu
	fetchedAt    time.Time
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{
		entries:      make(map[string]*snapshotCacheEntry),
		byRestaurant: make(map[string]map[string]struct{}),
	}
}

func (c *snapshotCache) set(slug string, view menus.PublicMenu, at time.Time) {
	slug = normalizeSlug(slug)
	if slug == "" {
		return
	}
	restaurantID := strings.TrimSpace(view.Restaurant.ID)
	if restaurantID == "" {
		restaurantID = strings.TrimSpace(view.Menu.RestaurantID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if previous, ok := c.entries[slug]; ok && previous.restaurantID != restaurantID {
		c.unindexLocked(previous)
	}
	c.entries[slug] = &snapshotCacheEntry{
		slug:         slug,
		restaurantID: restaurantID,
		view:         view,
		fetchedAt:    at.UTC(),
	}
	if restaurantID != "" {
		if c.byRestaurant[restaurantID] == nil {
			c.byRestaurant[restaurantID] = make(map[string]struct{})
		}
		c.byRestaurant[restaurantID][slug] = struct{}{}
	}
}

func (c *snapshotCache) get(slug string) (*snapshotCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[normalizeSlug(slug)]
	if !ok {
		return nil, false
	}
	return entry.clone(), true
}

func (c *snapshotCache) delete(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slug = normalizeSlug(slug)
	if entry, ok := c.entries[slug]; ok {
		c.unindexLocked(entry)
		delete(c.entries, slug)
	}
}

// slugsFor returns the cached slugs that belong to restaurantID.
func (c *snapshotCache) slugsFor(restaurantID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := c.byRestaurant[strings.TrimSpace(restaurantID)]
	results := make([]string, 0, len(set))
	for slug := range set {
		results = append(results, slug)
	}
	return results
}

// restaurantView returns any cached view of restaurantID, used to pair a locally edited menu
// with its restaurant.
func (c *snapshotCache) restaurantView(restaurantID string) (*snapshotCacheEntry, bool) {
	for _, slug := range c.slugsFor(restaurantID) {
		if entry, ok := c.get(slug); ok {
			return entry, true
		}
	}
	return nil, false
}

func (c *snapshotCache) slugs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	results := make([]string, 0, len(c.entries))
	for slug := range c.entries {
		results = append(results, slug)
	}
	return results
}

func (c *snapshotCache) unindexLocked(entry *snapshotCacheEntry) {
	if set := c.byRestaurant[entry.restaurantID]; set != nil {
		delete(set, entry.slug)
		if len(set) == 0 {
			delete(c.byRestaurant, entry.restaurantID)
		}
	}
}

func (e *snapshotCacheEntry) clone() *snapshotCacheEntry {
	if e == nil {
		return nil
	}
	cloned := *e
	cloned.view.Menu = e.view.Menu.Clone()
	return &cloned
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
