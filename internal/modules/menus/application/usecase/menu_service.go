package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"qrMenu/internal/modules/menus/application/port"
	"qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/shared/ids"
	"qrMenu/internal/shared/notify"
	"qrMenu/internal/shared/opstate"
)

const (
	MsgMenuCreated     = "Menu created successfully!"
	MsgMenuUpdated     = "Menu updated successfully!"
	MsgMenuDeleted     = "Menu deleted successfully!"
	MsgMenuDuplicated  = "Menu duplicated successfully!"
	MsgCategoryAdded   = "Category added successfully!"
	MsgCategoryUpdated = "Category updated successfully!"
	MsgCategoryDeleted = "Category deleted successfully!"
	MsgItemAdded       = "Item added successfully!"
	MsgItemUpdated     = "Item updated successfully!"
	MsgItemDeleted     = "Item deleted successfully!"
)

var (
	ErrTooManyCategories = fmt.Errorf("a menu can have at most %d categories", domain.MaxCategoriesPerMenu)
	ErrTooManyItems      = fmt.Errorf("a category can have at most %d items", domain.MaxItemsPerCategory)
)

// MenuService manages the menus of a restaurant together with their categories and items.
// Category and item changes are applied to the current menu once the server confirms them.
type MenuService struct {
	api      port.MenuAPI
	store    port.CurrentStore
	notifier notify.Notifier
	logger   *zap.Logger
	state    opstate.State
	now      func() time.Time
	newID    func() ids.TempID

	mu    sync.RWMutex
	menus []domain.Menu
}

func NewMenuService(api port.MenuAPI, store port.CurrentStore, notifier notify.Notifier, logger *zap.Logger) *MenuService {
	if logger == nil {
		logger = zap.L()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &MenuService{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger.Named("menus"),
		now:      time.Now,
		newID:    ids.NewTempID,
	}
}

func (s *MenuService) Loading() bool { return s.state.Loading() }
func (s *MenuService) Error() string { return s.state.Error() }
func (s *MenuService) ClearError()   { s.state.ClearError() }

func (s *MenuService) Menus() []domain.Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.menus)
}

func (s *MenuService) Current() *domain.Menu     { return s.store.CurrentMenu() }
func (s *MenuService) SetCurrent(m *domain.Menu) { s.store.SetCurrentMenu(m) }

func (s *MenuService) Create(ctx context.Context, in domain.CreateMenuInput) (*domain.Menu, error) {
	s.state.Begin()
	defer s.state.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail("create menu", err)
	}
	created, err := s.api.Create(ctx, domain.NewCreateMenuPayload(in, domain.Timestamp(s.now())))
	if err != nil {
		return nil, s.fail("create menu", err)
	}

	s.mu.Lock()
	s.menus = append(s.menus, created)
	s.mu.Unlock()
	s.SetCurrent(&created)

	s.logger.Info("menu created", zap.String("menu_id", created.ID), zap.String("restaurant_id", created.RestaurantID))
	notify.Success(s.notifier, MsgMenuCreated)
	return &created, nil
}

// Update stamps LastUpdated and sends the partial update.
func (s *MenuService) Update(ctx context.Context, id string, in domain.UpdateMenuInput) (*domain.Menu, error) {
	s.state.Begin()
	defer s.state.End()

	in.LastUpdated = domain.Timestamp(s.now())
	updated, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, s.fail("update menu", err)
	}
	s.replace(updated)
	notify.Success(s.notifier, MsgMenuUpdated)
	return &updated, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	s.state.Begin()
	defer s.state.End()

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail("delete menu", err)
	}
	s.mu.Lock()
	s.menus = slices.DeleteFunc(s.menus, func(m domain.Menu) bool { return m.ID == id })
	s.mu.Unlock()
	if current := s.store.CurrentMenu(); current != nil && current.ID == id {
		s.SetCurrent(nil)
	}
	notify.Success(s.notifier, MsgMenuDeleted)
	return nil
}

// Duplicate copies a menu server-side under a new name and appends the copy.
func (s *MenuService) Duplicate(ctx context.Context, id, name string) (*domain.Menu, error) {
	s.state.Begin()
	defer s.state.End()

	copied, err := s.api.Duplicate(ctx, id, name)
	if err != nil {
		return nil, s.fail("duplicate menu", err)
	}
	s.mu.Lock()
	s.menus = append(s.menus, copied)
	s.mu.Unlock()
	notify.Success(s.notifier, MsgMenuDuplicated)
	return &copied, nil
}

// Get loads a menu and makes it current. Failures only set the error slot.
func (s *MenuService) Get(ctx context.Context, id string) (*domain.Menu, error) {
	s.state.Begin()
	defer s.state.End()

	fetched, err := s.api.Get(ctx, id)
	if err != nil {
		s.state.Fail(err)
		return nil, err
	}
	s.SetCurrent(&fetched)
	return &fetched, nil
}

// List replaces the in-memory list with the restaurant's menus. Failures only set the error slot.
func (s *MenuService) List(ctx context.Context, restaurantID string) ([]domain.Menu, error) {
	s.state.Begin()
	defer s.state.End()

	fetched, err := s.api.List(ctx, restaurantID)
	if err != nil {
		s.state.Fail(err)
		return []domain.Menu{}, err
	}
	s.mu.Lock()
	s.menus = slices.Clone(fetched)
	s.mu.Unlock()
	return fetched, nil
}

// AddCategory appends a category at the end of the current menu.
func (s *MenuService) AddCategory(ctx context.Context, menuID string, in domain.CategoryInput) (*domain.Category, error) {
	s.state.Begin()
	defer s.state.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail("add category", err)
	}
	order := 0
	if current := s.currentFor(menuID); current != nil {
		order = len(current.Categories)
	}
	if order >= domain.MaxCategoriesPerMenu {
		return nil, s.fail("add category", ErrTooManyCategories)
	}

	created, err := s.api.AddCategory(ctx, menuID, domain.NewCategory(in, s.newID(), order))
	if err != nil {
		return nil, s.fail("add category", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.AppendCategory(created, s.now()) })
	notify.Success(s.notifier, MsgCategoryAdded)
	return &created, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, menuID, categoryID string, patch domain.CategoryPatch) (*domain.Category, error) {
	s.state.Begin()
	defer s.state.End()

	updated, err := s.api.UpdateCategory(ctx, menuID, categoryID, patch)
	if err != nil {
		return nil, s.fail("update category", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.ReplaceCategory(categoryID, updated, s.now()) })
	notify.Success(s.notifier, MsgCategoryUpdated)
	return &updated, nil
}

func (s *MenuService) DeleteCategory(ctx context.Context, menuID, categoryID string) error {
	s.state.Begin()
	defer s.state.End()

	if err := s.api.DeleteCategory(ctx, menuID, categoryID); err != nil {
		return s.fail("delete category", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.RemoveCategory(categoryID, s.now()) })
	notify.Success(s.notifier, MsgCategoryDeleted)
	return nil
}

// ReorderCategories sends categoryIDs to the server as given. Locally each listed category gets
// order = position and ids the current menu does not hold are dropped.
func (s *MenuService) ReorderCategories(ctx context.Context, menuID string, categoryIDs []string) error {
	s.state.Begin()
	defer s.state.End()

	if _, err := s.api.ReorderCategories(ctx, menuID, categoryIDs); err != nil {
		return s.fail("reorder categories", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu {
		next, report := m.ReorderCategories(categoryIDs, s.now())
		s.warnReorder("categories", menuID, report)
		return next
	})
	return nil
}

// AddItem appends an item at the end of a category of the current menu.
func (s *MenuService) AddItem(ctx context.Context, menuID, categoryID string, in domain.ItemInput) (*domain.MenuItem, error) {
	s.state.Begin()
	defer s.state.End()

	if err := in.Validate(); err != nil {
		return nil, s.fail("add item", err)
	}
	order := 0
	if current := s.currentFor(menuID); current != nil {
		if category, ok := current.FindCategory(categoryID); ok {
			order = len(category.Items)
		}
	}
	if order >= domain.MaxItemsPerCategory {
		return nil, s.fail("add item", ErrTooManyItems)
	}

	created, err := s.api.AddItem(ctx, menuID, domain.NewItem(in, categoryID, s.newID(), order))
	if err != nil {
		return nil, s.fail("add item", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.AppendItem(categoryID, created, s.now()) })
	notify.Success(s.notifier, MsgItemAdded)
	return &created, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, menuID, itemID string, patch domain.ItemPatch) (*domain.MenuItem, error) {
	s.state.Begin()
	defer s.state.End()

	updated, err := s.api.UpdateItem(ctx, menuID, itemID, patch)
	if err != nil {
		return nil, s.fail("update item", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.ReplaceItem(itemID, updated, s.now()) })
	notify.Success(s.notifier, MsgItemUpdated)
	return &updated, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, menuID, itemID string) error {
	s.state.Begin()
	defer s.state.End()

	if err := s.api.DeleteItem(ctx, menuID, itemID); err != nil {
		return s.fail("delete item", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu { return m.RemoveItem(itemID, s.now()) })
	notify.Success(s.notifier, MsgItemDeleted)
	return nil
}

// ReorderItems sends itemIDs to the server as given and reorders the category locally, dropping
// ids the category does not hold.
func (s *MenuService) ReorderItems(ctx context.Context, menuID, categoryID string, itemIDs []string) error {
	s.state.Begin()
	defer s.state.End()

	if _, err := s.api.ReorderItems(ctx, menuID, categoryID, itemIDs); err != nil {
		return s.fail("reorder items", err)
	}
	s.patchCurrent(menuID, func(m domain.Menu) domain.Menu {
		if _, ok := m.FindCategory(categoryID); !ok {
			return m
		}
		next, report := m.ReorderItems(categoryID, itemIDs, s.now())
		s.warnReorder("items", menuID, report)
		return next
	})
	return nil
}

// BulkImportItems hands the rows to the server. When anything was imported the menu is
// re-fetched once; failed rows are logged individually.
func (s *MenuService) BulkImportItems(ctx context.Context, menuID string, rows []domain.BulkImportRow) (domain.ImportResult, error) {
	s.state.Begin()
	defer s.state.End()

	result, err := s.api.BulkImportItems(ctx, menuID, rows)
	if err != nil {
		return domain.ImportResult{}, s.fail("import items", err)
	}

	if result.Successful > 0 {
		fetched, err := s.api.Get(ctx, menuID)
		if err != nil {
			s.state.Fail(err)
			s.logger.Warn("menu refresh after import failed", zap.String("menu_id", menuID), zap.Error(err))
		} else {
			s.replaceInList(fetched)
			s.SetCurrent(&fetched)
		}
		notify.Success(s.notifier, fmt.Sprintf("Successfully imported %d items!", result.Successful))
	}
	if result.Failed > 0 {
		for _, rowErr := range result.Errors {
			s.logger.Warn("import row rejected", zap.String("menu_id", menuID), zap.Int("row", rowErr.Row), zap.String("error", rowErr.Message))
		}
		notify.Error(s.notifier, fmt.Sprintf("Failed to import %d items. Check the console for details.", result.Failed))
	}
	return result, nil
}

func (s *MenuService) currentFor(menuID string) *domain.Menu {
	current := s.store.CurrentMenu()
	if current == nil || current.ID != menuID {
		return nil
	}
	return current
}

// patchCurrent applies fn to the current menu when it is menuID and mirrors the result in the list.
func (s *MenuService) patchCurrent(menuID string, fn func(domain.Menu) domain.Menu) {
	current := s.currentFor(menuID)
	if current == nil {
		return
	}
	s.replace(fn(*current))
}

// replace swaps the menu in the list and in the current slot when it is current. The current
// slot is written once.
func (s *MenuService) replace(updated domain.Menu) {
	s.replaceInList(updated)
	if current := s.store.CurrentMenu(); current != nil && current.ID == updated.ID {
		s.SetCurrent(&updated)
	}
}

func (s *MenuService) replaceInList(updated domain.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menus {
		if s.menus[i].ID == updated.ID {
			s.menus[i] = updated.Clone()
		}
	}
}

func (s *MenuService) warnReorder(kind, menuID string, report domain.ReorderReport) {
	if report.Clean() {
		return
	}
	s.logger.Warn("reorder ids did not match",
		zap.String("kind", kind),
		zap.String("menu_id", menuID),
		zap.Strings("unknown", report.Unknown),
		zap.Strings("omitted", report.Omitted),
	)
}

func (s *MenuService) fail(op string, err error) error {
	msg := s.state.Fail(err)
	s.logger.Warn("menu operation failed", zap.String("op", op), zap.String("error", msg))
	notify.Error(s.notifier, msg)
	return err
}
