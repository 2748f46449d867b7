package domain

import (
	"errors"
	"time"

	restaurants "qrMenu/internal/modules/restaurants/domain"
)

var (
	ErrMenuNotFound     = errors.New("menu not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
)

// TimestampLayout matches the ISO form used by the backend for lastUpdated.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp renders t in TimestampLayout, always in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type Menu struct {
	ID           string     `json:"_id"`
	RestaurantID string     `json:"restaurantId"`
	Name         string     `json:"name"`
	IsActive     bool       `json:"isActive"`
	Schedule     *Schedule  `json:"schedule,omitempty"`
	Categories   []Category `json:"categories"`
	LastUpdated  string     `json:"lastUpdated"`
}

type Schedule struct {
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
	Days      []DayOfWeek `json:"days"`
}

type Category struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	IsActive    bool       `json:"isActive"`
	Items       []MenuItem `json:"items"`
}

type MenuItem struct {
	ID              string         `json:"_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price"`
	OriginalPrice   *float64       `json:"originalPrice,omitempty"`
	Image           string         `json:"image,omitempty"`
	DietaryTags     []DietaryTag   `json:"dietaryTags"`
	Allergens       []string       `json:"allergens"`
	NutritionInfo   *NutritionInfo `json:"nutritionInfo,omitempty"`
	IsAvailable     bool           `json:"isAvailable"`
	IsPopular       bool           `json:"isPopular"`
	PreparationTime *int           `json:"preparationTime,omitempty"`
	SpicyLevel      *SpicyLevel    `json:"spicyLevel,omitempty"`
	Customizations  []string       `json:"customizations,omitempty"`
	Order           int            `json:"order"`
	CreatedAt       string         `json:"createdAt,omitempty"`
}

type NutritionInfo struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// PublicMenu is what a customer sees after scanning a QR code.
type PublicMenu struct {
	Restaurant restaurants.Restaurant `json:"restaurant"`
	Menu       Menu                   `json:"menu"`
}

// Clone returns a deep copy of the category and item slices so callers can mutate freely.
func (m Menu) Clone() Menu {
	out := m
	if m.Schedule != nil {
		schedule := *m.Schedule
		schedule.Days = cloneSlice(m.Schedule.Days)
		out.Schedule = &schedule
	}
	if m.Categories == nil {
		return out
	}
	out.Categories = make([]Category, len(m.Categories))
	for i, c := range m.Categories {
		c.Items = cloneSlice(c.Items)
		out.Categories[i] = c
	}
	return out
}

// cloneSlice copies s, keeping nil and empty distinct so JSON output is unchanged.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// FindCategory returns the category with id.
func (m Menu) FindCategory(id string) (Category, bool) {
	for _, c := range m.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Items returns every item of the menu in category order.
func (m Menu) Items() []MenuItem {
	var out []MenuItem
	for _, c := range m.Categories {
		out = append(out, c.Items...)
	}
	return out
}
