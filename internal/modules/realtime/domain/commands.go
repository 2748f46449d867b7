package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	menus "qrMenu/internal/modules/menus/domain"
)

// ErrInvalidFilter wraps every rejection produced by Resolve.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterCommand narrows a public menu. It is read from query parameters on GET /menu/:slug and
// from the payload of the websocket "filter" command.
type FilterCommand struct {
	Query     string   `json:"q,omitempty"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Available *bool    `json:"available,omitempty"`
	Popular   *bool    `json:"popular,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Dir       string   `json:"dir,omitempty"`
}

// IsZero reports whether the command leaves the menu untouched.
func (c FilterCommand) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" && strings.TrimSpace(c.Category) == "" && len(c.Tags) == 0 &&
		c.Min == nil && c.Max == nil && c.Available == nil && c.Popular == nil &&
		strings.TrimSpace(c.Sort) == "" && strings.TrimSpace(c.Dir) == ""
}

// Resolve validates the command into typed filters and sort options.
func (c FilterCommand) Resolve() (menus.Filters, menus.SortOptions, error) {
	filters := menus.Filters{
		Category:  strings.TrimSpace(c.Category),
		Query:     strings.TrimSpace(c.Query),
		Available: c.Available,
		Popular:   c.Popular,
	}
	for _, raw := range c.Tags {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		tag, ok := menus.ParseDietaryTag(raw)
		if !ok {
			return menus.Filters{}, menus.SortOptions{}, fmt.Errorf("%w: unknown dietary tag %q", ErrInvalidFilter, raw)
		}
		filters.DietaryTags = append(filters.DietaryTags, tag)
	}
	if c.Min != nil || c.Max != nil {
		price := menus.PriceRange{Min: 0, Max: math.Inf(1)}
		if c.Min != nil {
			price.Min = *c.Min
		}
		if c.Max != nil {
			price.Max = *c.Max
		}
		if price.Min > price.Max {
			return menus.Filters{}, menus.SortOptions{}, fmt.Errorf("%w: min price %.2f is above max price %.2f", ErrInvalidFilter, price.Min, price.Max)
		}
		filters.Price = &price
	}
	sort, err := menus.ParseSortOptions(c.Sort, c.Dir)
	if err != nil {
		return menus.Filters{}, menus.SortOptions{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return filters, sort, nil
}
