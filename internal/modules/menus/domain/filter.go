package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// PriceRange bounds are inclusive.
type PriceRange struct {
	Min float64
	Max float64
}

// Filters narrows a list of menu items. Zero values disable a criterion.
type Filters struct {
	Category    string
	Query       string
	DietaryTags []DietaryTag
	Price       *PriceRange
	Available   *bool
	Popular     *bool
}

// Match reports whether item passes every active criterion. Category is applied by FilterMenu.
func (f Filters) Match(item MenuItem) bool {
	if f.Query != "" {
		haystack := strings.ToLower(item.Name + " " + item.Description)
		if !strings.Contains(haystack, strings.ToLower(f.Query)) {
			return false
		}
	}
	if len(f.DietaryTags) > 0 && !slices.ContainsFunc(f.DietaryTags, func(tag DietaryTag) bool {
		return slices.Contains(item.DietaryTags, tag)
	}) {
		return false
	}
	if f.Price != nil && (item.Price < f.Price.Min || item.Price > f.Price.Max) {
		return false
	}
	if f.Available != nil && item.IsAvailable != *f.Available {
		return false
	}
	if f.Popular != nil && item.IsPopular != *f.Popular {
		return false
	}
	return true
}

// FilterItems keeps the items matching f, preserving order.
func FilterItems(items []MenuItem, f Filters) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// FilterMenu applies f inside each category and drops categories left empty. When
// f.Category is set only that category (matched by id or name) is kept.
func FilterMenu(m Menu, f Filters) Menu {
	out := m.Clone()
	kept := make([]Category, 0, len(out.Categories))
	for _, c := range out.Categories {
		if f.Category != "" && c.ID != f.Category && !strings.EqualFold(c.Name, f.Category) {
			continue
		}
		c.Items = FilterItems(c.Items, f)
		if len(c.Items) > 0 {
			kept = append(kept, c)
		}
	}
	out.Categories = kept
	return out
}

// SortField is the closed set of fields items can be sorted by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByOrder     SortField = "order"
	SortByCreatedAt SortField = "createdAt"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

var comparators = map[SortField]func(a, b MenuItem) int{
	SortByName: func(a, b MenuItem) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	SortByPrice: func(a, b MenuItem) int {
		return compareFloat(a.Price, b.Price)
	},
	SortByOrder: func(a, b MenuItem) int {
		return a.Order - b.Order
	},
	SortByCreatedAt: func(a, b MenuItem) int {
		return parseCreatedAt(a.CreatedAt).Compare(parseCreatedAt(b.CreatedAt))
	},
}

// ParseSortOptions validates raw field and direction; an empty field means order ascending.
func ParseSortOptions(field, direction string) (SortOptions, error) {
	opts := SortOptions{Field: SortField(strings.TrimSpace(field)), Direction: SortDirection(strings.ToLower(strings.TrimSpace(direction)))}
	if opts.Field == "" {
		opts.Field = SortByOrder
	}
	if _, ok := comparators[opts.Field]; !ok {
		return SortOptions{}, fmt.Errorf("unknown sort field %q", field)
	}
	switch opts.Direction {
	case "":
		opts.Direction = Asc
	case Asc, Desc:
	default:
		return SortOptions{}, fmt.Errorf("unknown sort direction %q", direction)
	}
	return opts, nil
}

// SortItems returns a sorted copy. The sort is stable so equal keys keep their order.
func SortItems(items []MenuItem, opts SortOptions) []MenuItem {
	out := slices.Clone(items)
	cmp, ok := comparators[opts.Field]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b MenuItem) int {
		if opts.Direction == Desc {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func parseCreatedAt(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
