package normalization

import "strings"

// entityAliases maps the entity names seen on change feeds to their canonical form.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"restaurant":  "restaurants",
	"restaurants": "restaurants",

	"menu":  "menus",
	"menus": "menus",

	"category":        "categories",
	"categories":      "categories",
	"menu-category":   "categories",
	"menu-categories": "categories",

	"item":       "items",
	"items":      "items",
	"menu-item":  "items",
	"menu-items": "items",
	"menuitem":   "items",
	"menuitems":  "items",
	"dish":       "items",
	"dishes":     "items",

	"analytic":  "analytics",
	"analytics": "analytics",
}

var canonicalEntities = []string{"restaurants", "menus", "categories", "items", "analytics"}

// NormalizeEntity converts singular/plural forms and -/_ separators to the canonical name.
//
//	NormalizeEntity("Menu_Item") => "items"
func NormalizeEntity(raw string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity reports whether raw names one of the menu domain entities.
func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	for _, entity := range canonicalEntities {
		if entity == normalized {
			return true
		}
	}
	return false
}
