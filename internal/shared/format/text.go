package format

import (
	"regexp"
	"strings"
)

var (
	slugDisallowed = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug lowercases text, drops everything outside ASCII word characters, whitespace
// and hyphens, and joins the remaining words with single hyphens. Accented letters are
// removed rather than transliterated.
func GenerateSlug(text string) string {
	slug := strings.TrimSpace(strings.ToLower(text))
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreateCSV renders rows as CSV using headers as the column order. Quotes are doubled and a
// cell is wrapped in quotes only when it contains a comma.
func CreateCSV(rows []map[string]string, headers []string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			escaped := strings.ReplaceAll(row[header], `"`, `""`)
			if strings.Contains(escaped, ",") {
				escaped = `"` + escaped + `"`
			}
			cells[i] = escaped
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// MoveItem returns a copy of items with the element at from moved to position to.
func MoveItem[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(out) {
		to = len(out)
	}
	out = append(out, item)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = item
	return out
}

// GroupBy buckets items by key, keeping input order inside each bucket.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}
