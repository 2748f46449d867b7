package normalization

import (
	"strconv"
	"strings"
)

// AsString renders JSON scalars as trimmed text. Objects, arrays and nil give "".
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	}
	return ""
}

// AsBool reads booleans and the textual forms true/false, yes/no, 1/0. The fallback is
// returned for anything else, including blank strings.
func AsBool(value any, fallback bool) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0":
			return false
		}
	case float64:
		return typed != 0
	}
	return fallback
}

// SplitList splits a delimited cell ("milk, wheat") into trimmed non-empty entries.
func SplitList(raw string, seps string) []string {
	if seps == "" {
		seps = ","
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return strings.ContainsRune(seps, r) })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// MapFromPayload returns value as an object, unwrapping one {"data": {...}} envelope.
func MapFromPayload(value any) map[string]any {
	if value == nil {
		return nil
	}
	if typed, ok := value.(map[string]any); ok {
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	}
	return nil
}

// FirstString returns the first non-empty string found under keys.
func FirstString(source map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := AsString(source[key]); v != "" {
			return v
		}
	}
	return ""
}
