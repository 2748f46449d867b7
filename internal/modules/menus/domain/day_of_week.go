package domain

import (
	"strings"

	"qrMenu/internal/shared/normalization"
)

// DayOfWeek is a lowercase english day name as used by menu schedules.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DaysOfWeek lists the days starting on Monday.
var DaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var allowedDays = map[string]DayOfWeek{
	string(Monday):    Monday,
	string(Tuesday):   Tuesday,
	string(Wednesday): Wednesday,
	string(Thursday):  Thursday,
	string(Friday):    Friday,
	string(Saturday):  Saturday,
	string(Sunday):    Sunday,
}

// Label returns the capitalised day name.
func (d DayOfWeek) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// ParseDay accepts any casing and surrounding spaces.
func ParseDay(raw string) (DayOfWeek, bool) {
	day, ok := allowedDays[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}

// NormalizeDays converts a slice payload or a comma separated string into canonical days,
// dropping unknown entries.
func NormalizeDays(value any) []DayOfWeek {
	var items []any
	switch typed := value.(type) {
	case string:
		for _, part := range normalization.SplitList(typed, ",;") {
			items = append(items, part)
		}
	case []string:
		for _, part := range typed {
			items = append(items, part)
		}
	case []any:
		items = typed
	}
	if len(items) == 0 {
		return nil
	}

	var normalized []DayOfWeek
	for _, item := range items {
		raw, ok := item.(string)
		if !ok {
			continue
		}
		if day, ok := ParseDay(raw); ok {
			normalized = append(normalized, day)
		}
	}
	return normalized
}
