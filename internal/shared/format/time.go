package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatTime turns a 24h "HH:MM" string into "h:MM AM|PM". Unparseable input is returned as is.
func FormatTime(value string) string {
	hours, minutes, ok := strings.Cut(value, ":")
	if !ok {
		return value
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil {
		return value
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minutes, suffix)
}

// FormatDate renders t as "January 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatRelativeTime describes t relative to now, falling back to the date after a week.
func FormatRelativeTime(t, now time.Time) string {
	diff := int64(math.Floor(now.Sub(t).Seconds()))
	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return fmt.Sprintf("%d minutes ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%d hours ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%d days ago", diff/86400)
	}
	return FormatDate(t)
}

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count in binary units with at most two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + fileSizeUnits[i]
}

// FormatPercentage renders value with the given number of decimals and a percent sign.
func FormatPercentage(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// CalculatePercentageChange returns the relative change from previous to current in percent.
func CalculatePercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
