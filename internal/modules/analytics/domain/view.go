package domain

import "strings"

type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

// DetectDevice classifies a User-Agent header into one of the analytics device buckets.
func DetectDevice(userAgent string) DeviceType {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return DeviceTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "android"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// ViewEvent is posted to the public analytics endpoint when a customer opens a menu.
type ViewEvent struct {
	Event      string     `json:"event"`
	MenuID     string     `json:"menuId,omitempty"`
	DeviceType DeviceType `json:"deviceType"`
	Table      string     `json:"table,omitempty"`
	Referrer   string     `json:"referrer,omitempty"`
	Timestamp  string     `json:"timestamp"`
}

const EventMenuView = "menu_view"
