package domain

import (
	"fmt"
	"strings"
	"time"
)

// Analytics is the per-restaurant, per-day aggregate computed by the backend.
type Analytics struct {
	ID           string  `json:"_id"`
	RestaurantID string  `json:"restaurantId"`
	Date         string  `json:"date"`
	Metrics      Metrics `json:"metrics"`
	CreatedAt    string  `json:"createdAt"`
}

type Metrics struct {
	TotalScans         int           `json:"totalScans"`
	UniqueVisitors     int           `json:"uniqueVisitors"`
	AvgSessionDuration float64       `json:"avgSessionDuration"`
	PopularItems       []PopularItem `json:"popularItems"`
	DeviceTypes        DeviceTypes   `json:"deviceTypes"`
	TimeDistribution   []TimeSlot    `json:"timeDistribution"`
	Geolocation        []GeoEntry    `json:"geolocation,omitempty"`
}

type PopularItem struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Views    int    `json:"views"`
}

type DeviceTypes struct {
	Mobile  int `json:"mobile"`
	Tablet  int `json:"tablet"`
	Desktop int `json:"desktop"`
}

// Total sums every device bucket.
func (d DeviceTypes) Total() int { return d.Mobile + d.Tablet + d.Desktop }

// TimeSlot counts scans during one hour of the day (0-23).
type TimeSlot struct {
	Hour  int `json:"hour"`
	Scans int `json:"scans"`
}

type GeoEntry struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Count   int    `json:"count"`
}

// PeakHour returns the busiest slot; ok is false when there is no data.
func (m Metrics) PeakHour() (TimeSlot, bool) {
	if len(m.TimeDistribution) == 0 {
		return TimeSlot{}, false
	}
	peak := m.TimeDistribution[0]
	for _, slot := range m.TimeDistribution[1:] {
		if slot.Scans > peak.Scans {
			peak = slot
		}
	}
	return peak, true
}

// DateRange limits a report. Both bounds are YYYY-MM-DD dates and are optional.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

const dateLayout = "2006-01-02"

func (r DateRange) IsZero() bool { return r.Start == "" && r.End == "" }

// Validate checks the date format and that Start is not after End.
func (r DateRange) Validate() error {
	var start, end time.Time
	var err error
	if r.Start != "" {
		if start, err = time.Parse(dateLayout, r.Start); err != nil {
			return fmt.Errorf("invalid start date %q", r.Start)
		}
	}
	if r.End != "" {
		if end, err = time.Parse(dateLayout, r.End); err != nil {
			return fmt.Errorf("invalid end date %q", r.End)
		}
	}
	if r.Start != "" && r.End != "" && start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", r.Start, r.End)
	}
	return nil
}

// LastDays returns the range covering the n days up to and including now.
func LastDays(now time.Time, n int) DateRange {
	if n < 1 {
		n = 1
	}
	return DateRange{
		Start: now.AddDate(0, 0, -(n - 1)).Format(dateLayout),
		End:   now.Format(dateLayout),
	}
}

// ExportFormat is the file format of an analytics export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat defaults to CSV when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}
