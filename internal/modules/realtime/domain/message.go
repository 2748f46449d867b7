package domain

import "time"

// Metadata carries routing hints such as restaurantId or viewerId.
type Metadata map[string]string

// Message is what travels from the change feed and the storage bridge to websocket viewers.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
