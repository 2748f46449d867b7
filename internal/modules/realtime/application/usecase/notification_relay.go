package usecase

import (
	"context"
	"strings"
	"time"

	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/shared/notify"
)

// NotificationRelay forwards notifications to websocket clients subscribed to the
// notification stream.
type NotificationRelay struct {
	broadcaster  port.Broadcaster
	restaurantID func() string
	now          func() time.Time
}

// NewNotificationRelay builds a relay. restaurantID, when set, scopes each notification to
// the restaurant it returns at send time.
func NewNotificationRelay(broadcaster port.Broadcaster, restaurantID func() string) *NotificationRelay {
	return &NotificationRelay{broadcaster: broadcaster, restaurantID: restaurantID, now: time.Now}
}

func (r *NotificationRelay) Notify(n notify.Notification) {
	if r == nil || r.broadcaster == nil {
		return
	}
	var extras domain.Metadata
	if r.restaurantID != nil {
		if id := strings.TrimSpace(r.restaurantID()); id != "" {
			extras = domain.Metadata{"restaurantId": id}
		}
	}
	r.broadcaster.Broadcast(context.Background(), domain.BuildNotificationMessage(n, r.now(), extras))
}
