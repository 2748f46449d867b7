package usecase

import (
	"context"
	"strings"
	"time"

	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/domain"
)

// BroadcastUseCase is the single path from menu feeds, the notification relay and
// POST /notifications to the hub.
type BroadcastUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b, now: time.Now}
}

// Execute drops messages without a topic and stamps those without a timestamp.
func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if msg == nil || strings.TrimSpace(msg.Topic) == "" {
		return
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = uc.now().UTC()
	}
	uc.broadcaster.Broadcast(ctx, msg)
}
