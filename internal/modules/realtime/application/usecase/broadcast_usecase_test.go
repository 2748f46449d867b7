package usecase

import (
	"context"
	"testing"
	"time"

	"qrMenu/internal/modules/realtime/domain"
)

func TestBroadcastUseCaseStampsAndFilters(t *testing.T) {
	rec := &recordingBroadcaster{}
	uc := NewBroadcastUseCase(rec)
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	uc.now = func() time.Time { return at }

	uc.Execute(context.Background(), nil)
	uc.Execute(context.Background(), &domain.Message{Topic: "  "})
	uc.Execute(context.Background(), &domain.Message{Topic: domain.MenuTopic("r1")})
	kept := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	uc.Execute(context.Background(), &domain.Message{Topic: domain.TopicNotifications, Timestamp: kept})

	if len(rec.messages) != 2 {
		t.Fatalf("expected two broadcasts, got %d", len(rec.messages))
	}
	if !rec.messages[0].Timestamp.Equal(at) {
		t.Fatalf("missing timestamp not stamped: %v", rec.messages[0].Timestamp)
	}
	if !rec.messages[1].Timestamp.Equal(kept) {
		t.Fatalf("existing timestamp overwritten: %v", rec.messages[1].Timestamp)
	}
}
