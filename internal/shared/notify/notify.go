package notify

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Type classifies a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Notification is a short user-facing message emitted by a service operation.
type Notification struct {
	ID       string        `json:"id"`
	Type     Type          `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

func newNotification(kind Type, title string) Notification {
	return Notification{ID: ulid.Make().String(), Type: kind, Title: title}
}

func Success(n Notifier, title string) { send(n, newNotification(TypeSuccess, title)) }
func Error(n Notifier, title string)   { send(n, newNotification(TypeError, title)) }
func Warning(n Notifier, title string) { send(n, newNotification(TypeWarning, title)) }
func Info(n Notifier, title string)    { send(n, newNotification(TypeInfo, title)) }

func send(n Notifier, notification Notification) {
	if n == nil {
		return
	}
	n.Notify(notification)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) {}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.L()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("id", n.ID), zap.String("type", string(n.Type))}
	if n.Message != "" {
		fields = append(fields, zap.String("detail", n.Message))
	}
	switch n.Type {
	case TypeError:
		l.logger.Error(n.Title, fields...)
	case TypeWarning:
		l.logger.Warn(n.Title, fields...)
	default:
		l.logger.Info(n.Title, fields...)
	}
}

// Fanout forwards every notification to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, target := range f {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Titles returns the titles of the recorded notifications of the given type.
func (r *Recorder) Titles(kind Type) []string {
	var out []string
	for _, n := range r.All() {
		if n.Type == kind {
			out = append(out, n.Title)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
