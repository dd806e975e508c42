// Package notify carries short user-facing messages from services to whatever
// surface shows them. Delivery is fire-and-forget.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is one transient message.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier accepts notifications without acknowledgment.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// Recorder buffers notifications until they are drained. The HTTP layer drains
// once per response, which stands in for auto-dismissal.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewRecorder keeps at most limit pending notifications, dropping the oldest.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 20
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Severity: severity})
	if over := len(r.items) - r.limit; over > 0 {
		r.items = r.items[over:]
	}
}

// Drain returns pending notifications in arrival order and empties the buffer.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, message string, severity Severity) {
	if severity == SeverityError {
		n.logger.Warn("notification", zap.String("message", message), zap.String("severity", string(severity)))
		return
	}
	n.logger.Debug("notification", zap.String("message", message), zap.String("severity", string(severity)))
}

type multi []Notifier

func (m multi) Notify(ctx context.Context, message string, severity Severity) {
	for _, n := range m {
		n.Notify(ctx, message, severity)
	}
}

// Multi fans a notification out to every non-nil notifier.
func Multi(notifiers ...Notifier) Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}
