// Package notify carries discriminated outcome notifications from the
// checkout core to the presentation layer: one user-legible message per
// significant event (validation failure, payment decline, success, ...).
package notify

import "go.uber.org/zap"

// Level classifies a notification for presentation purposes.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier receives user-facing outcome notifications.
type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to the Notifier interface.
type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

// ZapNotifier logs notifications through a zap logger; the default sink when
// no interactive surface is attached.
type ZapNotifier struct {
	lg *zap.Logger
}

// NewZapNotifier returns a ZapNotifier writing to lg.
func NewZapNotifier(lg *zap.Logger) *ZapNotifier {
	return &ZapNotifier{lg: lg}
}

func (n *ZapNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.lg.Error(message)
	default:
		n.lg.Info(message, zap.String("level", string(level)))
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Notifications []Notification
}

// Notification is a single recorded notification.
type Notification struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.Notifications = append(r.Notifications, Notification{Level: level, Message: message})
}

// Last returns the most recent notification, or a zero value when none were
// recorded.
func (r *Recorder) Last() Notification {
	if len(r.Notifications) == 0 {
		return Notification{}
	}
	return r.Notifications[len(r.Notifications)-1]
}
