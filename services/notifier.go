package services

import (
	"sync"

	"go.uber.org/zap"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message shown to the admin.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Notifier is a fire-and-forget sink for notifications.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Recorder keeps notifications in call order until they are drained.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

// Drain returns the recorded notifications and forgets them.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notes
	r.notes = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("title", n.Title),
		zap.String("description", n.Description),
	}
	if n.Variant == VariantDestructive {
		l.log.Warn("notification", fields...)
		return
	}
	l.log.Info("notification", fields...)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notification) {
	for _, x := range m {
		x.Notify(n)
	}
}

// MultiNotifier fans a notification out to every non-nil notifier.
func MultiNotifier(ns ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func invalidInput(description string) Notification {
	return Notification{Title: "Invalid input", Description: description, Variant: VariantDestructive}
}

func comingSoon(feature string) Notification {
	return Notification{
		Title:       "Coming Soon",
		Description: feature + " functionality will be implemented soon.",
		Variant:     VariantDefault,
	}
}
