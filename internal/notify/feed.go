// Package notify carries the user-visible notifications emitted by
// orchestrated actions. Every failure or success surfaces exactly one entry.
package notify

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient user-visible message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is the sink orchestrated actions report through.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Feed is a bounded in-memory notification queue, newest last. It doubles as
// the Notifier given to services and mirrors entries to the log.
type Feed struct {
	mu      sync.Mutex
	entries []Notification
	limit   int
	logger  zerolog.Logger
}

// NewFeed constructs a feed retaining at most limit entries.
func NewFeed(limit int, logger *zerolog.Logger) *Feed {
	if limit <= 0 {
		limit = 50
	}
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Feed{limit: limit, logger: l}
}

// Success records a success notification.
func (f *Feed) Success(message string) {
	f.logger.Info().Msg(message)
	f.push(Notification{Level: LevelSuccess, Message: message, At: time.Now().UTC()})
}

// Error records an error notification.
func (f *Feed) Error(message string) {
	f.logger.Warn().Msg(message)
	f.push(Notification{Level: LevelError, Message: message, At: time.Now().UTC()})
}

func (f *Feed) push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, n)
	if len(f.entries) > f.limit {
		f.entries = f.entries[len(f.entries)-f.limit:]
	}
}

// Recent returns a copy of the retained notifications, oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}
