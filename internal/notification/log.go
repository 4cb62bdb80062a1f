// Package notification keeps the ordered alert log with its read/unread
// lifecycle and low-water suppression.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags a notification with the condition that produced it.
type Kind string

const (
	KindLowMoisture     Kind = "LOW_MOISTURE"
	KindLowLight        Kind = "LOW_LIGHT"
	KindTemperatureLow  Kind = "TEMPERATURE_LOW"
	KindTemperatureHigh Kind = "TEMPERATURE_HIGH"
	KindLowWater        Kind = "LOW_WATER"
)

// Notification is one timestamped alert record. Only the Read flag is ever
// mutated after insertion.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	ModuleID  string    `json:"module_id,omitempty"` // empty for system-wide kinds
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Log is an append-only, insertion-ordered notification log.
type Log struct {
	mu      sync.Mutex
	entries []Notification
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Notify appends a new unread notification. The low-water kind is suppressed
// while an unread notification of that kind already exists, so a persisting
// condition does not spam one alert per cycle. Returns false when suppressed.
func (l *Log) Notify(kind Kind, moduleID, message string, at time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if kind == KindLowWater && l.hasUnreadLocked(kind) {
		return false
	}

	l.entries = append(l.entries, Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		ModuleID:  moduleID,
		Message:   message,
		Timestamp: at,
	})
	return true
}

// List returns notifications in insertion order, optionally only unread ones.
func (l *Log) List(unreadOnly bool) []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Notification, 0, len(l.entries))
	for _, n := range l.entries {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out
}

// MarkRead flips the read flag at the given position. Returns false without
// mutating anything if the index is out of bounds.
func (l *Log) MarkRead(i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.entries) {
		return false
	}
	l.entries[i].Read = true
	return true
}

// MarkAllRead marks every notification read. Idempotent.
func (l *Log) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		l.entries[i].Read = true
	}
}

// ClearKind removes all notifications of the given kind, read or not, and
// returns how many were removed. Used to retract stale alerts once the
// condition no longer holds.
func (l *Log) ClearKind(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	removed := 0
	for _, n := range l.entries {
		if n.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	l.entries = kept
	return removed
}

// UnreadCount returns the number of unread notifications.
func (l *Log) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, n := range l.entries {
		if !n.Read {
			count++
		}
	}
	return count
}

// HasUnread reports whether an unread notification of the given kind exists.
func (l *Log) HasUnread(kind Kind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasUnreadLocked(kind)
}

func (l *Log) hasUnreadLocked(kind Kind) bool {
	for _, n := range l.entries {
		if n.Kind == kind && !n.Read {
			return true
		}
	}
	return false
}
