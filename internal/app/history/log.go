// Package history keeps the local log of user actions on the inventory screen.
package history

import (
	"context"
	"sync"
	"time"
)

const (
	// MaxEntries bounds the log; older entries are discarded.
	MaxEntries = 50
	// RecentEntries is how many entries the screen shows.
	RecentEntries = 5
)

// Kind classifies an entry.
type Kind string

const (
	KindAdd    Kind = "add"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
	KindInfo   Kind = "info"
)

// Entry is one logged action.
type Entry struct {
	Message   string    `yaml:"message"`
	Kind      Kind      `yaml:"kind"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Store persists the log between sessions.
type Store interface {
	LoadHistory(ctx context.Context) ([]Entry, error)
	SaveHistory(ctx context.Context, entries []Entry) error
}

// Log is a bounded, newest-first list of entries.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewLog creates a log seeded with previously persisted entries (newest first).
func NewLog(seed []Entry, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	entries := make([]Entry, 0, MaxEntries)
	if len(seed) > MaxEntries {
		seed = seed[:MaxEntries]
	}
	entries = append(entries, seed...)
	return &Log{entries: entries, now: now}
}

// Record prepends an entry stamped with the current time and returns it.
func (l *Log) Record(message string, kind Kind) Entry {
	e := Entry{Message: message, Kind: kind, Timestamp: l.now()}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	return e
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of all entries, newest first.
func (l *Log) Entries() []Entry {
	return l.Recent(MaxEntries)
}

// Recent returns up to n entries, newest first.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n = max(0, min(n, len(l.entries)))
	out := make([]Entry, n)
	copy(out, l.entries[:n])
	return out
}
