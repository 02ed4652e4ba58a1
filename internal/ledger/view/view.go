package view

import (
	"time"

	"github.com/google/uuid"
	"github.com/zappabad/actibourse/internal/ledger"
)

// DefaultCapacity is the number of entries a Ledger keeps.
const DefaultCapacity = 50

// Ledger is a bounded ring buffer of entries, read back newest first.
// It is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	buf   []ledger.Entry
	size  int
	start int
	count int
	now   func() time.Time
}

// NewLedger creates a Ledger with the given capacity. A nil now uses time.Now.
func NewLedger(capacity int, now func() time.Time) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		buf:  make([]ledger.Entry, capacity),
		size: capacity,
		now:  now,
	}
}

// Append records message as the newest entry, evicting the oldest when full.
func (l *Ledger) Append(message string, kind ledger.Kind) ledger.Entry {
	e := ledger.Entry{
		ID:      uuid.New(),
		Time:    l.now().Truncate(time.Second),
		Message: message,
		Kind:    kind,
	}

	if l.count < l.size {
		l.buf[(l.start+l.count)%l.size] = e
		l.count++
		return e
	}
	// overwrite oldest
	l.buf[l.start] = e
	l.start = (l.start + 1) % l.size
	return e
}

// Latest returns up to n entries, newest first.
// Returns a copy (not internal references).
func (l *Ledger) Latest(n int) []ledger.Entry {
	if n <= 0 || l.count == 0 {
		return nil
	}
	if n > l.count {
		n = l.count
	}

	out := make([]ledger.Entry, n)
	newest := l.start + l.count - 1
	for i := 0; i < n; i++ {
		out[i] = l.buf[(newest-i)%l.size]
	}
	return out
}

// Entries returns every entry, newest first.
func (l *Ledger) Entries() []ledger.Entry {
	return l.Latest(l.count)
}

// Clear drops every entry.
func (l *Ledger) Clear() {
	for i := range l.buf {
		l.buf[i] = ledger.Entry{}
	}
	l.start = 0
	l.count = 0
}

// Len returns the number of entries held.
func (l *Ledger) Len() int {
	return l.count
}

// Capacity returns the maximum number of entries held.
func (l *Ledger) Capacity() int {
	return l.size
}
