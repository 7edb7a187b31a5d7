package combat

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dolgo/server/internal/core/ecs"
)

// Entry is one enacted outcome as persisted to combat_log.
type Entry struct {
	ID            ulid.ULID
	At            time.Time
	Kind          string
	Actor         ecs.EntityID
	ActorName     string
	Recipient     ecs.EntityID
	RecipientName string
	Amount        int
	DamageType    string
	Resisted      int
}

// Log buffers entries until the persistence system drains them. When full,
// the oldest entries are dropped.
type Log struct {
	entries []Entry
	limit   int
	dropped int
}

func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = 4096
	}
	return &Log{entries: make([]Entry, 0, min(limit, 256)), limit: limit}
}

// Record appends e, assigning an id if it has none.
func (l *Log) Record(e Entry) {
	if e.ID == (ulid.ULID{}) {
		e.ID = ulid.Make()
	}
	if len(l.entries) >= l.limit {
		n := len(l.entries) - l.limit + 1
		l.entries = append(l.entries[:0], l.entries[n:]...)
		l.dropped += n
	}
	l.entries = append(l.entries, e)
}

// Drain returns and forgets every buffered entry.
func (l *Log) Drain() []Entry {
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	l.entries = l.entries[:0]
	return out
}

// Requeue puts entries that failed to persist back in front of newer ones.
func (l *Log) Requeue(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	merged := append(append(make([]Entry, 0, len(entries)+len(l.entries)), entries...), l.entries...)
	if over := len(merged) - l.limit; over > 0 {
		merged = merged[over:]
		l.dropped += over
	}
	l.entries = merged
}

func (l *Log) Len() int { return len(l.entries) }

// Dropped counts entries lost to the buffer limit.
func (l *Log) Dropped() int { return l.dropped }
