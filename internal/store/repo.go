package store

import (
	"context"
	"time"
)

// Entry kinds.
const (
	KindStatus  = "status"
	KindEmpty   = "empty"
	KindFailure = "failure"
)

// Entry is one notification the bot attempted to deliver.
type Entry struct {
	ID        string
	PollID    string
	CreatedAt time.Time // UTC
	Kind      string
	Text      string
	Delivered bool
	FromDate  int64 // cursor used by the iteration
}

// Journal is an append-only history of sent notifications.
// It is never used to restore the poll cursor.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Noop discards everything; used when no DB path is configured.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error          { return nil }
func (Noop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (Noop) Close() error                                 { return nil }
