package poller

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/domain"
	"github.com/ykvlv/homework-bot/internal/store"
)

// DefaultInterval is the pause between two polls.
const DefaultInterval = 600 * time.Second

// Fetcher returns the raw homework API body for changes since fromDate.
type Fetcher interface {
	HomeworkStatuses(ctx context.Context, fromDate int64) (any, error)
}

// Notifier delivers a chat message and reports whether it went through.
// It must never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
}

// Poller runs the fetch → validate → notify → sleep loop and owns the cursor.
type Poller struct {
	fetcher  Fetcher
	notifier Notifier
	journal  store.Journal
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	cursor int64
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// WithSleep replaces the blocking pause between iterations.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) { p.sleep = sleep }
}

// WithJournal records every attempted notification.
func WithJournal(j store.Journal) Option {
	return func(p *Poller) { p.journal = j }
}

// New creates a Poller whose cursor starts at the current time.
// A non-positive interval falls back to DefaultInterval.
func New(fetcher Fetcher, notifier Notifier, log *zap.Logger, interval time.Duration, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		fetcher:  fetcher,
		notifier: notifier,
		journal:  store.Noop{},
		log:      log.Named("poller"),
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(p)
	}
	p.cursor = p.now().Unix()
	return p
}

// Cursor returns the from_date used by the next iteration.
func (p *Poller) Cursor() int64 { return p.cursor }

// Run polls until ctx is canceled. Every iteration is followed by the same
// fixed pause, whatever its outcome.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("poller started", zap.Duration("interval", p.interval), zap.Int64("from_date", p.cursor))
	for {
		_ = p.Tick(ctx)
		if err := p.sleep(ctx, p.interval); err != nil {
			p.log.Info("poller stopping", zap.Int64("from_date", p.cursor))
			return nil
		}
	}
}

// Tick performs a single iteration. On success the cursor moves to now;
// on failure a failure message is sent and the cursor stays put.
func (p *Poller) Tick(ctx context.Context) error {
	pollID := uuid.NewString()
	log := p.log.With(zap.String("poll_id", pollID), zap.Int64("from_date", p.cursor))

	text, kind, err := p.compose(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.reportFailure(ctx, log, pollID, err)
		return err
	}

	delivered := p.notifier.Notify(ctx, text)
	p.record(ctx, log, store.Entry{PollID: pollID, Kind: kind, Text: text, Delivered: delivered, FromDate: p.cursor})

	// The window restarts at "now", not at the last observed change: a status
	// flip between request and response time falls outside the next window.
	if next := p.now().Unix(); next > p.cursor {
		p.cursor = next
	}
	log.Info("poll done", zap.String("kind", kind), zap.Bool("delivered", delivered), zap.Int64("next_from_date", p.cursor))
	return nil
}

// compose fetches, validates and formats the message for this iteration.
func (p *Poller) compose(ctx context.Context) (string, string, error) {
	resp, err := p.fetcher.HomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return "", "", err
	}
	homeworks, err := domain.CheckResponse(resp)
	if err != nil {
		return "", "", err
	}
	if len(homeworks) == 0 {
		return domain.NothingNew, store.KindEmpty, nil
	}
	text, err := domain.ParseStatus(homeworks[0])
	if err != nil {
		return "", "", err
	}
	return text, store.KindStatus, nil
}

func (p *Poller) reportFailure(ctx context.Context, log *zap.Logger, pollID string, err error) {
	switch kind, ok := domain.KindOf(err); {
	case !ok:
		log.Error("unexpected iteration error", zap.Error(err), zap.Stack("stack"))
	case kind == domain.KindHTTPStatus:
		var body string
		var de *domain.Error
		if errors.As(err, &de) {
			body = de.Body
		}
		log.Error("iteration failed", zap.Stringer("kind", kind), zap.Error(err), zap.String("body", body))
	case kind == domain.KindUnknownStatus:
		log.Warn("iteration failed", zap.Stringer("kind", kind), zap.Error(err))
	default:
		log.Error("iteration failed", zap.Stringer("kind", kind), zap.Error(err))
	}

	text := domain.FailureMessage(err)
	delivered := p.notifier.Notify(ctx, text)
	p.record(ctx, log, store.Entry{PollID: pollID, Kind: store.KindFailure, Text: text, Delivered: delivered, FromDate: p.cursor})
}

func (p *Poller) record(ctx context.Context, log *zap.Logger, e store.Entry) {
	if err := p.journal.Record(ctx, e); err != nil {
		log.Warn("journal record failed", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
