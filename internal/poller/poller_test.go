package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/domain"
	"github.com/ykvlv/homework-bot/internal/store"
)

type fakeFetcher struct {
	resp  any
	err   error
	calls []int64
}

func (f *fakeFetcher) HomeworkStatuses(_ context.Context, fromDate int64) (any, error) {
	f.calls = append(f.calls, fromDate)
	return f.resp, f.err
}

type fakeNotifier struct {
	texts []string
	fail  bool
}

func (n *fakeNotifier) Notify(_ context.Context, text string) bool {
	n.texts = append(n.texts, text)
	return !n.fail
}

type memJournal struct {
	store.Noop
	entries []store.Entry
	err     error
}

func (j *memJournal) Record(_ context.Context, e store.Entry) error {
	j.entries = append(j.entries, e)
	return j.err
}

// clock returns successive instants one interval apart, starting at start.
func clock(start time.Time, step time.Duration) func() time.Time {
	t := start.Add(-step)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

var start = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestPoller(f Fetcher, n Notifier, opts ...Option) *Poller {
	opts = append([]Option{WithClock(clock(start, 10*time.Minute))}, opts...)
	return New(f, n, zap.NewNop(), time.Minute, opts...)
}

func TestNew_CursorStartsAtNow(t *testing.T) {
	p := newTestPoller(&fakeFetcher{}, &fakeNotifier{})
	assert.Equal(t, start.Unix(), p.Cursor())
}

func TestTick_EmptyListSendsNothingNew(t *testing.T) {
	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{}}}
	n := &fakeNotifier{}
	p := newTestPoller(f, n)

	require.NoError(t, p.Tick(context.Background()))

	assert.Equal(t, []string{"Пока ничего нового."}, n.texts)
	assert.Equal(t, []int64{start.Unix()}, f.calls)
	assert.Equal(t, start.Add(10*time.Minute).Unix(), p.Cursor())
}

func TestTick_StatusChangeUsesFirstRecord(t *testing.T) {
	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{
		map[string]any{"homework_name": "latest", "status": "reviewing"},
		map[string]any{"homework_name": "older", "status": "approved"},
	}}}
	n := &fakeNotifier{}
	p := newTestPoller(f, n)

	require.NoError(t, p.Tick(context.Background()))
	require.Len(t, n.texts, 1)
	assert.Equal(t, `Изменился статус проверки работы "latest". Работа взята на проверку ревьюером.`, n.texts[0])
}

func TestTick_FailureKeepsCursor(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeFetcher
		kind domain.Kind
	}{
		{
			name: "api unreachable",
			f:    &fakeFetcher{err: domain.NewError(domain.KindAPIAccess, domain.MsgAPIAccess, errors.New("timeout"))},
			kind: domain.KindAPIAccess,
		},
		{
			name: "http status",
			f:    &fakeFetcher{err: &domain.Error{Kind: domain.KindHTTPStatus, Msg: "bad", StatusCode: 500}},
			kind: domain.KindHTTPStatus,
		},
		{
			name: "not a mapping",
			f:    &fakeFetcher{resp: []any{}},
			kind: domain.KindShape,
		},
		{
			name: "unknown status",
			f:    &fakeFetcher{resp: map[string]any{"homeworks": []any{map[string]any{"homework_name": "x", "status": "?"}}}},
			kind: domain.KindUnknownStatus,
		},
		{
			name: "missing name",
			f:    &fakeFetcher{resp: map[string]any{"homeworks": []any{map[string]any{"status": "approved"}}}},
			kind: domain.KindMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			p := newTestPoller(tt.f, n)
			before := p.Cursor()

			err := p.Tick(context.Background())
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, tt.kind))

			assert.Equal(t, before, p.Cursor())
			require.Len(t, n.texts, 1)
			assert.Equal(t, "Сбой в работе программы: "+err.Error(), n.texts[0])
		})
	}
}

func TestTick_UnexpectedErrorStillReported(t *testing.T) {
	n := &fakeNotifier{}
	p := newTestPoller(&fakeFetcher{err: errors.New("boom")}, n)
	before := p.Cursor()

	err := p.Tick(context.Background())
	require.EqualError(t, err, "boom")
	assert.Equal(t, before, p.Cursor())
	assert.Equal(t, []string{"Сбой в работе программы: boom"}, n.texts)
}

func TestTick_NotifierFailureDoesNotPropagate(t *testing.T) {
	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{}}}
	n := &fakeNotifier{fail: true}
	p := newTestPoller(f, n)

	require.NoError(t, p.Tick(context.Background()))
	assert.Equal(t, start.Add(10*time.Minute).Unix(), p.Cursor())

	f.err = domain.NewError(domain.KindAPIAccess, domain.MsgAPIAccess, nil)
	before := p.Cursor()
	require.Error(t, p.Tick(context.Background()))
	assert.Equal(t, before, p.Cursor())
	assert.Len(t, n.texts, 2)
}

func TestTick_CursorNeverRegresses(t *testing.T) {
	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{}}}
	backwards := clock(start, -time.Minute)
	p := New(f, &fakeNotifier{}, zap.NewNop(), time.Minute, WithClock(backwards))
	before := p.Cursor()

	require.NoError(t, p.Tick(context.Background()))
	assert.Equal(t, before, p.Cursor())
}

func TestTick_CanceledContextSendsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := &fakeNotifier{}
	p := newTestPoller(&fakeFetcher{err: domain.NewError(domain.KindAPIAccess, domain.MsgAPIAccess, context.Canceled)}, n)

	err := p.Tick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, n.texts)
}

func TestTick_Journal(t *testing.T) {
	j := &memJournal{err: errors.New("disk full")}
	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{}}}
	p := newTestPoller(f, &fakeNotifier{}, WithJournal(j))

	require.NoError(t, p.Tick(context.Background()))
	f.resp = "garbage"
	require.Error(t, p.Tick(context.Background()))

	require.Len(t, j.entries, 2)
	assert.Equal(t, store.KindEmpty, j.entries[0].Kind)
	assert.True(t, j.entries[0].Delivered)
	assert.Equal(t, start.Unix(), j.entries[0].FromDate)
	assert.Equal(t, store.KindFailure, j.entries[1].Kind)
	assert.NotEqual(t, j.entries[0].PollID, j.entries[1].PollID)
}

func TestRun_SleepsBetweenIterationsUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fakeFetcher{resp: map[string]any{"homeworks": []any{}}}
	n := &fakeNotifier{}
	var slept []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		if len(slept) == 3 {
			cancel()
		}
		return ctx.Err()
	}
	p := newTestPoller(f, n, WithSleep(sleep))

	require.NoError(t, p.Run(ctx))

	assert.Len(t, n.texts, 3)
	assert.Equal(t, []time.Duration{time.Minute, time.Minute, time.Minute}, slept)
	// Every successful pass queried from the previous pass's "now".
	assert.Equal(t, []int64{
		start.Unix(),
		start.Add(10 * time.Minute).Unix(),
		start.Add(20 * time.Minute).Unix(),
	}, f.calls)
}

func TestRun_FailuresRetryTheSameWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fakeFetcher{err: domain.NewError(domain.KindAPIAccess, domain.MsgAPIAccess, nil)}
	n := &fakeNotifier{}
	ticks := 0
	sleep := func(ctx context.Context, _ time.Duration) error {
		ticks++
		if ticks == 4 {
			cancel()
		}
		return ctx.Err()
	}
	p := newTestPoller(f, n, WithSleep(sleep))

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, []int64{start.Unix(), start.Unix(), start.Unix(), start.Unix()}, f.calls)
	assert.Len(t, n.texts, 4)
}

func TestNew_DefaultInterval(t *testing.T) {
	p := New(&fakeFetcher{}, &fakeNotifier{}, zap.NewNop(), 0)
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
