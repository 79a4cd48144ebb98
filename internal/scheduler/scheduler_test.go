package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dyike/marketwatch/internal/logging"
	"github.com/dyike/marketwatch/pkg/market"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []market.Report
}

func (f *fakeSender) SendReport(_ context.Context, r market.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, r)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeDestination struct {
	ready   chan struct{}
	sender  *fakeSender
	missing bool
}

func (d *fakeDestination) Ready() <-chan struct{} { return d.ready }

func (d *fakeDestination) Resolve(_ context.Context, channelID string) (ReportSender, error) {
	if d.missing {
		return nil, errors.New("unknown channel " + channelID)
	}
	return d.sender, nil
}

// builderFunc adapts a function to ReportBuilder.
type builderFunc func(ctx context.Context) (market.Report, error)

func (f builderFunc) Build(ctx context.Context) (market.Report, error) { return f(ctx) }

func newReadyDestination() *fakeDestination {
	d := &fakeDestination{ready: make(chan struct{}), sender: &fakeSender{}}
	close(d.ready)
	return d
}

func collect(results chan TickResult, n int, t *testing.T) []TickResult {
	t.Helper()
	out := make([]TickResult, 0, n)
	for len(out) < n {
		select {
		case r := <-results:
			out = append(out, r)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d ticks", len(out), n)
		}
	}
	return out
}

func TestScheduler_SurvivesBuildFailure(t *testing.T) {
	dest := newReadyDestination()
	var calls int
	builder := builderFunc(func(context.Context) (market.Report, error) {
		calls++
		if calls == 1 {
			return market.Report{}, market.ErrFetchFailed
		}
		return market.Report{Title: "ok"}, nil
	})

	results := make(chan TickResult, 8)
	s := New(20*time.Millisecond, "42", dest, builder, logging.Discard(), WithObserver(func(r TickResult) { results <- r }))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	got := collect(results, 2, t)
	require.Equal(t, OutcomeBuildFailed, got[0].Outcome)
	require.ErrorIs(t, got[0].Err, market.ErrFetchFailed)
	require.Equal(t, OutcomeSent, got[1].Outcome)
	require.Equal(t, 2, got[1].Tick)
	require.Equal(t, 1, dest.sender.count())
	require.True(t, s.Running())
}

func TestScheduler_WaitsForReadiness(t *testing.T) {
	dest := &fakeDestination{ready: make(chan struct{}), sender: &fakeSender{}}
	builder := builderFunc(func(context.Context) (market.Report, error) { return market.Report{}, nil })

	results := make(chan TickResult, 8)
	s := New(time.Hour, "42", dest, builder, logging.Discard(), WithObserver(func(r TickResult) { results <- r }))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	select {
	case r := <-results:
		t.Fatalf("tick fired before ready: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	close(dest.ready)
	got := collect(results, 1, t)
	require.Equal(t, OutcomeSent, got[0].Outcome)
}

func TestScheduler_MissingChannelSkipsTick(t *testing.T) {
	dest := newReadyDestination()
	dest.missing = true
	var built int
	builder := builderFunc(func(context.Context) (market.Report, error) {
		built++
		return market.Report{}, nil
	})

	results := make(chan TickResult, 8)
	s := New(10*time.Millisecond, "404", dest, builder, logging.Discard(), WithObserver(func(r TickResult) { results <- r }))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	got := collect(results, 2, t)
	for _, r := range got {
		require.Equal(t, OutcomeChannelMissing, r.Outcome)
	}
	cancel()
	<-s.Done()
	require.Equal(t, 0, built)
	require.Equal(t, 0, dest.sender.count())
}

func TestScheduler_StartTwice(t *testing.T) {
	dest := newReadyDestination()
	builder := builderFunc(func(context.Context) (market.Report, error) { return market.Report{}, nil })
	s := New(time.Hour, "42", dest, builder, logging.Discard())

	require.False(t, s.Running())

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, s.Start(ctx))
	require.ErrorIs(t, s.Start(ctx), ErrAlreadyStarted)

	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.False(t, s.Running())
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "sent", OutcomeSent.String())
	require.Equal(t, "build_failed", OutcomeBuildFailed.String())
	require.Equal(t, "outcome(9)", Outcome(9).String())
}
