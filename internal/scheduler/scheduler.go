// Package scheduler delivers the market report to one channel on a fixed
// interval for as long as its context lives.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/marketwatch/pkg/market"
)

var ErrAlreadyStarted = errors.New("scheduler already started")

// ReportBuilder produces one report per call.
type ReportBuilder interface {
	Build(ctx context.Context) (market.Report, error)
}

// ReportSender delivers a report to a resolved channel.
type ReportSender interface {
	SendReport(ctx context.Context, report market.Report) error
}

// Destination is the delivery side: a readiness signal plus channel lookup.
type Destination interface {
	Ready() <-chan struct{}
	Resolve(ctx context.Context, channelID string) (ReportSender, error)
}

type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeChannelMissing
	OutcomeBuildFailed
	OutcomeSendFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeChannelMissing:
		return "channel_missing"
	case OutcomeBuildFailed:
		return "build_failed"
	case OutcomeSendFailed:
		return "send_failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// TickResult describes what one tick did.
type TickResult struct {
	Tick    int
	At      time.Time
	Outcome Outcome
	Err     error
}

type Option func(*Scheduler)

// WithObserver registers a hook called after every tick.
func WithObserver(fn func(TickResult)) Option {
	return func(s *Scheduler) { s.observer = fn }
}

// WithClock overrides the timestamp source for tick results.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

type Scheduler struct {
	interval  time.Duration
	channelID string
	dest      Destination
	builder   ReportBuilder
	log       logrus.FieldLogger
	now       func() time.Time
	observer  func(TickResult)

	started atomic.Bool
	done    chan struct{}
	ticks   int
}

func New(interval time.Duration, channelID string, dest Destination, builder ReportBuilder, log logrus.FieldLogger, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	s := &Scheduler{
		interval:  interval,
		channelID: channelID,
		dest:      dest,
		builder:   builder,
		log:       log,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the loop. The first tick fires immediately, then once per
// interval. A second call returns ErrAlreadyStarted.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go s.run(ctx)
	return nil
}

// Running reports whether Start has been called and the loop has not exited.
func (s *Scheduler) Running() bool {
	if !s.started.Load() {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Done is closed when the loop exits.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-s.dest.Ready():
	}

	s.ticks++
	res := s.deliver(ctx)
	res.Tick = s.ticks
	res.At = s.now()

	entry := s.log.WithFields(logrus.Fields{
		"tick":    res.Tick,
		"channel": s.channelID,
		"outcome": res.Outcome.String(),
	})
	stamp := res.At.Format("2006-01-02 15:04:05")
	switch res.Outcome {
	case OutcomeSent:
		entry.Infof("✅ Auto-update sent at %s", stamp)
	case OutcomeChannelMissing:
		entry.WithError(res.Err).Warnf("⚠️ Channel ID %s not found at %s, skipping", s.channelID, stamp)
	default:
		entry.WithError(res.Err).Errorf("❌ Auto-update skipped at %s", stamp)
	}

	if s.observer != nil {
		s.observer(res)
	}
}

func (s *Scheduler) deliver(ctx context.Context) TickResult {
	sender, err := s.dest.Resolve(ctx, s.channelID)
	if err != nil || sender == nil {
		if err == nil {
			err = fmt.Errorf("channel %s not found", s.channelID)
		}
		return TickResult{Outcome: OutcomeChannelMissing, Err: err}
	}

	report, err := s.builder.Build(ctx)
	if err != nil {
		return TickResult{Outcome: OutcomeBuildFailed, Err: err}
	}

	if err := sender.SendReport(ctx, report); err != nil {
		return TickResult{Outcome: OutcomeSendFailed, Err: err}
	}
	return TickResult{Outcome: OutcomeSent}
}
