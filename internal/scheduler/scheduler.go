// Package scheduler runs the event loop that keeps horizon-event records
// current: it watches the reconciler for staleness, fetches from the
// precision source with a bounded timeout, falls back to the local solver on
// failure, and hands authoritative records to the outbound queue.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/reconcile"
	"github.com/skyglow/horizon-events/internal/wire"
)

// Result is one day of precision output for a location.
type Result struct {
	Sun   domain.SunEvents
	Moon  domain.MoonEvents
	Phase domain.MoonPhase
}

// Source produces precision results. Implementations may call out over the
// network; the scheduler bounds every call with a timeout.
type Source interface {
	Events(ctx context.Context, loc domain.GeoLocation, date domain.Date) (Result, error)
}

// FallbackFunc is the synchronous local sun solver invoked when the precision
// source fails. It never blocks on I/O.
type FallbackFunc func(loc domain.GeoLocation, date domain.Date) (domain.SunEvents, error)

// Config holds the scheduler cadence.
type Config struct {
	// PollInterval is how often the loop wakes to check triggers.
	PollInterval time.Duration
	// RefreshInterval is the delay until the next fetch after a success.
	RefreshInterval time.Duration
	// RetryInterval is the delay until the next remote attempt after a
	// failure. The fallback has already covered the gap by then.
	RetryInterval time.Duration
	// FetchTimeout bounds one precision-source call.
	FetchTimeout time.Duration
}

// Scheduler owns all recomputation state. A single goroutine (Run) mutates
// it; location updates arrive over a channel.
type Scheduler struct {
	cfg      Config
	tracker  *reconcile.Tracker
	source   Source
	fallback FallbackFunc
	queue    *SendQueue
	logger   *slog.Logger
	metrics  *observability.Metrics

	clock clockwork.Clock
	locCh chan domain.GeoLocation

	// nextFetch is owned by the loop goroutine. The zero value means fetch
	// immediately.
	nextFetch time.Time
}

// New creates a Scheduler. Call Run to start it.
func New(cfg Config, tracker *reconcile.Tracker, source Source, fallback FallbackFunc, queue *SendQueue, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		tracker:  tracker,
		source:   source,
		fallback: fallback,
		queue:    queue,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		locCh:    make(chan domain.GeoLocation, 16),
	}
}

// SetClock replaces the clock. Call before Run; tests only.
func (s *Scheduler) SetClock(c clockwork.Clock) {
	s.clock = c
}

// UpdateLocation queues a location change for the loop. Invalid locations are
// rejected here so callers can surface the error; the reconciler re-validates
// on arrival.
func (s *Scheduler) UpdateLocation(loc domain.GeoLocation) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	select {
	case s.locCh <- loc:
		return nil
	default:
		return errors.New("location updates backlogged")
	}
}

// CheckReadiness returns nil once any category holds a current record.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.tracker.Ready() {
		return errors.New("no current horizon record yet")
	}
	return nil
}

// CurrentRecord returns the wire form of the latest reconciled data. ok is
// false until the first result lands.
func (s *Scheduler) CurrentRecord() (wire.Record, bool) {
	if !s.tracker.Ready() {
		return wire.Record{}, false
	}
	snap := s.tracker.Snapshot()
	return wire.FromDomain(snap.Location, snap.Sun, snap.Moon, snap.Phase), true
}

// Run executes the scheduling loop until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "poll_interval", s.cfg.PollInterval)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	ticker := s.clock.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.step(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case loc := <-s.locCh:
			s.applyLocation(loc)
			s.step(ctx)
		case <-ticker.Chan():
			s.step(ctx)
		}
	}
}

func (s *Scheduler) applyLocation(loc domain.GeoLocation) {
	triggers, err := s.tracker.SetLocation(loc)
	if err != nil {
		s.logger.Warn("rejected location update", "error", err)
		return
	}
	s.noteTriggers(triggers)
}

// noteTriggers records fired triggers and clears the fetch gate so the next
// step computes immediately.
func (s *Scheduler) noteTriggers(triggers []reconcile.Trigger) {
	for _, tr := range triggers {
		s.logger.Info("recompute trigger", "reason", string(tr))
		s.metrics.RecomputeTriggers.WithLabelValues(string(tr)).Inc()
	}
	if len(triggers) > 0 {
		s.nextFetch = time.Time{}
	}
}

// step runs one pass: observe the local date, then compute if the fetch gate
// has passed. The gate encodes all three cadences: zero after a trigger,
// now+RetryInterval after a failure, now+RefreshInterval after a success.
func (s *Scheduler) step(ctx context.Context) {
	loc, ok := s.tracker.Location()
	if !ok {
		return
	}

	today := domain.LocalDate(loc, s.clock.Now())
	s.noteTriggers(s.tracker.Tick(today))

	if s.clock.Now().Before(s.nextFetch) {
		return
	}
	s.compute(ctx, loc, today)
}

func (s *Scheduler) compute(ctx context.Context, loc domain.GeoLocation, date domain.Date) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	start := s.clock.Now()
	res, err := s.source.Events(fetchCtx, loc, date)
	cancel()

	if err != nil {
		s.metrics.Computations.WithLabelValues("precision_remote", "error").Inc()
		s.logger.Warn("precision source failed, running local fallback",
			"error", err, "retry_in", s.cfg.RetryInterval)
		s.nextFetch = s.clock.Now().Add(s.cfg.RetryInterval)
		s.runFallback(loc, date)
		return
	}

	s.metrics.Computations.WithLabelValues("precision_remote", "success").Inc()
	s.metrics.SolveDuration.WithLabelValues("precision_remote").Observe(s.clock.Since(start).Seconds())
	s.nextFetch = s.clock.Now().Add(s.cfg.RefreshInterval)

	applied := false
	if s.tracker.ApplySun(res.Sun, reconcile.SourcePrecisionRemote, loc, date) {
		applied = true
	} else {
		s.metrics.ResultsIgnored.Inc()
	}
	if s.tracker.ApplyMoon(res.Moon, reconcile.SourcePrecisionRemote, loc, date) {
		applied = true
	} else {
		s.metrics.ResultsIgnored.Inc()
	}
	if s.tracker.ApplyPhase(res.Phase, reconcile.SourcePrecisionRemote, loc, date) {
		applied = true
	} else {
		s.metrics.ResultsIgnored.Inc()
	}

	if applied {
		s.publish(reconcile.SourcePrecisionRemote)
	}
}

// runFallback covers a remote failure with the local sun solver. Moon and
// phase have no local path; their last known values stay flagged stale.
func (s *Scheduler) runFallback(loc domain.GeoLocation, date domain.Date) {
	s.metrics.FallbackRuns.Inc()

	start := s.clock.Now()
	sun, err := s.fallback(loc, date)
	if err != nil {
		s.metrics.Computations.WithLabelValues("local_fallback", "error").Inc()
		s.logger.Error("local fallback failed", "error", err)
		return
	}
	s.metrics.Computations.WithLabelValues("local_fallback", "success").Inc()
	s.metrics.SolveDuration.WithLabelValues("local_fallback").Observe(s.clock.Since(start).Seconds())

	if s.tracker.ApplySun(sun, reconcile.SourceLocalFallback, loc, date) {
		s.publish(reconcile.SourceLocalFallback)
	} else {
		s.metrics.ResultsIgnored.Inc()
	}
}

// publish queues the full reconciled record. Stale categories ride along with
// their last known values so the consumer always gets a complete record.
func (s *Scheduler) publish(src reconcile.Source) {
	snap := s.tracker.Snapshot()
	rec := wire.FromDomain(snap.Location, snap.Sun, snap.Moon, snap.Phase)
	s.queue.Enqueue(rec, src.String())
}
