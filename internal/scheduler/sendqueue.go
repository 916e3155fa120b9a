package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/wire"
)

// Publisher delivers one record to the outbound transport.
type Publisher interface {
	Publish(ctx context.Context, rec wire.Record, source string) error
}

type queueItem struct {
	rec    wire.Record
	source string
}

// SendQueue serializes outbound records with an at-most-one-in-flight
// discipline: a new send starts only after the previous one completed. Failed
// sends are dropped, not retried, so a stuck transport cannot wedge every
// later update behind one bad record.
type SendQueue struct {
	pub         Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	sendTimeout time.Duration

	mu       sync.Mutex
	items    []queueItem
	inFlight bool
	done     chan struct{} // closed when the drainer parks; recreated on wake
}

// NewSendQueue creates an empty queue publishing through pub.
func NewSendQueue(pub Publisher, sendTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *SendQueue {
	q := &SendQueue{
		pub:         pub,
		logger:      logger,
		metrics:     metrics,
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
	}
	close(q.done)
	return q
}

// Enqueue appends a record and wakes the drainer if it is parked. Never
// blocks on the transport.
func (q *SendQueue) Enqueue(rec wire.Record, source string) {
	q.mu.Lock()
	q.items = append(q.items, queueItem{rec: rec, source: source})
	q.metrics.QueueDepth.Set(float64(len(q.items)))
	if q.inFlight {
		q.mu.Unlock()
		return
	}
	q.inFlight = true
	q.done = make(chan struct{})
	q.mu.Unlock()

	go q.drain()
}

// Len reports the number of queued records not yet handed to the transport.
func (q *SendQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Wait blocks until the queue is idle or the context expires. Used on
// shutdown to let the last record out.
func (q *SendQueue) Wait(ctx context.Context) error {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain sends queued records one at a time until the queue empties.
func (q *SendQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.inFlight = false
			close(q.done)
			q.mu.Unlock()
			return
		}
		it := q.items[0]
		q.items = q.items[1:]
		q.metrics.QueueDepth.Set(float64(len(q.items)))
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
		err := q.pub.Publish(ctx, it.rec, it.source)
		cancel()

		if err != nil {
			q.metrics.RecordsDropped.Inc()
			q.logger.Error("dropping record after failed send", "error", err, "source", it.source)
			continue
		}
		q.metrics.RecordsPublished.Inc()
	}
}
