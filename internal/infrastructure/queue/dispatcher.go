package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/authkit/identity-api/internal/api/metrics"
	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the actor id, guaranteeing per-actor event ordering in the
// audit trail. Record never blocks the request path beyond channel admission
// and never surfaces an error to the caller.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx bounds event processing only;
// workers run until Stop closes their channels, so events enqueued during
// shutdown still reach the audit trail.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and waits for every queued event to be
// processed. Call after the server has stopped accepting requests; a second
// call is a no-op.
func (d *Dispatcher) Stop() {
	if !d.stopped.CompareAndSwap(false, true) {
		return
	}
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Record sends an event to the worker responsible for its actor. When the
// worker channel is full, or the dispatcher is already stopped, the event is
// dropped with a log line; auditing must never stall an authentication
// request.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	if d.stopped.Load() {
		d.drop(event)
		return
	}
	idx := d.shardIndex(event.ActorID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event)
	}
}

func (d *Dispatcher) drop(event domain.AuditEvent) {
	metrics.AuditEventsTotal.WithLabelValues("error").Inc()
	d.log.Warn().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Msg("audit queue unavailable, event dropped")
}

// shardIndex maps an actor id deterministically to a worker index.
func (d *Dispatcher) shardIndex(actorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actorID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		if err := d.service.Process(ctx, event); err != nil {
			metrics.AuditEventsTotal.WithLabelValues("error").Inc()
			d.log.Error().Err(err).
				Str("action", string(event.Action)).
				Str("actor_id", event.ActorID).
				Int("worker_id", id).
				Msg("audit event processing failed")
			continue
		}
		metrics.AuditEventsTotal.WithLabelValues("ok").Inc()
	}
}
