package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/conectar/admin-api/internal/core/domain"
	"github.com/conectar/admin-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher records audit events asynchronously through a fixed set of
// workers, sharded by consistent hashing on the subject so events about the
// same account are persisted in the order they were recorded.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its shard key.
// The call is non-blocking up to channelBuffer capacity. It satisfies
// ports.AuditSink: persistence failures are logged by the worker, never
// surfaced to the request path.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	d.workers[d.shardIndex(event)] <- event
}

// shardIndex maps an event deterministically to a worker index. Events with
// no subject (failed logins for unknown emails) shard on the attempted email.
func (d *Dispatcher) shardIndex(event domain.AuditEvent) int {
	key := event.SubjectID
	if key == "" {
		key = event.Email
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Insert(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("audit event write failed")
			}
		}
	}
}
