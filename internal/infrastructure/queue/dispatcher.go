package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/mAXxtor/api-yamdb/internal/api/metrics"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes activity entries to a fixed set of workers using
// consistent hashing on the resource key, preserving per-resource ordering
// in the audit trail.
type Dispatcher struct {
	workers  []chan ports.ActivityEntry
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.ActivityRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.ActivityEntry, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ActivityEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an entry to the worker responsible for its resource.
// Never blocks: entries are dropped when the worker's buffer is full.
func (d *Dispatcher) Enqueue(entry ports.ActivityEntry) {
	select {
	case d.workers[d.shardIndex(entry.Resource)] <- entry:
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().Str("resource", entry.Resource).Str("verb", entry.Verb).Msg("activity entry dropped, worker buffer full")
	}
}

// shardIndex maps a resource key deterministically to a worker index.
func (d *Dispatcher) shardIndex(resource string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resource))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ActivityEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.recorder.Record(ctx, entry); err != nil {
				d.log.Error().Err(err).
					Str("resource", entry.Resource).
					Int("worker_id", id).
					Msg("activity recording failed")
				continue
			}
			metrics.ActivityRecordedTotal.WithLabelValues(entry.Verb).Inc()
		}
	}
}
