package queue

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	writeTimeout   = 10 * time.Second
)

// AuditDispatcher persists batch reports off the request path. Reports are
// sharded by apartment id, so one apartment's reports are written in order.
type AuditDispatcher struct {
	workers []chan domain.BatchReport
	repo    ports.BatchAuditRepository
	log     zerolog.Logger
	dropped atomic.Int64
	wg      sync.WaitGroup

	// OnDepth, when set, receives the queue length of a worker after each change.
	OnDepth func(workerID string, depth int)
	// OnDrop, when set, is called for every report discarded by Record.
	OnDrop func()
}

// NewAuditDispatcher creates a dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.BatchAuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.BatchReport, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.BatchReport, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain what is queued and exit once ctx is
// cancelled; Wait blocks until they are gone.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *AuditDispatcher) Wait() { d.wg.Wait() }

// Record queues a report without blocking. A full shard drops the report and
// logs it, since the save it describes has already happened.
func (d *AuditDispatcher) Record(report domain.BatchReport) {
	idx := d.shardIndex(report.ApartmentID)
	select {
	case d.workers[idx] <- report:
		d.depth(idx)
	default:
		d.dropped.Add(1)
		if d.OnDrop != nil {
			d.OnDrop()
		}
		d.log.Error().
			Str("batch_id", report.ID).
			Int64("apartment_id", report.ApartmentID).
			Int("worker_id", idx).
			Msg("audit queue full, batch report dropped")
	}
}

// Dropped returns how many reports were discarded because a shard was full.
func (d *AuditDispatcher) Dropped() int64 { return d.dropped.Load() }

// shardIndex maps an apartment deterministically to a worker.
func (d *AuditDispatcher) shardIndex(apartmentID int64) int {
	n := int64(len(d.workers))
	return int(((apartmentID % n) + n) % n)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.BatchReport) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case report := <-ch:
			d.depth(id)
			d.write(context.Background(), id, report)
		}
	}
}

// drain flushes whatever is still queued at shutdown.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.BatchReport) {
	for {
		select {
		case report := <-ch:
			d.write(context.Background(), id, report)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, report domain.BatchReport) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, &report); err != nil {
		d.log.Error().Err(err).
			Str("batch_id", report.ID).
			Int64("apartment_id", report.ApartmentID).
			Int("worker_id", id).
			Msg("batch report persistence failed")
	}
}

func (d *AuditDispatcher) depth(idx int) {
	if d.OnDepth != nil {
		d.OnDepth(strconv.Itoa(idx), len(d.workers[idx]))
	}
}
