package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder accepts scan records and writes them to the store from a
// background worker. When the buffer is full, records are dropped and
// counted rather than blocking the scan path.
type Recorder struct {
	store   *SQLiteStore
	entries chan *Record
	dropped atomic.Int64
	logger  *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRecorder creates a recorder with the given buffer size (default 1000)
// and starts its worker.
func NewRecorder(store *SQLiteStore, bufferSize int, logger *slog.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		store:   store,
		entries: make(chan *Record, bufferSize),
		logger:  logger.With("component", "journal.recorder"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go r.worker()
	return r
}

// Record enqueues one scan record. It never blocks; a full buffer drops the
// record and bumps the dropped counter.
func (r *Recorder) Record(rec *Record) {
	if rec == nil {
		return
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	select {
	case r.entries <- rec:
	default:
		n := r.dropped.Add(1)
		if n%100 == 1 {
			r.logger.Warn("journal buffer full, dropping records", "dropped_total", n)
		}
	}
}

// Dropped returns the number of records dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops the worker after draining buffered records. Safe to call more
// than once.
func (r *Recorder) Close() error {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		<-r.doneCh
	})
	return nil
}

func (r *Recorder) worker() {
	defer close(r.doneCh)
	for {
		select {
		case rec := <-r.entries:
			r.write(rec)
		case <-r.stopCh:
			// Drain what's buffered, then stop.
			for {
				select {
				case rec := <-r.entries:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Insert(ctx, rec); err != nil {
		r.logger.Error("failed to write scan record", "scan_id", rec.ScanID, "error", err)
	}
}
