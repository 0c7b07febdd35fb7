package orchestrator

import (
	"context"
	"sync"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/logging"
)

// activityWorker writes activity records through a core.ActivityLogger on a
// dedicated goroutine. Enqueue never blocks the caller: when the bounded
// queue is full the record is dropped with a warning, and a failing sink is
// logged and otherwise ignored.
type activityWorker struct {
	sink    core.ActivityLogger
	logger  logging.Logger
	records chan core.ActivityRecord
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func newActivityWorker(sink core.ActivityLogger, queueSize int, logger logging.Logger) *activityWorker {
	if queueSize < 1 {
		queueSize = 1
	}

	w := &activityWorker{
		sink:    sink,
		logger:  logger,
		records: make(chan core.ActivityRecord, queueSize),
		done:    make(chan struct{}),
	}
	go w.run()

	return w
}

func (w *activityWorker) run() {
	defer close(w.done)

	for record := range w.records {
		if err := w.sink.Log(context.Background(), record); err != nil {
			w.logger.Warn("activity log write failed",
				"record_id", record.ID,
				"task", record.Task,
				"error", err,
			)
		}
	}
}

// Enqueue hands a record to the worker without blocking.
func (w *activityWorker) Enqueue(record core.ActivityRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.records <- record:
	default:
		w.logger.Warn("activity queue full, dropping record",
			"record_id", record.ID,
			"task", record.Task,
		)
	}
}

// Close stops accepting records and blocks until the backlog is written.
func (w *activityWorker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.records)
	w.mu.Unlock()

	<-w.done
}
