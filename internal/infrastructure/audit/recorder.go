package audit

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Writer persists audit entries
type Writer interface {
	Write(ctx context.Context, entry *Entry) error
}

// Recorder buffers audit entries and writes them in the background.
// Record never blocks the caller: when the buffer is full the entry is
// dropped and the drop counter is incremented.
type Recorder struct {
	writer  Writer
	logger  *zap.Logger
	entries chan Entry

	dropped  metric.Int64Counter
	failures metric.Int64Counter

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder creates a recorder with the given buffer size and starts
// its background writer.
func NewRecorder(writer Writer, bufferSize int, logger *zap.Logger) *Recorder {
	meter := otel.Meter("lerp.audit")
	dropped, _ := meter.Int64Counter("audit.entries_dropped",
		metric.WithDescription("Audit entries dropped because the buffer was full"))
	failures, _ := meter.Int64Counter("audit.write_failures",
		metric.WithDescription("Audit entries that failed to persist"))

	r := &Recorder{
		writer:   writer,
		logger:   logger,
		entries:  make(chan Entry, bufferSize),
		dropped:  dropped,
		failures: failures,
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record enqueues an entry without blocking. A full buffer drops the
// entry; the audit trail is best-effort and never slows a request down.
func (r *Recorder) Record(entry Entry) {
	select {
	case r.entries <- entry:
	default:
		r.dropped.Add(context.Background(), 1)
		r.logger.Warn("audit buffer full, entry dropped",
			zap.String("action", entry.Action),
			zap.String("path", entry.Path))
	}
}

// Close stops accepting entries and drains the buffer. It returns when
// every buffered entry is written or ctx expires.
func (r *Recorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		close(r.entries)
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.writer.Write(ctx, &entry); err != nil {
			r.failures.Add(context.Background(), 1)
			r.logger.Error("failed to write audit entry",
				zap.String("action", entry.Action),
				zap.Error(err))
		}
		cancel()
	}
}
