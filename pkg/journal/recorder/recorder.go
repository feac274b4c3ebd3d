// Package recorder writes journal records asynchronously so API submissions
// are never blocked on journal storage.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"truemark-hq/callisto/pkg/journal"
	"truemark-hq/callisto/pkg/metrics"
)

// Config contains configuration for the journal recorder.
type Config struct {
	// Enabled enables journal recording. When false, Record is a no-op.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage, and for
	// enqueueing when the buffer is full.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Metrics counts journal writes when set.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Submission describes one completed (or aborted) API call to be journaled.
// The request body and signature are hashed by the recorder; they are never
// handed to storage in the clear.
type Submission struct {
	Operation    string
	DocumentID   string
	DocumentType string
	ProductGroup string

	// RequestBody is the raw body that was (or would have been) sent.
	RequestBody []byte

	// Signature is the detached signature attached to the submission.
	Signature string

	HTTPStatus  int
	Status      string
	Err         error
	ResultValue string

	GateWait    time.Duration
	SubmittedAt time.Time
}

// Recorder enqueues journal records and writes them to storage from a
// background worker.
type Recorder struct {
	storage    journal.Storage
	config     *Config
	recordChan chan *journal.Record
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a recorder backed by storage and starts its worker.
func NewRecorder(storage journal.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *journal.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record builds a journal record from the submission and enqueues it for
// async writing. It returns immediately and never blocks on storage.
func (r *Recorder) Record(ctx context.Context, sub *Submission) error {
	if !r.config.Enabled {
		return nil
	}

	record := r.buildRecord(sub)

	select {
	case r.recordChan <- record:
		r.logger.Debug("journal record enqueued",
			"record_id", record.ID,
			"operation", record.Operation,
			"status", record.Status,
		)
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("journal channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return journal.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
		)
		return journal.NewRecorderError(record.ID, context.Canceled)
	}

	return nil
}

// Close drains the queue and waits for pending writes to finish.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down journal recorder")
		close(r.done)
		r.wg.Wait()
		r.logger.Info("journal recorder shut down")
	})
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *journal.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := r.storage.Store(ctx, record)
	if r.config.Metrics != nil {
		r.config.Metrics.RecordJournalWrite(err == nil)
	}
	if err != nil {
		r.logger.Error("failed to store journal record",
			"record_id", record.ID,
			"operation", record.Operation,
			"error", err,
		)
		return
	}

	duration := time.Since(start)
	r.logger.Debug("journal record written",
		"record_id", record.ID,
		"operation", record.Operation,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// buildRecord converts a submission into a journal record, hashing the
// request body and signature.
func (r *Recorder) buildRecord(sub *Submission) *journal.Record {
	record := &journal.Record{
		ID:            uuid.New().String(),
		Operation:     sub.Operation,
		DocumentID:    sub.DocumentID,
		DocumentType:  sub.DocumentType,
		ProductGroup:  sub.ProductGroup,
		RequestHash:   HashContent(sub.RequestBody),
		SignatureHash: HashString(sub.Signature),
		HTTPStatus:    sub.HTTPStatus,
		Status:        sub.Status,
		ResultValue:   sub.ResultValue,
		GateWait:      sub.GateWait,
		SubmittedAt:   sub.SubmittedAt,
		RecordedAt:    time.Now(),
	}

	if sub.Err != nil {
		record.Error = sub.Err.Error()
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = record.RecordedAt
	}

	return record
}
