package journal

import (
	"context"
	"time"
)

// Submission outcomes recorded in the journal.
const (
	// StatusAccepted means the API accepted the document.
	StatusAccepted = "accepted"

	// StatusRejected means the API returned an application-level error.
	StatusRejected = "rejected"

	// StatusFailed means the request failed at the transport or HTTP level.
	StatusFailed = "failed"

	// StatusCancelled means the caller's context was cancelled before the
	// request was sent.
	StatusCancelled = "cancelled"
)

// Record is a single journal entry describing one API submission.
//
// Request bodies and signatures are never stored verbatim. The journal keeps
// SHA-256 hashes so an operator can prove what was sent without the journal
// itself becoming a credential store.
type Record struct {
	// ID is a UUID assigned when the record is created.
	ID string `json:"id"`

	// Operation is the client operation name ("create_document",
	// "authenticate", ...).
	Operation string `json:"operation"`

	// DocumentID is the doc_id of the submitted document, when known.
	DocumentID string `json:"document_id,omitempty"`

	// DocumentType is the document type code ("LP_INTRODUCE_GOODS").
	DocumentType string `json:"document_type,omitempty"`

	// ProductGroup is the product group the document was submitted under.
	ProductGroup string `json:"product_group,omitempty"`

	// RequestHash is the hex-encoded SHA-256 of the request body.
	RequestHash string `json:"request_hash,omitempty"`

	// SignatureHash is the hex-encoded SHA-256 of the detached signature.
	SignatureHash string `json:"signature_hash,omitempty"`

	// HTTPStatus is the HTTP status code of the response, 0 if no response
	// was received.
	HTTPStatus int `json:"http_status,omitempty"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Error holds the error text for non-accepted outcomes.
	Error string `json:"error,omitempty"`

	// ResultValue is the identifier returned by the API on success.
	ResultValue string `json:"result_value,omitempty"`

	// GateWait is how long the submission waited for rate-limit admission.
	GateWait time.Duration `json:"gate_wait"`

	// SubmittedAt is when the request was sent (or would have been sent).
	SubmittedAt time.Time `json:"submitted_at"`

	// RecordedAt is when the record was finalized.
	RecordedAt time.Time `json:"recorded_at"`
}

// Query filters journal records. Zero-valued fields are not applied.
type Query struct {
	// StartTime and EndTime bound SubmittedAt (inclusive).
	StartTime *time.Time
	EndTime   *time.Time

	// Operation filters by operation name.
	Operation string

	// Status filters by outcome.
	Status string

	// DocumentType filters by document type code.
	DocumentType string

	// ProductGroup filters by product group.
	ProductGroup string

	// Limit caps the number of returned records. 0 means the backend
	// default.
	Limit int

	// Offset skips the first N matching records.
	Offset int
}

// Storage persists journal records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the query, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the query and returns how many were
	// removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}
