package ismt

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Document type and format constants for the create-document operation.
const (
	// DocTypeIntroduceGoods marks a document introducing goods produced in
	// the Russian Federation into turnover.
	DocTypeIntroduceGoods = "LP_INTRODUCE_GOODS"

	// DocumentFormatManual is the format for manually assembled documents.
	DocumentFormatManual = "MANUAL"

	// DefaultProductGroup is used when the config does not name one.
	DefaultProductGroup = "clothes"
)

// Document is a goods-introduction document as accepted by GIS MT.
// Empty fields are omitted from the serialized form.
type Document struct {
	Description     *Description `json:"description,omitempty"`
	DocID           string       `json:"doc_id,omitempty"`
	DocStatus       string       `json:"doc_status,omitempty"`
	DocType         string       `json:"doc_type,omitempty"`
	ImportRequest   *bool        `json:"importRequest,omitempty"`
	OwnerINN        string       `json:"owner_inn,omitempty"`
	ParticipantINN  string       `json:"participant_inn,omitempty"`
	ProducerINN     string       `json:"producer_inn,omitempty"`
	ProductionDate  string       `json:"production_date,omitempty"`
	ProductionType  string       `json:"production_type,omitempty"`
	Products        []Product    `json:"products,omitempty"`
	RegDate         string       `json:"reg_date,omitempty"`
	RegNumber       string       `json:"reg_number,omitempty"`
}

// Description carries the participant identification block of a document.
type Description struct {
	ParticipantINN string `json:"participantInn,omitempty"`
}

// Product is a single marked product inside a document.
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   string `json:"certificate_document_date,omitempty"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerINN                  string `json:"owner_inn,omitempty"`
	ProducerINN               string `json:"producer_inn,omitempty"`
	ProductionDate            string `json:"production_date,omitempty"`
	TNVEDCode                 string `json:"tnved_code,omitempty"`
	UITCode                   string `json:"uit_code,omitempty"`
	UITUCode                  string `json:"uitu_code,omitempty"`
}

// DocumentRequest is the wire envelope for the create-document call.
// The document itself travels base64-encoded in ProductDocument.
type DocumentRequest struct {
	DocumentFormat  string `json:"document_format"`
	ProductDocument string `json:"product_document"`
	ProductGroup    string `json:"product_group,omitempty"`
	Signature       string `json:"signature"`
	Type            string `json:"type"`
}

// NewDocumentRequest builds the create-document envelope: the document is
// serialized to JSON and base64-encoded, the detached signature is attached
// as-is.
func NewDocumentRequest(doc *Document, signature, productGroup string) (*DocumentRequest, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, &ParseError{
			Operation: "create_document",
			Cause:     err,
		}
	}

	return &DocumentRequest{
		DocumentFormat:  DocumentFormatManual,
		ProductDocument: base64.StdEncoding.EncodeToString(encoded),
		ProductGroup:    productGroup,
		Signature:       signature,
		Type:            DocTypeIntroduceGoods,
	}, nil
}

// DocumentResponse is the create-document reply. A populated Value is the
// identifier of the created document; otherwise Code/ErrorMessage describe
// the application-level failure.
type DocumentResponse struct {
	Value        string `json:"value"`
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message"`
	Description  string `json:"description"`
}

// Success reports whether the response carries a created document ID.
func (r *DocumentResponse) Success() bool {
	return r.Value != ""
}

// AuthChallenge is the data to sign for certificate-based authentication.
type AuthChallenge struct {
	UUID string `json:"uuid"`
	Data string `json:"data"`
}

// AuthRequest confirms an authentication challenge with signed data.
type AuthRequest struct {
	UUID string `json:"uuid"`
	Data string `json:"data"`
}

// AuthResponse is the token reply for a confirmed challenge.
type AuthResponse struct {
	Token        string `json:"token"`
	Code         string `json:"code"`
	ErrorMessage string `json:"error_message"`
	Description  string `json:"description"`
}

// ClientConfig contains configuration for the GIS MT client.
type ClientConfig struct {
	// Name identifies this client instance in logs and errors.
	Name string

	// BaseURL is the API root. Defaults to the production GIS MT endpoint.
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// ProductGroup is attached to document submissions.
	ProductGroup string

	// Connection pool settings.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Recorder journals submissions when set. Nil disables journaling.
	Recorder SubmissionRecorder
}
