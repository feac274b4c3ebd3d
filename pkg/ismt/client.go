package ismt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"truemark-hq/callisto/pkg/gate"
	"truemark-hq/callisto/pkg/journal"
	"truemark-hq/callisto/pkg/journal/recorder"
	"truemark-hq/callisto/pkg/metrics"
)

// SubmissionRecorder journals completed or aborted API calls. Satisfied by
// *recorder.Recorder.
type SubmissionRecorder interface {
	Record(ctx context.Context, sub *recorder.Submission) error
}

// DefaultBaseURL is the production GIS MT API root.
const DefaultBaseURL = "https://ismp.crpt.ru/api/v3"

// API operation paths, relative to the base URL.
const (
	createDocumentPath = "/lk/documents/create"
	authChallengePath  = "/auth/cert/key"
	authConfirmPath    = "/auth/cert/"
)

// Operation names used in errors, logs, and metrics labels.
const (
	OpCreateDocument = "create_document"
	OpAuthChallenge  = "auth_challenge"
	OpAuthenticate   = "authenticate"
)

// Client is a thread-safe GIS MT API client. All request-issuing methods
// pass through the admission gate before performing network I/O, so a
// single Client shared by many goroutines never exceeds the configured
// request rate.
type Client struct {
	config  ClientConfig
	client  *http.Client
	gate    *gate.Gate
	metrics *metrics.Metrics
	logger  *slog.Logger

	healthMu sync.RWMutex
	health   Health
}

// NewClient creates a GIS MT client behind the given admission gate.
// The metrics parameter may be nil to disable instrumentation.
func NewClient(config ClientConfig, g *gate.Gate, m *metrics.Metrics) (*Client, error) {
	if config.Name == "" {
		return nil, &ConfigError{
			Field:   "name",
			Message: "client name is required",
		}
	}
	if g == nil {
		return nil, &ConfigError{
			Client:  config.Name,
			Field:   "gate",
			Message: "admission gate is required",
		}
	}

	// Defaults
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "callisto/1.0"
	}
	if config.ProductGroup == "" {
		config.ProductGroup = DefaultProductGroup
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		gate:    g,
		metrics: m,
		logger:  slog.Default().With("component", "ismt.client", "client", config.Name),
		health: Health{
			IsHealthy:             true, // start optimistic
			LastCheck:             time.Now(),
			LastSuccessfulRequest: time.Now(),
		},
	}

	c.logger.Info("GIS MT client initialized",
		"base_url", config.BaseURL,
		"rate_capacity", g.Capacity(),
		"rate_period", g.Period(),
	)

	return c, nil
}

// CreateDocument submits a goods-introduction document together with its
// detached base64 УКЭП signature and returns the created document ID.
// The token is the bearer token obtained via the auth flow.
func (c *Client) CreateDocument(ctx context.Context, doc *Document, signature, token string) (string, error) {
	submittedAt := time.Now()
	sub := &recorder.Submission{
		Operation:    OpCreateDocument,
		DocumentID:   doc.DocID,
		DocumentType: DocTypeIntroduceGoods,
		ProductGroup: c.config.ProductGroup,
		Signature:    signature,
		SubmittedAt:  submittedAt,
	}

	wait, err := c.admit(ctx, OpCreateDocument)
	sub.GateWait = wait
	if err != nil {
		sub.Status = journal.StatusCancelled
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	request, err := NewDocumentRequest(doc, signature, c.config.ProductGroup)
	if err != nil {
		// The admission was already consumed, so the attempt is journaled
		// even though nothing went on the wire.
		sub.Status = journal.StatusFailed
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}
	if c.config.Recorder != nil {
		body, err := json.Marshal(request)
		if err != nil {
			c.logger.Warn("request body not journaled",
				"operation", OpCreateDocument,
				"error", err,
			)
		} else {
			sub.RequestBody = body
		}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}

	var response DocumentResponse
	httpStatus, err := c.doJSON(ctx, OpCreateDocument, http.MethodPost, createDocumentPath, request, &response, headers)
	sub.HTTPStatus = httpStatus
	if err != nil {
		sub.Status = journal.StatusFailed
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	if !response.Success() {
		err := &APIError{
			Operation: OpCreateDocument,
			Code:      response.Code,
			Message:   response.ErrorMessage,
		}
		c.recordOutcome(false, err)
		sub.Status = journal.StatusRejected
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	c.logger.Debug("document created",
		"document_id", response.Value,
		"product_group", c.config.ProductGroup,
	)

	sub.Status = journal.StatusAccepted
	sub.ResultValue = response.Value
	c.journal(ctx, sub)

	return response.Value, nil
}

// RequestAuthChallenge fetches the UUID and data string that the caller
// must sign with the participant certificate to authenticate.
func (c *Client) RequestAuthChallenge(ctx context.Context) (*AuthChallenge, error) {
	if _, err := c.admit(ctx, OpAuthChallenge); err != nil {
		return nil, err
	}

	var challenge AuthChallenge
	if _, err := c.doJSON(ctx, OpAuthChallenge, http.MethodGet, authChallengePath, nil, &challenge, nil); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// Authenticate exchanges a signed challenge for a bearer token. The uuid is
// the one returned by RequestAuthChallenge and signedData is the challenge
// data signed with the participant certificate, base64-encoded.
func (c *Client) Authenticate(ctx context.Context, uuid, signedData string) (string, error) {
	submittedAt := time.Now()
	sub := &recorder.Submission{
		Operation:   OpAuthenticate,
		Signature:   signedData,
		SubmittedAt: submittedAt,
	}

	wait, err := c.admit(ctx, OpAuthenticate)
	sub.GateWait = wait
	if err != nil {
		sub.Status = journal.StatusCancelled
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	request := AuthRequest{
		UUID: uuid,
		Data: signedData,
	}
	headers := map[string]string{
		"Content-Type": "application/json;charset=UTF-8",
	}

	var response AuthResponse
	httpStatus, err := c.doJSON(ctx, OpAuthenticate, http.MethodPost, authConfirmPath, request, &response, headers)
	sub.HTTPStatus = httpStatus
	if err != nil {
		sub.Status = journal.StatusFailed
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	if response.Token == "" {
		err := &APIError{
			Operation: OpAuthenticate,
			Code:      response.Code,
			Message:   response.ErrorMessage,
		}
		c.recordOutcome(false, err)
		sub.Status = journal.StatusRejected
		sub.Err = err
		c.journal(ctx, sub)
		return "", err
	}

	sub.Status = journal.StatusAccepted
	c.journal(ctx, sub)

	return response.Token, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// admit passes the caller through the admission gate. It returns the time
// spent waiting; a cancellation means the request must not be sent.
func (c *Client) admit(ctx context.Context, operation string) (time.Duration, error) {
	start := time.Now()
	err := c.gate.Acquire(ctx)
	waited := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordAdmission(operation, err == nil, waited.Seconds())
		c.metrics.SetWindowRemaining(c.gate.Remaining())
	}

	if err != nil {
		c.logger.Debug("admission wait abandoned",
			"operation", operation,
			"waited", waited,
		)
		return waited, err
	}

	if waited > time.Millisecond {
		c.logger.Debug("admission granted after wait",
			"operation", operation,
			"waited", waited,
		)
	}

	return waited, nil
}

// journal hands a submission to the configured recorder, if any. Journal
// failures are logged, never surfaced: the API outcome already happened.
func (c *Client) journal(ctx context.Context, sub *recorder.Submission) {
	if c.config.Recorder == nil {
		return
	}
	if err := c.config.Recorder.Record(ctx, sub); err != nil {
		c.logger.Warn("failed to journal submission",
			"operation", sub.Operation,
			"error", err,
		)
	}
}

// doJSON performs a single JSON request against the API and returns the HTTP
// status code (0 when no response was received). There is no retry: a failed
// call still consumed its admission, and retry policy belongs to the caller.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, reqBody, respBody interface{}, headers map[string]string) (int, error) {
	start := time.Now()
	status, err := c.exchange(ctx, operation, method, path, reqBody, respBody, headers)

	if c.metrics != nil {
		c.metrics.RecordAPIRequest(operation, err == nil, time.Since(start).Seconds())
	}

	return status, err
}

func (c *Client) exchange(ctx context.Context, operation, method, path string, reqBody, respBody interface{}, headers map[string]string) (int, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return 0, &ParseError{
				Operation: operation,
				Cause:     fmt.Errorf("failed to marshal request: %w", err),
			}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return 0, &TransportError{Operation: operation, Cause: err}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	if reqBody != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("sending request",
		"operation", operation,
		"method", method,
		"path", path,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		terr := &TransportError{Operation: operation, Cause: err}
		c.recordOutcome(false, terr)
		return 0, terr
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		perr := &ParseError{
			Operation: operation,
			Cause:     fmt.Errorf("failed to read response: %w", err),
		}
		c.recordOutcome(false, perr)
		return resp.StatusCode, perr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.classifyStatus(operation, resp, responseBytes)
		c.recordOutcome(false, apiErr)
		return resp.StatusCode, apiErr
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			perr := &ParseError{
				Operation:   operation,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
			c.recordOutcome(false, perr)
			return resp.StatusCode, perr
		}
	}

	c.recordOutcome(true, nil)
	return resp.StatusCode, nil
}

// classifyStatus maps a non-2xx reply to a typed error.
func (c *Client) classifyStatus(operation string, resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			Operation: operation,
			Message:   string(body),
		}
	case http.StatusTooManyRequests:
		return &RateLimitError{
			Operation:  operation,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(body),
		}
	default:
		return &APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
}

// parseRetryAfter parses a Retry-After header given in seconds.
// Returns 0 for absent or unparseable values.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
