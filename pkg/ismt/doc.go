// Package ismt is the client adapter for the GIS MT marking API
// (Честный знак, ismp.crpt.ru).
//
// # Overview
//
// The client covers the document-submission surface of the API:
//
//   - CreateDocument: submit a goods-introduction document for products
//     produced in Russia (LP_INTRODUCE_GOODS)
//   - RequestAuthChallenge: fetch the UUID and data string to sign for
//     certificate-based authentication
//   - Authenticate: exchange the signed challenge for a bearer token
//
// Every outbound call passes through the admission gate before touching the
// network, so the configured request rate is never exceeded regardless of
// how many goroutines share the client. A cancelled admission wait means
// the request is not sent at all.
//
// Signing is the caller's responsibility: the API expects a detached
// УКЭП signature in base64, produced with the participant's certificate
// outside this package.
//
// When a SubmissionRecorder is configured, every document submission and
// authentication attempt is journaled with its outcome, HTTP status, and
// admission wait. Request bodies and signatures reach the journal as
// hashes only.
//
// # Errors
//
// Failures are reported with typed errors (ConfigError, AuthError,
// RateLimitError, APIError, ParseError) so callers can branch with
// errors.As. Transport and serialization failures are never conflated with
// admission-gate failures, and a failed downstream call does not return its
// admission to the window.
package ismt
