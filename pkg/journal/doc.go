// Package journal defines the submission journal: a durable log of every
// document submission the client makes to GIS MT.
//
// # Overview
//
// The journal answers "what did we send, when, and what came back" for audit
// and incident review. Each API call produces one Record holding the
// operation, document metadata, the outcome, and SHA-256 hashes of the
// request body and detached signature. Bodies and signatures are hashed
// rather than stored.
//
// # Subpackages
//
//   - storage: Storage backends (SQLite and in-memory).
//   - recorder: asynchronous record writer used by the client.
//   - retention: age- and count-based pruning on a cron schedule.
package journal
