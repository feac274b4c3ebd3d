// Package config provides YAML-based configuration for the Callisto client.
//
// # Overview
//
// Configuration is loaded from a YAML file, filled with defaults, optionally
// overridden by CALLISTO_* environment variables, and validated as a whole:
// all validation errors are collected and reported together.
//
// Example configuration file:
//
//	api:
//	  base_url: https://ismp.crpt.ru/api/v3
//	  timeout_seconds: 30
//	  product_group: clothes
//
//	rate_limit:
//	  unit: minute
//	  capacity: 10
//
//	journal:
//	  enabled: true
//	  backend: sqlite
//	  path: data/journal.db
//	  retention_days: 90
//	  prune_schedule: "0 3 * * *"
//
//	logging:
//	  level: info
//	  format: text
//
//	metrics:
//	  enabled: false
//
// # Rate Limit
//
// The rate limit is expressed the way the API contract states it: at most
// Capacity requests per one Unit of time (second, minute or hour). The unit
// and capacity feed the admission gate at client construction.
//
// # Watching
//
// Watcher reports configuration file changes via fsnotify so long-running
// consumers can pick up edits without a restart.
package config
