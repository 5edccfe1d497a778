// Package task runs background jobs off the request path: vocabulary
// generation and per-profile cloud syncs. Jobs are queued in memory, executed
// by a fixed worker pool, and their status and result are kept in a JobStore
// for polling.
package task
