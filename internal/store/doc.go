// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage (a local slot database
// and an optional cloud database) from the application's core logic.
package store
