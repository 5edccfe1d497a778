// Package domain contains the vocabulary entities of the trainer: entries,
// their review statistics and the single migration path that turns persisted
// or imported raw data into valid entries. It has no knowledge of storage,
// transport or selection policy.
package domain
