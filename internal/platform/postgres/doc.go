// Package postgres provides the PostgreSQL implementation of the cloud side
// of profile sync (store.CloudStore), its goose migrations and the mapping
// from driver errors to store errors.
package postgres
