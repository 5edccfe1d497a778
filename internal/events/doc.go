// Package events lets services announce things that happened without
// knowing who reacts to them.
//
// The trainer emits a SessionFinished event when a session reaches its
// summary; the server registers a handler that queues a cloud sync for the
// profile. Handlers run synchronously inside Emit, so they should only hand
// work off (for example to the task runner) and return.
package events
