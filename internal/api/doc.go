// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts the trainer, import and sync services
// to JSON over HTTP and serves the /ai-vocab generation proxy.
package api
