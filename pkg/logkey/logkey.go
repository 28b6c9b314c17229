// Package logkey holds the attribute names used for structured logging
// so they stay consistent across handlers and stores.
package logkey

const (
	TraceID = "trace_id"
	ERROR   = "error"
	UserID  = "user_id"
)
