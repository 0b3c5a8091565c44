// Package logging defines the structured-logging interface used across the
// hub. The TUI owns stdout, so the default implementation writes to a file.
package logging

import "context"

// Logger records gateway traffic, cache reads and controller decisions
// for the log file. Arguments after msg alternate key and value:
//
//	log.Warn(ctx, "mark read failed", "conversation", id, "error", err)
//
// The controller runs on the update loop and passes context.Background();
// the dispatcher and gateway pass the context of the call.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record, such as the
	// component name or the backend in use.
	With(args ...any) Logger
}
