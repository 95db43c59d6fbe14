package logging

import (
	"log/slog"
)

// Tracer emits verbose render diagnostics when explicitly enabled. It is the
// development-only trace behind the --debug flag and the ?debug page query;
// a disabled Tracer costs nothing and writes nothing.
type Tracer struct {
	logger *slog.Logger
}

// NewTracer returns a Tracer writing through logger when enabled.
func NewTracer(logger *slog.Logger, enabled bool) Tracer {
	if !enabled || logger == nil {
		return Tracer{}
	}
	return Tracer{logger: logger.With(Bool(FieldTrace, true))}
}

// Enabled reports whether trace lines are written.
func (t Tracer) Enabled() bool {
	return t.logger != nil
}

// Log writes a trace line. Trace lines are logged at info level so they show
// up for a single page load without lowering the process-wide level.
func (t Tracer) Log(msg string, attrs ...Attr) {
	if t.logger == nil {
		return
	}
	t.logger.Info(msg, Args(attrs...)...)
}

// With returns a Tracer carrying the extra attributes.
func (t Tracer) With(attrs ...Attr) Tracer {
	if t.logger == nil {
		return t
	}
	return Tracer{logger: t.logger.With(Args(attrs...)...)}
}
