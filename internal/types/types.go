// Package types provides internal utilities shared across the MIB
// parser and resolver packages: nil-safe structured logging and
// byte-offset source spans.
package types

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, OID nodes, imports).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

var noCtx = context.Background()

// Logger wraps slog.Logger with nil-safe convenience methods so every
// package can accept a *Logger unconditionally and skip logging calls
// entirely when the embedder configured none.
type Logger struct {
	L *slog.Logger
}

// Enabled reports whether logging is active at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(noCtx, level)
}

// Log emits a structured log message at the given level. No-op if nil.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(noCtx, level) {
		l.L.LogAttrs(noCtx, level, msg, attrs...)
	}
}

// TraceEnabled reports whether trace-level logging is active.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a log message at the custom trace level.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// Debug emits a log message at Debug level.
func (l *Logger) Debug(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelDebug, msg, attrs...)
}

// Warn emits a log message at Warn level.
func (l *Logger) Warn(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelWarn, msg, attrs...)
}

// ByteOffset is a byte position in source text.
type ByteOffset uint32

// Span is a [Start, End) byte range in source text, used to retrieve
// DESCRIPTION/quoted-string text lazily instead of copying it during
// lexing.
type Span struct {
	Start ByteOffset
	End   ByteOffset
}

// NewSpan creates a Span from start and end byte offsets.
func NewSpan(start, end ByteOffset) Span {
	return Span{Start: start, End: end}
}

// Text slices the original source bytes for this span.
func (s Span) Text(src []byte) string {
	if int(s.End) > len(src) || s.Start > s.End {
		return ""
	}
	return string(src[s.Start:s.End])
}
