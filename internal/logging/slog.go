package logging

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
)

// Common log attribute keys.
const (
	KeyOperation   = "operation"
	KeySource      = "source"
	KeyCalendar    = "calendar"
	KeyIntent      = "intent"
	KeyRequestType = "request_type"
	KeyDuration    = "duration"
	KeyStatus      = "status"
	KeyError       = "error"
	KeyURL         = "url"
	KeyAPIKey      = "api_key"
	KeyComponent   = "component"
)

// Status values. Duplicated in instrumentation to avoid an import cycle.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Options controls the handler installed by Setup.
type Options struct {
	// Debug lowers the level to DEBUG.
	Debug bool
	// JSON switches from the text handler to the JSON handler.
	JSON bool
	// Output defaults to os.Stderr. The stdio MCP transport owns stdout,
	// so logs must never go there.
	Output io.Writer
}

// Setup builds a handler from opts, installs it as the slog default and
// returns the logger.
func Setup(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithSource returns a logger with the feed source attribute set.
func WithSource(logger *slog.Logger, source string) *slog.Logger {
	return logger.With(slog.String(KeySource, source))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Source returns a slog attribute for the feed source kind (api, http, ics).
func Source(src string) slog.Attr {
	return slog.String(KeySource, src)
}

// Calendar returns a slog attribute for the calendar identifier.
func Calendar(id string) slog.Attr {
	return slog.String(KeyCalendar, id)
}

// Intent returns a slog attribute for the voice intent name.
func Intent(name string) slog.Attr {
	return slog.String(KeyIntent, name)
}

// RequestType returns a slog attribute for the voice request type.
func RequestType(t string) slog.Attr {
	return slog.String(KeyRequestType, t)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error. A nil error yields an empty
// group, which slog omits from output.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// URL returns a slog attribute with the redacted form of raw.
func URL(raw string) slog.Attr {
	return slog.String(KeyURL, RedactURL(raw))
}

// Key returns a slog attribute describing an API key without its content.
func Key(apiKey string) slog.Attr {
	return slog.String(KeyAPIKey, SanitizeKey(apiKey))
}

// RedactURL keeps scheme, host and path of a URL and drops the query string
// and userinfo, where feed URLs carry API keys and private tokens.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(redacted)"
	}
	out := u.Scheme + "://" + u.Host + u.Path
	if u.RawQuery != "" {
		out += "?(redacted)"
	}
	return out
}

// SanitizeKey returns a length indicator for a secret without exposing any
// of its characters.
func SanitizeKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[key:%d chars]", len(key))
}
