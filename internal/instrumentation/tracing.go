package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every span of the module is started from.
const TracerName = "github.com/teemow/gcalskill"

// Span attribute keys.
const (
	SpanAttrFeedSource  = "feed.source"
	SpanAttrFeedItems   = "feed.items"
	SpanAttrFeedKept    = "feed.kept"
	SpanAttrRequestType = "skill.request_type"
	SpanAttrIntent      = "skill.intent"
	SpanAttrTool        = "mcp.tool"
)

// start uses the global provider so spans work before and without a Provider.
func start(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...))
}

// StartFeedSpan starts the client span "feed.<source>.fetch". End it with
// defer span.End().
func StartFeedSpan(ctx context.Context, source string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "feed."+source+".fetch", trace.SpanKindClient,
		append([]attribute.KeyValue{attribute.String(SpanAttrFeedSource, source)}, attrs...))
}

// SetFeedCounts records how many items a fetch returned and how many
// became reminders.
func SetFeedCounts(span trace.Span, fetched, kept int) {
	span.SetAttributes(
		attribute.Int(SpanAttrFeedItems, fetched),
		attribute.Int(SpanAttrFeedKept, kept))
}

// StartSkillSpan starts the server span "skill.<request_type>". intent may be
// empty.
func StartSkillSpan(ctx context.Context, requestType, intent string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(SpanAttrRequestType, requestType)}
	if intent != "" {
		attrs = append(attrs, attribute.String(SpanAttrIntent, intent))
	}
	return start(ctx, "skill."+requestType, trace.SpanKindServer, attrs)
}

// StartToolSpan starts the server span "tool.<name>".
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "tool."+toolName, trace.SpanKindServer,
		append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...))
}

// SetSpanError marks span failed with err. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
