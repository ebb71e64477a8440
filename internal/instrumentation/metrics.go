package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod      = "method"
	attrPath        = "path"
	attrStatus      = "status"
	attrRequestType = "request_type"
	attrIntent      = "intent"
	attrSource      = "source"
	attrReason      = "reason"
	attrTool        = "tool"
)

// Metrics records the service's counters and histograms. The zero value is
// a valid no-op recorder.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	skillRequestsTotal metric.Int64Counter

	feedFetchTotal      metric.Int64Counter
	feedFetchDuration   metric.Float64Histogram
	feedItemsSkipped    metric.Int64Counter
	remindersLoaded     metric.Int64Gauge

	toolInvocationsTotal metric.Int64Counter
}

// NewMetrics creates all instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.skillRequestsTotal, err = meter.Int64Counter(
		"skill_requests_total",
		metric.WithDescription("Total number of voice skill requests by type and intent"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create skill_requests_total counter: %w", err)
	}

	m.feedFetchTotal, err = meter.Int64Counter(
		"feed_fetch_total",
		metric.WithDescription("Total number of calendar feed fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed_fetch_total counter: %w", err)
	}

	m.feedFetchDuration, err = meter.Float64Histogram(
		"feed_fetch_duration_seconds",
		metric.WithDescription("Calendar feed fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed_fetch_duration_seconds histogram: %w", err)
	}

	m.feedItemsSkipped, err = meter.Int64Counter(
		"feed_items_skipped_total",
		metric.WithDescription("Feed items dropped during load, by reason"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed_items_skipped_total counter: %w", err)
	}

	m.remindersLoaded, err = meter.Int64Gauge(
		"reminders_loaded",
		metric.WithDescription("Number of reminders in the current snapshot"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminders_loaded gauge: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSkillRequest records one dispatched voice request. intent is empty
// for requests that carry none (launch, session end).
func (m *Metrics) RecordSkillRequest(ctx context.Context, requestType, intent, status string) {
	if m == nil || m.skillRequestsTotal == nil {
		return
	}

	m.skillRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRequestType, requestType),
		attribute.String(attrIntent, intent),
		attribute.String(attrStatus, status),
	))
}

// RecordFeedFetch records one fetch against a calendar feed.
func (m *Metrics) RecordFeedFetch(ctx context.Context, source, status string, duration time.Duration) {
	if m == nil || m.feedFetchTotal == nil || m.feedFetchDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrStatus, status),
	)
	m.feedFetchTotal.Add(ctx, 1, attrs)
	m.feedFetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordItemsSkipped adds n skipped feed items for reason.
func (m *Metrics) RecordItemsSkipped(ctx context.Context, reason string, n int) {
	if m == nil || m.feedItemsSkipped == nil || n <= 0 {
		return
	}
	m.feedItemsSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrReason, reason)))
}

// SetRemindersLoaded sets the reminders_loaded gauge to n.
func (m *Metrics) SetRemindersLoaded(ctx context.Context, n int) {
	if m == nil || m.remindersLoaded == nil {
		return
	}
	m.remindersLoaded.Record(ctx, int64(n))
}

// RecordToolInvocation records an MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}
	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	))
}
