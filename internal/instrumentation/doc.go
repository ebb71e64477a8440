// Package instrumentation wires OpenTelemetry metrics and traces for the
// skill, the feed loader and the MCP tools.
//
// A Provider is built once per process from Config, the `telemetry` section
// of the YAML configuration, with OTEL_* environment overrides applied by
// Config.ApplyEnv. Metrics go to Prometheus (scraped from the metrics
// server), OTLP/HTTP or stdout; traces go to OTLP/HTTP, stdout or nowhere.
// The stdout exporters write to Config.Output, stderr by default.
//
// Instruments recorded through Metrics:
//
//	http_requests_total{method,path,status}
//	http_request_duration_seconds{method,path,status}
//	skill_requests_total{request_type,intent,status}
//	feed_fetch_total{source,status}
//	feed_fetch_duration_seconds{source,status}
//	feed_items_skipped_total{reason}
//	reminders_loaded
//	mcp_tool_invocations_total{tool,status}
//
// Span names are feed.<source>.fetch, skill.<request_type> and tool.<name>.
// Every Metrics method is safe on a nil or disabled recorder.
package instrumentation
