package instrumentation

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// Feed sources
	SourceAPI  = "api"
	SourceHTTP = "http"
	SourceICS  = "ics"

	// Reasons a feed item is skipped during load
	SkipReasonPast      = "past"
	SkipReasonMalformed = "malformed"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

const (
	// DefaultServiceName is the service.name resource attribute.
	DefaultServiceName = "gcalskill"

	// DefaultSampleRate is the parent-based trace sampling ratio.
	DefaultSampleRate = 0.1
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// OTLPConfig addresses an OTLP/HTTP collector.
type OTLPConfig struct {
	// Endpoint is host:port without scheme, e.g. "localhost:4318".
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends plain HTTP. Local development only.
	Insecure bool `yaml:"insecure,omitempty"`
}

// Config is the telemetry section of the service configuration.
type Config struct {
	Enabled bool `yaml:"enabled"`

	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"-"`

	// InstanceID defaults to the hostname.
	InstanceID string `yaml:"instance_id,omitempty"`

	MetricsExporter string `yaml:"metrics_exporter"`
	TracingExporter string `yaml:"tracing_exporter"`

	OTLP OTLPConfig `yaml:"otlp"`

	// SampleRate is the ratio of root traces kept, 0.0 to 1.0.
	SampleRate float64 `yaml:"sample_rate"`

	// Output receives the stdout exporters' data. Nil means os.Stderr:
	// stdout belongs to `read` output and the MCP stdio transport.
	Output io.Writer `yaml:"-"`
}

// DefaultConfig returns Prometheus metrics with tracing off.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		ServiceName:     DefaultServiceName,
		ServiceVersion:  "unknown",
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		SampleRate:      DefaultSampleRate,
	}
}

// ApplyEnv overrides fields from the standard OTEL_* variables and the
// exporter selectors, read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("OTEL_SERVICE_NAME"); ok {
		c.ServiceName = v
	}
	if v, ok := get("OTEL_SERVICE_INSTANCE_ID"); ok {
		c.InstanceID = v
	}
	if v, ok := get("METRICS_EXPORTER"); ok {
		c.MetricsExporter = strings.ToLower(v)
	}
	if v, ok := get("TRACING_EXPORTER"); ok {
		c.TracingExporter = strings.ToLower(v)
	}
	if v, ok := get("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.OTLP.Endpoint = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"INSTRUMENTATION_ENABLED", &c.Enabled},
		{"OTEL_EXPORTER_OTLP_INSECURE", &c.OTLP.Insecure},
	}
	for _, b := range bools {
		v, ok := get(b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}

	if v, ok := get("OTEL_TRACES_SAMPLER_ARG"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG %q: %w", v, err)
		}
		c.SampleRate = rate
	}
	return nil
}

// Validate checks exporter names, the sample rate and that an OTLP exporter
// has somewhere to send. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("trace sample rate must be between 0.0 and 1.0, got %g", c.SampleRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %s",
			c.MetricsExporter, strings.Join(metricsExporters, ", "))
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %s",
			c.TracingExporter, strings.Join(tracingExporters, ", "))
	}
	if c.OTLP.Endpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return fmt.Errorf("otlp endpoint is required when an exporter is otlp; set OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	return nil
}
