package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, ExporterPrometheus, cfg.MetricsExporter)
	assert.Equal(t, ExporterNone, cfg.TracingExporter)
	assert.InDelta(t, DefaultSampleRate, cfg.SampleRate, 1e-9)
	assert.Nil(t, cfg.Output)
	require.NoError(t, cfg.Validate())
}

func TestConfig_ApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envLookup(map[string]string{
		"OTEL_SERVICE_NAME":           "calendar-skill",
		"OTEL_SERVICE_INSTANCE_ID":    "pod-7",
		"INSTRUMENTATION_ENABLED":     "true",
		"METRICS_EXPORTER":            "OTLP",
		"TRACING_EXPORTER":            " stdout ",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
		"OTEL_EXPORTER_OTLP_INSECURE": "1",
		"OTEL_TRACES_SAMPLER_ARG":     "0.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "calendar-skill", cfg.ServiceName)
	assert.Equal(t, "pod-7", cfg.InstanceID)
	assert.Equal(t, ExporterOTLP, cfg.MetricsExporter)
	assert.Equal(t, ExporterStdout, cfg.TracingExporter)
	assert.Equal(t, OTLPConfig{Endpoint: "collector:4318", Insecure: true}, cfg.OTLP)
	assert.InDelta(t, 0.5, cfg.SampleRate, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ApplyEnv_EmptyValuesKeepDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envLookup(map[string]string{
		"OTEL_SERVICE_NAME":       "",
		"METRICS_EXPORTER":        "  ",
		"INSTRUMENTATION_ENABLED": "",
	})))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_ApplyEnv_Disable(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envLookup(map[string]string{"INSTRUMENTATION_ENABLED": "false"})))
	assert.False(t, cfg.Enabled)
}

func TestConfig_ApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"INSTRUMENTATION_ENABLED":     "perhaps",
		"OTEL_EXPORTER_OTLP_INSECURE": "yes please",
		"OTEL_TRACES_SAMPLER_ARG":     "a tenth",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyEnv(envLookup(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "sample rate above one",
			mutate:  func(c *Config) { c.SampleRate = 1.5 },
			wantErr: "sample rate",
		},
		{
			name:    "negative sample rate",
			mutate:  func(c *Config) { c.SampleRate = -0.1 },
			wantErr: "sample rate",
		},
		{
			name:    "unknown metrics exporter",
			mutate:  func(c *Config) { c.MetricsExporter = "statsd" },
			wantErr: `invalid metrics exporter "statsd"`,
		},
		{
			name:    "unknown tracing exporter",
			mutate:  func(c *Config) { c.TracingExporter = "jaeger" },
			wantErr: `invalid tracing exporter "jaeger"`,
		},
		{
			name:    "otlp traces without endpoint",
			mutate:  func(c *Config) { c.TracingExporter = ExporterOTLP },
			wantErr: "otlp endpoint is required",
		},
		{
			name:    "otlp metrics without endpoint",
			mutate:  func(c *Config) { c.MetricsExporter = ExporterOTLP },
			wantErr: "otlp endpoint is required",
		},
		{
			name: "otlp with endpoint",
			mutate: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.TracingExporter = ExporterOTLP
				c.OTLP.Endpoint = "localhost:4318"
			},
		},
		{
			name: "disabled config is never checked",
			mutate: func(c *Config) {
				c.Enabled = false
				c.MetricsExporter = "statsd"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
