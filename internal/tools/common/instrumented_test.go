package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/gcalskill/internal/instrumentation"
)

// invocations collects mcp_tool_invocations_total keyed by status.
func invocations(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				tool, _ := dp.Attributes.Value(attribute.Key("tool"))
				assert.Equal(t, "calendar_read_day", tool.AsString())
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				counts[status.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestInstrumentedToolHandler(t *testing.T) {
	handlerErr := errors.New("snapshot unavailable")

	tests := []struct {
		name       string
		result     *mcp.CallToolResult
		err        error
		wantStatus string
	}{
		{
			name:       "text result",
			result:     mcp.NewToolResultText("Day Tuesday, 05, March, 2030, "),
			wantStatus: instrumentation.StatusSuccess,
		},
		{
			name:       "error result",
			result:     mcp.NewToolResultError(`invalid day "tomorrowish"`),
			wantStatus: instrumentation.StatusError,
		},
		{
			name:       "handler error",
			err:        handlerErr,
			wantStatus: instrumentation.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			metrics, err := instrumentation.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
			require.NoError(t, err)

			calls := 0
			wrapped := InstrumentedToolHandler("calendar_read_day", metrics, nil,
				func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					calls++
					assert.NotNil(t, ctx)
					return tt.result, tt.err
				})

			result, err := wrapped(context.Background(), mcp.CallToolRequest{})
			assert.Equal(t, 1, calls)
			assert.Same(t, tt.result, result)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, map[string]int64{tt.wantStatus: 1}, invocations(t, reader))
		})
	}
}

func TestInstrumentedToolHandler_NilMetrics(t *testing.T) {
	wrapped := InstrumentedToolHandler("calendar_read_all", nil, nil,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("You don't have reminders."), nil
		})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "You don't have reminders.", text.Text)
}
