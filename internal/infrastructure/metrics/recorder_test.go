package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/metrics"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := metrics.NewRecorder(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordCalculation(ctx, "EQUAL_INSTALLMENTS", "SIMPLE_DAILY", 12, 0, 3*time.Millisecond)
	rec.RecordCalculation(ctx, "EQUAL_INSTALLMENTS", "SIMPLE_DAILY", 24, 2, 5*time.Millisecond)
	rec.RecordFailure(ctx, "calculate_schedule", "gap")

	data := collect(t, reader)

	calcs, ok := data["amortization_calculations_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, calcs.DataPoints, 1)
	assert.EqualValues(t, 2, calcs.DataPoints[0].Value)

	warnings, ok := data["amortization_schedule_warnings_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.EqualValues(t, 2, warnings.DataPoints[0].Value)

	payments, ok := data["amortization_schedule_payments"].(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.EqualValues(t, 2, payments.DataPoints[0].Count)
	assert.EqualValues(t, 36, payments.DataPoints[0].Sum)

	failures, ok := data["amortization_failures_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	reason, _ := failures.DataPoints[0].Attributes.Value("reason")
	assert.Equal(t, "gap", reason.AsString())

	_, ok = data["amortization_calculation_duration_seconds"].(metricdata.Histogram[float64])
	assert.True(t, ok)
}
