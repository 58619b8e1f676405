package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*AppMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := New(provider.Meter("test"), "ecommerce-test")
	require.NoError(t, err)
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) (int64, []attribute.Set) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	var sets []attribute.Set
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
				sets = append(sets, dp.Attributes)
			}
		}
	}
	return total, sets
}

func TestRecordDBQuery(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDBQuery(ctx, "SELECT", "tb_user", "SELECT 1", time.Now(), true)
	m.RecordDBQuery(ctx, "DELETE", "tb_user", "DELETE", time.Now(), false)

	total, sets := collectSum(t, reader, "db.client.queries.count")
	assert.Equal(t, int64(2), total)

	var statuses []string
	for _, set := range sets {
		v, ok := set.Value("status")
		require.True(t, ok)
		statuses = append(statuses, v.AsString())
		svc, ok := set.Value("service.name")
		require.True(t, ok)
		assert.Equal(t, "ecommerce-test", svc.AsString())
	}
	assert.ElementsMatch(t, []string{"success", "error"}, statuses)
}

func TestRecordNotFoundAndIntegrity(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordNotFound(ctx, "user")
	m.RecordNotFound(ctx, "user")
	m.RecordIntegrityViolation(ctx, "user", "delete")

	notFound, _ := collectSum(t, reader, "resource_not_found_total")
	assert.Equal(t, int64(2), notFound)

	violations, sets := collectSum(t, reader, "integrity_violations_total")
	assert.Equal(t, int64(1), violations)
	op, _ := sets[0].Value("operation")
	assert.Equal(t, "delete", op.AsString())
}

func TestParseHeaders(t *testing.T) {
	assert.Empty(t, parseHeaders(""))
	assert.Equal(t,
		map[string]string{"signoz-ingestion-key": "abc", "x-team": "shop"},
		parseHeaders(" signoz-ingestion-key=abc , x-team=shop,broken"))
}

func TestDiscard(t *testing.T) {
	m := Discard()
	assert.NotPanics(t, func() {
		m.RecordDBQuery(context.Background(), "SELECT", "tb_user", "SELECT 1", time.Now(), true)
	})
}
