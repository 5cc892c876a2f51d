package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_ExposesInstrumentsThroughPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()

	shutdown, err := Setup(reg, "boardroomd-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	// An instrument created from the global meter must land in the registry.
	counter, err := otel.Meter("telemetry-test").Int64Counter("boardroomd.test.events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "boardroomd_test_events_total")
}
