package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "herowiki-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestOtlpConnConfigEnabled(t *testing.T) {
	require.False(t, OtlpConnConfig{}.Enabled())
	require.True(t, OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}.Enabled())
	require.True(t, OtlpConnConfig{GrpcEndpoint: "http://localhost:4317"}.Enabled())
}

func TestSamplePerfStats(t *testing.T) {
	stats, err := SamplePerfStats(10 * time.Millisecond)
	require.NoError(t, err)
	require.Greater(t, stats.Goroutines, int64(0))
	require.GreaterOrEqual(t, stats.CpuPercent, 0.0)
}
