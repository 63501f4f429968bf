package telemetry

import (
	"context"
	"runtime"
	"time"

	"herowiki/internal/components/telemetry"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("herowiki/lib/telemetry")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// PerfStats is a single sample of process statistics.
type PerfStats struct {
	CpuPercent  float64
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
}

// SamplePerfStats measures cpu usage over `window` along with the current
// memory and goroutine counts.
func SamplePerfStats(window time.Duration) (PerfStats, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
	}

	cpuUsage, err := cpu.Percent(window, false)
	if err != nil {
		return stats, err
	}
	if len(cpuUsage) > 0 {
		stats.CpuPercent = cpuUsage[0]
	}
	return stats, nil
}

// InstrumentPerfStats records PerfStats gauges every `interval` until ctx
// is cancelled.
func InstrumentPerfStats(ctx context.Context, interval time.Duration, tel telemetry.API) {
	tel = telemetry.NewScopedAPI("perf_stats", tel)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats, err := SamplePerfStats(time.Second)
				if err != nil {
					tel.ReportWarning("perf-stats.cpu", err)
				} else {
					cpuGauge.Record(ctx, stats.CpuPercent)
				}
				memoryGauge.Record(ctx, stats.AllocatedMb)
				liveObjectsGauge.Record(ctx, stats.LiveObjects)
				goroutineGauge.Record(ctx, stats.Goroutines)
				tel.ReportDebug("perf stats", stats.CpuPercent, stats.AllocatedMb, stats.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}
