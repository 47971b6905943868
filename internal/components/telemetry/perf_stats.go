package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("codex.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process statistics every interval until ctx is
// done. The last sample is returned through the logger when ctx ends so a
// batch run leaves a record of its footprint even without an exporter.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	go func() {
		var memStats runtime.MemStats
		var peakMb int64
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
				if err == nil && len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				} else if err != nil {
					slog.Debug("failed to read cpu usage", "err", err)
				}

				allocatedMb := int64(memStats.Alloc / 1_000_000)
				if allocatedMb > peakMb {
					peakMb = allocatedMb
				}
				memoryGauge.Record(ctx, allocatedMb)
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				slog.Debug("perf stats", "peak_allocated_mb", peakMb)
				return
			}
		}
	}()
}
