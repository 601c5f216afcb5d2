package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records a snapshot of Go runtime usage at the end of a run
type RuntimeMetrics struct {
	goRoutines      metric.Int64Gauge
	memoryUsage     metric.Int64Gauge
	memoryAllocated metric.Int64Gauge
	memorySystem    metric.Int64Gauge
	gcCount         metric.Int64Gauge
	processUptime   metric.Float64Gauge
}

// NewRuntimeMetrics registers the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"esc_runtime_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	memoryUsage, err := meter.Int64Gauge(
		"esc_runtime_memory_usage_bytes",
		metric.WithDescription("Heap bytes in use"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memoryAllocated, err := meter.Int64Gauge(
		"esc_runtime_memory_allocated_bytes",
		metric.WithDescription("Cumulative bytes allocated by the Go runtime"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"esc_runtime_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"esc_runtime_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	processUptime, err := meter.Float64Gauge(
		"esc_runtime_uptime_seconds",
		metric.WithDescription("Time since the run started in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goRoutines:      goRoutines,
		memoryUsage:     memoryUsage,
		memoryAllocated: memoryAllocated,
		memorySystem:    memorySystem,
		gcCount:         gcCount,
		processUptime:   processUptime,
	}, nil
}

// RuntimeStats holds one runtime snapshot
type RuntimeStats struct {
	GoRoutines      int64
	MemoryUsage     int64
	MemoryAllocated int64
	MemorySystem    int64
	GCCount         uint32
	Uptime          time.Duration
}

// Collect reads the runtime statistics and records them
func (rm *RuntimeMetrics) Collect(ctx context.Context, started time.Time) RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		GoRoutines:      int64(runtime.NumGoroutine()),
		MemoryUsage:     int64(memStats.Alloc),
		MemoryAllocated: int64(memStats.TotalAlloc),
		MemorySystem:    int64(memStats.Sys),
		GCCount:         memStats.NumGC,
		Uptime:          time.Since(started),
	}
	if rm == nil {
		return stats
	}

	rm.goRoutines.Record(ctx, stats.GoRoutines)
	rm.memoryUsage.Record(ctx, stats.MemoryUsage)
	rm.memoryAllocated.Record(ctx, stats.MemoryAllocated)
	rm.memorySystem.Record(ctx, stats.MemorySystem)
	rm.gcCount.Record(ctx, int64(stats.GCCount))
	rm.processUptime.Record(ctx, stats.Uptime.Seconds())
	return stats
}
