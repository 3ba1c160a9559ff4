package debug

// Debug runtime metrics logger. Started only when config.Debug is true.
// Emits goroutine count, heap usage and the canvas redraw counters at a
// fixed interval so slow frames can be correlated with allocation growth.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// Counters reports how many frames were drawn and how many were requested.
type Counters func() (redraws, requests uint64)

// StartStatsLogger launches a ticker that logs runtime and redraw stats
// until stop is closed.
func StartStatsLogger(interval time.Duration, logger *slog.Logger, counters Counters, stop <-chan struct{}) {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		return
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var lastDrawn uint64
		for {
			select {
			case <-stop:
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
				slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			}
			if counters != nil {
				drawn, requested := counters()
				attrs = append(attrs,
					slog.Uint64("redraws", drawn),
					slog.Uint64("redraw_requests", requested),
					slog.Float64("fps", float64(drawn-lastDrawn)/interval.Seconds()),
				)
				lastDrawn = drawn
			}
			logger.Info("runtime-stats", attrs...)
		}
	}()
}
