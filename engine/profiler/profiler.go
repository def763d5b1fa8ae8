package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	clock  common.Clock
	logger *zap.Logger
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - log: destination for periodic stats (nil disables output)
//   - clock: wall-clock source (nil uses the system clock)
//   - interval: how often stats are emitted (<= 0 defaults to 1 second)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(log *zap.Logger, clock common.Clock, interval time.Duration) *Profiler {
	if clock == nil {
		clock = common.SystemClock{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       clock.Now(),
		updateInterval: interval,
		clock:          clock,
		logger:         logger.OrNop(log).Named("profiler"),
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, smoothed FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - emaFPS: the controller's smoothed FPS, logged alongside the raw frame count
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(emaFPS float64) bool {
	p.frameCount++
	currentTime := p.clock.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.logger.Debug("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("ema_fps", emaFPS),
		zap.Float64("heap_mb", allocMB),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc_count", gcCount),
		zap.Uint64("gc_last_us", lastPauseUs),
		zap.Uint64("gc_max_us", maxPauseUs),
		zap.Float64("sys_mb", sysMB),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
