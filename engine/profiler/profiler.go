package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one profiling sample covering the frames since the previous sample.
type Stats struct {
	Frames        int
	FPS           float64
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
	SampleElapsed time.Duration
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Logs a sample at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a sample is logged. Defaults to 1 second.
//
// Parameters:
//   - d: the sample interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithLogger sets the logger samples are written to.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per presented frame.
// Logs FPS, heap usage, allocation rate, GC count and pause times and process memory when the
// update interval has elapsed.
//
// Returns:
//   - bool: true if a sample was logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows (tracks churn), Sys is the process footprint.
	s := Stats{
		Frames:        p.frameCount,
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		SampleElapsed: elapsed,
	}

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("frame stats",
		slog.Float64("fps", s.FPS),
		slog.Float64("heap_mb", s.HeapMB),
		slog.Float64("alloc_rate_mb_s", s.AllocRateMB),
		slog.Any("gc", s.GCCount),
		slog.Any("gc_last_pause_us", s.LastPauseUs),
		slog.Any("gc_max_pause_us", s.MaxPauseUs),
		slog.Float64("sys_mb", s.SysMB))

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample. It is zero until the first sample was logged.
func (p *Profiler) Last() Stats {
	return p.last
}
