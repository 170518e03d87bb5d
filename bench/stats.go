// Package bench runs fixed database workloads against a
// session-normalized connection pool and collects timing statistics.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds execution statistics for one workload.
type Stats struct {
	// Ops is the number of completed operations.
	Ops atomic.Int64
	// TotalDuration is the total time spent in operations.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowOps is the count of operations exceeding the slow threshold.
	SlowOps atomic.Int64
	// Errors is the count of failed operations.
	Errors atomic.Int64
}

// Snapshot returns a point-in-time copy of the statistics.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Ops:           s.Ops.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowOps:       s.SlowOps.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *Stats) Reset() {
	s.Ops.Store(0)
	s.TotalDuration.Store(0)
	s.SlowOps.Store(0)
	s.Errors.Store(0)
}

// Snapshot is a point-in-time copy of workload statistics.
type Snapshot struct {
	Ops           int64         `msgpack:"ops"`
	TotalDuration time.Duration `msgpack:"total_duration"`
	SlowOps       int64         `msgpack:"slow_ops"`
	Errors        int64         `msgpack:"errors"`
}

// AvgDuration returns the average operation duration.
func (s Snapshot) AvgDuration() time.Duration {
	if s.Ops == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Ops)
}

// String returns a human-readable summary of the snapshot.
func (s Snapshot) String() string {
	return fmt.Sprintf(
		"ops=%d duration=%s avg=%s slow=%d errors=%d",
		s.Ops, s.TotalDuration, s.AvgDuration(), s.SlowOps, s.Errors,
	)
}

// SlowOpHook is called when an operation exceeds the slow threshold.
type SlowOpHook func(ctx context.Context, workload string, duration time.Duration)

// Recorder accumulates per-workload statistics.
type Recorder struct {
	mu            sync.RWMutex
	stats         map[string]*Stats
	slowThreshold time.Duration
	slowHook      SlowOpHook
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSlowThreshold sets the threshold for slow operation detection.
// Operations taking longer than this are counted as slow. Default is
// 100ms.
func WithSlowThreshold(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.slowThreshold = d
	}
}

// WithSlowOpHook sets a callback for slow operations.
func WithSlowOpHook(hook SlowOpHook) RecorderOption {
	return func(r *Recorder) {
		r.slowHook = hook
	}
}

// WithSlowOpLog logs slow operations to the default logger. This is a
// convenience wrapper around WithSlowOpHook.
func WithSlowOpLog() RecorderOption {
	return WithSlowOpHook(func(_ context.Context, workload string, duration time.Duration) {
		slog.Warn("slow operation detected", "workload", workload, "duration", duration)
	})
}

// NewRecorder returns a Recorder ready to collect statistics.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		stats:         make(map[string]*Stats),
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the statistics bucket for a workload, creating it on
// first use.
func (r *Recorder) Stats(workload string) *Stats {
	r.mu.RLock()
	s, ok := r.stats[workload]
	r.mu.RUnlock()
	if ok {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.stats[workload]; !ok {
		s = &Stats{}
		r.stats[workload] = s
	}
	return s
}

// Record accounts one operation of the given workload.
func (r *Recorder) Record(ctx context.Context, workload string, start time.Time, err error) {
	duration := time.Since(start)
	s := r.Stats(workload)
	s.Ops.Add(1)
	s.TotalDuration.Add(int64(duration))
	if err != nil {
		s.Errors.Add(1)
	}

	r.mu.RLock()
	threshold := r.slowThreshold
	hook := r.slowHook
	r.mu.RUnlock()

	if duration > threshold {
		s.SlowOps.Add(1)
		if hook != nil {
			hook(ctx, workload, duration)
		}
	}
}

// Snapshots returns a snapshot per workload.
func (r *Recorder) Snapshots() map[string]Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Snapshot, len(r.stats))
	for name, s := range r.stats {
		out[name] = s.Snapshot()
	}
	return out
}
