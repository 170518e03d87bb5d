package bench

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Report is the outcome of one run: per-workload snapshots tagged with
// a run ID. Reports are written as msgpack so baselines stay small and
// stable across harness versions.
type Report struct {
	ID         string              `msgpack:"id"`
	Dialect    string              `msgpack:"dialect"`
	StartedAt  time.Time           `msgpack:"started_at"`
	FinishedAt time.Time           `msgpack:"finished_at"`
	Workloads  map[string]Snapshot `msgpack:"workloads"`
}

// Write stores the report as a baseline file.
func (r *Report) Write(path string) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return fmt.Errorf("bench: encode report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a baseline file written by Write.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("bench: decode report %s: %w", path, err)
	}
	return &r, nil
}

// Delta is the change of one workload's average duration against a
// baseline.
type Delta struct {
	Workload string
	Base     time.Duration
	Current  time.Duration
	// Ratio is Current/Base. 1.0 means unchanged; Ratio is 0 when the
	// baseline has no timing for the workload.
	Ratio float64
}

// Compare matches this report's workloads against a baseline report and
// returns the deltas, sorted by workload name. Workloads missing from
// the baseline are reported with a zero base and ratio.
func (r *Report) Compare(base *Report) []Delta {
	names := make([]string, 0, len(r.Workloads))
	for name := range r.Workloads {
		names = append(names, name)
	}
	sort.Strings(names)

	deltas := make([]Delta, 0, len(names))
	for _, name := range names {
		cur := r.Workloads[name].AvgDuration()
		d := Delta{Workload: name, Current: cur}
		if bs, ok := base.Workloads[name]; ok {
			d.Base = bs.AvgDuration()
			if d.Base > 0 {
				d.Ratio = float64(cur) / float64(d.Base)
			}
		}
		deltas = append(deltas, d)
	}
	return deltas
}

// String formats a delta for log output.
func (d Delta) String() string {
	if d.Base == 0 {
		return fmt.Sprintf("%s: %s (no baseline)", d.Workload, d.Current)
	}
	return fmt.Sprintf("%s: %s -> %s (x%.2f)", d.Workload, d.Base, d.Current, d.Ratio)
}
