package bench

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner executes the configured workloads against one database.
type Runner struct {
	db  *sql.DB
	cfg *Config
	rec *Recorder
	log *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for run progress. Default is
// slog.Default().
func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.log = log
	}
}

// WithRecorder sets the statistics recorder. Default is a recorder with
// the config's slow threshold and slow-op logging enabled.
func WithRecorder(rec *Recorder) RunnerOption {
	return func(r *Runner) {
		r.rec = rec
	}
}

// NewRunner returns a Runner over an already opened database. The pool
// is capped at the config's worker count so the number of physical
// connections, and therefore session-hook applications, is bounded and
// reproducible.
func NewRunner(db *sql.DB, cfg *Config, opts ...RunnerOption) *Runner {
	r := &Runner{db: db, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.rec == nil {
		r.rec = NewRecorder(
			WithSlowThreshold(time.Duration(cfg.SlowThreshold)),
			WithSlowOpLog(),
		)
	}
	db.SetMaxOpenConns(cfg.Workers)
	db.SetMaxIdleConns(cfg.Workers)
	return r
}

// Recorder returns the recorder collecting this runner's statistics.
func (r *Runner) Recorder() *Recorder { return r.rec }

// Warm grows the pool to the worker count before measuring, so that
// physical connection opens (and the session scripts they trigger) are
// not attributed to the first workload.
func (r *Runner) Warm(ctx context.Context) error {
	conns := make(chan *sql.Conn, r.cfg.Workers)
	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		eg.Go(func() error {
			conn, err := r.db.Conn(ctx)
			if err != nil {
				return err
			}
			conns <- conn
			return nil
		})
	}
	err := eg.Wait()
	close(conns)
	for conn := range conns {
		_ = conn.Close()
	}
	return err
}

// Run warms the pool and executes every configured workload, returning
// a report of the run. The first operation error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.Warm(ctx); err != nil {
		return nil, err
	}
	report := &Report{
		ID:        uuid.NewString(),
		Dialect:   r.cfg.Dialect,
		StartedAt: time.Now().UTC(),
	}
	for _, w := range workloadsFor(r.cfg.Workloads) {
		r.log.Info("running workload",
			"run", report.ID,
			"workload", w.Name,
			"workers", r.cfg.Workers,
			"iterations", r.cfg.Iterations,
		)
		if err := r.runWorkload(ctx, w); err != nil {
			return nil, err
		}
		r.log.Info("workload done", "workload", w.Name, "stats", r.rec.Stats(w.Name).Snapshot())
	}
	report.FinishedAt = time.Now().UTC()
	report.Workloads = r.rec.Snapshots()
	return report, nil
}

// runWorkload runs one workload with the configured concurrency. Each
// worker performs the configured number of iterations.
func (r *Runner) runWorkload(ctx context.Context, w Workload) error {
	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		eg.Go(func() error {
			for i := 0; i < r.cfg.Iterations; i++ {
				start := time.Now()
				err := w.Run(ctx, r.db)
				r.rec.Record(ctx, w.Name, start, err)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
