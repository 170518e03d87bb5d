package bench

import (
	"context"
	"database/sql"
	"sort"
)

// Workload is a fixed database round-trip executed repeatedly during a
// run. Workloads are deliberately trivial: the harness measures
// connection and session overhead, not query planning.
type Workload struct {
	// Name identifies the workload in configs and reports.
	Name string
	// Run executes one operation.
	Run func(ctx context.Context, db *sql.DB) error
}

var builtins = map[string]Workload{
	"ping": {
		Name: "ping",
		Run: func(ctx context.Context, db *sql.DB) error {
			return db.PingContext(ctx)
		},
	},
	"select_one": {
		Name: "select_one",
		Run: func(ctx context.Context, db *sql.DB) error {
			var one int
			return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
		},
	},
	"tx_commit": {
		Name: "tx_commit",
		Run: func(ctx context.Context, db *sql.DB) error {
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			return tx.Commit()
		},
	},
}

// WorkloadNames returns the names of all builtin workloads, sorted.
func WorkloadNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func workloadsFor(names []string) []Workload {
	out := make([]Workload, 0, len(names))
	for _, name := range names {
		if w, ok := builtins[name]; ok {
			out = append(out, w)
		}
	}
	return out
}
