// velox-bench runs session-normalized database benchmarks.
// Run: go run ./cmd/velox-bench -config bench.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/velox-bench/bench"
	"github.com/syssam/velox-bench/session"
)

func main() {
	var (
		configPath  = flag.String("config", "bench.yaml", "path to the benchmark config file")
		baselineOut = flag.String("write-baseline", "", "write the run's report to this baseline file")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(*configPath, *baselineOut, log); err != nil {
		fmt.Fprintf(os.Stderr, "velox-bench: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, baselineOut string, log *slog.Logger) error {
	cfg, err := bench.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := session.Open(cfg.Dialect, cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := bench.NewRunner(db, cfg, bench.WithLogger(log))
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	for name, s := range report.Workloads {
		log.Info("result", "workload", name, "stats", s)
	}

	if cfg.Baseline != "" {
		base, err := bench.ReadReport(cfg.Baseline)
		if err != nil {
			return err
		}
		for _, d := range report.Compare(base) {
			log.Info("baseline delta", "delta", d)
		}
	}

	if baselineOut != "" {
		if err := report.Write(baselineOut); err != nil {
			return err
		}
		log.Info("baseline written", "path", baselineOut, "run", report.ID)
	}
	return nil
}
