// Command gopool fans a fibonacci sequence out over a worker pool and prints
// the results in submission order, optionally serving Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/gopool/internal/config"
	"github.com/vnykmshr/gopool/pkg/metrics"
	"github.com/vnykmshr/gopool/pkg/scheduling/workerpool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "gopool: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(stderr)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pool := workerpool.NewWithMetrics(workerpool.Config{
		WorkerCount: cfg.Pool.Workers,
		Name:        cfg.Pool.Name,
		Logger:      logger,
	}, metrics.NewRegistry(promReg))
	defer pool.Shutdown()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("serving metrics", slog.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		start := time.Now()
		results, err := fanOut(gctx, pool, cfg.Fib.Count)
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, formatResults(results))
		logger.Info("fan-out completed",
			slog.Int("tasks", len(results)),
			slog.Int("workers", pool.Size()),
			slog.Duration("elapsed", time.Since(start)))

		if cfg.Metrics.Enabled {
			logger.Info("press Ctrl+C to exit")
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// parseConfig loads the config file, then lets explicitly set flags win.
func parseConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("gopool", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile  = fs.String("config", "", "config file path (YAML/JSON)")
		workers     = fs.Int("workers", 0, "number of workers (0 = one per CPU)")
		count       = fs.Int("count", 10, "number of fibonacci values to compute (1-93)")
		metricsAddr = fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
		logLevel    = fs.String("log-level", "info", "log level (debug, info, warn, error)")
	)

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Pool.Workers = *workers
		case "count":
			cfg.Fib.Count = *count
		case "metrics-addr":
			cfg.Metrics.Enabled = true
			cfg.Metrics.Addr = *metricsAddr
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func fanOut(ctx context.Context, pool workerpool.Pool, count int) ([]uint64, error) {
	futures := make([]*workerpool.Future[uint64], 0, count)
	for i := 0; i < count; i++ {
		n := i
		f, err := workerpool.SubmitValue(pool, func() uint64 { return fib(n) })
		if err != nil {
			return nil, fmt.Errorf("submit fib(%d): %w", n, err)
		}
		futures = append(futures, f)
	}
	return workerpool.Await(ctx, futures...)
}

// fib returns the n-th term of 1, 1, 2, 3, 5, ... It overflows for
// n >= config.MaxFibCount.
func fib(n int) uint64 {
	a, b := uint64(1), uint64(1)
	for i := 0; i < n; i++ {
		a, b = b, a+b
	}
	return a
}

func formatResults(results []uint64) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = strconv.FormatUint(r, 10)
	}
	return strings.Join(parts, " ")
}
