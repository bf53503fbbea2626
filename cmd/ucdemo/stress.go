// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/universal"
	"code.hybscloud.com/universal/internal/config"
	"code.hybscloud.com/universal/internal/history"
	"code.hybscloud.com/universal/internal/logger"
	"code.hybscloud.com/universal/queue"
)

// Latency histogram bounds in microseconds.
const (
	minLatencyMicros = 1
	maxLatencyMicros = 60_000_000
	sigFigs          = 3
)

func newStressCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run random enqueues and dequeues from many workers on one queue",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.Int("workers", 0, "number of concurrent workers")
	f.Int("ops", 0, "operations per worker")
	f.Uint64("seed", 0, "random seed")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	f.Bool("check", false, "check the recorded history for linearizability")
	f.String("viz", "", "write a history visualization here when the check fails")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd, root)
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		reg := prometheus.NewRegistry()
		u := universal.New(
			universal.WithLogger(log),
			universal.WithMetrics(universal.NewMetrics(reg)),
		)
		if cfg.Metrics.Addr != "" {
			stop := serveMetrics(cfg.Metrics.Addr, reg, log)
			defer stop()
		}

		report, err := runStress(cmd.Context(), cfg, u, log)
		if err != nil {
			return err
		}
		report.log(log)
		if report.checked && !report.linearizable {
			return errors.New("history is not linearizable")
		}
		return nil
	}
	return cmd
}

// resolveConfig loads the config file and applies flags that were set.
func resolveConfig(cmd *cobra.Command, root *rootFlags) (config.Config, error) {
	cfg, err := config.Load(root.config)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	for _, err := range []error{
		override(f, "workers", f.GetInt, &cfg.Workers),
		override(f, "ops", f.GetInt, &cfg.OpsPerWorker),
		override(f, "seed", f.GetUint64, &cfg.Seed),
		override(f, "metrics-addr", f.GetString, &cfg.Metrics.Addr),
		override(f, "check", f.GetBool, &cfg.Check.Enabled),
		override(f, "viz", f.GetString, &cfg.Check.VizPath),
	} {
		if err != nil {
			return cfg, err
		}
	}
	if root.logLevel != "" {
		cfg.Log.Level = root.logLevel
	}
	if root.logFile != "" {
		cfg.Log.File = root.logFile
	}
	return cfg, cfg.Validate()
}

// override stores flag name into dst when it was set on the command line.
func override[T any](f *pflag.FlagSet, name string, get func(string) (T, error), dst *T) error {
	if !f.Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return errors.Wrapf(err, "flag --%s", name)
	}
	*dst = v
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

type stressReport struct {
	runID    string
	elapsed  time.Duration
	enqueued int
	dequeued int
	empty    int
	latency  *hdrhistogram.Histogram

	checked      bool
	linearizable bool
}

func (r stressReport) log(log *zap.Logger) {
	log.Info("stress finished",
		zap.String("run", r.runID),
		zap.Duration("elapsed", r.elapsed),
		zap.Int("enqueued", r.enqueued),
		zap.Int("dequeued", r.dequeued),
		zap.Int("empty", r.empty),
		zap.Float64("mean_us", r.latency.Mean()),
		zap.Int64("p99_us", r.latency.ValueAtQuantile(99)),
		zap.Int64("max_us", r.latency.Max()),
	)
	if r.checked {
		log.Info("linearizability", zap.String("run", r.runID), zap.Bool("ok", r.linearizable))
	}
}

type workerResult struct {
	enqueued, dequeued, empty int
	latency                   *hdrhistogram.Histogram
}

// runStress runs cfg.Workers workers against one queue on u.
func runStress(ctx context.Context, cfg config.Config, u *universal.Universal, log *zap.Logger) (stressReport, error) {
	q := queue.New[int](u)
	var rec *history.Recorder
	if cfg.Check.Enabled {
		rec = history.NewRecorder()
	}
	report := stressReport{
		runID:   uuid.NewString(),
		latency: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs),
	}
	if rec != nil {
		report.runID = rec.ID()
	}
	log.Info("stress started",
		zap.String("run", report.runID),
		zap.Int("workers", cfg.Workers),
		zap.Int("ops", cfg.OpsPerWorker),
		zap.Uint64("seed", cfg.Seed),
	)

	results := make([]workerResult, cfg.Workers)
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := range cfg.Workers {
		g.Go(func() error {
			res, err := runWorker(ctx, w, cfg, q, rec)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.elapsed = time.Since(start)

	for _, res := range results {
		report.enqueued += res.enqueued
		report.dequeued += res.dequeued
		report.empty += res.empty
		report.latency.Merge(res.latency)
	}

	if rec != nil {
		var ok bool
		var err error
		if cfg.Check.VizPath != "" {
			ok, err = history.CheckAndVisualize(history.QueueModel(), rec.Events(), cfg.Check.VizPath)
		} else {
			ok, err = history.Check(history.QueueModel(), rec.Events())
		}
		if err != nil {
			return report, errors.Wrap(err, "check history")
		}
		report.checked, report.linearizable = true, ok
	}
	return report, nil
}

func runWorker(ctx context.Context, w int, cfg config.Config, q *queue.Queue[int], rec *history.Recorder) (workerResult, error) {
	res := workerResult{latency: hdrhistogram.New(minLatencyMicros, maxLatencyMicros, sigFigs)}
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(w)))
	for i := range cfg.OpsPerWorker {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		begin := time.Now()
		if rng.Float64() < cfg.EnqueueRatio {
			v := w*cfg.OpsPerWorker + i
			id := call(rec, w, history.QueueInput{Enqueue: true, Value: v})
			if err := q.Enqueue(v); err != nil {
				return res, errors.Wrapf(err, "worker %d enqueue", w)
			}
			ret(rec, w, id, history.QueueOutput{})
			res.enqueued++
		} else {
			id := call(rec, w, history.QueueInput{})
			v, err := q.Dequeue()
			switch {
			case errors.Is(err, queue.ErrEmpty):
				ret(rec, w, id, history.QueueOutput{Empty: true})
				res.empty++
			case err != nil:
				return res, errors.Wrapf(err, "worker %d dequeue", w)
			default:
				ret(rec, w, id, history.QueueOutput{Value: v})
				res.dequeued++
			}
		}
		_ = res.latency.RecordValue(max(time.Since(begin).Microseconds(), minLatencyMicros))
	}
	return res, nil
}

func call(rec *history.Recorder, client int, input history.QueueInput) int {
	if rec == nil {
		return 0
	}
	return rec.Call(client, input)
}

func ret(rec *history.Recorder, client, id int, output history.QueueOutput) {
	if rec != nil {
		rec.Return(client, id, output)
	}
}
