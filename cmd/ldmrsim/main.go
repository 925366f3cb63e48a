// Command ldmrsim builds a constellation snapshot, generates a gravity-model
// demand set, runs the configured routing algorithms over it, and writes the
// results as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orbitalmesh/ldmr-sim/core"
	"github.com/orbitalmesh/ldmr-sim/export"
	"github.com/orbitalmesh/ldmr-sim/internal/logging"
	"github.com/orbitalmesh/ldmr-sim/internal/observability"
	"github.com/orbitalmesh/ldmr-sim/model"
	"github.com/orbitalmesh/ldmr-sim/scenario"
	"github.com/orbitalmesh/ldmr-sim/topology"
	"github.com/orbitalmesh/ldmr-sim/traffic"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file (defaults to the built-in GlobalStar scenario)")
	algorithms := flag.String("algorithms", "ldmr,spf,ecmp", "comma-separated algorithms to run")
	seed := flag.Uint64("seed", 0, "override the traffic seed from the scenario")
	outDir := flag.String("out", "", "override the output directory from the scenario")
	metricsAddr := flag.String("metrics-listen", "", "optional address to serve Prometheus /metrics on (e.g. :9090)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if err := run(ctx, log, *scenarioPath, *algorithms, *seed, *outDir, *metricsAddr); err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, scenarioPath, algorithms string, seed uint64, outDir, metricsAddr string) error {
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		go serveMetrics(ctx, metricsAddr, collector, log)
	}

	sc := scenario.Default()
	if scenarioPath != "" {
		sc, err = scenario.LoadFile(scenarioPath)
		if err != nil {
			return err
		}
	}
	algos, err := parseAlgorithms(algorithms)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(observability.TracerName)
	ctx, span := tracer.Start(ctx, "simulation",
		trace.WithAttributes(attribute.String("scenario", sc.Name)))
	defer span.End()

	graph, demands, cfg, err := prepare(ctx, sc, seed, log)
	if err != nil {
		return err
	}
	collector.SetTopologyCounts(graph.NumNodes(), graph.NumEdges())

	runs, err := runAlgorithms(ctx, tracer, algos, graph, demands, cfg, log)
	if err != nil {
		return err
	}
	for _, r := range runs {
		collector.ObserveRun(r)
	}

	dir := sc.Output.Dir
	if outDir != "" {
		dir = outDir
	}
	if err := export.WriteDir(dir, runs); err != nil {
		return err
	}
	log.Info(ctx, "results written",
		logging.String("dir", dir),
		logging.Int("runs", len(runs)),
	)
	return nil
}

// prepare builds the topology snapshot and demand list from the scenario.
func prepare(ctx context.Context, sc *scenario.Scenario, seedOverride uint64, log logging.Logger) (*model.Graph, []model.Demand, core.Config, error) {
	cc, err := sc.ConstellationConfig()
	if err != nil {
		return nil, nil, core.Config{}, err
	}
	cfg, err := sc.AlgorithmConfig()
	if err != nil {
		return nil, nil, core.Config{}, err
	}

	graph, err := topology.BuildWalker(cc, sc.Stations(), sc.LinkConfig(), sc.Constellation.SnapshotOffsetSec)
	if err != nil {
		return nil, nil, core.Config{}, err
	}
	log.Info(ctx, "topology built",
		logging.String("constellation", cc.Name),
		logging.Int("nodes", graph.NumNodes()),
		logging.Int("links", graph.NumEdges()),
	)

	tcfg := sc.TrafficConfig()
	if seedOverride != 0 {
		tcfg.Seed = seedOverride
	}
	gen, err := traffic.NewGenerator(tcfg, traffic.MajorCityZones())
	if err != nil {
		return nil, nil, core.Config{}, err
	}
	demands, err := gen.Demands(graph)
	if err != nil {
		return nil, nil, core.Config{}, err
	}
	log.Info(ctx, "demands generated",
		logging.Int("count", len(demands)),
		logging.Any("seed", tcfg.Seed),
	)
	return graph, demands, cfg, nil
}

// runAlgorithms executes the selected algorithms concurrently. Each run gets
// its own engine state, span, and run-scoped logger, so runs never observe
// each other's adaptive weights.
func runAlgorithms(ctx context.Context, tracer trace.Tracer, algos []core.Algorithm, graph *model.Graph, demands []model.Demand, cfg core.Config, log logging.Logger) ([]*core.RunResult, error) {
	runs := make([]*core.RunResult, len(algos))
	errs := make([]error, len(algos))

	var wg sync.WaitGroup
	for i, algo := range algos {
		wg.Add(1)
		go func(i int, algo core.Algorithm) {
			defer wg.Done()
			runCtx, runLog := logging.WithRunLogger(ctx, log)
			runCtx, span := tracer.Start(runCtx, "run",
				trace.WithAttributes(attribute.String("algorithm", string(algo))))
			defer span.End()

			runs[i], errs[i] = core.Run(runCtx, algo, graph, demands, cfg, runLog)
		}(i, algo)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", algos[i], err)
		}
	}
	return runs, nil
}

// parseAlgorithms parses a comma-separated algorithm list, deduplicating and
// keeping the input order.
func parseAlgorithms(raw string) ([]core.Algorithm, error) {
	known := make(map[core.Algorithm]bool)
	for _, a := range core.Algorithms() {
		known[a] = true
	}

	seen := make(map[core.Algorithm]bool)
	var out []core.Algorithm
	for _, part := range strings.Split(raw, ",") {
		name := core.Algorithm(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown algorithm %q (known: %s)", name, knownAlgorithmNames())
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no algorithms selected")
	}
	return out, nil
}

func knownAlgorithmNames() string {
	names := make([]string, 0, len(core.Algorithms()))
	for _, a := range core.Algorithms() {
		names = append(names, string(a))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// serveMetrics exposes the Prometheus registry for scraping while the
// simulation runs. Batch runs are short, so failures are logged and ignored.
func serveMetrics(ctx context.Context, addr string, collector *observability.SimCollector, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info(ctx, "metrics listener started", logging.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
	}
}
