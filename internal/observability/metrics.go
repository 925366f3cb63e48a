package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitalmesh/ldmr-sim/core"
)

// SimCollector bundles Prometheus metrics for simulation runs and provides
// a ready-to-serve /metrics handler.
type SimCollector struct {
	gatherer prometheus.Gatherer

	DemandsProcessed *prometheus.CounterVec
	PathsAccepted    *prometheus.CounterVec
	PathDelay        *prometheus.HistogramVec
	RunDuration      *prometheus.HistogramVec

	TopologyNodes prometheus.Gauge
	TopologyLinks prometheus.Gauge
}

// NewSimCollector registers simulation Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	demands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ldmrsim_demands_total",
		Help: "Total number of processed traffic demands, labeled by algorithm and outcome.",
	}, []string{"algorithm", "outcome"})
	demands, err := registerCounterVec(reg, demands, "ldmrsim_demands_total")
	if err != nil {
		return nil, err
	}

	paths := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ldmrsim_paths_accepted_total",
		Help: "Total number of accepted paths, labeled by algorithm.",
	}, []string{"algorithm"})
	paths, err = registerCounterVec(reg, paths, "ldmrsim_paths_accepted_total")
	if err != nil {
		return nil, err
	}

	delay := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ldmrsim_path_delay_ms",
		Help:    "Cumulative propagation delay of accepted paths in milliseconds.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	}, []string{"algorithm"})
	delay, err = registerHistogramVec(reg, delay, "ldmrsim_path_delay_ms")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ldmrsim_run_duration_seconds",
		Help:    "Wall-clock duration of one simulation run in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"algorithm"})
	duration, err = registerHistogramVec(reg, duration, "ldmrsim_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	nodes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ldmrsim_topology_nodes",
		Help: "Number of nodes in the current topology snapshot.",
	}), "ldmrsim_topology_nodes")
	if err != nil {
		return nil, err
	}
	links, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ldmrsim_topology_links",
		Help: "Number of links in the current topology snapshot.",
	}), "ldmrsim_topology_links")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:         gatherer,
		DemandsProcessed: demands,
		PathsAccepted:    paths,
		PathDelay:        delay,
		RunDuration:      duration,
		TopologyNodes:    nodes,
		TopologyLinks:    links,
	}, nil
}

// ObserveRun records one finished run's results into the collector.
func (c *SimCollector) ObserveRun(res *core.RunResult) {
	if c == nil || res == nil {
		return
	}
	algo := string(res.Algorithm)
	for _, dr := range res.Results {
		c.DemandsProcessed.WithLabelValues(algo, string(dr.Outcome)).Inc()
		for _, p := range dr.Paths {
			c.PathsAccepted.WithLabelValues(algo).Inc()
			c.PathDelay.WithLabelValues(algo).Observe(p.DelayMs)
		}
	}
	c.RunDuration.WithLabelValues(algo).Observe(res.Elapsed.Seconds())
}

// SetTopologyCounts updates the topology gauges after a snapshot is built.
func (c *SimCollector) SetTopologyCounts(nodes, links int) {
	if c == nil {
		return
	}
	c.TopologyNodes.Set(float64(nodes))
	c.TopologyLinks.Set(float64(links))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
