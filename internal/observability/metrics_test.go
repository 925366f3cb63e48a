package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/orbitalmesh/ldmr-sim/core"
	"github.com/orbitalmesh/ldmr-sim/model"
)

func sampleRun() *core.RunResult {
	return &core.RunResult{
		Algorithm: core.AlgorithmLDMR,
		Results: []model.DemandResult{
			{
				Outcome: model.OutcomeSuccess,
				Paths: []model.PathResult{
					{Path: model.Path{DelayMs: 12}, Role: model.RolePrimary},
					{Path: model.Path{DelayMs: 18}, Role: model.BackupRole(1)},
				},
			},
			{Outcome: model.OutcomeUnreachable},
		},
		Elapsed: 120 * time.Millisecond,
	}
}

func TestObserveRun_CountsDemandsAndPaths(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	c.ObserveRun(sampleRun())

	if got := testutil.ToFloat64(c.DemandsProcessed.WithLabelValues("ldmr", "success")); got != 1 {
		t.Errorf("demands{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.DemandsProcessed.WithLabelValues("ldmr", "unreachable")); got != 1 {
		t.Errorf("demands{unreachable} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.PathsAccepted.WithLabelValues("ldmr")); got != 2 {
		t.Errorf("paths accepted = %v, want 2", got)
	}
}

func TestObserveRun_DelayHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	c.ObserveRun(sampleRun())

	mf := gatherFamily(t, reg, "ldmrsim_path_delay_ms")
	if len(mf.Metric) != 1 {
		t.Fatalf("got %d label combinations, want 1", len(mf.Metric))
	}
	m := mf.Metric[0]
	if !matchLabels(m.Label, map[string]string{"algorithm": "ldmr"}) {
		t.Errorf("unexpected labels: %v", m.Label)
	}
	if got := m.Histogram.GetSampleCount(); got != 2 {
		t.Errorf("delay sample count = %d, want 2", got)
	}
	if got := m.Histogram.GetSampleSum(); got != 30 {
		t.Errorf("delay sample sum = %v, want 30", got)
	}

	dur := gatherFamily(t, reg, "ldmrsim_run_duration_seconds")
	if got := dur.Metric[0].Histogram.GetSampleCount(); got != 1 {
		t.Errorf("run duration sample count = %d, want 1", got)
	}
}

func gatherFamily(t *testing.T, reg prometheus.Gatherer, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, lp := range got {
		if want[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestSetTopologyCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	c.SetTopologyCounts(63, 120)
	if got := testutil.ToFloat64(c.TopologyNodes); got != 63 {
		t.Errorf("topology nodes = %v, want 63", got)
	}
	if got := testutil.ToFloat64(c.TopologyLinks); got != 120 {
		t.Errorf("topology links = %v, want 120", got)
	}
}

func TestNewSimCollector_Reregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewSimCollector(reg); err != nil {
		t.Fatalf("first NewSimCollector: %v", err)
	}
	// A second collector over the same registry must reuse the existing
	// collectors instead of failing.
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector: %v", err)
	}
	c.ObserveRun(sampleRun())
	if got := testutil.ToFloat64(c.PathsAccepted.WithLabelValues("ldmr")); got != 2 {
		t.Errorf("paths accepted = %v, want 2", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}
	c.ObserveRun(sampleRun())

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"ldmrsim_demands_total", "ldmrsim_paths_accepted_total", "ldmrsim_run_duration_seconds"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
