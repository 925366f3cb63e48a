// Package export writes run results to CSV files for offline analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/orbitalmesh/ldmr-sim/core"
	"github.com/orbitalmesh/ldmr-sim/model"
)

// pathsHeader is the column layout of the per-demand CSV.
var pathsHeader = []string{
	"algorithm", "demand", "source", "destination", "volume_mbps", "class",
	"outcome", "role", "hops", "delay_ms", "path",
}

// statsHeader is the column layout of the aggregate-statistics CSV.
var statsHeader = []string{
	"algorithm", "demands", "success_rate", "partial_rate",
	"unreachable_rate", "invalid_rate", "mean_path_count",
	"mean_path_delay_ms", "stddev_path_delay_ms", "mean_hop_count",
	"disjoint_rate", "elapsed_ms",
}

// WritePaths streams one row per accepted path to w. Demands with no accepted
// path still get a row with empty path columns, so the file covers every
// demand of every run.
func WritePaths(w io.Writer, runs []*core.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pathsHeader); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, run := range runs {
		for _, res := range run.Results {
			if err := writeDemandRows(cw, run.Algorithm, res); err != nil {
				return fmt.Errorf("export: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func writeDemandRows(cw *csv.Writer, algo core.Algorithm, res model.DemandResult) error {
	base := []string{
		string(algo),
		strconv.Itoa(res.Demand.Order),
		res.Demand.Source,
		res.Demand.Destination,
		formatFloat(res.Demand.VolumeMbps),
		string(res.Demand.Class),
		string(res.Outcome),
	}
	if len(res.Paths) == 0 {
		return cw.Write(append(base, "", "", "", ""))
	}
	for _, p := range res.Paths {
		row := append(append([]string{}, base...),
			string(p.Role),
			strconv.Itoa(p.Hops()),
			formatFloat(p.DelayMs),
			strings.Join(p.Nodes, "->"),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats writes one aggregate row per run to w.
func WriteStats(w io.Writer, runs []*core.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statsHeader); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, run := range runs {
		s := run.Stats
		row := []string{
			string(run.Algorithm),
			strconv.Itoa(s.Demands),
			formatFloat(s.SuccessRate),
			formatFloat(s.PartialRate),
			formatFloat(s.UnreachableRate),
			formatFloat(s.InvalidRate),
			formatFloat(s.MeanPathCount),
			formatFloat(s.MeanPathDelayMs),
			formatFloat(s.StdDevPathDelayMs),
			formatFloat(s.MeanHopCount),
			formatFloat(s.DisjointRate),
			formatFloat(float64(run.Elapsed.Milliseconds())),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteDir writes paths.csv and stats.csv under dir, creating it if needed.
func WriteDir(dir string, runs []*core.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "paths.csv"), runs, WritePaths); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "stats.csv"), runs, WriteStats)
}

func writeFile(path string, runs []*core.RunResult, fn func(io.Writer, []*core.RunResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := fn(f, runs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
