package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/gravlab/gravlab/internal/config"
	"github.com/gravlab/gravlab/internal/sim"
)

// ExportData is the JSON shape of an exported run. Position rows are
// flattened to x0,y0,x1,y1,... matching the CSV layout.
type ExportData struct {
	Scenario  string             `json:"scenario"`
	G         float64            `json:"g"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Samples   int                `json:"samples"`
	Times     []float64          `json:"times"`
	Positions [][]float64        `json:"positions"`
	Energy    []float64          `json:"energy"`
	Metrics   map[string]float64 `json:"metrics"`
}

func buildExport(sc *config.Scenario, result *sim.Result) ExportData {
	rows := make([][]float64, len(result.Positions))
	for i, ps := range result.Positions {
		row := make([]float64, 0, len(ps)*2)
		for _, p := range ps {
			row = append(row, p.X, p.Y)
		}
		rows[i] = row
	}
	return ExportData{
		Scenario:  sc.Name,
		G:         sc.G,
		Dt:        sc.Dt,
		Duration:  sc.Duration,
		Samples:   len(result.Times),
		Times:     result.Times,
		Positions: rows,
		Energy:    result.Energy,
		Metrics:   result.Metrics,
	}
}

func writeJSON(w io.Writer, sc *config.Scenario, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExport(sc, result))
}

func ExportJSON(path string, sc *config.Scenario, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, sc, result)
}

func ExportJSONStdout(sc *config.Scenario, result *sim.Result) error {
	return writeJSON(os.Stdout, sc, result)
}

// ExportCSV writes a recorded trajectory in the same layout Save uses.
func ExportCSV(w io.Writer, traj *Trajectory) error {
	cw := csv.NewWriter(w)

	if len(traj.Positions) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range traj.Positions[0] {
		header = append(header, "x"+strconv.Itoa(i), "y"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range traj.Positions {
		rec := []string{strconv.FormatFloat(traj.Times[i], 'f', 6, 64)}
		for _, p := range row {
			rec = append(rec,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
