// Package store records simulation runs on disk. Each run gets its own
// directory holding metadata.json and trajectory.csv. The trajectory
// keeps sampled positions only; a recording documents a run, it is not
// a snapshot a world can be rebuilt from.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gravlab/gravlab/internal/config"
	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/sim"
)

// DefaultBaseDir is where runs land unless the caller overrides it.
const DefaultBaseDir = ".gravlab"

type Store struct {
	baseDir string
	logger  *zap.Logger
}

// New returns a store rooted at baseDir. A nil logger is replaced with
// a no-op one.
func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a recorded run. Fingerprint hashes the
// scenario definition, so runs of identical setups share it even when
// scenario names collide.
type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Fingerprint string             `json:"fingerprint"`
	G           float64            `json:"g"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Bodies      int                `json:"bodies"`
	Ticks       uint64             `json:"ticks"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Fingerprint returns a stable hash of the scenario definition.
func Fingerprint(sc *config.Scenario) string {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func newRunID(scenario string) string {
	return fmt.Sprintf("%s_%d_%s", scenario, time.Now().Unix(), uuid.NewString()[:8])
}

func (s *Store) Save(sc *config.Scenario, result *sim.Result) (string, error) {
	runID := newRunID(sc.Name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    sc.Name,
		Timestamp:   time.Now(),
		Fingerprint: Fingerprint(sc),
		G:           sc.G,
		Dt:          sc.Dt,
		Duration:    sc.Duration,
		Bodies:      len(sc.Bodies),
		Ticks:       result.Ticks,
		Metrics:     result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Positions) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := range result.Positions[0] {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, row := range result.Positions {
		rec := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, p := range row {
			rec = append(rec,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	s.logger.Info("run saved",
		zap.String("id", runID),
		zap.Int("samples", len(result.Times)))

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Trajectory is a recorded position series: one row per sample, one
// column per body.
type Trajectory struct {
	Times     []float64
	Positions [][]geom.Vec2
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 || (len(rec)-1)%2 != 0 {
			continue
		}

		tv, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}

		row := make([]geom.Vec2, 0, (len(rec)-1)/2)
		ok := true
		for j := 1; j+1 < len(rec); j += 2 {
			x, errX := strconv.ParseFloat(rec[j], 64)
			y, errY := strconv.ParseFloat(rec[j+1], 64)
			if errX != nil || errY != nil {
				ok = false
				break
			}
			row = append(row, geom.V(x, y))
		}
		if !ok {
			continue
		}

		traj.Times = append(traj.Times, tv)
		traj.Positions = append(traj.Positions, row)
	}

	return traj, nil
}

// BodyCount returns the number of body columns.
func (t *Trajectory) BodyCount() int {
	if len(t.Positions) == 0 {
		return 0
	}
	return len(t.Positions[0])
}

// Body returns the position series of one body column, or nil when the
// column does not exist.
func (t *Trajectory) Body(i int) []geom.Vec2 {
	if i < 0 || i >= t.BodyCount() {
		return nil
	}
	out := make([]geom.Vec2, len(t.Positions))
	for k, row := range t.Positions {
		out[k] = row[i]
	}
	return out
}

// Separation returns the distance series between two body columns, or
// nil when either column does not exist.
func (t *Trajectory) Separation(i, j int) []float64 {
	n := t.BodyCount()
	if i < 0 || j < 0 || i >= n || j >= n {
		return nil
	}
	out := make([]float64, len(t.Positions))
	for k, row := range t.Positions {
		out[k] = row[i].Dist(row[j])
	}
	return out
}
