package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/store"
)

func sampleTrajectory() *store.Trajectory {
	return &store.Trajectory{
		Times: []float64{0, 0.1, 0.2},
		Positions: [][]geom.Vec2{
			{geom.V(0, 0), geom.V(100, 0)},
			{geom.V(1, 2), geom.V(99, -2)},
			{geom.V(2, 4), geom.V(98, -4)},
		},
	}
}

func TestRunToSVG(t *testing.T) {
	svg := RunToSVG(sampleTrajectory(), 800, 600)
	if svg == "" {
		t.Fatalf("expected SVG output")
	}

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Errorf("missing XML prologue")
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Errorf("missing canvas dimensions")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 body paths, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 end markers, got %d", got)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("unterminated document")
	}
}

func TestRunToSVGDegenerate(t *testing.T) {
	if got := RunToSVG(nil, 800, 600); got != "" {
		t.Errorf("nil trajectory should produce no output")
	}

	short := &store.Trajectory{
		Times:     []float64{0},
		Positions: [][]geom.Vec2{{geom.V(1, 1)}},
	}
	if got := RunToSVG(short, 800, 600); got != "" {
		t.Errorf("single sample should produce no output")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.svg")

	if err := WriteSVG(path, sampleTrajectory(), 400, 300); err != nil {
		t.Fatalf("WriteSVG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output failed: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("output file missing SVG root element")
	}

	if err := WriteSVG(filepath.Join(t.TempDir(), "bad.svg"), nil, 400, 300); err == nil {
		t.Errorf("expected error for empty trajectory")
	}
}
