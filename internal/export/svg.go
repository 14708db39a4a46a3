// Package export renders recorded runs to standalone artifacts.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/gravlab/gravlab/internal/store"
)

// strokes are cycled per body.
var strokes = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff6b6b"}

// RunToSVG renders every body path of a trajectory as an SVG polyline.
// All paths share one coordinate fit so relative geometry is kept.
// World coordinates grow downward, matching SVG, so y is not flipped.
func RunToSVG(traj *store.Trajectory, width, height int) string {
	if traj == nil || traj.BodyCount() == 0 || len(traj.Times) < 2 {
		return ""
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, row := range traj.Positions {
		for _, p := range row {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	fitX := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	fitY := func(y float64) float64 { return (y - minY) / rangeY * float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := 0; i < traj.BodyCount(); i++ {
		path := traj.Body(i)
		stroke := strokes[i%len(strokes)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for j, p := range path {
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", fitX(p.X), fitY(p.Y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", fitX(p.X), fitY(p.Y)))
			}
		}
		sb.WriteString("\"/>\n")

		last := path[len(path)-1]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, fitX(last.X), fitY(last.Y), stroke))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG renders traj and writes it to path.
func WriteSVG(path string, traj *store.Trajectory, width, height int) error {
	svg := RunToSVG(traj, width, height)
	if svg == "" {
		return fmt.Errorf("export: trajectory has no drawable data")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
