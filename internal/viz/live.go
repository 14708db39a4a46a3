package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/gravlab/gravlab/internal/config"
	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/physics"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	trailCapacity   = 400

	// World units per pixel at zoom 1. The default surface spans
	// 800 x 480 units, matching the scenario coordinate range.
	baseUnitsPerPx = 5.0

	markerDistance = 100.0
	axisLength     = 40.0
	velocityLead   = 0.25
	pullReach      = 14.0
	zoomStep       = 1.25
	panStep        = 8.0
)

type TickMsg time.Time

// Model drives the interactive terminal view of a running world. The
// camera frame maps world coordinates onto the pixel surface; a second
// frame chases the followed body and carries a marker slot ahead of it.
type Model struct {
	scenario *config.Scenario
	world    *physics.World
	handles  []physics.BodyHandle
	law      physics.Gravity
	pred     *physics.Predictor

	camera *geom.Frame
	chase  *geom.Frame
	marker *geom.Frame

	canvas *Canvas

	trails     [][]geom.Vec2
	energyHist []float64
	speedHist  []float64

	running   bool
	showPaths bool
	alignVel  bool
	followIdx int
	zoom      float64
	center    geom.Vec2

	elapsed float64
	err     error
}

// NewModel builds the live view for a scenario. The world starts
// running immediately.
func NewModel(sc *config.Scenario) (Model, error) {
	w, handles, err := sc.BuildWorld()
	if err != nil {
		return Model{}, err
	}

	chase := geom.NewRootFrame()
	marker, err := geom.NewFrame(chase, geom.V(markerDistance, 0), 0, geom.V(1, 1))
	if err != nil {
		return Model{}, err
	}

	m := Model{
		scenario:  sc,
		world:     w,
		handles:   handles,
		law:       sc.Law(),
		pred:      sc.BuildPredictor(),
		camera:    geom.NewRootFrame(),
		chase:     chase,
		marker:    marker,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		trails:    make([][]geom.Vec2, len(handles)),
		running:   true,
		showPaths: true,
		alignVel:  sc.View.AlignVelocity,
		followIdx: sc.View.Follow,
		zoom:      sc.View.Zoom,
		center:    barycenter(w),
	}
	if m.zoom <= 0 {
		m.zoom = 1
	}
	if m.followIdx >= len(handles) {
		m.followIdx = -1
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key input and advances the world on every frame tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "p":
			m.showPaths = !m.showPaths
		case "f":
			m.cycleFollow()
		case "tab":
			m.alignVel = !m.alignVel
		case "+", "=":
			m.zoom *= zoomStep
		case "-", "_":
			if m.zoom/zoomStep > 0.01 {
				m.zoom /= zoomStep
			}
		case "left", "h":
			m.pan(geom.V(-panStep, 0))
		case "right", "l":
			m.pan(geom.V(panStep, 0))
		case "up", "k":
			m.pan(geom.V(0, -panStep))
		case "down", "j":
			m.pan(geom.V(0, panStep))
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, frameTick()
	}
	return m, nil
}

// step advances the world by one fixed tick and records history.
func (m *Model) step() {
	m.law.Apply(m.world)
	m.world.Step(m.scenario.Dt)
	m.elapsed += m.scenario.Dt

	m.energyHist = appendCapped(m.energyHist, m.law.Energy(m.world), historyCapacity)
	if b, ok := m.followedBody(); ok {
		m.speedHist = appendCapped(m.speedHist, b.Speed(), historyCapacity)
	}
	for i, h := range m.handles {
		b, ok := m.world.Body(h)
		if !ok {
			continue
		}
		m.trails[i] = append(m.trails[i], b.Position())
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

// reset rebuilds the world from the scenario and clears history.
func (m *Model) reset() {
	w, handles, err := m.scenario.BuildWorld()
	if err != nil {
		m.err = err
		return
	}
	m.world, m.handles = w, handles
	m.trails = make([][]geom.Vec2, len(handles))
	m.energyHist = m.energyHist[:0]
	m.speedHist = m.speedHist[:0]
	m.elapsed = 0
	m.center = barycenter(w)
	m.err = nil
	if m.followIdx >= len(handles) {
		m.followIdx = -1
	}
}

// cycleFollow steps through free camera, body 0, body 1, and so on.
func (m *Model) cycleFollow() {
	m.followIdx++
	if m.followIdx >= len(m.handles) {
		m.followIdx = -1
		m.center = barycenter(m.world)
	}
	m.speedHist = m.speedHist[:0]
}

// pan moves the free camera by a pixel offset. Panning while following
// breaks the follow at the body's current position.
func (m *Model) pan(d geom.Vec2) {
	if b, ok := m.followedBody(); ok {
		m.center = b.Position()
		m.followIdx = -1
	}
	m.center = m.center.Add(d.Scale(m.unitsPerPixel()))
}

func (m *Model) followedBody() (physics.Body, bool) {
	if m.followIdx < 0 || m.followIdx >= len(m.handles) {
		return physics.Body{}, false
	}
	return m.world.Body(m.handles[m.followIdx])
}

func (m *Model) unitsPerPixel() float64 {
	return baseUnitsPerPx / m.zoom
}

// updateCamera re-anchors the view and chase frames for the current
// tick. With velocity alignment on, the followed body's heading points
// toward the right edge of the screen.
func (m *Model) updateCamera() {
	upp := m.unitsPerPixel()
	m.camera.SetScale(geom.V(upp, upp))

	b, ok := m.followedBody()
	if !ok {
		m.camera.SetPosition(m.center)
		m.camera.SetRotation(0)
		return
	}
	heading := 0.0
	if !b.Velocity().IsZero() {
		heading = b.Velocity().Angle()
	}
	m.camera.SetPosition(b.Position())
	m.chase.SetPosition(b.Position())
	m.chase.SetRotation(heading)
	if m.alignVel {
		m.camera.SetRotation(heading)
	} else {
		m.camera.SetRotation(0)
	}
}

// toScreen maps a world position onto the pixel surface.
func (m *Model) toScreen(p geom.Vec2) (int, int) {
	local := m.camera.ToLocal(p)
	x := int(math.Round(local.X)) + m.canvas.Width
	y := int(math.Round(local.Y)) + m.canvas.Height*2
	return x, y
}

// onSurface reports whether a pixel is near enough to the view to be
// worth rasterizing.
func (m *Model) onSurface(x, y int) bool {
	const margin = 400
	return x >= -margin && y >= -margin && x <= m.canvas.Width*2+margin && y <= m.canvas.Height*4+margin
}

// draw renders the current world state onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	m.updateCamera()

	for i := range m.trails {
		for _, p := range m.trails[i] {
			x, y := m.toScreen(p)
			m.canvas.Set(x, y)
		}
	}

	if m.showPaths {
		m.drawPredictions()
	}

	for i, h := range m.handles {
		b, ok := m.world.Body(h)
		if !ok {
			continue
		}
		x, y := m.toScreen(b.Position())
		r := bodyRadius(b.Mass())
		m.canvas.DrawDot(x, y, r)
		if i == m.followIdx {
			m.canvas.DrawCircle(x, y, r+3)
		}
		m.drawVelocity(b, x, y)
		m.drawPull(h, x, y)
	}

	if m.followIdx >= 0 {
		m.drawChaseFrame()
	}
}

// drawPredictions rasterizes a lookahead path for every body.
func (m *Model) drawPredictions() {
	for _, h := range m.handles {
		pts, err := m.pred.Trajectory(m.world, h)
		if err != nil {
			continue
		}
		px, py := 0, 0
		for i, p := range pts {
			x, y := m.toScreen(p)
			if i > 0 && m.onSurface(x, y) && m.onSurface(px, py) {
				m.canvas.DrawLine(px, py, x, y)
			}
			px, py = x, y
		}
	}
}

// drawVelocity draws the velocity vector a quarter second ahead of the
// body.
func (m *Model) drawVelocity(b physics.Body, x, y int) {
	if b.Velocity().IsZero() {
		return
	}
	tx, ty := m.toScreen(b.Position().Add(b.Velocity().Scale(velocityLead)))
	if !m.onSurface(tx, ty) {
		return
	}
	m.canvas.DrawArrow(x, y, tx, ty)
}

// drawPull draws the direction of the net gravitational pull on a body.
func (m *Model) drawPull(h physics.BodyHandle, x, y int) {
	b, ok := m.world.Body(h)
	if !ok {
		return
	}
	var f geom.Vec2
	for _, other := range m.handles {
		if other == h {
			continue
		}
		o, ok := m.world.Body(other)
		if !ok {
			continue
		}
		f = f.Add(m.law.ForceOn(&b, &o))
	}
	if f.IsZero() {
		return
	}
	tip := b.Position().Add(f.Normalized().Scale(pullReach * m.unitsPerPixel()))
	tx, ty := m.toScreen(tip)
	m.canvas.DrawArrow(x, y, tx, ty)
}

// drawChaseFrame draws the axes of the frame glued to the followed body
// and a cross at the marker slot ahead of it.
func (m *Model) drawChaseFrame() {
	ox, oy := m.toScreen(m.chase.ToGlobal(geom.Vec2{}))
	xx, xy := m.toScreen(m.chase.ToGlobal(geom.V(axisLength, 0)))
	yx, yy := m.toScreen(m.chase.ToGlobal(geom.V(0, axisLength)))
	m.canvas.DrawLine(ox, oy, xx, xy)
	m.canvas.DrawLine(ox, oy, yx, yy)

	cx, cy := m.toScreen(m.marker.ToGlobal(geom.Vec2{}))
	m.canvas.DrawCross(cx, cy, 3)
}

// View renders the canvas panel and the stats sidebar.
func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario.Name)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.elapsed)) + "\n")
	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.world.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.world.Len())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")
	mom := m.world.Momentum()
	s.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("(%.1f, %.1f)", mom.X, mom.Y)) + "\n")

	s.WriteString("\n" + Separator(28) + "\n")
	if b, ok := m.followedBody(); ok {
		s.WriteString(labelStyle.Render("Follow") + activeStyle.Render(fmt.Sprintf("body %d", m.followIdx)) + "\n")
		s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.1f u/s", b.Speed())) + "\n")
		if len(m.speedHist) > 1 {
			s.WriteString(Sparkline(m.speedHist, 28) + "\n")
		}
		align := "off"
		if m.alignVel {
			align = "on"
		}
		s.WriteString(labelStyle.Render("Align") + valueStyle.Render(align) + "\n")
	} else {
		s.WriteString(labelStyle.Render("Follow") + valueStyle.Render("free") + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + statusPaused.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset P:Paths F:Follow\nTAB:Align +/-:Zoom Arrows:Pan Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// bodyRadius maps mass to a marker radius in pixels.
func bodyRadius(mass float64) int {
	r := int(math.Round(1 + math.Sqrt(mass)))
	if r > 6 {
		r = 6
	}
	return r
}

// barycenter is the mass-weighted center of all bodies.
func barycenter(w *physics.World) geom.Vec2 {
	var weighted geom.Vec2
	var total float64
	for _, b := range w.Bodies() {
		weighted = weighted.Add(b.Position().Scale(b.Mass()))
		total += b.Mass()
	}
	if total == 0 {
		return geom.Vec2{}
	}
	return weighted.Scale(1 / total)
}

func appendCapped(s []float64, v float64, limit int) []float64 {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}
