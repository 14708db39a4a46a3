package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gravlab/gravlab/internal/geom"
	"github.com/gravlab/gravlab/internal/physics"
)

var _ = Describe("World cloning", func() {
	var (
		w  *physics.World
		ha physics.BodyHandle
		hb physics.BodyHandle
	)

	BeforeEach(func() {
		w = physics.NewWorld()
		a, err := physics.NewBody(geom.V(0, 0), geom.V(1, 0), 2)
		Expect(err).NotTo(HaveOccurred())
		b, err := physics.NewBody(geom.V(50, 0), geom.V(0, 3), 7)
		Expect(err).NotTo(HaveOccurred())
		ha, err = w.AddBody(a)
		Expect(err).NotTo(HaveOccurred())
		hb, err = w.AddBody(b)
		Expect(err).NotTo(HaveOccurred())
	})

	It("resolves the same handles to the same bodies", func() {
		c := w.Clone()
		for _, h := range []physics.BodyHandle{ha, hb} {
			orig, ok := w.Body(h)
			Expect(ok).To(BeTrue())
			dup, ok := c.Body(h)
			Expect(ok).To(BeTrue())
			Expect(dup.Position()).To(Equal(orig.Position()))
			Expect(dup.Velocity()).To(Equal(orig.Velocity()))
			Expect(dup.Mass()).To(Equal(orig.Mass()))
		}
		Expect(c.Tick()).To(Equal(w.Tick()))
	})

	It("isolates the original from steps taken in the clone", func() {
		before, _ := w.Body(ha)
		c := w.Clone()

		law := physics.NewGravity(1e6)
		for i := 0; i < 50; i++ {
			law.Apply(c)
			c.Step(1.0 / 60)
		}

		after, _ := w.Body(ha)
		Expect(after.Position()).To(Equal(before.Position()))
		Expect(after.Velocity()).To(Equal(before.Velocity()))
		Expect(w.Tick()).To(BeZero())
		Expect(c.Tick()).To(Equal(uint64(50)))
	})

	It("isolates the clone from mutations of the original", func() {
		c := w.Clone()
		snapshot, _ := c.Body(hb)

		Expect(w.ApplyForce(hb, geom.V(1000, 0))).To(Succeed())
		w.Step(1)
		w.RemoveBody(ha)

		got, ok := c.Body(hb)
		Expect(ok).To(BeTrue())
		Expect(got.Position()).To(Equal(snapshot.Position()))
		Expect(got.Velocity()).To(Equal(snapshot.Velocity()))

		_, ok = c.Body(ha)
		Expect(ok).To(BeTrue(), "removal must not reach the clone")
	})
})

var _ = Describe("Trajectory prediction", func() {
	var (
		w      *physics.World
		planet physics.BodyHandle
		pred   *physics.Predictor
	)

	BeforeEach(func() {
		w = physics.NewWorld()
		sun, err := physics.NewBody(geom.V(0, 0), geom.Vec2{}, 100)
		Expect(err).NotTo(HaveOccurred())
		p, err := physics.NewBody(geom.V(0, -150), geom.V(60, 0), 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.AddBody(sun)
		Expect(err).NotTo(HaveOccurred())
		planet, err = w.AddBody(p)
		Expect(err).NotTo(HaveOccurred())

		pred = physics.NewPredictor(physics.NewGravity(5e5))
		pred.Horizon = 120
	})

	It("leaves the live world untouched", func() {
		type snap struct {
			pos, vel geom.Vec2
		}
		var before []snap
		for _, b := range w.Bodies() {
			before = append(before, snap{b.Position(), b.Velocity()})
		}
		tick := w.Tick()

		_, err := pred.Trajectory(w, planet)
		Expect(err).NotTo(HaveOccurred())

		Expect(w.Tick()).To(Equal(tick))
		for i, b := range w.Bodies() {
			Expect(b.Position()).To(Equal(before[i].pos))
			Expect(b.Velocity()).To(Equal(before[i].vel))
		}
	})

	It("bends the predicted path toward the attractor", func() {
		path, err := pred.Trajectory(w, planet)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveLen(120))

		// Launched along +x from below the attractor, the track has
		// to curve upward over the horizon.
		Expect(path[len(path)-1].Y).To(BeNumerically(">", path[0].Y))
	})

	It("fails for a removed body", func() {
		w.RemoveBody(planet)
		_, err := pred.Trajectory(w, planet)
		Expect(err).To(MatchError(physics.ErrUnknownBody))
	})
})

var _ = Describe("Pairwise gravity", func() {
	It("applies equal and opposite forces", func() {
		w := physics.NewWorld()
		a, _ := physics.NewBody(geom.V(-30, 10), geom.Vec2{}, 4)
		b, _ := physics.NewBody(geom.V(55, -20), geom.Vec2{}, 0.5)
		ha, _ := w.AddBody(a)
		hb, _ := w.AddBody(b)

		physics.NewGravity(1e6).Apply(w)

		ba, _ := w.Body(ha)
		bb, _ := w.Body(hb)
		sum := ba.TotalForce().Add(bb.TotalForce())
		Expect(sum.X).To(BeNumerically("~", 0, 1e-9))
		Expect(sum.Y).To(BeNumerically("~", 0, 1e-9))
	})

	It("pulls the lighter body harder in acceleration terms", func() {
		w := physics.NewWorld()
		heavy, _ := physics.NewBody(geom.V(0, 0), geom.Vec2{}, 10)
		light, _ := physics.NewBody(geom.V(0, 180), geom.Vec2{}, 1)
		hh, _ := w.AddBody(heavy)
		hl, _ := w.AddBody(light)

		physics.NewGravity(6.67e7).Apply(w)

		bh, _ := w.Body(hh)
		bl, _ := w.Body(hl)
		Expect(bl.Acceleration().Len()).To(BeNumerically("~", 10*bh.Acceleration().Len(), 1e-6))
	})
})
