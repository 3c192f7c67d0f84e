package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/physics"
)

// referenceStep recomputes one step from explicit copies of the pre-step
// fields, so it cannot feed a new U into the V update by construction.
func referenceStep(p dynamo.Params, u, v *grid.Field) {
	u0, v0 := u.Clone(), v.Clone()
	lu := physics.Laplacian(u0, p.Dx, nil)
	lv := physics.Laplacian(v0, p.Dx, nil)
	n, m := u.Size(), u.Size()-2
	for i := 1; i <= m; i++ {
		for j := 1; j <= m; j++ {
			uc, _ := u0.At(i, j)
			vc, _ := v0.At(i, j)
			l := (i-1)*m + j - 1
			u.Data()[i*n+j] = uc + p.Dt*(p.A*lu[l]+uc-uc*uc*uc-vc+p.K)
			v.Data()[i*n+j] = vc + p.Dt*(p.B*lv[l]+uc-vc)/p.Tau
		}
	}
	physics.EnforceNeumann(u)
	physics.EnforceNeumann(v)
}

func referenceParams(size int, totalTime float64) dynamo.Params {
	cfg := dynamo.DefaultConfig()
	cfg.Size = size
	cfg.TotalTime = totalTime
	p, err := dynamo.Derive(cfg)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Turing stepper", func() {
	var p dynamo.Params

	BeforeEach(func() {
		p = referenceParams(10, 0.02)
	})

	Describe("one step from a single hot cell", func() {
		var u, v *grid.Field

		BeforeEach(func() {
			u, v = grid.New(10), grid.New(10)
			Expect(u.Set(4, 4, 1.0)).To(Succeed())
			Expect(physics.NewTuring(p).Step(u, v)).To(Succeed())
		})

		It("derives dx = 0.2 and dt = 0.018", func() {
			Expect(p.Dx).To(BeNumerically("~", 0.2, 1e-15))
			Expect(p.Dt).To(BeNumerically("~", 0.018, 1e-15))
			Expect(p.Steps).To(Equal(1))
		})

		It("cools the hot cell by diffusion and the k term", func() {
			// 1 + dt*(a*(-4/dx²) + 1 - 1 - 0 + k)
			Expect(u.At(4, 4)).To(BeNumerically("~", 0.999406, 1e-12))
		})

		It("spreads heat to the four axis neighbours", func() {
			// dt*(a/dx² + k)
			for _, c := range [][2]int{{3, 4}, {5, 4}, {4, 3}, {4, 5}} {
				Expect(u.At(c[0], c[1])).To(BeNumerically("~", 0.000036, 1e-12))
			}
		})

		It("applies only the k term elsewhere in the interior", func() {
			Expect(u.At(2, 7)).To(BeNumerically("~", -0.00009, 1e-12))
			Expect(u.At(4, 6)).To(BeNumerically("~", -0.00009, 1e-12))
		})

		It("drives V from the pre-step U", func() {
			// dt*(0 + 1 - 0)/tau
			Expect(v.At(4, 4)).To(BeNumerically("~", 0.18, 1e-12))
			Expect(v.At(3, 4)).To(BeNumerically("==", 0))
			Expect(v.At(1, 1)).To(BeNumerically("==", 0))
		})

		It("copies the interior onto the edges", func() {
			Expect(u.At(0, 4)).To(BeNumerically("~", -0.00009, 1e-12))
			Expect(u.At(9, 9)).To(BeNumerically("~", -0.00009, 1e-12))
			Expect(v.At(4, 0)).To(BeNumerically("==", 0))
		})
	})

	It("matches a snapshot-based reference over many steps", func() {
		p = referenceParams(24, 0.5)
		rng := grid.NewRNG(11)
		u, v := grid.NewRandom(24, rng), grid.NewRandom(24, rng)
		ru, rv := u.Clone(), v.Clone()

		m := physics.NewTuring(p)
		for i := 0; i < 50; i++ {
			Expect(m.Step(u, v)).To(Succeed())
			referenceStep(p, ru, rv)
		}
		Expect(u.Equal(ru)).To(BeTrue())
		Expect(v.Equal(rv)).To(BeTrue())
	})

	It("leaves a homogeneous steady state unchanged", func() {
		for _, c := range []float64{0, 0.3, -0.7} {
			cfg := dynamo.DefaultConfig()
			cfg.Size, cfg.TotalTime = 16, 1
			cfg.A, cfg.B, cfg.K = 1e-3, 1e-3, c*c*c
			p, err := dynamo.Derive(cfg)
			Expect(err).NotTo(HaveOccurred())

			u, v := grid.Filled(16, c), grid.Filled(16, c)
			m := physics.NewTuring(p)
			for i := 0; i < 200; i++ {
				Expect(m.Step(u, v)).To(Succeed())
			}
			for _, x := range append(u.Data(), v.Data()...) {
				Expect(x).To(BeNumerically("~", c, 1e-12))
			}
		}
	})

	It("is deterministic for injected fields", func() {
		p = referenceParams(20, 0.2)
		run := func() (*grid.Field, *grid.Field) {
			rng := grid.NewRNG(99)
			u, v := grid.NewRandom(20, rng), grid.NewRandom(20, rng)
			m := physics.NewTuring(p)
			for i := 0; i < p.Steps; i++ {
				Expect(m.Step(u, v)).To(Succeed())
			}
			return u, v
		}
		u1, v1 := run()
		u2, v2 := run()
		Expect(u1.Equal(u2)).To(BeTrue())
		Expect(v1.Equal(v2)).To(BeTrue())
	})

	It("gives identical results with parallel Laplacians", func() {
		p = referenceParams(48, 0.05)
		rng := grid.NewRNG(3)
		u, v := grid.NewRandom(48, rng), grid.NewRandom(48, rng)
		pu, pv := u.Clone(), v.Clone()

		serial := physics.NewTuring(p)
		parallel := physics.NewTuring(p)
		parallel.Workers = 4
		for i := 0; i < 20; i++ {
			Expect(serial.Step(u, v)).To(Succeed())
			Expect(parallel.Step(pu, pv)).To(Succeed())
		}
		Expect(u.Equal(pu)).To(BeTrue())
		Expect(v.Equal(pv)).To(BeTrue())
	})

	It("stays finite over a stable run", func() {
		p = referenceParams(32, 1)
		rng := grid.NewRNG(5)
		u, v := grid.NewRandom(32, rng), grid.NewRandom(32, rng)
		m := physics.NewTuring(p)
		for i := 0; i < p.Steps; i++ {
			Expect(m.Step(u, v)).To(Succeed())
		}
		Expect(u.IsFinite()).To(BeTrue())
		Expect(v.IsFinite()).To(BeTrue())
	})

	It("rejects mismatched or degenerate fields", func() {
		m := physics.NewTuring(p)
		Expect(m.Step(grid.New(10), grid.New(9))).To(MatchError(physics.ErrDimensionMismatch))
		Expect(m.Step(grid.New(2), grid.New(2))).To(MatchError(physics.ErrDimensionMismatch))
	})

	Describe("parameter tuning", func() {
		It("exposes and updates coefficients", func() {
			m := physics.NewTuring(p)
			Expect(m.GetParams()).To(HaveKeyWithValue("k", p.K))
			Expect(m.SetParam("k", 0.01)).To(Succeed())
			Expect(m.K).To(Equal(0.01))
		})

		It("rejects invalid values", func() {
			m := physics.NewTuring(p)
			Expect(m.SetParam("tau", 0)).To(MatchError(dynamo.ErrInvalidParameter))
			Expect(m.SetParam("a", math.NaN())).To(MatchError(dynamo.ErrInvalidParameter))
			Expect(m.SetParam("nope", 1)).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})
})
