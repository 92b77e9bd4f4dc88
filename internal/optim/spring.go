package optim

import (
	"context"
	"math"

	"github.com/san-kum/motionlab/internal/metrics"
	"github.com/san-kum/motionlab/internal/spring"
)

// SpringGoal describes the retarget a spring is tuned for: a unit step from
// 0 to 1 at FPS, watched for Frames frames.
type SpringGoal struct {
	Mass         float64
	MaxOvershoot float64
	FPS          int
	Frames       int
	Solver       spring.Solver
}

// SettleTime returns an Objective over "stiffness" and "damping" that
// scores a spring by its settle time in ms. Springs that overshoot more
// than MaxOvershoot or never settle score +Inf.
func (g SpringGoal) SettleTime() Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		overshoot, settle := g.Evaluate(g.Config(params))
		if overshoot > g.MaxOvershoot || settle < 0 {
			return math.Inf(1), nil
		}
		return settle, nil
	}
}

// Evaluate runs the unit step and reports overshoot and settle time (-1
// when the spring did not settle).
func (g SpringGoal) Evaluate(cfg spring.Config) (overshoot, settleMs float64) {
	fps := g.FPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1 / float64(fps)

	sp := spring.New(cfg, 0)
	if g.Solver != nil {
		sp = sp.WithSolver(g.Solver)
	}
	sp.SetTarget(1)

	over := metrics.NewOvershoot()
	st := metrics.NewSettleTime(spring.PositionEpsilon, spring.VelocityEpsilon)
	for i := 0; i <= g.Frames; i++ {
		if i > 0 {
			sp.Step(dt)
		}
		s := metrics.FromSpring(float64(i)*dt*1000, &sp)
		over.Observe(s)
		st.Observe(s)
	}
	return over.Value(), st.Value()
}

// Config builds the spring config for a grid point.
func (g SpringGoal) Config(params map[string]float64) spring.Config {
	return spring.NewConfig(params["stiffness"], params["damping"], g.Mass)
}
