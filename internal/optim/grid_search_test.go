package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{
		Linspace(-2, 2, 5),
		Linspace(0, 4, 5),
	})
	if g.Size() != 25 {
		t.Fatalf("size = %d", g.Size())
	}

	calls := 0
	best, val, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		calls++
		return (p["x"]-1)*(p["x"]-1) + (p["y"]-3)*(p["y"]-3), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 25 {
		t.Errorf("objective called %d times, want 25", calls)
	}
	if best["x"] != 1 || best["y"] != 3 || val != 0 {
		t.Errorf("best = %v (%f), want x=1 y=3", best, val)
	}
}

func TestGridSearchSkipsBadCandidates(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	best, val, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		switch p["x"] {
		case 1:
			return 0, errors.New("boom")
		case 2:
			return math.Inf(1), nil
		}
		return 7, nil
	})
	if err != nil || best["x"] != 3 || val != 7 {
		t.Errorf("best = %v %f %v", best, val, err)
	}

	_, _, err = g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return math.NaN(), nil
	})
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("err = %v, want ErrNoCandidate", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"x"}, [][]float64{{1}})
	if _, _, err := g.Search(ctx, func(context.Context, map[string]float64) (float64, error) { return 0, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLinspace(t *testing.T) {
	if Linspace(0, 1, 0) != nil {
		t.Error("n=0 should be empty")
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("n=1 = %v", got)
	}
	got := Linspace(0, 1, 3)
	if got[0] != 0 || got[1] != 0.5 || got[2] != 1 {
		t.Errorf("Linspace(0,1,3) = %v", got)
	}
}

func TestSpringTuning(t *testing.T) {
	goal := SpringGoal{Mass: 1, MaxOvershoot: 0.02, FPS: 60, Frames: 180}
	g := NewGridSearch([]string{"stiffness", "damping"}, [][]float64{
		Linspace(100, 400, 4),
		Linspace(10, 40, 7),
	})

	best, settle, err := g.Search(context.Background(), goal.SettleTime())
	if err != nil {
		t.Fatal(err)
	}

	cfg := goal.Config(best)
	overshoot, got := goal.Evaluate(cfg)
	if overshoot > goal.MaxOvershoot {
		t.Errorf("best config overshoots %f", overshoot)
	}
	if got != settle || settle <= 0 {
		t.Errorf("settle = %f, evaluate = %f", settle, got)
	}

	wobbly, _ := goal.Evaluate(goal.Config(map[string]float64{"stiffness": 180, "damping": 12}))
	if wobbly <= goal.MaxOvershoot {
		t.Errorf("wobbly spring should fail the overshoot cap, got %f", wobbly)
	}
}
