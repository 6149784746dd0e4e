package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{Linspace(0, 4, 5), {-1, 0, 1}})
	if g.Combinations() != 15 {
		t.Fatalf("combinations = %d", g.Combinations())
	}

	calls := 0
	eval := func(_ context.Context, p map[string]float64) (map[string]float64, error) {
		calls++
		return map[string]float64{"score": (p["a"]-3)*(p["a"]-3) + p["b"]*p["b"]}, nil
	}
	params, loss, err := g.Search(context.Background(), eval, Target("score", 0))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 15 {
		t.Errorf("evaluated %d points", calls)
	}
	if params["a"] != 3 || params["b"] != 0 || loss != 0 {
		t.Errorf("best = %v (loss %v)", params, loss)
	}
}

func TestSearchStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	calls := 0
	_, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (map[string]float64, error) {
		calls++
		return nil, boom
	}, Target("m", 0))
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, nil, Target("m", 0)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled search: %v", err)
	}
}

func TestTargetMissingMetric(t *testing.T) {
	if !math.IsInf(Target("lit", 0.5)(map[string]float64{}), 1) {
		t.Error("missing metric should score +Inf")
	}
	if got := Linspace(2, 2, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("linspace = %v", got)
	}
}
