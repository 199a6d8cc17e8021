package core

import (
	"math"
	"testing"
)

func TestStepConverges(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		damping  float64
	}{
		{"far", Point{X: 50, Y: 50}, Point{X: 1700, Y: 800}, 0.1},
		{"negative", Point{X: 900, Y: 400}, Point{X: -300, Y: 50}, 0.1},
		{"already there", Point{X: 10, Y: 10}, Point{X: 10, Y: 10}, 0.1},
		{"fast", Point{X: 0, Y: 0}, Point{X: 1e6, Y: -1e6}, 0.5},
	}
	const eps = 0.1
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Item{Pos: tt.from, Target: tt.to}
			d0 := it.Distance()
			bound := 1
			if d0 > eps {
				bound = int(math.Ceil(math.Log(eps/d0)/math.Log(1-tt.damping))) + 1
			}

			prev := d0
			steps := 0
			for !it.Settled(eps) {
				it.Step(tt.damping)
				steps++
				d := it.Distance()
				if d > prev || (prev > 0 && d == prev) {
					t.Fatalf("step %d: distance %v did not decrease from %v", steps, d, prev)
				}
				prev = d
				if steps > bound {
					t.Fatalf("not settled after %d steps (bound %d)", steps, bound)
				}
			}
		})
	}
}

func TestStepNeverOvershoots(t *testing.T) {
	it := &Item{Pos: Point{X: 0, Y: 100}, Target: Point{X: 100, Y: 0}}
	for i := 0; i < 200; i++ {
		it.Step(0.1)
		if it.Pos.X > 100 || it.Pos.Y < 0 {
			t.Fatalf("overshot at step %d: %+v", i, it.Pos)
		}
	}
}

func TestMarkClassifiedMonotonic(t *testing.T) {
	it := &Item{PrelabelSpam: true}
	if !it.IsSpam() {
		t.Error("unclassified item should report its pre-pass label")
	}
	it.MarkClassified(false)
	if it.IsSpam() || !it.Classified {
		t.Errorf("after classify: spam=%v classified=%v", it.IsSpam(), it.Classified)
	}
	it.MarkClassified(true)
	if it.Spam {
		t.Error("a classified item must keep its final label")
	}
	if !it.PrelabelSpam {
		t.Error("pre-pass label must stay distinguishable from the final label")
	}
}

func TestCorpusCountsAndSnapshot(t *testing.T) {
	c := NewCorpus([]Record{
		{Address: "a", Content: "1"},
		{Address: "b", Content: "2"},
		{Address: "c", Content: "3"},
	})
	c[0].MarkClassified(true)
	c[1].PrelabelSpam = true
	spam, ham, unclassified := c.Counts()
	if spam != 2 || ham != 1 || unclassified != 2 {
		t.Errorf("Counts = %d,%d,%d", spam, ham, unclassified)
	}

	c[2].Place(Point{X: 3, Y: 4})
	views := c.Snapshot()
	c[2].Pos.X = 99
	if views[2].Pos != (Point{X: 3, Y: 4}) {
		t.Errorf("snapshot aliased item state: %+v", views[2].Pos)
	}
	if !views[0].Spam || !views[0].Classified || views[2].Address != "c" {
		t.Errorf("views = %+v", views)
	}
}
