package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mikey/spam-sorter/internal/core"
)

func testGeometry() Geometry {
	return Geometry{
		ViewportWidth:  1900,
		ViewportHeight: 900,
		CellWidth:      21,
		CellHeight:     10,
		Spacing:        40,
		CharWidth:      8,
		StartX:         50,
		StartY:         50,
		Mode:           ModeSplit,
	}
}

func makeLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("user%d@example.com", i)
	}
	return out
}

func TestPackColumnWrapsAtViewportHeight(t *testing.T) {
	g := testGeometry()
	plan := PackColumn(makeLabels(40), g)
	if len(plan) != 40 {
		t.Fatalf("len(plan) = %d, want 40", len(plan))
	}
	// (900-100)/(10+40) = 16 items per column
	for i, pl := range plan {
		if want := i / 16; pl.Column != want {
			t.Errorf("item %d column = %d, want %d", i, pl.Column, want)
		}
		if pl.Pos.Y+g.CellHeight > g.ViewportHeight-g.StartY {
			t.Errorf("item %d bottom %v crosses margin", i, pl.Pos.Y+g.CellHeight)
		}
	}
	if plan[0].Pos != (core.Point{X: 50, Y: 50}) {
		t.Errorf("first position = %+v", plan[0].Pos)
	}
	if plan[15].Pos.Y != 800 {
		t.Errorf("last row y = %v, want 800", plan[15].Pos.Y)
	}
	wantX := plan[0].Pos.X + plan[15].Width + g.Spacing
	if plan[16].Pos.X != wantX {
		t.Errorf("second column x = %v, want %v", plan[16].Pos.X, wantX)
	}
}

func TestPackColumnNoVerticalOverlap(t *testing.T) {
	g := testGeometry()
	plan := PackColumn(makeLabels(100), g)
	byCol := map[int][]Placement{}
	for _, pl := range plan {
		byCol[pl.Column] = append(byCol[pl.Column], pl)
	}
	for c, pls := range byCol {
		for i := 1; i < len(pls); i++ {
			prev, cur := pls[i-1], pls[i]
			if cur.Pos.Y < prev.Pos.Y+g.CellHeight {
				t.Errorf("column %d: item %d overlaps item %d", c, cur.Index, prev.Index)
			}
			if cur.Pos.X != prev.Pos.X {
				t.Errorf("column %d: x drifted from %v to %v", c, prev.Pos.X, cur.Pos.X)
			}
		}
	}
}

func TestPackColumnWidthNeverShrinks(t *testing.T) {
	g := testGeometry()
	labels := []string{"a", "much-longer-address@example.com", "b", "mid@ex.com"}
	plan := PackColumn(labels, g)
	for i := 1; i < len(plan); i++ {
		if plan[i].Column == plan[i-1].Column && plan[i].Width < plan[i-1].Width {
			t.Errorf("width shrank at %d: %v < %v", i, plan[i].Width, plan[i-1].Width)
		}
	}
	if want := g.ItemWidth(labels[1]); plan[3].Width != want {
		t.Errorf("column width = %v, want %v", plan[3].Width, want)
	}
}

func TestPackColumnOversizedLabel(t *testing.T) {
	g := testGeometry()
	g.ViewportHeight = 60 // no room for even one row
	long := strings.Repeat("x", 500)
	plan := PackColumn([]string{long, "short"}, g)
	if len(plan) != 2 {
		t.Fatalf("len(plan) = %d, want 2", len(plan))
	}
	if plan[0].Column != 0 || plan[1].Column != 1 {
		t.Errorf("columns = %d,%d want 0,1", plan[0].Column, plan[1].Column)
	}
	if plan[1].Pos.X <= g.ViewportWidth {
		t.Errorf("second column x = %v, expected overflow past viewport", plan[1].Pos.X)
	}
}

func TestPackColumnDeterministic(t *testing.T) {
	g := testGeometry()
	labels := makeLabels(37)
	a, b := PackColumn(labels, g), PackColumn(labels, g)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPackTwoGroupsSplitNeverOverlaps(t *testing.T) {
	g := testGeometry()
	for _, n := range []int{1, 5, 16, 17, 60, 400} {
		labels := makeLabels(n)
		spam := make([]bool, n)
		for i := range spam {
			spam[i] = i%3 == 0
		}
		plan := PackTwoGroups(labels, spam, g)
		if len(plan) != n {
			t.Fatalf("n=%d: len(plan) = %d", n, len(plan))
		}
		split := g.Split()
		for i, pl := range plan {
			if pl.Index != i {
				t.Fatalf("n=%d: plan not ordered by index at %d", n, i)
			}
			if pl.Spam != spam[i] {
				t.Errorf("n=%d: item %d group = %v, want %v", n, i, pl.Spam, spam[i])
			}
			if pl.Spam && pl.Pos.X+pl.Width > split {
				t.Errorf("n=%d: spam item %d right edge %v crosses split %v", n, i, pl.Pos.X+pl.Width, split)
			}
			if !pl.Spam && pl.Pos.X < split {
				t.Errorf("n=%d: ham item %d x %v left of split %v", n, i, pl.Pos.X, split)
			}
		}
	}
}

func TestPackTwoGroupsColumnsGrowOutward(t *testing.T) {
	g := testGeometry()
	labels := makeLabels(40)
	spam := make([]bool, 40)
	for i := 0; i < 20; i++ {
		spam[i] = true
	}
	plan := PackTwoGroups(labels, spam, g)

	// 20 spam items => 2 columns, the second one further left
	if plan[0].Column != 0 || plan[16].Column != 1 {
		t.Fatalf("spam columns = %d,%d want 0,1", plan[0].Column, plan[16].Column)
	}
	if !(plan[16].Pos.X < plan[0].Pos.X) {
		t.Errorf("second spam column x %v should be left of %v", plan[16].Pos.X, plan[0].Pos.X)
	}
	if !(plan[36].Pos.X > plan[20].Pos.X) {
		t.Errorf("second ham column x %v should be right of %v", plan[36].Pos.X, plan[20].Pos.X)
	}
	// groups restart at the top
	if plan[0].Pos.Y != g.StartY || plan[20].Pos.Y != g.StartY {
		t.Errorf("groups should start at StartY, got %v and %v", plan[0].Pos.Y, plan[20].Pos.Y)
	}
}

func TestPackTwoGroupsEdges(t *testing.T) {
	g := testGeometry()
	g.Mode = ModeEdges
	labels := []string{"a@x.com", "b@x.com", "c@x.com"}
	plan := PackTwoGroups(labels, []bool{true, false, true}, g)

	if plan[0].Pos != (core.Point{X: 50, Y: 50}) {
		t.Errorf("first spam = %+v", plan[0].Pos)
	}
	if plan[2].Pos != (core.Point{X: 50, Y: 100}) {
		t.Errorf("second spam = %+v", plan[2].Pos)
	}
	wantX := g.ViewportWidth - g.StartX - g.ItemWidth("b@x.com")
	if plan[1].Pos != (core.Point{X: wantX, Y: 50}) {
		t.Errorf("ham = %+v, want x %v", plan[1].Pos, wantX)
	}
}

func TestPlanApplyAndPositions(t *testing.T) {
	corpus := core.NewCorpus([]core.Record{
		{Address: "a@x.com", Content: "x"},
		{Address: "b@x.com", Content: "y"},
	})
	plan := PackColumn(Labels(corpus), testGeometry())
	plan.Apply(corpus)
	pos := plan.Positions()
	for _, it := range corpus {
		if it.Target != pos[it.Address] {
			t.Errorf("%s target %+v, want %+v", it.Address, it.Target, pos[it.Address])
		}
	}
}
