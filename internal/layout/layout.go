// Package layout computes column-packed target positions for items whose
// width depends on their label. Every function here is pure.
package layout

import (
	"sort"
	"unicode/utf8"

	"github.com/mikey/spam-sorter/internal/core"
)

// Mode selects how the two groups are arranged after classification
type Mode string

const (
	// ModeSplit grows spam columns leftward and non-spam columns rightward
	// from a split line, so the groups never overlap
	ModeSplit Mode = "split"
	// ModeEdges stacks spam from the left edge and non-spam from the right edge
	ModeEdges Mode = "edges"
)

// Geometry holds the display tuning values used for packing
type Geometry struct {
	ViewportWidth  float64
	ViewportHeight float64
	CellWidth      float64
	CellHeight     float64
	Spacing        float64
	CharWidth      float64
	StartX         float64
	StartY         float64
	SplitX         float64
	Mode           Mode
}

// ItemWidth returns the horizontal space an item with label needs
func (g Geometry) ItemWidth(label string) float64 {
	return g.CellWidth + float64(utf8.RuneCountInString(label))*g.CharWidth
}

// Split returns the split line, defaulting to the middle of the viewport
func (g Geometry) Split() float64 {
	if g.SplitX > 0 {
		return g.SplitX
	}
	return g.ViewportWidth / 2
}

// fits reports whether an item starting at y stays within the bottom margin
func (g Geometry) fits(y float64) bool {
	return y+g.CellHeight <= g.ViewportHeight-g.StartY
}

func (g Geometry) rowStep() float64 {
	return g.CellHeight + g.Spacing
}

// Placement is the target assigned to one item
type Placement struct {
	Index  int
	ID     string
	Spam   bool
	Column int
	// Width is the running column width at the time the item was placed
	Width float64
	Pos   core.Point
}

// Plan is a list of placements ordered by item index
type Plan []Placement

// Positions maps item identity to target position. Later duplicates win.
func (p Plan) Positions() map[string]core.Point {
	out := make(map[string]core.Point, len(p))
	for _, pl := range p {
		out[pl.ID] = pl.Pos
	}
	return out
}

// Apply writes each placement's position into the corpus targets
func (p Plan) Apply(corpus core.Corpus) {
	for _, pl := range p {
		if pl.Index >= 0 && pl.Index < len(corpus) {
			corpus[pl.Index].Target = pl.Pos
		}
	}
}

// PackColumn places labels top to bottom in columns starting at
// (StartX, StartY). A new column starts when the next item would cross the
// bottom margin; it is offset by the widest item seen in the previous column
// plus spacing. Items wider than the viewport are still placed.
func PackColumn(labels []string, g Geometry) Plan {
	plan := make(Plan, 0, len(labels))

	x, y := g.StartX, g.StartY
	width := g.CellWidth
	col, count := 0, 0
	for i, label := range labels {
		if count > 0 && !g.fits(y) {
			x += width + g.Spacing
			y = g.StartY
			width = g.CellWidth
			col++
			count = 0
		}
		width = max(width, g.ItemWidth(label))
		plan = append(plan, Placement{
			Index:  i,
			ID:     label,
			Column: col,
			Width:  width,
			Pos:    core.Point{X: x, Y: y},
		})
		count++
		y += g.rowStep()
	}
	return plan
}

type column struct {
	width   float64
	members []int
}

// columns splits the given item indices into height-bounded columns
func columns(indices []int, labels []string, g Geometry) []column {
	var cols []column
	var cur column
	y := g.StartY
	for _, idx := range indices {
		if len(cur.members) > 0 && !g.fits(y) {
			cols = append(cols, cur)
			cur = column{}
			y = g.StartY
		}
		if len(cur.members) == 0 {
			cur.width = g.CellWidth
		}
		cur.width = max(cur.width, g.ItemWidth(labels[idx]))
		cur.members = append(cur.members, idx)
		y += g.rowStep()
	}
	if len(cur.members) > 0 {
		cols = append(cols, cur)
	}
	return cols
}

// growRight places columns left to right, the first one starting at x
func growRight(cols []column, x float64, spam bool, labels []string, g Geometry, plan Plan) Plan {
	for c, col := range cols {
		plan = placeColumn(col, c, x, spam, labels, g, plan)
		x += col.width + g.Spacing
	}
	return plan
}

// growLeft places columns right to left, the first one ending at right
func growLeft(cols []column, right float64, spam bool, labels []string, g Geometry, plan Plan) Plan {
	for c, col := range cols {
		x := right - col.width
		plan = placeColumn(col, c, x, spam, labels, g, plan)
		right = x - g.Spacing
	}
	return plan
}

func placeColumn(col column, c int, x float64, spam bool, labels []string, g Geometry, plan Plan) Plan {
	y := g.StartY
	for _, idx := range col.members {
		plan = append(plan, Placement{
			Index:  idx,
			ID:     labels[idx],
			Spam:   spam,
			Column: c,
			Width:  col.width,
			Pos:    core.Point{X: x, Y: y},
		})
		y += g.rowStep()
	}
	return plan
}

// PackTwoGroups packs spam and non-spam items separately, keeping the relative
// order of each group. spam[i] is the label of labels[i].
func PackTwoGroups(labels []string, spam []bool, g Geometry) Plan {
	var spamIdx, hamIdx []int
	for i := range labels {
		if i < len(spam) && spam[i] {
			spamIdx = append(spamIdx, i)
		} else {
			hamIdx = append(hamIdx, i)
		}
	}
	spamCols := columns(spamIdx, labels, g)
	hamCols := columns(hamIdx, labels, g)

	plan := make(Plan, 0, len(labels))
	switch g.Mode {
	case ModeEdges:
		plan = growRight(spamCols, g.StartX, true, labels, g, plan)
		plan = growLeft(hamCols, g.ViewportWidth-g.StartX, false, labels, g, plan)
	default:
		split := g.Split()
		plan = growLeft(spamCols, split-g.Spacing/2, true, labels, g, plan)
		plan = growRight(hamCols, split+g.Spacing/2, false, labels, g, plan)
	}

	sort.Slice(plan, func(i, j int) bool { return plan[i].Index < plan[j].Index })
	return plan
}

// Labels returns the addresses of the corpus in order
func Labels(corpus core.Corpus) []string {
	out := make([]string, len(corpus))
	for i, it := range corpus {
		out[i] = it.Address
	}
	return out
}

// SpamLabels returns the current label of every item in order
func SpamLabels(corpus core.Corpus) []bool {
	out := make([]bool, len(corpus))
	for i, it := range corpus {
		out[i] = it.IsSpam()
	}
	return out
}
