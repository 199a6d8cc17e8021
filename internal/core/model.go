package core

import (
	"math"
)

// Point is a continuous two-dimensional position
type Point struct {
	X float64
	Y float64
}

// Record is a raw (address, content) pair produced by a corpus source
type Record struct {
	Address string
	Content string
}

// Item represents one email moving through classification and layout.
// PrelabelSpam is the keyword heuristic label; Spam is the statistical label
// and is only meaningful once Classified is set.
type Item struct {
	Address      string
	Content      string
	PrelabelSpam bool
	Spam         bool
	Classified   bool
	Pos          Point
	Target       Point
}

// Corpus is the ordered collection of items, in source order
type Corpus []*Item

// NewCorpus creates items from records, preserving order
func NewCorpus(records []Record) Corpus {
	corpus := make(Corpus, 0, len(records))
	for _, r := range records {
		corpus = append(corpus, &Item{
			Address: r.Address,
			Content: r.Content,
		})
	}
	return corpus
}

// IsSpam returns the final label once classified, the pre-pass label otherwise
func (it *Item) IsSpam() bool {
	if it.Classified {
		return it.Spam
	}
	return it.PrelabelSpam
}

// MarkClassified records the statistical label. It is a no-op on an item
// that has already been classified.
func (it *Item) MarkClassified(spam bool) {
	if it.Classified {
		return
	}
	it.Spam = spam
	it.Classified = true
}

// Place sets both the current and the target position
func (it *Item) Place(p Point) {
	it.Pos = p
	it.Target = p
}

// Step moves the current position toward the target by the damping factor.
// damping must lie in (0, 1]; the position never overshoots.
func (it *Item) Step(damping float64) {
	it.Pos.X += (it.Target.X - it.Pos.X) * damping
	it.Pos.Y += (it.Target.Y - it.Pos.Y) * damping
}

// Settled reports whether the item is within eps of its target on both axes
func (it *Item) Settled(eps float64) bool {
	return math.Abs(it.Target.X-it.Pos.X) <= eps && math.Abs(it.Target.Y-it.Pos.Y) <= eps
}

// Distance returns the euclidean distance between current and target position
func (it *Item) Distance() float64 {
	return math.Hypot(it.Target.X-it.Pos.X, it.Target.Y-it.Pos.Y)
}

// Counts returns the number of items labeled spam and not spam using IsSpam,
// plus how many are still unclassified
func (c Corpus) Counts() (spam, ham, unclassified int) {
	for _, it := range c {
		if it.IsSpam() {
			spam++
		} else {
			ham++
		}
		if !it.Classified {
			unclassified++
		}
	}
	return spam, ham, unclassified
}
