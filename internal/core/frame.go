package core

// TokenClass tells the renderer how to color the highlighted token
type TokenClass int

const (
	TokenNeutral TokenClass = iota
	TokenSpam
	TokenHam
)

// String returns the lowercase name of the class
func (c TokenClass) String() string {
	switch c {
	case TokenSpam:
		return "spam"
	case TokenHam:
		return "ham"
	default:
		return "neutral"
	}
}

// ItemView is the read-only snapshot of an item handed to a renderer
type ItemView struct {
	Address    string
	Pos        Point
	Spam       bool
	Classified bool
}

// Highlight describes the item and token under inspection during replay
type Highlight struct {
	Index      int
	Token      string
	TokenIndex int
	Class      TokenClass
	Known      bool
	SpamProb   float64
	HamProb    float64
}

// Frame is one consistent snapshot of the playback state
type Frame struct {
	State     string
	Items     []ItemView
	Highlight *Highlight
}

// Snapshot copies the corpus into item views
func (c Corpus) Snapshot() []ItemView {
	views := make([]ItemView, len(c))
	for i, it := range c {
		views[i] = ItemView{
			Address:    it.Address,
			Pos:        it.Pos,
			Spam:       it.IsSpam(),
			Classified: it.Classified,
		}
	}
	return views
}
