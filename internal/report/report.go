// Package report builds the one-shot reports emitted when playback settles.
package report

import (
	"sort"
	"time"

	"github.com/mikey/spam-sorter/internal/classifier"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/tokenizer"
)

// DefaultThreshold is the spam probability a token must exceed to count as evidence
const DefaultThreshold = 0.7

// Summary holds the aggregate counts
type Summary struct {
	Total        int
	Spam         int
	NonSpam      int
	Unclassified int
	// SpamRatio is a percentage in [0, 100]
	SpamRatio float64
}

// TokenStat is one row of the vocabulary listing
type TokenStat struct {
	Token        string
	SpamCount    int
	NonSpamCount int
	SpamProb     float64
	NonSpamProb  float64
}

// WeightedToken is a token with its spam probability
type WeightedToken struct {
	Token    string
	SpamProb float64
}

// Evidence lists the high-confidence spam tokens of a spam item
type Evidence struct {
	Address string
	Content string
	Tokens  []WeightedToken
}

// Report is the complete output of a run
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Canceled    bool
	Threshold   float64
	Summary     Summary
	Tokens      []TokenStat
	Evidence    []Evidence
}

// Options controls report construction
type Options struct {
	RunID     string
	Canceled  bool
	Threshold float64
	Now       func() time.Time
}

// Build computes all three reports from the settled corpus and the model
func Build(corpus core.Corpus, model *classifier.Model, opts Options) *Report {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	return &Report{
		RunID:       opts.RunID,
		GeneratedAt: now(),
		Canceled:    opts.Canceled,
		Threshold:   opts.Threshold,
		Summary:     Summarize(corpus),
		Tokens:      TokenTable(corpus, model),
		Evidence:    SpamEvidence(corpus, model, opts.Threshold),
	}
}

// Summarize counts items by their current label
func Summarize(corpus core.Corpus) Summary {
	spam, ham, unclassified := corpus.Counts()
	s := Summary{
		Total:        len(corpus),
		Spam:         spam,
		NonSpam:      ham,
		Unclassified: unclassified,
	}
	if s.Total > 0 {
		s.SpamRatio = float64(spam) / float64(s.Total) * 100
	}
	return s
}

// TokenTable lists every token seen in the corpus, sorted by token, with its
// occurrence counts under the current labels and its trained probabilities
func TokenTable(corpus core.Corpus, model *classifier.Model) []TokenStat {
	stats := make(map[string]*TokenStat)
	for _, it := range corpus {
		spam := it.IsSpam()
		for tok := range tokenizer.Tokens(it.Content) {
			st, ok := stats[tok]
			if !ok {
				st = &TokenStat{Token: tok}
				if model != nil {
					st.SpamProb = model.SpamProbability(tok)
					st.NonSpamProb = model.HamProbability(tok)
				}
				stats[tok] = st
			}
			if spam {
				st.SpamCount++
			} else {
				st.NonSpamCount++
			}
		}
	}

	out := make([]TokenStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

// SpamEvidence returns, for every spam item, its distinct tokens whose spam
// probability exceeds threshold, highest first
func SpamEvidence(corpus core.Corpus, model *classifier.Model, threshold float64) []Evidence {
	var out []Evidence
	if model == nil {
		return out
	}
	for _, it := range corpus {
		if !it.IsSpam() {
			continue
		}
		ev := Evidence{Address: it.Address, Content: it.Content}
		seen := make(map[string]bool)
		for tok := range tokenizer.Tokens(it.Content) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			if p := model.SpamProbability(tok); p > threshold {
				ev.Tokens = append(ev.Tokens, WeightedToken{Token: tok, SpamProb: p})
			}
		}
		sort.SliceStable(ev.Tokens, func(i, j int) bool {
			if ev.Tokens[i].SpamProb != ev.Tokens[j].SpamProb {
				return ev.Tokens[i].SpamProb > ev.Tokens[j].SpamProb
			}
			return ev.Tokens[i].Token < ev.Tokens[j].Token
		})
		out = append(out, ev)
	}
	return out
}
