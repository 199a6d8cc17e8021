// Package classifier implements a multinomial Naive Bayes spam model with
// add-one smoothing, trained once over a labeled corpus.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/tokenizer"
)

var (
	// ErrEmptyCorpus is returned when training is attempted without documents
	ErrEmptyCorpus = errors.New("training corpus is empty")
	// ErrCorpusTooSmall is returned for a single document, whose prior would be 100%/0%
	ErrCorpusTooSmall = errors.New("training corpus needs at least two documents")
)

// Document is one labeled training text
type Document struct {
	Text string
	Spam bool
}

// Scores holds the accumulated log scores of both hypotheses
type Scores struct {
	Spam float64
	Ham  float64
}

// IsSpam applies the decision rule; ties resolve to not spam
func (s Scores) IsSpam() bool {
	return s.Spam > s.Ham
}

// Priors holds the class priors of a model
type Priors struct {
	Spam float64
	Ham  float64
}

type tokenStats struct {
	spamCount int
	hamCount  int
	spamProb  float64
	hamProb   float64
}

// Model is a trained classifier. It is immutable and safe for concurrent use.
type Model struct {
	tokens   map[string]tokenStats
	priors   Priors
	spamDocs int
	hamDocs  int
}

// Validate checks the training precondition without computing anything
func Validate(n int) error {
	switch {
	case n == 0:
		return ErrEmptyCorpus
	case n == 1:
		return fmt.Errorf("%w: got 1", ErrCorpusTooSmall)
	}
	return nil
}

// Train builds a model from labeled documents
func Train(docs []Document) (*Model, error) {
	if err := Validate(len(docs)); err != nil {
		return nil, err
	}

	m := &Model{tokens: make(map[string]tokenStats)}
	for _, doc := range docs {
		if doc.Spam {
			m.spamDocs++
		} else {
			m.hamDocs++
		}
		for tok := range tokenizer.Tokens(doc.Text) {
			st := m.tokens[tok]
			if doc.Spam {
				st.spamCount++
			} else {
				st.hamCount++
			}
			m.tokens[tok] = st
		}
	}

	total := len(docs)
	m.priors.Spam = float64(m.spamDocs) / float64(total)
	m.priors.Ham = 1.0 - m.priors.Spam

	vocab := float64(len(m.tokens))
	for tok, st := range m.tokens {
		st.spamProb = (float64(st.spamCount) + 1.0) / (float64(m.spamDocs) + vocab)
		st.hamProb = (float64(st.hamCount) + 1.0) / (float64(m.hamDocs) + vocab)
		m.tokens[tok] = st
	}

	return m, nil
}

// TrainCorpus trains on the pre-pass labels of a corpus
func TrainCorpus(corpus core.Corpus) (*Model, error) {
	docs := make([]Document, len(corpus))
	for i, it := range corpus {
		docs[i] = Document{Text: it.Content, Spam: it.PrelabelSpam}
	}
	return Train(docs)
}

// Scores accumulates the log prior and the log probabilities of every
// known token in text. Unknown tokens contribute nothing.
func (m *Model) Scores(text string) Scores {
	s := Scores{
		Spam: math.Log(m.priors.Spam),
		Ham:  math.Log(m.priors.Ham),
	}
	for tok := range tokenizer.Tokens(text) {
		st, ok := m.tokens[tok]
		if !ok {
			continue
		}
		s.Spam += math.Log(st.spamProb)
		s.Ham += math.Log(st.hamProb)
	}
	return s
}

// Classify reports whether text is spam
func (m *Model) Classify(text string) bool {
	return m.Scores(text).IsSpam()
}

// Contains reports whether token is part of the training vocabulary
func (m *Model) Contains(token string) bool {
	_, ok := m.tokens[token]
	return ok
}

// SpamProbability returns P(token|spam), or 0 for unknown tokens
func (m *Model) SpamProbability(token string) float64 {
	return m.tokens[token].spamProb
}

// HamProbability returns P(token|not spam), or 0 for unknown tokens
func (m *Model) HamProbability(token string) float64 {
	return m.tokens[token].hamProb
}

// Counts returns how often token occurred in spam and non-spam training documents
func (m *Model) Counts(token string) (spam, ham int) {
	st := m.tokens[token]
	return st.spamCount, st.hamCount
}

// Tokens returns the vocabulary sorted lexically
func (m *Model) Tokens() []string {
	out := make([]string, 0, len(m.tokens))
	for tok := range m.tokens {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// VocabularySize returns the number of distinct training tokens
func (m *Model) VocabularySize() int {
	return len(m.tokens)
}

// Priors returns the class priors
func (m *Model) Priors() Priors {
	return m.priors
}

// Documents returns the number of spam and non-spam training documents
func (m *Model) Documents() (spam, ham int) {
	return m.spamDocs, m.hamDocs
}

// Degenerate reports whether every training document carried the same label
func (m *Model) Degenerate() bool {
	return m.spamDocs == 0 || m.hamDocs == 0
}
