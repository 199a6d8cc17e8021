package keywords

import (
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/tokenizer"
	"go.uber.org/zap"
)

// Set is a set of lowercase keywords
type Set map[string]struct{}

// NewSet creates a set from words, lowercasing them
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts word after normalizing it; empty words are ignored
func (s Set) Add(word string) {
	if word == "" {
		return
	}
	s[tokenizer.Normalize(word)] = struct{}{}
}

// Contains reports whether token is in the set
func (s Set) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Matcher checks tokens against the spam and non-spam keyword lists
type Matcher struct {
	spam    Set
	nonSpam Set
	logger  *zap.Logger
}

// NewMatcher creates a new keyword matcher. Nil sets behave as empty sets.
func NewMatcher(spam, nonSpam Set, logger *zap.Logger) *Matcher {
	if spam == nil {
		spam = Set{}
	}
	if nonSpam == nil {
		nonSpam = Set{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("Initialized keyword matcher",
		zap.Int("spam_words", len(spam)),
		zap.Int("non_spam_words", len(nonSpam)))

	return &Matcher{
		spam:    spam,
		nonSpam: nonSpam,
		logger:  logger,
	}
}

// HasSpamWord reports whether text contains at least one spam keyword
func (m *Matcher) HasSpamWord(text string) bool {
	if len(m.spam) == 0 {
		return false
	}
	for tok := range tokenizer.Tokens(text) {
		if m.spam.Contains(tok) {
			return true
		}
	}
	return false
}

// ClassOf returns the highlight class of a token. The spam list wins when a
// word is on both lists.
func (m *Matcher) ClassOf(token string) core.TokenClass {
	switch {
	case m.spam.Contains(token):
		return core.TokenSpam
	case m.nonSpam.Contains(token):
		return core.TokenHam
	default:
		return core.TokenNeutral
	}
}

// Prelabel assigns the heuristic label to every item and returns how many
// were labeled spam
func (m *Matcher) Prelabel(corpus core.Corpus) int {
	spam := 0
	for _, it := range corpus {
		it.PrelabelSpam = m.HasSpamWord(it.Content)
		if it.PrelabelSpam {
			spam++
		}
	}

	m.logger.Debug("Pre-pass labeling complete",
		zap.Int("items", len(corpus)),
		zap.Int("spam", spam))

	return spam
}
