// Package tokenizer splits message content into lowercase whitespace
// delimited tokens. Punctuation is kept and nothing is stemmed.
package tokenizer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokens returns a lazy sequence of the lowercase tokens in text.
// The sequence can be ranged over any number of times.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lower := cases.Lower(language.Und)
		start := -1
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				if start >= 0 {
					if !yield(lower.String(text[start:i])) {
						return
					}
					start = -1
				}
			} else if start < 0 {
				start = i
			}
			i += size
		}
		if start >= 0 {
			yield(lower.String(text[start:]))
		}
	}
}

// Split collects all tokens of text into a slice
func Split(text string) []string {
	var out []string
	for tok := range Tokens(text) {
		out = append(out, tok)
	}
	return out
}

// Normalize lowercases a single word the same way Tokens does
func Normalize(word string) string {
	return cases.Lower(language.Und).String(word)
}
