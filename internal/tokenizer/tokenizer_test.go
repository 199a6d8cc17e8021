package tokenizer

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"only spaces", "  \t\n ", nil},
		{"simple", "free offer now", []string{"free", "offer", "now"}},
		{"mixed case", "Get YOUR Free gift", []string{"get", "your", "free", "gift"}},
		{"punctuation kept", "now! don't, stop.", []string{"now!", "don't,", "stop."}},
		{"runs of whitespace", "  a\t\tb \n c  ", []string{"a", "b", "c"}},
		{"unicode", "ÜBER Straße", []string{"über", "straße"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("One two THREE")
	var first, second []string
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass = %q, want %q", second, first)
	}
}

func TestTokensEarlyStop(t *testing.T) {
	var got []string
	for tok := range Tokens("a b c d") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("FREE"); got != "free" {
		t.Errorf("Normalize = %q, want free", got)
	}
}
