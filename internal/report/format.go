package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteSummary writes the aggregate counts
func WriteSummary(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString("Classification Summary\n")
	b.WriteString("======================\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(&b, "Total Emails: %d\n", r.Summary.Total)
	fmt.Fprintf(&b, "Spam Emails: %d\n", r.Summary.Spam)
	fmt.Fprintf(&b, "Non-Spam Emails: %d\n", r.Summary.NonSpam)
	fmt.Fprintf(&b, "Spam Ratio: %.2f%%\n", r.Summary.SpamRatio)
	if r.Canceled {
		fmt.Fprintf(&b, "Unclassified Emails: %d (playback canceled)\n", r.Summary.Unclassified)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTokens writes the per-token listing in the order of r.Tokens
func WriteTokens(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString("Word Classification Report\n")
	b.WriteString("==========================\n\n")
	for _, st := range r.Tokens {
		fmt.Fprintf(&b, "Word: %s\n", st.Token)
		fmt.Fprintf(&b, "Spam Count: %d\n", st.SpamCount)
		fmt.Fprintf(&b, "Non-Spam Count: %d\n", st.NonSpamCount)
		fmt.Fprintf(&b, "Spam Probability: %.6f\n", st.SpamProb)
		fmt.Fprintf(&b, "Non-Spam Probability: %.6f\n\n", st.NonSpamProb)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteEvidence writes the high-confidence tokens of every spam item
func WriteEvidence(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString("Spam Evidence Report\n")
	b.WriteString("====================\n\n")
	fmt.Fprintf(&b, "Threshold: %.2f\n\n", r.Threshold)
	for _, ev := range r.Evidence {
		fmt.Fprintf(&b, "Email: %s\n", ev.Address)
		fmt.Fprintf(&b, "Content: %s\n", ev.Content)
		if len(ev.Tokens) == 0 {
			b.WriteString("Spam Words: (none above threshold)\n\n")
			continue
		}
		b.WriteString("Spam Words:\n")
		for _, tok := range ev.Tokens {
			fmt.Fprintf(&b, "  %s (%.6f)\n", tok.Token, tok.SpamProb)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes all three reports separated by blank lines
func WriteText(w io.Writer, r *Report) error {
	for _, write := range []func(io.Writer, *Report) error{WriteSummary, WriteTokens, WriteEvidence} {
		if err := write(w, r); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
