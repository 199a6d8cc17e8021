package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/mikey/spam-sorter/internal/core"
	"go.uber.org/zap"
)

// TextProcessor cleans up text coming from sources before it becomes items
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateRunes cuts text to at most maxRunes characters without marking
// the cut. A non-positive limit leaves the text alone.
func (tp *TextProcessor) TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	n := 0
	for i := range text {
		if n == maxRunes {
			tp.logger.Debug("Text truncated",
				zap.Int("original_runes", utf8.RuneCountInString(text)),
				zap.Int("max_runes", maxRunes))
			return text[:i]
		}
		n++
	}
	return text
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// NormalizeRecords sanitizes both fields, flattens line breaks in the
// content, truncates the address and drops records missing either field
func (tp *TextProcessor) NormalizeRecords(records []core.Record, maxAddressLength int) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, rec := range records {
		addr := strings.TrimSpace(tp.SanitizeUTF8(rec.Address))
		content := strings.TrimSpace(strings.Join(strings.Fields(tp.SanitizeUTF8(rec.Content)), " "))
		if addr == "" || content == "" {
			tp.logger.Debug("Skipping incomplete record", zap.String("address", addr))
			continue
		}
		out = append(out, core.Record{
			Address: tp.TruncateRunes(addr, maxAddressLength),
			Content: content,
		})
	}
	return out
}
