// Package source loads corpora and keyword lists from files, mail
// directories and an SMTP intake listener.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/utils"
	"go.uber.org/zap"
)

// ErrNoRecords is returned when a source yields no usable record
var ErrNoRecords = errors.New("no emails loaded")

const maxLineSize = 1024 * 1024

// FileSource reads one "address,content" record per line. The first comma
// separates the fields; content may contain further commas.
type FileSource struct {
	path       string
	maxAddress int
	processor  *utils.TextProcessor
	logger     *zap.Logger
}

// NewFileSource creates a line-oriented corpus source
func NewFileSource(path string, maxAddress int, processor *utils.TextProcessor, logger *zap.Logger) *FileSource {
	return &FileSource{
		path:       path,
		maxAddress: maxAddress,
		processor:  processor,
		logger:     logger,
	}
}

// Load reads the whole file
func (s *FileSource) Load(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	var records []core.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if line%1000 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		address, content, ok := strings.Cut(scanner.Text(), ",")
		if !ok {
			s.logger.Debug("Skipping line without separator", zap.Int("line", line))
			continue
		}
		records = append(records, core.Record{Address: address, Content: content})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", s.path, err)
	}

	return finish(records, s.maxAddress, s.processor, s.logger, s.path)
}

// finish normalizes records and enforces that at least one survives
func finish(records []core.Record, maxAddress int, processor *utils.TextProcessor, logger *zap.Logger, origin string) ([]core.Record, error) {
	read := len(records)
	records = processor.NormalizeRecords(records, maxAddress)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", origin, ErrNoRecords)
	}
	logger.Info("Loaded corpus",
		zap.String("origin", origin),
		zap.Int("records", len(records)),
		zap.Int("skipped", read-len(records)))
	return records, nil
}
