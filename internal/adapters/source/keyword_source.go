package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mikey/spam-sorter/internal/keywords"
	"go.uber.org/zap"
)

// KeywordFile reads one keyword per line
type KeywordFile struct {
	path   string
	logger *zap.Logger
}

// NewKeywordFile creates a keyword list source
func NewKeywordFile(path string, logger *zap.Logger) *KeywordFile {
	return &KeywordFile{path: path, logger: logger}
}

// Load returns the lowercase keyword set. A missing file is not an error.
func (k *KeywordFile) Load(_ context.Context) (keywords.Set, error) {
	set := keywords.NewSet()
	if k.path == "" {
		return set, nil
	}

	f, err := os.Open(k.path)
	if errors.Is(err, fs.ErrNotExist) {
		k.logger.Warn("Keyword list not found, using an empty list", zap.String("path", k.path))
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		set.Add(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keyword list %s: %w", k.path, err)
	}

	k.logger.Debug("Loaded keyword list", zap.String("path", k.path), zap.Int("words", len(set)))
	return set, nil
}
