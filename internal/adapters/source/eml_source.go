package source

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/utils"
	"go.uber.org/zap"
)

// EMLDirSource reads every *.eml file of a directory in name order
type EMLDirSource struct {
	dir        string
	maxAddress int
	processor  *utils.TextProcessor
	logger     *zap.Logger
}

// NewEMLDirSource creates a mail directory source
func NewEMLDirSource(dir string, maxAddress int, processor *utils.TextProcessor, logger *zap.Logger) *EMLDirSource {
	return &EMLDirSource{
		dir:        dir,
		maxAddress: maxAddress,
		processor:  processor,
		logger:     logger,
	}
}

// Load parses the messages. Unparseable files are logged and skipped.
func (s *EMLDirSource) Load(ctx context.Context) ([]core.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mail directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]core.Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.readMessage(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("Skipping unreadable message", zap.String("file", name), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return finish(records, s.maxAddress, s.processor, s.logger, s.dir)
}

func (s *EMLDirSource) readMessage(path string) (core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Record{}, err
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return core.Record{}, fmt.Errorf("failed to parse email message: %w", err)
	}
	address, content, err := recordFromMessage(msg, "")
	if err != nil {
		return core.Record{}, err
	}
	return core.Record{Address: address, Content: content}, nil
}
