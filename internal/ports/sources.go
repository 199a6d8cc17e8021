package ports

import (
	"context"

	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/keywords"
)

// CorpusSource defines the interface for loading raw messages
type CorpusSource interface {
	// Load returns the (address, content) records in source order.
	// Records missing either field are skipped by the source.
	Load(ctx context.Context) ([]core.Record, error)
}

// KeywordSource defines the interface for loading a keyword list
type KeywordSource interface {
	// Load returns the lowercase keyword set. A missing list yields an empty set.
	Load(ctx context.Context) (keywords.Set, error)
}
