package curator

import (
	"context"

	"github.com/nichidict/curator/internal/domain"
)

// Store defines the persistence contract consumed by the pipeline.
// All methods use only domain types — no adapter imports.
// Implemented by curatorstore.Repo.
type Store interface {
	// ListEntries returns entries in curation priority order (tier, then
	// frequency rank, then headword length), each with its first sense id
	// resolved. The cursor offset skips entries already processed; limit
	// bounds the page size.
	ListEntries(ctx context.Context, cur domain.EntryCursor, limit int) ([]domain.Entry, error)

	// BulkInsertExamples inserts example rows. Rows that already exist for
	// their (sense, sentence) pair are skipped, making reruns idempotent.
	// Returns the number of actually inserted rows.
	BulkInsertExamples(ctx context.Context, examples []domain.Example) (int, error)

	// UpsertCoverage records per-entry corpus coverage, overwriting any
	// earlier status for the same entry.
	UpsertCoverage(ctx context.Context, coverage []domain.EntryCoverage) error
}
