package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedEntry inserts a dictionary entry and returns its id.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, headword, reading string, tier int, rank *int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO dictionary_entries (id, headword, reading_hiragana, priority_tier, frequency_rank)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, headword, reading, tier, rank,
	)
	if err != nil {
		t.Fatalf("testhelper: seed entry %q: %v", headword, err)
	}

	return id
}

// SeedSense inserts a word sense for an entry and returns its id.
func SeedSense(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, order int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO word_senses (id, entry_id, sense_order, gloss)
		 VALUES ($1, $2, $3, '')`,
		id, entryID, order,
	)
	if err != nil {
		t.Fatalf("testhelper: seed sense for entry %s: %v", entryID, err)
	}

	return id
}
