// Package curatorstore implements the curator.Store contract on PostgreSQL.
// Entry listing uses squirrel for the dynamic cursor/limit query; writes use
// pgx.Batch with ON CONFLICT DO NOTHING so reruns are idempotent.
package curatorstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nichidict/curator/internal/adapter/postgres"
	"github.com/nichidict/curator/internal/domain"
)

// qb is the statement builder with PostgreSQL placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides curation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new curation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListEntries returns dictionary entries in curation priority order: tier
// ascending, frequency rank ascending with unranked entries last, shorter
// headwords first, entry id as the final stable key. Each entry carries its
// first sense id (by sense_order) when one exists.
func (r *Repo) ListEntries(ctx context.Context, cur domain.EntryCursor, limit int) ([]domain.Entry, error) {
	q := qb.Select(
		"e.id",
		"e.headword",
		"e.reading_hiragana",
		"e.priority_tier",
		"e.frequency_rank",
		"s.id AS sense_id",
	).
		From("dictionary_entries AS e").
		JoinClause(`LEFT JOIN LATERAL (
			SELECT id FROM word_senses
			WHERE entry_id = e.id
			ORDER BY sense_order, id
			LIMIT 1
		) AS s ON TRUE`).
		OrderBy(
			"e.priority_tier",
			"COALESCE(NULLIF(e.frequency_rank, 0), 999999)",
			"char_length(e.headword)",
			"e.id",
		)

	if cur.Offset > 0 {
		q = q.Offset(uint64(cur.Offset))
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "list entries")
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, postgres.MapError(err, "list entries")
	}

	return entries, nil
}

// BulkInsertExamples inserts example rows using pgx.Batch. Rows whose
// (sense_id, sentence) pair already exists are skipped via
// ON CONFLICT DO NOTHING. Returns the number of actually inserted rows.
func (r *Repo) BulkInsertExamples(ctx context.Context, examples []domain.Example) (int, error) {
	if len(examples) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, ex := range examples {
		batch.Queue(
			`INSERT INTO example_sentences (id, sense_id, sentence, translation, position)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (sense_id, sentence) DO NOTHING`,
			ex.ID, ex.SenseID, ex.Sentence, ex.Translation, ex.Position,
		)
	}

	return r.sendBatchExec(ctx, batch, "insert examples")
}

// UpsertCoverage records per-entry corpus coverage, overwriting any earlier
// status for the same entry.
func (r *Repo) UpsertCoverage(ctx context.Context, coverage []domain.EntryCoverage) error {
	if len(coverage) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range coverage {
		batch.Queue(
			`INSERT INTO entry_example_coverage (entry_id, status, checked_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (entry_id) DO UPDATE
			 SET status = EXCLUDED.status, checked_at = EXCLUDED.checked_at`,
			c.EntryID, string(c.Status), c.CheckedAt,
		)
	}

	_, err := r.sendBatchExec(ctx, batch, "upsert coverage")
	return err
}

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch, op string) (int, error) {
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, postgres.MapError(err, op)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}

// scanEntries scans listing rows into domain entries.
func scanEntries(rows pgx.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var (
			entry         domain.Entry
			frequencyRank pgtype.Int4
			senseID       pgtype.UUID
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.Headword,
			&entry.Reading,
			&entry.PriorityTier,
			&frequencyRank,
			&senseID,
		); err != nil {
			return nil, err
		}

		if frequencyRank.Valid {
			rank := int(frequencyRank.Int32)
			entry.FrequencyRank = &rank
		}
		if senseID.Valid {
			entry.SenseID = uuid.UUID(senseID.Bytes)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
