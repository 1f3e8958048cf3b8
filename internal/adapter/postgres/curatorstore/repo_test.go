package curatorstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nichidict/curator/internal/adapter/postgres/testhelper"
	"github.com/nichidict/curator/internal/domain"
)

// truncate resets all curation tables; the container is shared across tests.
func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE dictionary_entries, word_senses, example_sentences, entry_example_coverage CASCADE`)
	require.NoError(t, err, "truncate tables")
}

func intPtr(v int) *int { return &v }

func TestRepo_ListEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	truncate(t, pool)
	ctx := context.Background()

	// Priority order: tier asc, rank asc with unranked (NULL or 0) last,
	// shorter headwords first.
	ranked := testhelper.SeedEntry(t, pool, "学校", "がっこう", 1, intPtr(100))
	unrankedNil := testhelper.SeedEntry(t, pool, "犬", "いぬ", 1, nil)
	unrankedZero := testhelper.SeedEntry(t, pool, "図書館", "としょかん", 1, intPtr(0))
	lowerTier := testhelper.SeedEntry(t, pool, "山", "やま", 2, intPtr(1))

	// Two senses: listing must resolve the one with the lowest sense_order.
	testhelper.SeedSense(t, pool, ranked, 2)
	firstSense := testhelper.SeedSense(t, pool, ranked, 1)

	repo := New(pool)

	entries, err := repo.ListEntries(ctx, domain.EntryCursor{}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	wantOrder := []uuid.UUID{ranked, unrankedNil, unrankedZero, lowerTier}
	for i, want := range wantOrder {
		require.Equal(t, want, entries[i].ID, "entry %d out of order", i)
	}

	require.Equal(t, firstSense, entries[0].SenseID, "lowest sense_order wins")
	require.True(t, entries[0].HasSense())
	require.False(t, entries[1].HasSense(), "entry without senses has no sense id")

	require.NotNil(t, entries[0].FrequencyRank)
	require.Equal(t, 100, *entries[0].FrequencyRank)
	require.Nil(t, entries[1].FrequencyRank, "NULL rank stays nil")

	require.Equal(t, "学校", entries[0].Headword)
	require.Equal(t, "がっこう", entries[0].Reading)
	require.Equal(t, 1, entries[0].PriorityTier)
}

func TestRepo_ListEntries_CursorAndLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	truncate(t, pool)
	ctx := context.Background()

	var want []uuid.UUID
	for i, headword := range []string{"一", "二", "三", "四"} {
		want = append(want, testhelper.SeedEntry(t, pool, headword, "よみ", 1, intPtr(i+1)))
	}

	repo := New(pool)

	page, err := repo.ListEntries(ctx, domain.EntryCursor{Offset: 1}, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, want[1], page[0].ID)
	require.Equal(t, want[2], page[1].ID)

	// Past the end: empty page, no error.
	empty, err := repo.ListEntries(ctx, domain.EntryCursor{Offset: 10}, 2)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRepo_BulkInsertExamples_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	truncate(t, pool)
	ctx := context.Background()

	entryID := testhelper.SeedEntry(t, pool, "猫", "ねこ", 1, nil)
	senseID := testhelper.SeedSense(t, pool, entryID, 1)

	repo := New(pool)

	examples := []domain.Example{
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫が好きです。", Translation: "I like cats.", Position: 1},
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫はかわいい。", Translation: "Cats are cute.", Position: 2},
	}

	inserted, err := repo.BulkInsertExamples(ctx, examples)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	// Rerun with fresh ids but the same sentences: nothing inserted.
	rerun := []domain.Example{
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫が好きです。", Translation: "I like cats.", Position: 1},
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫はかわいい。", Translation: "Cats are cute.", Position: 2},
	}
	inserted, err = repo.BulkInsertExamples(ctx, rerun)
	require.NoError(t, err)
	require.Equal(t, 0, inserted)

	// A mixed batch only counts the new row.
	mixed := []domain.Example{
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫が好きです。", Translation: "I like cats.", Position: 1},
		{ID: uuid.New(), SenseID: senseID, Sentence: "猫を飼っている。", Translation: "I keep a cat.", Position: 3},
	}
	inserted, err = repo.BulkInsertExamples(ctx, mixed)
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	var count int
	err = pool.QueryRow(ctx, `SELECT count(*) FROM example_sentences WHERE sense_id = $1`, senseID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestRepo_BulkInsertExamples_UnknownSense(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	truncate(t, pool)

	repo := New(pool)

	_, err := repo.BulkInsertExamples(context.Background(), []domain.Example{
		{ID: uuid.New(), SenseID: uuid.New(), Sentence: "猫が好きです。", Translation: "I like cats.", Position: 1},
	})
	require.ErrorIs(t, err, domain.ErrNotFound, "foreign key violation maps to not-found")
}

func TestRepo_BulkInsertExamples_EmptyBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	repo := New(pool)

	inserted, err := repo.BulkInsertExamples(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, inserted)
}

func TestRepo_UpsertCoverage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testhelper.SetupTestDB(t)
	truncate(t, pool)
	ctx := context.Background()

	entryID := testhelper.SeedEntry(t, pool, "猫", "ねこ", 1, nil)
	repo := New(pool)

	first := time.Now().UTC().Add(-time.Hour)
	err := repo.UpsertCoverage(ctx, []domain.EntryCoverage{
		{EntryID: entryID, Status: domain.CoverageNoData, CheckedAt: first},
	})
	require.NoError(t, err)

	// A later run overwrites the earlier status.
	second := time.Now().UTC()
	err = repo.UpsertCoverage(ctx, []domain.EntryCoverage{
		{EntryID: entryID, Status: domain.CoverageFetched, CheckedAt: second},
	})
	require.NoError(t, err)

	var (
		status    string
		checkedAt time.Time
	)
	err = pool.QueryRow(ctx,
		`SELECT status, checked_at FROM entry_example_coverage WHERE entry_id = $1`, entryID,
	).Scan(&status, &checkedAt)
	require.NoError(t, err)
	require.Equal(t, string(domain.CoverageFetched), status)
	require.WithinDuration(t, second, checkedAt, time.Second)

	var count int
	err = pool.QueryRow(ctx, `SELECT count(*) FROM entry_example_coverage`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "upsert must not create a second row")
}
