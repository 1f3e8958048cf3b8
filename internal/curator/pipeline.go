package curator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nichidict/curator/internal/corpus"
	"github.com/nichidict/curator/internal/domain"
)

// Result holds the outcome of a curation run.
type Result struct {
	EntriesProcessed    int
	EntriesWithExamples int
	ExamplesSelected    int
	ExamplesInserted    int
	SensesMissing       int
	WriteFailures       int
	// NextCursor resumes a follow-up run after the last processed entry.
	NextCursor domain.EntryCursor
	Duration   time.Duration
}

// Coverage returns the share of processed entries that received examples.
func (r Result) Coverage() float64 {
	if r.EntriesProcessed == 0 {
		return 0
	}
	return float64(r.EntriesWithExamples) / float64(r.EntriesProcessed)
}

// Pipeline drives example curation: it lists dictionary entries in priority
// order, matches corpus candidates per entry, selects a diverse subset, and
// writes the selection per sense.
//
// Matching and selection for one entry never touch state shared with other
// entries, so entries are processed by a fixed worker pool. Writes are
// serialized: each page is written sequentially, in entry order, after its
// workers finish — per-entry output stays deterministic regardless of
// completion order.
type Pipeline struct {
	log     *slog.Logger
	store   Store
	matcher *Matcher
	sel     Selector
	cfg     Config
}

// NewPipeline creates a Pipeline over a loaded corpus index.
func NewPipeline(log *slog.Logger, store Store, idx *corpus.Index, cfg Config) (*Pipeline, error) {
	policy, err := ParseLinkPolicy(cfg.LinkPolicy)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		log:     log,
		store:   store,
		matcher: NewMatcher(idx, policy),
		sel:     Selector{K: cfg.MaxPerSense},
		cfg:     cfg,
	}, nil
}

// outcome is one entry's curation result, kept in page order so writes stay
// deterministic.
type outcome struct {
	entry    domain.Entry
	examples []domain.Example
}

// Run processes entries starting from the cursor until the entry list is
// exhausted or the configured max-entries cap is reached. A write failure
// for one sense is counted and logged; it never stops the run. Run returns
// an error only for list failures or context cancellation.
func (p *Pipeline) Run(ctx context.Context, cur domain.EntryCursor) (Result, error) {
	start := time.Now()
	result := Result{NextCursor: cur}

	for {
		limit := p.cfg.ListBatchSize
		if p.cfg.MaxEntries > 0 {
			remaining := p.cfg.MaxEntries - result.EntriesProcessed
			if remaining <= 0 {
				break
			}
			limit = min(limit, remaining)
		}

		entries, err := p.store.ListEntries(ctx, result.NextCursor, limit)
		if err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("list entries: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		outcomes, err := p.curatePage(ctx, entries)
		if err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		p.writePage(ctx, outcomes, &result)

		result.EntriesProcessed += len(entries)
		result.NextCursor.Offset += len(entries)

		if p.cfg.ProgressEvery > 0 && result.EntriesProcessed%p.cfg.ProgressEvery == 0 {
			p.log.Info("curation progress",
				slog.Int("processed", result.EntriesProcessed),
				slog.Int("with_examples", result.EntriesWithExamples),
				slog.Int("inserted", result.ExamplesInserted),
				slog.Int("cursor", result.NextCursor.Offset),
			)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// curatePage matches and selects examples for a page of entries using the
// worker pool. Outcomes are stored at the entry's page position.
func (p *Pipeline) curatePage(ctx context.Context, entries []domain.Entry) ([]outcome, error) {
	outcomes := make([]outcome, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = outcome{
				entry:    entry,
				examples: p.curateEntry(entry),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("curate page: %w", err)
	}

	return outcomes, nil
}

// curateEntry produces the ordered examples for one entry. Entries without a
// sense are left empty; the writer phase counts them.
func (p *Pipeline) curateEntry(entry domain.Entry) []domain.Example {
	if !entry.HasSense() {
		return nil
	}

	candidates := p.matcher.Find(entry)
	picked := p.sel.Select(candidates)
	if len(picked) == 0 {
		return nil
	}

	examples := make([]domain.Example, len(picked))
	for i, c := range picked {
		examples[i] = domain.Example{
			ID:          uuid.New(),
			SenseID:     entry.SenseID,
			Sentence:    c.Sentence,
			Translation: c.Translation,
			Position:    i + 1,
		}
	}
	return examples
}

// writePage persists a page of outcomes sequentially. Insert failures are
// per sense: the failed sense is counted and the page continues. Coverage is
// recorded best-effort for the whole page.
func (p *Pipeline) writePage(ctx context.Context, outcomes []outcome, result *Result) {
	now := time.Now().UTC()
	coverage := make([]domain.EntryCoverage, 0, len(outcomes))

	for _, o := range outcomes {
		if !o.entry.HasSense() {
			result.SensesMissing++
			continue
		}

		status := domain.CoverageNoData
		if len(o.examples) > 0 {
			status = domain.CoverageFetched
			result.EntriesWithExamples++
			result.ExamplesSelected += len(o.examples)
		}
		coverage = append(coverage, domain.EntryCoverage{
			EntryID:   o.entry.ID,
			Status:    status,
			CheckedAt: now,
		})

		if p.cfg.DryRun || len(o.examples) == 0 {
			continue
		}

		inserted, err := p.store.BulkInsertExamples(ctx, o.examples)
		if err != nil {
			result.WriteFailures++
			p.log.Warn("insert examples failed",
				slog.String("entry_id", o.entry.ID.String()),
				slog.String("sense_id", o.entry.SenseID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.ExamplesInserted += inserted
	}

	if p.cfg.DryRun || len(coverage) == 0 {
		return
	}

	if err := p.store.UpsertCoverage(ctx, coverage); err != nil {
		p.log.Warn("coverage upsert failed", slog.String("error", err.Error()))
	}
}
