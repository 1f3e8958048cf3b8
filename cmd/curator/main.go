// Command curator mines a bilingual sentence-pair corpus for dictionary
// example sentences: it scores source-language sentences for teaching
// quality, selects a small diverse set per entry, and writes the selection
// to the example store. It is intended to be run offline, not as part of a
// serving path.
//
// Flags:
//
//	--curator-config  path to curator YAML config file
//	--max-entries     process at most N entries (test mode)
//	--resume-after    skip the first N entries of the priority order
//	--dry-run         match and select without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nichidict/curator/internal/adapter/postgres"
	"github.com/nichidict/curator/internal/adapter/postgres/curatorstore"
	"github.com/nichidict/curator/internal/app"
	"github.com/nichidict/curator/internal/config"
	"github.com/nichidict/curator/internal/corpus"
	"github.com/nichidict/curator/internal/curator"
	"github.com/nichidict/curator/internal/domain"
)

// Compile-time interface assertion.
var _ curator.Store = (*curatorstore.Repo)(nil)

func main() {
	curatorConfigFlag := flag.String("curator-config", "", "path to curator YAML config file")
	maxEntriesFlag := flag.Int("max-entries", 0, "process at most N entries (0 = all)")
	resumeAfterFlag := flag.Int("resume-after", 0, "skip the first N entries of the priority order")
	dryRunFlag := flag.Bool("dry-run", false, "match and select without writing to DB")
	flag.Parse()

	// Load app config (for DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	curCfg, err := curator.LoadConfig(*curatorConfigFlag)
	if err != nil {
		logger.Error("load curator config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		curCfg.DryRun = true
	}
	if *maxEntriesFlag > 0 {
		curCfg.MaxEntries = *maxEntriesFlag
	}

	// The batch can run for hours; no deadline, cancel on signal instead.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the corpus before touching the database: an unreadable corpus
	// aborts the run before any entry is processed.
	idx, stats, err := corpus.Load(curCfg.SentencesPath, curCfg.LinksPath, curCfg.SourceLang, curCfg.TargetLang)
	if err != nil {
		logger.Error("load corpus", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("corpus loaded",
		slog.Int("source_sentences", stats.SourceSentences),
		slog.Int("target_sentences", stats.TargetSentences),
		slog.Int("linked_sources", stats.LinkedSources),
		slog.Int("dropped_edges", stats.DroppedEdges),
		slog.Int("skipped_rows", stats.SkippedRows),
	)

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store := curatorstore.New(pool)

	pipeline, err := curator.NewPipeline(logger, store, idx, *curCfg)
	if err != nil {
		logger.Error("create pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := pipeline.Run(ctx, domain.EntryCursor{Offset: *resumeAfterFlag})
	if err != nil {
		logger.Error("curation failed",
			slog.String("error", err.Error()),
			slog.Int("cursor", result.NextCursor.Offset),
		)
		os.Exit(1)
	}

	logger.Info("curation completed",
		slog.Int("entries_processed", result.EntriesProcessed),
		slog.Int("entries_with_examples", result.EntriesWithExamples),
		slog.Int("examples_selected", result.ExamplesSelected),
		slog.Int("examples_inserted", result.ExamplesInserted),
		slog.Int("senses_missing", result.SensesMissing),
		slog.Int("write_failures", result.WriteFailures),
		slog.Float64("coverage", result.Coverage()),
		slog.Int("cursor", result.NextCursor.Offset),
		slog.Duration("duration", result.Duration),
	)

	if result.WriteFailures > 0 {
		logger.Warn("curation completed with write failures")
		os.Exit(1)
	}
}
