package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is an ephemeral scored sentence pair considered for one
// dictionary entry. Candidates are created by the matcher, consumed by the
// selector, and never persisted directly.
type Candidate struct {
	// SourceID is the corpus id of the source-language sentence. It doubles
	// as the deterministic tie-break key for equal quality scores.
	SourceID    int64
	Sentence    string
	Translation string
	Score       int
	// Headword and Reading are carried from the entry so the selector can
	// normalize sentences without re-resolving the entry.
	Headword string
	Reading  string
}

// Example is a curated example sentence attached to a dictionary sense.
type Example struct {
	ID      uuid.UUID
	SenseID uuid.UUID
	// Sentence always contains the entry's headword or reading as a literal
	// substring.
	Sentence    string
	Translation string
	// Position is the 1-based selection order within the sense.
	Position int
}

// CoverageStatus records the outcome of corpus mining for one entry.
type CoverageStatus string

const (
	// CoverageFetched means at least one example was selected from the corpus.
	CoverageFetched CoverageStatus = "fetched"
	// CoverageNoData means no quality-passing candidate existed. Downstream
	// fallback tooling reads this status to find coverage gaps.
	CoverageNoData CoverageStatus = "no_data"
)

// EntryCoverage is the per-entry corpus coverage record.
type EntryCoverage struct {
	EntryID   uuid.UUID
	Status    CoverageStatus
	CheckedAt time.Time
}
