package domain

import (
	"github.com/google/uuid"
)

// Entry is a dictionary entry produced by the import tooling. The curator
// treats entries as read-only input: it never creates, mutates, or deletes
// them.
type Entry struct {
	ID       uuid.UUID
	Headword string
	// Reading is the hiragana reading of the headword. May be empty for
	// entries imported without reading data.
	Reading string
	// PriorityTier orders entries for processing: 1 (most common, N5-level
	// vocabulary) through 5 (N1), 6 for unranked entries.
	PriorityTier  int
	FrequencyRank *int
	// SenseID is the entry's first sense, resolved at listing time.
	// uuid.Nil when the entry has no senses; such entries are skipped.
	SenseID uuid.UUID
}

// HasSense reports whether a first sense was resolved for the entry.
func (e Entry) HasSense() bool {
	return e.SenseID != uuid.Nil
}

// EntryCursor marks progress through the priority-ordered entry list.
// Offset is the number of entries already consumed; the pipeline reports the
// final offset so an interrupted run can resume from it explicitly instead
// of relying on ambient state files.
type EntryCursor struct {
	Offset int
}
