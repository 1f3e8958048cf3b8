// Package curator implements example curation for dictionary entries:
// matching corpus sentences against headwords, scoring them, selecting a
// small diverse subset per sense, and driving the batch over all entries.
package curator

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nichidict/curator/internal/corpus"
	"github.com/nichidict/curator/internal/domain"
	"github.com/nichidict/curator/internal/quality"
)

// LinkPolicy decides which translation to use when a source sentence has
// several linked targets.
type LinkPolicy string

const (
	// LinkFirst uses the first link in corpus order. When its target
	// sentence is missing from the loaded window, the candidate is dropped —
	// later links are not consulted.
	LinkFirst LinkPolicy = "first"
	// LinkShortest picks the shortest available target.
	LinkShortest LinkPolicy = "shortest"
	// LinkLongest picks the longest available target.
	LinkLongest LinkPolicy = "longest"
)

// ParseLinkPolicy validates a configured policy string.
func ParseLinkPolicy(s string) (LinkPolicy, error) {
	switch LinkPolicy(s) {
	case LinkFirst, LinkShortest, LinkLongest:
		return LinkPolicy(s), nil
	case "":
		return LinkFirst, nil
	default:
		return "", fmt.Errorf("unknown link policy %q", s)
	}
}

// Matcher finds quality-passing, translation-linked corpus sentences that
// contain an entry's headword or reading. It holds no per-entry state and is
// safe for concurrent use.
type Matcher struct {
	idx    *corpus.Index
	policy LinkPolicy
}

// NewMatcher creates a Matcher over a loaded corpus index.
func NewMatcher(idx *corpus.Index, policy LinkPolicy) *Matcher {
	if policy == "" {
		policy = LinkFirst
	}
	return &Matcher{idx: idx, policy: policy}
}

// Find scans all linked source sentences and returns scored candidates for
// the entry, sorted by score descending. The scan iterates source ids in
// ascending order and the sort is stable, so equal scores resolve to the
// lower sentence id on every run.
func (m *Matcher) Find(entry domain.Entry) []domain.Candidate {
	var candidates []domain.Candidate

	for _, id := range m.idx.LinkedSourceIDs() {
		text, ok := m.idx.SourceText(id)
		if !ok {
			continue
		}

		if !containsWord(text, entry.Headword) && !containsWord(text, entry.Reading) {
			continue
		}

		score, ok := quality.Evaluate(text)
		if !ok {
			continue
		}

		translation, ok := m.resolveTarget(id)
		if !ok {
			continue
		}

		candidates = append(candidates, domain.Candidate{
			SourceID:    id,
			Sentence:    text,
			Translation: translation,
			Score:       score,
			Headword:    entry.Headword,
			Reading:     entry.Reading,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// resolveTarget picks a translation for the source sentence per the link
// policy. Returns false when no usable target exists.
func (m *Matcher) resolveTarget(sourceID int64) (string, bool) {
	links := m.idx.Links(sourceID)
	if len(links) == 0 {
		return "", false
	}

	if m.policy == LinkFirst {
		return m.idx.TargetText(links[0])
	}

	best := ""
	found := false
	for _, id := range links {
		text, ok := m.idx.TargetText(id)
		if !ok {
			continue
		}
		if !found {
			best = text
			found = true
			continue
		}
		switch m.policy {
		case LinkShortest:
			if utf8.RuneCountInString(text) < utf8.RuneCountInString(best) {
				best = text
			}
		case LinkLongest:
			if utf8.RuneCountInString(text) > utf8.RuneCountInString(best) {
				best = text
			}
		}
	}

	return best, found
}

// containsWord reports whether word occurs in text as a literal substring.
// Empty words never match.
func containsWord(text, word string) bool {
	return word != "" && strings.Contains(text, word)
}
