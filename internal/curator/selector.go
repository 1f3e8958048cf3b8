package curator

import (
	"math"
	"slices"
	"strings"

	"github.com/nichidict/curator/internal/domain"
)

// DefaultMaxPerSense is the default cap on selected examples per sense.
const DefaultMaxPerSense = 3

const (
	// identicalPatternPenalty effectively excludes re-selecting the same
	// sentence skeleton: it exceeds any reachable quality score.
	identicalPatternPenalty = 1000
	sameEndingPenalty       = 50
	sharedStructurePenalty  = 30
	samePrefixPenalty       = 40

	minSharedStructure = 3
	prefixRunes        = 3
)

// wordPlaceholder substitutes the headword and reading when normalizing a
// sentence into its structural pattern.
const wordPlaceholder = "〇"

// endingMarkers are common copula/polite endings; two sentences closing with
// the same marker read as structurally similar. Order matters: the first
// matching marker per sentence wins.
var endingMarkers = []string{"です。", "ます。", "だ。", "ません。", "ました。", "でした。"}

// structureWords are the particles compared for structural overlap between
// two sentences (より is deliberately absent — it marks comparison, not
// sentence structure).
var structureWords = []string{"は", "が", "を", "に", "で", "と", "から", "まで"}

// Selector greedily picks up to K candidates, maximizing quality while
// penalizing structural similarity to sentences already picked. Selection is
// deterministic for identical input; there is no randomness.
type Selector struct {
	// K is the soft cap on picks; zero or negative falls back to
	// DefaultMaxPerSense. Fewer than K candidates yield fewer picks, never
	// padding.
	K int
}

// Select consumes candidates sorted by score descending and returns the
// picks in selection order. The first pick keeps its quality rank; later
// picks reflect the greedy diversity trade-off and are not re-sorted.
func (s Selector) Select(candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	k := s.K
	if k <= 0 {
		k = DefaultMaxPerSense
	}

	pool := slices.Clone(candidates)
	selected := make([]domain.Candidate, 0, k)
	selected = append(selected, pool[0])
	pool = pool[1:]

	for len(selected) < k && len(pool) > 0 {
		bestIdx := 0
		bestScore := math.MinInt

		// Ties break to the earliest pool position via the strict >.
		for i, c := range pool {
			score := c.Score
			for _, picked := range selected {
				score -= similarityPenalty(c, picked)
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, pool[bestIdx])
		pool = slices.Delete(pool, bestIdx, bestIdx+1)
	}

	return selected
}

// similarityPenalty rates how structurally similar two candidate sentences
// are; higher means more similar. Both candidates belong to the same entry,
// so a's headword and reading are used for normalization.
func similarityPenalty(a, b domain.Candidate) int {
	if pattern(a.Sentence, a.Headword, a.Reading) == pattern(b.Sentence, a.Headword, a.Reading) {
		return identicalPatternPenalty
	}

	penalty := 0

	if ea, ok := endingMarker(a.Sentence); ok {
		if eb, ok := endingMarker(b.Sentence); ok && ea == eb {
			penalty += sameEndingPenalty
		}
	}

	shared := 0
	for _, w := range structureWords {
		if strings.Contains(a.Sentence, w) && strings.Contains(b.Sentence, w) {
			shared++
		}
	}
	if shared >= minSharedStructure {
		penalty += sharedStructurePenalty
	}

	pa := prefix(strip(a.Sentence, a.Headword, a.Reading))
	pb := prefix(strip(b.Sentence, a.Headword, a.Reading))
	if pa != "" && pa == pb {
		penalty += samePrefixPenalty
	}

	return penalty
}

// pattern normalizes a sentence into its structural skeleton by replacing
// the target word with a placeholder.
func pattern(text, headword, reading string) string {
	text = replaceAll(text, headword, wordPlaceholder)
	text = replaceAll(text, reading, wordPlaceholder)
	return text
}

// strip removes all occurrences of the target word.
func strip(text, headword, reading string) string {
	text = replaceAll(text, headword, "")
	text = replaceAll(text, reading, "")
	return text
}

// replaceAll guards against empty needles, which strings.ReplaceAll would
// expand at every rune boundary.
func replaceAll(text, old, new string) string {
	if old == "" {
		return text
	}
	return strings.ReplaceAll(text, old, new)
}

// endingMarker returns the first marker the sentence ends with.
func endingMarker(text string) (string, bool) {
	for _, m := range endingMarkers {
		if strings.HasSuffix(text, m) {
			return m, true
		}
	}
	return "", false
}

// prefix returns the first prefixRunes runes of s.
func prefix(s string) string {
	runes := []rune(s)
	if len(runes) > prefixRunes {
		runes = runes[:prefixRunes]
	}
	return string(runes)
}
