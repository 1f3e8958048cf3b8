// Package corpus loads Tatoeba sentence and link exports into typed
// in-memory maps. The whole corpus is loaded once at startup; the index is
// immutable afterwards and safe for concurrent readers.
package corpus

import (
	"slices"
)

// Index holds one sentence map per language plus the directed
// source→target link adjacency resolved from the undirected link export.
type Index struct {
	source map[int64]string
	target map[int64]string
	links  map[int64][]int64

	// linkedIDs caches the source ids that have at least one link, sorted
	// ascending. Iterating this slice instead of the map keeps candidate
	// discovery deterministic across runs.
	linkedIDs []int64
}

// Stats holds corpus load statistics for logging.
type Stats struct {
	SourceSentences int
	TargetSentences int
	LinkedSources   int
	TotalLinks      int
	SkippedRows     int
	DroppedEdges    int
}

// NewIndex builds an Index from pre-loaded maps. Link targets are kept in
// input order; source ids are sorted for deterministic iteration.
func NewIndex(source, target map[int64]string, links map[int64][]int64) *Index {
	ids := make([]int64, 0, len(links))
	for id := range links {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return &Index{
		source:    source,
		target:    target,
		links:     links,
		linkedIDs: ids,
	}
}

// LinkedSourceIDs returns the source-sentence ids that have at least one
// resolved translation link, in ascending id order. Callers must not modify
// the returned slice.
func (ix *Index) LinkedSourceIDs() []int64 {
	return ix.linkedIDs
}

// SourceText returns the source-language sentence for id.
func (ix *Index) SourceText(id int64) (string, bool) {
	text, ok := ix.source[id]
	return text, ok
}

// TargetText returns the target-language sentence for id.
func (ix *Index) TargetText(id int64) (string, bool) {
	text, ok := ix.target[id]
	return text, ok
}

// Links returns the target-sentence ids linked to the given source id, in
// link-file order. Callers must not modify the returned slice.
func (ix *Index) Links(id int64) []int64 {
	return ix.links[id]
}
