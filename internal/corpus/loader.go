package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Tatoeba exports are tab-delimited with no quoting, so a plain scanner
// split is enough. Rows that do not parse are skipped and counted — corpora
// routinely contain partial or malformed lines and one bad row must never
// abort a load.

// Load reads a Tatoeba sentences export and a links export and resolves them
// into an Index for the given language pair. A missing or unreadable file is
// a fatal error: the caller must abort before processing any entry.
func Load(sentencesPath, linksPath, sourceLang, targetLang string) (*Index, Stats, error) {
	var stats Stats

	source, target, skipped, err := loadSentences(sentencesPath, sourceLang, targetLang)
	if err != nil {
		return nil, stats, fmt.Errorf("load sentences: %w", err)
	}
	stats.SourceSentences = len(source)
	stats.TargetSentences = len(target)
	stats.SkippedRows = skipped

	links, dropped, skipped, err := loadLinks(linksPath, source, target)
	if err != nil {
		return nil, stats, fmt.Errorf("load links: %w", err)
	}
	stats.DroppedEdges = dropped
	stats.SkippedRows += skipped
	stats.LinkedSources = len(links)
	for _, targets := range links {
		stats.TotalLinks += len(targets)
	}

	return NewIndex(source, target, links), stats, nil
}

// loadSentences reads the sentences export (id, language, text) and returns
// one map per requested language. Rows for other languages are ignored.
func loadSentences(path, sourceLang, targetLang string) (source, target map[int64]string, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	source = make(map[int64]string)
	target = make(map[int64]string)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 3)
		if len(fields) < 3 {
			skipped++
			continue
		}

		lang := fields[1]
		if lang != sourceLang && lang != targetLang {
			continue
		}

		id, parseErr := strconv.ParseInt(fields[0], 10, 64)
		if parseErr != nil {
			skipped++
			continue
		}

		text := strings.TrimSpace(fields[2])
		if text == "" {
			skipped++
			continue
		}

		if lang == sourceLang {
			source[id] = text
		} else {
			target[id] = text
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, 0, fmt.Errorf("scan %s: %w", path, err)
	}

	return source, target, skipped, nil
}

// loadLinks reads the undirected links export (idA, idB) and resolves each
// edge into a directed source→target mapping once the language of each side
// is known. Edges where neither orientation matches are dropped silently —
// the link file references sentences outside the loaded window.
func loadLinks(path string, source, target map[int64]string) (links map[int64][]int64, dropped, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	links = make(map[int64][]int64)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 2)
		if len(fields) < 2 {
			skipped++
			continue
		}

		idA, errA := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		idB, errB := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if errA != nil || errB != nil {
			skipped++
			continue
		}

		switch {
		case inMap(source, idA) && inMap(target, idB):
			links[idA] = append(links[idA], idB)
		case inMap(source, idB) && inMap(target, idA):
			links[idB] = append(links[idB], idA)
		default:
			dropped++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("scan %s: %w", path, err)
	}

	return links, dropped, skipped, nil
}

func inMap(m map[int64]string, id int64) bool {
	_, ok := m[id]
	return ok
}
