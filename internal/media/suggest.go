package media

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Rank returns the indexes of the playable paths that fuzzily match query,
// best match first. An empty query keeps every playable path in input order.
func Rank(query string, paths []string) []int {
	var playable []int
	for i, p := range paths {
		if CheckExtension(p) == nil {
			playable = append(playable, i)
		}
	}
	if strings.TrimSpace(query) == "" {
		return playable
	}

	targets := make([]string, len(playable))
	for i, idx := range playable {
		targets[i] = paths[idx]
	}
	matches := fuzzy.Find(query, targets)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, playable[m.Index])
	}
	return out
}

// Suggest returns the playable paths matching query, best match first.
func Suggest(query string, paths []string) []string {
	idx := Rank(query, paths)
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = paths[j]
	}
	return out
}
