package digest

import "strings"

// ReconstructAbstract converts an abstract inverted index (word to list of
// integer positions) back into contiguous text. A word legitimately occupies
// every position it lists. Positions the index never mentions are skipped
// when joining, so gaps in the index do not produce double spaces.
//
// An empty or absent index yields the NoAbstract sentinel, never an empty
// string.
func ReconstructAbstract(index map[string]any) string {
	if len(index) == 0 {
		return NoAbstract
	}

	maxPosition := -1
	positions := make(map[string][]int, len(index))
	for word, raw := range index {
		list, _ := raw.([]any)
		for _, item := range list {
			position, ok := asInt(item)
			if !ok || position < 0 {
				continue
			}
			positions[word] = append(positions[word], position)
			if position > maxPosition {
				maxPosition = position
			}
		}
	}
	if maxPosition < 0 {
		return NoAbstract
	}

	words := make([]string, maxPosition+1)
	for word, wordPositions := range positions {
		for _, position := range wordPositions {
			words[position] = word
		}
	}

	parts := make([]string, 0, len(words))
	for _, word := range words {
		if word != "" {
			parts = append(parts, word)
		}
	}
	return strings.Join(parts, " ")
}

// asInt accepts the numeric shapes a decoded JSON position can take.
func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
