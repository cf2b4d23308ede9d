package digest

import (
	"fmt"
	"sort"
	"strings"
)

// MergeAndDeduplicate collapses keys that differ only by array index into a
// single index-free key. When the indexed siblings carry more than one
// distinct value, the values are deduplicated, sorted lexicographically on
// their string form, and joined with "|". A single distinct value is kept
// verbatim, preserving its original type. Index-free keys pass through
// unchanged.
func MergeAndDeduplicate(data FlatRecord) FlatRecord {
	type valueSet struct {
		distinct []any // first-seen value per distinct string form
		seen     map[string]struct{}
	}

	groups := make(map[string]*valueSet, len(data))
	for key, value := range data {
		normalized := arrayIndexPattern.ReplaceAllString(key, "")

		set := groups[normalized]
		if set == nil {
			set = &valueSet{seen: map[string]struct{}{}}
			groups[normalized] = set
		}

		repr := valueString(value)
		if _, dup := set.seen[repr]; dup {
			continue
		}
		set.seen[repr] = struct{}{}
		set.distinct = append(set.distinct, value)
	}

	merged := make(FlatRecord, len(groups))
	for key, set := range groups {
		if len(set.distinct) == 1 {
			merged[key] = set.distinct[0]
			continue
		}

		parts := make([]string, 0, len(set.distinct))
		for _, value := range set.distinct {
			parts = append(parts, valueString(value))
		}
		sort.Strings(parts)
		merged[key] = strings.Join(parts, "|")
	}

	return merged
}

// valueString renders a scalar for sorting, deduplication, and joining.
func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
