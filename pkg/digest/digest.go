package digest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Record is a raw, decoded JSON object as returned by the OpenAlex API.
type Record = map[string]any

// FlatRecord maps normalized, index-free field names to scalar values.
type FlatRecord map[string]any

// NoAbstract is the sentinel returned when a work carries no abstract
// inverted index.
const NoAbstract = "No abstract available"

// basicFields are top-level scalars copied verbatim from the work record.
var basicFields = []string{"id", "doi", "title", "publication_year", "language", "type"}

// countFields are top-level numeric metrics copied verbatim.
var countFields = []string{
	"referenced_works_count",
	"cited_by_count",
	"countries_distinct_count",
	"institutions_distinct_count",
	"locations_count",
	"fwci",
}

// displayNameMarkers restrict which discovered display_name paths are kept.
// Only display names nested under these families survive flattening.
var displayNameMarkers = []string{"authorships", "topics", "keywords", "sustainable_development_goals"}

// maxDisplayNameValues caps values collected per display_name path, so an
// unbounded authorship list cannot blow up the flat record.
const maxDisplayNameValues = 10

var arrayIndexPattern = regexp.MustCompile(`\[\d+\]`)

// step is one fault-isolated extraction rule. A step writes its fields into
// a staging record; a failure discards only that step's contribution.
type step struct {
	name string
	fn   func(work Record, out FlatRecord)
}

var steps = []step{
	{"basic_fields", extractBasicFields},
	{"ids", extractIDs},
	{"apc_paid", extractAPCPaid},
	{"counts", extractCounts},
	{"primary_location", extractPrimaryLocation},
	{"publication_date", extractPublicationDate},
	{"percentiles", extractPercentiles},
	{"open_access", extractOpenAccess},
	{"grants", extractGrants},
	{"countries_codes", extractCountryCodes},
	{"display_names", extractDisplayNames},
}

// Digest flattens a work record into a FlatRecord. Every extraction rule is
// applied independently; a rule that fails is logged and its fields are
// absent from the result. Digest never returns an error.
//
// The abstract is only reconstructed when includeAbstract is true, since
// abstracts dominate the size of the flattened record.
func Digest(work Record, includeAbstract bool) FlatRecord {
	logger := log.With().Str("component", "digest").Logger()

	out := FlatRecord{}
	for _, s := range steps {
		runStep(logger, s, work, out)
	}
	if includeAbstract {
		runStep(logger, step{"abstract", extractAbstract}, work, out)
	}

	return MergeAndDeduplicate(out)
}

// runStep executes a single extraction rule against a staging record and
// merges the staging record into out only on success. Panics (unexpected
// shapes deep in the record tree) are contained here.
func runStep(logger zerolog.Logger, s step, work Record, out FlatRecord) {
	staging := FlatRecord{}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		s.fn(work, staging)
		return nil
	}()
	if err != nil {
		logger.Warn().Err(err).Str("step", s.name).Msg("Extraction step failed")
		return
	}

	for key, value := range staging {
		out[key] = value
	}
}

func extractBasicFields(work Record, out FlatRecord) {
	for _, field := range basicFields {
		value, ok := work[field]
		if !ok {
			// doi keeps the original client's empty-string default
			if field == "doi" {
				out[field] = ""
			}
			continue
		}
		out[field] = value
	}
}

func extractIDs(work Record, out FlatRecord) {
	ids, _ := work["ids"].(map[string]any)
	for _, key := range []string{"pmid", "mag"} {
		if value, ok := ids[key]; ok {
			out[key] = value
		} else {
			out[key] = ""
		}
	}
}

// extractAPCPaid handles both shapes of apc_paid: a bare number or a nested
// object carrying the USD-normalized value. Presence is checked on the key,
// never on truthiness, so a paid amount of 0 survives.
func extractAPCPaid(work Record, out FlatRecord) {
	value, ok := work["apc_paid"]
	if !ok {
		return
	}
	if nested, isObject := value.(map[string]any); isObject {
		out["apc_paid"] = nested["value_usd"]
		return
	}
	out["apc_paid"] = value
}

func extractCounts(work Record, out FlatRecord) {
	for _, field := range countFields {
		if value, ok := work[field]; ok {
			out[field] = value
		}
	}
}

func extractPrimaryLocation(work Record, out FlatRecord) {
	location, _ := work["primary_location"].(map[string]any)
	source, _ := location["source"].(map[string]any)
	out["primary_location_display_name"] = source["display_name"]
	out["primary_location_host_organization_name"] = source["host_organization_name"]
}

// extractPublicationDate converts a strict YYYY-MM-DD date into an ISO-8601
// UTC midnight instant. Anything that does not parse is omitted.
func extractPublicationDate(work Record, out FlatRecord) {
	raw, ok := work["publication_date"].(string)
	if !ok || raw == "" {
		return
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return
	}
	out["publication_date"] = parsed.UTC().Format(time.RFC3339)
}

func extractPercentiles(work Record, out FlatRecord) {
	percentiles, _ := work["citation_normalized_percentile"].(map[string]any)
	for key, value := range percentiles {
		out["percentiles_"+key] = value
	}
}

func extractOpenAccess(work Record, out FlatRecord) {
	openAccess, _ := work["open_access"].(map[string]any)
	out["open_access_is_oa"] = openAccess["is_oa"]
	out["open_access_oa_status"] = openAccess["oa_status"]
}

// extractGrants emits one indexed key per grant. The indexed siblings are
// collapsed into a single grants_funder_display_name by the final merge.
func extractGrants(work Record, out FlatRecord) {
	grants, _ := work["grants"].([]any)
	for i, item := range grants {
		grant, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out[fmt.Sprintf("grants[%d]_funder_display_name", i)] = grant["funder_display_name"]
	}
}

// extractCountryCodes aggregates every author's country codes into one
// sorted, deduplicated, pipe-delimited string.
func extractCountryCodes(work Record, out FlatRecord) {
	authorships, _ := work["authorships"].([]any)

	seen := map[string]struct{}{}
	for _, item := range authorships {
		authorship, ok := item.(map[string]any)
		if !ok {
			continue
		}
		countries, _ := authorship["countries"].([]any)
		for _, country := range countries {
			if code, ok := country.(string); ok {
				seen[code] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out["countries_codes"] = strings.Join(codes, "|")
}

// extractDisplayNames walks the whole record tree collecting display_name
// values nested under the marker families. Values are grouped by their
// index-free path, capped at maxDisplayNameValues per path, and joined with
// "|" in document order. These keys are already index-free, so the final
// merge passes them through without sorting or deduplication.
func extractDisplayNames(work Record, out FlatRecord) {
	groups := map[string][]string{}

	walkDisplayNames(work, "", func(path string, value any) {
		if !displayNamePathRetained(path) {
			return
		}
		key := strings.ReplaceAll(arrayIndexPattern.ReplaceAllString(path, ""), ".", "_")
		if len(groups[key]) >= maxDisplayNameValues {
			return
		}
		groups[key] = append(groups[key], valueString(value))
	})

	for key, values := range groups {
		out[key] = strings.Join(values, "|")
	}
}

// walkDisplayNames recursively visits mapping and sequence nodes, threading
// the accumulated dotted/indexed path. A key containing "display_name" is
// reported and not descended into.
func walkDisplayNames(node any, path string, visit func(path string, value any)) {
	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for key := range n {
			keys = append(keys, key)
		}
		sort.Strings(keys) // deterministic traversal

		for _, key := range keys {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			if strings.Contains(key, "display_name") {
				visit(childPath, n[key])
				continue
			}
			walkDisplayNames(n[key], childPath, visit)
		}
	case []any:
		for i, item := range n {
			walkDisplayNames(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	}
}

func displayNamePathRetained(path string) bool {
	for _, marker := range displayNameMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// extractAbstract rebuilds the abstract text from the inverted index field.
func extractAbstract(work Record, out FlatRecord) {
	index, _ := work["abstract_inverted_index"].(map[string]any)
	out["abstract"] = ReconstructAbstract(index)
}
