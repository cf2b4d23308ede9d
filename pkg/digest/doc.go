// Package digest flattens nested OpenAlex work records into single-level
// key/value records suitable for tabular analysis.
//
// A work record arrives as a deeply nested JSON object: authorships, topics,
// grants and locations are arrays of objects, abstracts are stored as an
// inverted index, and costs may be a bare number or a nested object. Digest
// applies a fixed set of extraction rules to that tree and merges keys that
// differ only by array index into pipe-delimited values.
//
// # Basic Usage
//
//	var work digest.Record
//	if err := json.Unmarshal(body, &work); err != nil {
//		return err
//	}
//
//	flat := digest.Digest(work, true)
//	fmt.Println(flat["title"], flat["countries_codes"], flat["abstract"])
//
// # Fault Isolation
//
// Each extraction rule runs independently. A rule that fails (including by
// panic) is logged at warn level and contributes nothing to the result;
// Digest itself never returns an error. Callers always receive a record with
// whatever fields could be extracted.
//
// # Merge Semantics
//
// Keys carrying array indices, such as grants[0]_funder_display_name and
// grants[1]_funder_display_name, are collapsed into one index-free key. When
// the indexed siblings hold more than one distinct value, the values are
// sorted lexicographically, deduplicated, and joined with "|"; a single
// distinct value is kept as-is. Display-name fields are the exception: their
// values preserve document order and are never sorted or deduplicated, so
// authorship ordering survives flattening.
package digest
