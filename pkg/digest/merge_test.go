package digest

import "testing"

func TestMergeAndDeduplicate_EqualIndexedValues(t *testing.T) {
	data := FlatRecord{
		"a[0]_suffix": "value",
		"a[1]_suffix": "value",
	}

	merged := MergeAndDeduplicate(data)

	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if merged["a_suffix"] != "value" {
		t.Errorf("a_suffix = %v, want %q (single value, no pipe)", merged["a_suffix"], "value")
	}
}

func TestMergeAndDeduplicate_DistinctIndexedValues(t *testing.T) {
	data := FlatRecord{
		"a[0]_suffix": "zebra",
		"a[1]_suffix": "apple",
	}

	merged := MergeAndDeduplicate(data)

	if merged["a_suffix"] != "apple|zebra" {
		t.Errorf("a_suffix = %v, want %q (sorted, pipe-joined)", merged["a_suffix"], "apple|zebra")
	}
}

func TestMergeAndDeduplicate_PlainKeysPassThrough(t *testing.T) {
	data := FlatRecord{
		"title":            "A Study",
		"publication_year": float64(2021),
		"cited_by_count":   float64(0),
	}

	merged := MergeAndDeduplicate(data)

	if merged["title"] != "A Study" {
		t.Errorf("title = %v, want %q", merged["title"], "A Study")
	}
	if year, ok := merged["publication_year"].(float64); !ok || year != 2021 {
		t.Errorf("publication_year = %v, want float64 2021 (type preserved)", merged["publication_year"])
	}
	if count, ok := merged["cited_by_count"].(float64); !ok || count != 0 {
		t.Errorf("cited_by_count = %v, want float64 0", merged["cited_by_count"])
	}
}

func TestMergeAndDeduplicate_MixedTypesSortOnStringForm(t *testing.T) {
	data := FlatRecord{
		"n[0]_value": float64(10),
		"n[1]_value": "1",
	}

	merged := MergeAndDeduplicate(data)

	// "1" < "10" lexicographically
	if merged["n_value"] != "1|10" {
		t.Errorf("n_value = %v, want %q", merged["n_value"], "1|10")
	}
}

func TestMergeAndDeduplicate_ThreeWayMerge(t *testing.T) {
	data := FlatRecord{
		"grants[0]_funder_display_name": "NSF",
		"grants[1]_funder_display_name": "ERC",
		"grants[2]_funder_display_name": "NSF",
	}

	merged := MergeAndDeduplicate(data)

	if merged["grants_funder_display_name"] != "ERC|NSF" {
		t.Errorf("grants_funder_display_name = %v, want %q",
			merged["grants_funder_display_name"], "ERC|NSF")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"nil", nil, ""},
		{"float", float64(3.5), "3.5"},
		{"whole float", float64(42), "42"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueString(tt.value); got != tt.want {
				t.Errorf("valueString(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
