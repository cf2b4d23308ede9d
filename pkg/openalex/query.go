package openalex

import (
	"net/url"
	"strconv"
)

// Query holds the listing parameters OpenAlex endpoints understand.
// Zero-valued fields are omitted from the request.
type Query struct {
	// Page is the 1-based page number.
	Page int

	// PerPage is the page size. When 0 the client default applies.
	PerPage int

	// Filter is the OpenAlex filter expression,
	// e.g. "publication_year:2021,is_oa:true".
	Filter string

	// Sort orders results, e.g. "cited_by_count:desc".
	Sort string

	// Select restricts the returned fields, e.g. "id,title,doi".
	Select string
}

// Values encodes the query as request parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Select != "" {
		values.Set("select", q.Select)
	}
	return values
}
