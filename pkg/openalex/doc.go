// Package openalex provides typed access to OpenAlex REST resources on top
// of the core HTTP client.
//
// Every entity type (works, institutions, authors, topics, funders,
// publishers) supports fetch-by-id, single-page listing, total counts, and
// exhaustive sequential pagination. Work records can additionally be
// digested into flat key/value records via the digest package.
//
// # Single resources and pages
//
//	oa, err := openalex.New(openalex.Config{HTTP: httpClient})
//	work, err := oa.GetWork(ctx, "W2741809807")
//	page, err := oa.ListWorks(ctx, openalex.Query{Filter: "publication_year:2021"})
//
// Both propagate transport failures as *client.APIError.
//
// # Exhaustive pagination
//
//	all := oa.ListAllWorks(ctx, openalex.Query{Filter: "publication_year:2021", PerPage: 200})
//
// ListAll first issues a count query (per_page=1) to learn the total, then
// fetches pages 1..ceil(total/per_page) strictly sequentially. A page that
// fails or comes back empty stops the loop; the records fetched so far are
// returned rather than discarded.
package openalex
