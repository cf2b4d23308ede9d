package openalex

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/scholdata/openalex-client/internal/testutil"
	"github.com/scholdata/openalex-client/pkg/client"
)

// newTestStack wires a resource client to the mock server, without Redis
// and with fast retry backoff.
func newTestStack(t *testing.T, mock *testutil.MockAPI) *Client {
	t.Helper()

	httpClient, err := client.New(client.Config{
		Mailto:         "test@example.com",
		BaseURL:        mock.URL(),
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create HTTP client: %v", err)
	}

	c, err := New(Config{HTTP: httpClient})
	if err != nil {
		t.Fatalf("Failed to create resource client: %v", err)
	}
	return c
}

// workRecords builds n sequential work record JSON objects.
func workRecords(n int) []string {
	records := make([]string, n)
	for i := range records {
		records[i] = testutil.WorkRecord(fmt.Sprintf("W%03d", i+1), fmt.Sprintf("Work %d", i+1))
	}
	return records
}

func TestNew_RequiresHTTPClient(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("Expected error for missing HTTP client")
	}
}

func TestGetResource(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetJSONResponse("/works/W123", http.StatusOK,
		`{"id": "https://openalex.org/W123", "title": "Deep Learning", "cited_by_count": 42}`)

	c := newTestStack(t, mock)

	record, err := c.GetResource(context.Background(), EndpointWorks, "W123")
	if err != nil {
		t.Fatalf("GetResource() failed: %v", err)
	}

	if record["id"] != "https://openalex.org/W123" {
		t.Errorf("id = %v", record["id"])
	}
	if record["title"] != "Deep Learning" {
		t.Errorf("title = %v", record["title"])
	}
}

func TestGetResource_NotFound(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetJSONResponse("/works/W999", http.StatusNotFound, `{"error": "Not Found"}`)

	c := newTestStack(t, mock)

	_, err := c.GetResource(context.Background(), EndpointWorks, "W999")
	if err == nil {
		t.Fatal("Expected error for missing resource")
	}
}

func TestGetWorkDigested(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetJSONResponse("/works/W1", http.StatusOK, `{
		"id": "https://openalex.org/W1",
		"title": "Flattened",
		"type": "article",
		"grants": [
			{"funder_display_name": "NSF"},
			{"funder_display_name": "ERC"}
		]
	}`)

	c := newTestStack(t, mock)

	flat, err := c.GetWorkDigested(context.Background(), "W1", false)
	if err != nil {
		t.Fatalf("GetWorkDigested() failed: %v", err)
	}

	if flat["title"] != "Flattened" {
		t.Errorf("title = %v", flat["title"])
	}
	if flat["doi"] != "" {
		t.Errorf("doi = %v, want empty default", flat["doi"])
	}
	if flat["grants_funder_display_name"] != "ERC|NSF" {
		t.Errorf("grants_funder_display_name = %v, want merged funders", flat["grants_funder_display_name"])
	}
}

func TestListResources_SinglePage(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", workRecords(5), 0)

	c := newTestStack(t, mock)

	results, err := c.ListResources(context.Background(), EndpointWorks, Query{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("ListResources() failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Got %d results, want 2", len(results))
	}
	if results[0]["id"] != "W001" || results[1]["id"] != "W002" {
		t.Errorf("Unexpected page content: %v, %v", results[0]["id"], results[1]["id"])
	}
}

func TestListResources_DefaultPerPage(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", workRecords(25), 0)

	c := newTestStack(t, mock)

	results, err := c.ListResources(context.Background(), EndpointWorks, Query{Page: 1})
	if err != nil {
		t.Fatalf("ListResources() failed: %v", err)
	}

	if len(results) != DefaultPerPage {
		t.Errorf("Got %d results, want the default page size %d", len(results), DefaultPerPage)
	}
	if mock.GetLastQuery().Get("per_page") != "10" {
		t.Errorf("per_page = %q, want 10", mock.GetLastQuery().Get("per_page"))
	}
}

func TestTotalCount(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", workRecords(137), 0)

	c := newTestStack(t, mock)

	count := c.TotalCount(context.Background(), EndpointWorks, Query{Filter: "is_oa:true"})
	if count != 137 {
		t.Errorf("TotalCount() = %d, want 137", count)
	}

	query := mock.GetLastQuery()
	if query.Get("per_page") != "1" {
		t.Errorf("per_page = %q, count queries should request a single result", query.Get("per_page"))
	}
	if query.Get("filter") != "is_oa:true" {
		t.Errorf("filter = %q, filters must apply to the count", query.Get("filter"))
	}
}

func TestTotalCount_ErrorYieldsZero(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetJSONResponse("/works", http.StatusForbidden, `{"error": "denied"}`)

	c := newTestStack(t, mock)

	if count := c.TotalCount(context.Background(), EndpointWorks, Query{}); count != 0 {
		t.Errorf("TotalCount() = %d, want 0 on failure", count)
	}
}

func TestListAllResources_FetchesEveryPageInOrder(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", workRecords(25), 0)

	c := newTestStack(t, mock)

	all := c.ListAllResources(context.Background(), EndpointWorks, Query{PerPage: 10})

	if len(all) != 25 {
		t.Fatalf("Got %d records, want 25", len(all))
	}
	// One count query plus ceil(25/10) = 3 page fetches
	if got := mock.PageRequestCounts["/works"]; got != 4 {
		t.Errorf("Request count = %d, want 4 (1 count + 3 pages)", got)
	}

	// Page order preserved end to end
	if all[0]["id"] != "W001" {
		t.Errorf("First record = %v, want W001", all[0]["id"])
	}
	if all[10]["id"] != "W011" {
		t.Errorf("Record 11 = %v, want W011", all[10]["id"])
	}
	if all[24]["id"] != "W025" {
		t.Errorf("Last record = %v, want W025", all[24]["id"])
	}
}

func TestListAllResources_PartialOnPageFailure(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", workRecords(25), 2)

	c := newTestStack(t, mock)

	all := c.ListAllResources(context.Background(), EndpointWorks, Query{PerPage: 10})

	if len(all) != 10 {
		t.Fatalf("Got %d records, want only page 1's 10", len(all))
	}
	if all[0]["id"] != "W001" || all[9]["id"] != "W010" {
		t.Errorf("Partial results should be page 1 in order: %v ... %v", all[0]["id"], all[9]["id"])
	}
}

func TestListAllResources_NoMatches(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPagedList("/works", nil, 0)

	c := newTestStack(t, mock)

	all := c.ListAllResources(context.Background(), EndpointWorks, Query{PerPage: 10})
	if len(all) != 0 {
		t.Errorf("Got %d records, want none", len(all))
	}
	// Only the count query goes out
	if got := mock.PageRequestCounts["/works"]; got != 1 {
		t.Errorf("Request count = %d, want 1", got)
	}
}

func TestListAllResources_StopsOnEmptyPage(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	// Count claims 30 records but only 10 are actually served, so page 2
	// comes back empty.
	records := workRecords(10)
	mock.SetHandler("/works", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		switch page {
		case "", "1":
			if r.URL.Query().Get("per_page") == "1" {
				w.Write([]byte(testutil.ListEnvelope(30, 1, 1, records[0])))
				return
			}
			w.Write([]byte(testutil.ListEnvelope(30, 1, 10, records...)))
		default:
			w.Write([]byte(testutil.ListEnvelope(30, 2, 10)))
		}
	})

	c := newTestStack(t, mock)

	all := c.ListAllResources(context.Background(), EndpointWorks, Query{PerPage: 10})
	if len(all) != 10 {
		t.Errorf("Got %d records, want 10 (stop at the empty page)", len(all))
	}
}

func TestListAllWorksDigested(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	records := []string{
		`{"id": "W1", "title": "First", "type": "article", "open_access": {"is_oa": true, "oa_status": "gold"}}`,
		`{"id": "W2", "title": "Second", "type": "article", "open_access": {"is_oa": false, "oa_status": "closed"}}`,
	}
	mock.SetPagedList("/works", records, 0)

	c := newTestStack(t, mock)

	flats := c.ListAllWorksDigested(context.Background(), Query{PerPage: 10}, false)

	if len(flats) != 2 {
		t.Fatalf("Got %d records, want 2", len(flats))
	}
	if flats[0]["open_access_oa_status"] != "gold" {
		t.Errorf("open_access_oa_status = %v, want gold", flats[0]["open_access_oa_status"])
	}
	if flats[1]["open_access_is_oa"] != false {
		t.Errorf("open_access_is_oa = %v, want false", flats[1]["open_access_is_oa"])
	}
	if flats[0]["doi"] != "" {
		t.Errorf("doi = %v, want empty default", flats[0]["doi"])
	}
}

func TestEndpointWrappers(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetJSONResponse("/institutions/I27837315", http.StatusOK,
		`{"id": "https://openalex.org/I27837315", "display_name": "University of Michigan"}`)
	mock.SetPagedList("/authors", []string{
		`{"id": "A1", "display_name": "Ada Lovelace"}`,
	}, 0)

	c := newTestStack(t, mock)
	ctx := context.Background()

	inst, err := c.GetInstitution(ctx, "I27837315")
	if err != nil {
		t.Fatalf("GetInstitution() failed: %v", err)
	}
	if inst["display_name"] != "University of Michigan" {
		t.Errorf("display_name = %v", inst["display_name"])
	}

	authors, err := c.ListAuthors(ctx, Query{Page: 1})
	if err != nil {
		t.Fatalf("ListAuthors() failed: %v", err)
	}
	if len(authors) != 1 || authors[0]["display_name"] != "Ada Lovelace" {
		t.Errorf("Unexpected authors page: %v", authors)
	}
}
