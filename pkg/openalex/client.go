package openalex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scholdata/openalex-client/pkg/client"
	"github.com/scholdata/openalex-client/pkg/digest"
	"github.com/scholdata/openalex-client/pkg/logging"
)

// OpenAlex entity endpoints.
const (
	EndpointWorks        = "works"
	EndpointInstitutions = "institutions"
	EndpointAuthors      = "authors"
	EndpointTopics       = "topics"
	EndpointFunders      = "funders"
	EndpointPublishers   = "publishers"
)

// DefaultPerPage is the page size used when neither the query nor the
// client configuration sets one.
const DefaultPerPage = 10

// Client provides resource-level operations on top of the core HTTP client.
type Client struct {
	http    *client.Client
	perPage int
	logger  zerolog.Logger
}

// Config holds resource client configuration.
type Config struct {
	// HTTP is the core OpenAlex HTTP client (required).
	HTTP *client.Client

	// PerPage is the default page size for listings.
	PerPage int
}

// New creates a resource client.
func New(cfg Config) (*Client, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}

	return &Client{
		http:    cfg.HTTP,
		perPage: cfg.PerPage,
		logger:  logging.NewLogger("openalex"),
	}, nil
}

// listEnvelope is the OpenAlex listing response wrapper.
type listEnvelope struct {
	Meta    listMeta        `json:"meta"`
	Results []digest.Record `json:"results"`
}

type listMeta struct {
	Count   int `json:"count"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// GetResource fetches a single resource by ID from an endpoint.
// Transport failures are returned as *client.APIError.
func (c *Client) GetResource(ctx context.Context, endpoint, id string) (digest.Record, error) {
	body, err := c.http.Get(ctx, "/"+endpoint+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	var record digest.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode %s resource: %w", endpoint, err)
	}
	return record, nil
}

// ListResources fetches one page of resources from an endpoint.
func (c *Client) ListResources(ctx context.Context, endpoint string, q Query) ([]digest.Record, error) {
	if q.PerPage <= 0 {
		q.PerPage = c.perPage
	}

	body, err := c.http.Get(ctx, "/"+endpoint, q.Values())
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s listing: %w", endpoint, err)
	}
	return envelope.Results, nil
}

// TotalCount returns the number of resources matching the query filters.
// The count query requests a single result per page to minimize transfer.
// Transport failures are logged and reported as a zero count.
func (c *Client) TotalCount(ctx context.Context, endpoint string, q Query) int {
	q.Page = 0
	q.PerPage = 1

	body, err := c.http.Get(ctx, "/"+endpoint, q.Values())
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Count query failed")
		return 0
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Count response undecodable")
		return 0
	}
	return envelope.Meta.Count
}

// ListAllResources fetches every resource matching the query, strictly
// sequentially: a count query first, then pages 1..ceil(total/per_page).
// A page that fails or comes back empty stops the loop early; records
// accumulated so far are returned rather than discarded.
func (c *Client) ListAllResources(ctx context.Context, endpoint string, q Query) []digest.Record {
	if q.PerPage <= 0 {
		q.PerPage = c.perPage
	}

	total := c.TotalCount(ctx, endpoint, q)
	if total == 0 {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Str("filter", q.Filter).
			Msg("No resources match query")
		return nil
	}

	totalPages := (total + q.PerPage - 1) / q.PerPage
	c.logger.Info().
		Str("endpoint", endpoint).
		Int("total", total).
		Int("pages", totalPages).
		Msg("Fetching all pages")

	all := make([]digest.Record, 0, total)
	for page := 1; page <= totalPages; page++ {
		q.Page = page

		results, err := c.ListResources(ctx, endpoint, q)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("endpoint", endpoint).
				Int("page", page).
				Msg("Page fetch failed - returning partial results")
			break
		}
		if len(results) == 0 {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("page", page).
				Msg("Empty page - stopping early")
			break
		}

		all = append(all, results...)
		c.logger.Info().
			Str("endpoint", endpoint).
			Int("page", page).
			Int("pages", totalPages).
			Int("records", len(all)).
			Msg("Fetched page")
	}

	c.logger.Info().
		Str("endpoint", endpoint).
		Int("records", len(all)).
		Msg("Fetch complete")
	return all
}

// digestAll flattens a batch of work records.
func digestAll(works []digest.Record, includeAbstract bool) []digest.FlatRecord {
	flats := make([]digest.FlatRecord, 0, len(works))
	for _, work := range works {
		flats = append(flats, digest.Digest(work, includeAbstract))
	}
	return flats
}
