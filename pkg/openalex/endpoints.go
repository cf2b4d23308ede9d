package openalex

import (
	"context"

	"github.com/scholdata/openalex-client/pkg/digest"
)

// GetWork fetches a single work by ID.
func (c *Client) GetWork(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointWorks, id)
}

// GetWorkDigested fetches a single work and flattens it. Digestion applies
// only to work records; other endpoints return raw records.
func (c *Client) GetWorkDigested(ctx context.Context, id string, includeAbstract bool) (digest.FlatRecord, error) {
	work, err := c.GetWork(ctx, id)
	if err != nil {
		return nil, err
	}
	return digest.Digest(work, includeAbstract), nil
}

// ListWorks fetches a single page of works.
func (c *Client) ListWorks(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointWorks, q)
}

// ListWorksDigested fetches a single page of works and flattens each record.
func (c *Client) ListWorksDigested(ctx context.Context, q Query, includeAbstract bool) ([]digest.FlatRecord, error) {
	works, err := c.ListWorks(ctx, q)
	if err != nil {
		return nil, err
	}
	return digestAll(works, includeAbstract), nil
}

// ListAllWorks fetches every work matching the query, page by page.
func (c *Client) ListAllWorks(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointWorks, q)
}

// ListAllWorksDigested fetches every work matching the query and flattens
// each record.
func (c *Client) ListAllWorksDigested(ctx context.Context, q Query, includeAbstract bool) []digest.FlatRecord {
	return digestAll(c.ListAllWorks(ctx, q), includeAbstract)
}

// GetInstitution fetches a single institution by ID.
func (c *Client) GetInstitution(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointInstitutions, id)
}

// ListInstitutions fetches a single page of institutions.
func (c *Client) ListInstitutions(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointInstitutions, q)
}

// ListAllInstitutions fetches every institution matching the query.
func (c *Client) ListAllInstitutions(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointInstitutions, q)
}

// GetAuthor fetches a single author by ID.
func (c *Client) GetAuthor(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointAuthors, id)
}

// ListAuthors fetches a single page of authors.
func (c *Client) ListAuthors(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointAuthors, q)
}

// ListAllAuthors fetches every author matching the query.
func (c *Client) ListAllAuthors(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointAuthors, q)
}

// GetTopic fetches a single topic by ID.
func (c *Client) GetTopic(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointTopics, id)
}

// ListTopics fetches a single page of topics.
func (c *Client) ListTopics(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointTopics, q)
}

// ListAllTopics fetches every topic matching the query.
func (c *Client) ListAllTopics(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointTopics, q)
}

// GetFunder fetches a single funder by ID.
func (c *Client) GetFunder(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointFunders, id)
}

// ListFunders fetches a single page of funders.
func (c *Client) ListFunders(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointFunders, q)
}

// ListAllFunders fetches every funder matching the query.
func (c *Client) ListAllFunders(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointFunders, q)
}

// GetPublisher fetches a single publisher by ID.
func (c *Client) GetPublisher(ctx context.Context, id string) (digest.Record, error) {
	return c.GetResource(ctx, EndpointPublishers, id)
}

// ListPublishers fetches a single page of publishers.
func (c *Client) ListPublishers(ctx context.Context, q Query) ([]digest.Record, error) {
	return c.ListResources(ctx, EndpointPublishers, q)
}

// ListAllPublishers fetches every publisher matching the query.
func (c *Client) ListAllPublishers(ctx context.Context, q Query) []digest.Record {
	return c.ListAllResources(ctx, EndpointPublishers, q)
}
