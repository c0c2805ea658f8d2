// Package notion reads building catalogs kept in Notion databases.
package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is Notion's per-integration request limit.
	DefaultRequestsPerSecond = 3.0
	// MaxPageSize is the most results Notion returns for one query.
	MaxPageSize = 100
)

// Querier runs one page of a database query.
type Querier interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Client is a throttled Querier bound to one integration token.
type Client struct {
	databases notionapi.DatabaseService
	limiter   *rate.Limiter
}

// NewClient returns a Client allowing rps queries per second. rps <= 0
// disables throttling.
func NewClient(token string, rps float64) *Client {
	return newClient(notionapi.NewClient(notionapi.Token(token)).Database, rps)
}

func newClient(databases notionapi.DatabaseService, rps float64) *Client {
	c := &Client{databases: databases}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// QueryDatabase waits for a request slot, then runs req against dbID.
func (c *Client) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "notion: wait for request slot")
		}
	}
	resp, err := c.databases.Query(ctx, notionapi.DatabaseID(dbID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query database %s", dbID)
	}
	return resp, nil
}
