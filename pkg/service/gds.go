package service

import (
	"context"

	"github.com/r9s-ai/sdmxrest/pkg/qb"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

const gdsAccept = "application/json"

// GdsClient talks to a Global Discovery Service. Its paths are not
// versioned.
type GdsClient struct {
	t *transport
}

func NewGds(baseURL string, opts ...Option) (*GdsClient, error) {
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &GdsClient{t: t}, nil
}

func (c *GdsClient) BaseURL() string { return c.t.baseURL }

func (c *GdsClient) URL(q qb.GdsQuery) (string, error) {
	path, err := q.Path()
	if err != nil {
		return "", err
	}
	return c.t.baseURL + path, nil
}

func (c *GdsClient) Get(ctx context.Context, q qb.GdsQuery) (*Response, error) {
	path, err := q.Path()
	if err != nil {
		kind, _ := sdmxerr.KindOf(err)
		c.t.metrics.RecordBuildError(q.Resource(), kind.String())
		return nil, err
	}
	return c.t.get(ctx, q.Resource(), "gds", path, gdsAccept)
}
