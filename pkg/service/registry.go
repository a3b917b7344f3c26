// Package service sends query-builder requests to an SDMX-REST registry.
//
// The clients are deliberately thin: they render a descriptor at a fixed API
// version, select an Accept header from the format tables, perform one GET
// and map the status to an sdmxerr kind. They do not parse, cache or retry.
package service

import (
	"context"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// RegistryClient talks to one registry at one API version. It is safe for
// concurrent use when its HTTPDoer is.
type RegistryClient struct {
	t       *transport
	version apiversion.ApiVersion
}

func New(baseURL string, version apiversion.ApiVersion, opts ...Option) (*RegistryClient, error) {
	if version.IsZero() {
		return nil, sdmxerr.ClientError("Missing API version", "an SDMX-REST version is required").WithField("api_version")
	}
	t, err := newTransport(baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &RegistryClient{t: t, version: version}, nil
}

func (c *RegistryClient) Version() apiversion.ApiVersion { return c.version }
func (c *RegistryClient) BaseURL() string                { return c.t.baseURL }

// URL renders q against the client's version and base URL without sending
// anything.
func (c *RegistryClient) URL(q qb.Query, short bool) (string, error) {
	path, err := q.URL(c.version, short)
	if err != nil {
		return "", err
	}
	return c.t.baseURL + path, nil
}

// Get renders q in its full form and fetches it. An empty accept sends no
// Accept header.
func (c *RegistryClient) Get(ctx context.Context, q qb.Query, accept string) (*Response, error) {
	path, err := q.URL(c.version, false)
	if err != nil {
		c.recordBuildError(q.Resource(), err)
		return nil, err
	}
	return c.t.get(ctx, q.Resource(), c.version.Number(), path, accept)
}

// GetFormat is Get with the Accept header of a named representation of the
// query's family; an empty name selects the family default.
func (c *RegistryClient) GetFormat(ctx context.Context, q qb.Query, format string) (*Response, error) {
	accept, err := qb.AcceptFor(q.Resource(), format, c.version)
	if err != nil {
		c.recordBuildError(q.Resource(), err)
		return nil, err
	}
	return c.Get(ctx, q, accept)
}

func (c *RegistryClient) Structure(ctx context.Context, q qb.StructureQuery, f qb.StructureFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

func (c *RegistryClient) Data(ctx context.Context, q qb.DataQuery, f qb.DataFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

func (c *RegistryClient) Availability(ctx context.Context, q qb.AvailabilityQuery, f qb.AvailabilityFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

func (c *RegistryClient) Schema(ctx context.Context, q qb.SchemaQuery, f qb.SchemaFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

// RefMeta accepts any of the three reference metadata descriptors.
func (c *RegistryClient) RefMeta(ctx context.Context, q qb.Query, f qb.RefMetaFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

// Registration accepts any of the three registration descriptors.
func (c *RegistryClient) Registration(ctx context.Context, q qb.Query, f qb.RegistrationFormat) (*Response, error) {
	return c.typed(ctx, q, f)
}

func (c *RegistryClient) typed(ctx context.Context, q qb.Query, f qb.Format) (*Response, error) {
	if q.Resource() != f.Family() {
		err := sdmxerr.ClientError("Format mismatch", "a %s format cannot be used for a %s query", f.Family(), q.Resource()).WithField("format")
		c.recordBuildError(q.Resource(), err)
		return nil, err
	}
	return c.GetFormat(ctx, q, f.Name())
}

func (c *RegistryClient) recordBuildError(resource string, err error) {
	kind, ok := sdmxerr.KindOf(err)
	if !ok {
		kind = sdmxerr.KindInternal
	}
	c.t.metrics.RecordBuildError(resource, kind.String())
	c.t.log.Debug().Err(err).Str("resource", resource).Str("api_version", c.version.String()).Msg("query rejected")
}
