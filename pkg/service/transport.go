package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/r9s-ai/sdmxrest/internal/logx"
	"github.com/r9s-ai/sdmxrest/pkg/httpclient"
	"github.com/r9s-ai/sdmxrest/pkg/metrics"
	"github.com/r9s-ai/sdmxrest/pkg/requestid"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

const (
	defaultUserAgent = "sdmxrest-go"
	maxErrorBody     = 512
)

// Response is a registry answer with a 2xx or 3xx status.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	URL         string
	RequestID   string
}

// Option configures a RegistryClient or a GdsClient.
type Option func(*transport)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c httpclient.HTTPDoer) Option {
	return func(t *transport) {
		if c != nil {
			t.http = c
		}
	}
}

func WithLogger(l *logx.Logger) Option {
	return func(t *transport) {
		if l != nil {
			t.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *transport) { t.metrics = m }
}

// WithRequestIDHeader sets the header carrying the correlation id. Empty
// selects requestid.DefaultHeaderKey.
func WithRequestIDHeader(key string) Option {
	return func(t *transport) { t.requestIDHeader = requestid.ResolveHeaderKey(key) }
}

func WithUserAgent(ua string) Option {
	return func(t *transport) {
		if v := strings.TrimSpace(ua); v != "" {
			t.userAgent = v
		}
	}
}

// transport is the HTTP half shared by both clients. It never retries.
type transport struct {
	baseURL         string
	http            httpclient.HTTPDoer
	log             *logx.Logger
	metrics         *metrics.Metrics
	requestIDHeader string
	userAgent       string
}

func newTransport(baseURL string, opts []Option) (*transport, error) {
	b, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	t := &transport{
		baseURL:         b,
		http:            http.DefaultClient,
		log:             logx.Nop(),
		requestIDHeader: requestid.DefaultHeaderKey,
		userAgent:       defaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

func normalizeBaseURL(raw string) (string, error) {
	b := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if b == "" {
		return "", sdmxerr.ClientError("Missing base URL", "a registry base URL is required").WithField("base_url")
	}
	u, err := url.Parse(b)
	if err != nil {
		return "", sdmxerr.ClientError("Invalid base URL", "%q", raw).WithField("base_url").WithCause(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", sdmxerr.ClientError("Invalid base URL", "%q must use http or https", raw).WithField("base_url")
	}
	if u.Host == "" {
		return "", sdmxerr.ClientError("Invalid base URL", "%q has no host", raw).WithField("base_url")
	}
	return b, nil
}

// get performs GET base+path. resource and version only label logs and
// metrics.
func (t *transport) get(ctx context.Context, resource, version, path, accept string) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	reqURL := t.baseURL + path
	rid := requestid.Ensure(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, sdmxerr.ClientError("Invalid request", "GET %s", reqURL).WithCause(err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set(t.requestIDHeader, rid)

	log := t.log.With("request_id", rid)
	done := t.metrics.InFlight()
	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		done()
		t.metrics.RecordRegistryRequest(resource, version, sdmxerr.KindUnavailable.String(), time.Since(start))
		log.Warn().Err(err).Str("url", reqURL).Msg("registry unreachable")
		return nil, sdmxerr.Unavailable("Registry unreachable", "GET %s", reqURL).WithCause(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	done()
	elapsed := time.Since(start)
	if err != nil {
		t.metrics.RecordRegistryRequest(resource, version, sdmxerr.KindUnavailable.String(), elapsed)
		log.Warn().Err(err).Str("url", reqURL).Int("status", resp.StatusCode).Msg("registry response truncated")
		return nil, sdmxerr.Unavailable("Registry response truncated", "GET %s", reqURL).WithCause(err)
	}

	log.Debug().
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("registry response")

	if err := statusError(resp.StatusCode, reqURL, body); err != nil {
		t.metrics.RecordRegistryRequest(resource, version, err.Kind.String(), elapsed)
		log.Warn().Err(err).Str("url", reqURL).Int("status", resp.StatusCode).Msg("registry rejected request")
		return nil, err
	}
	t.metrics.RecordRegistryRequest(resource, version, "ok", elapsed)
	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		URL:         reqURL,
		RequestID:   rid,
	}, nil
}

// statusError maps a registry status to an error kind. Statuses below 400
// are not errors.
func statusError(status int, reqURL string, body []byte) *sdmxerr.Error {
	if status < http.StatusBadRequest {
		return nil
	}
	title := fmt.Sprintf("%d %s", status, http.StatusText(status))
	desc := fmt.Sprintf("GET %s", reqURL)
	if snippet := bodySnippet(body); snippet != "" {
		desc += ": " + snippet
	}
	var e *sdmxerr.Error
	switch {
	case status == http.StatusNotFound:
		e = sdmxerr.NotFound(title, "%s", desc)
	case status == http.StatusUnprocessableEntity:
		e = sdmxerr.Invalid(title, "%s", desc)
	case status == http.StatusServiceUnavailable:
		e = sdmxerr.Unavailable(title, "%s", desc)
	case status < http.StatusInternalServerError:
		e = sdmxerr.ClientError(title, "%s", desc)
	default:
		e = sdmxerr.Internal(title, "%s", desc)
	}
	e.Status = status
	return e
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
