package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/httpclient/httpclienttest"
	"github.com/r9s-ai/sdmxrest/pkg/metrics"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
	"github.com/r9s-ai/sdmxrest/pkg/requestid"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

var exrQuery = qb.DataQuery{
	Context:    qb.DataContextDataflow,
	AgencyID:   qb.ID("ECB"),
	ResourceID: qb.ID("EXR"),
	Key:        qb.ID("M.USD.EUR"),
}

func TestRegistryClientDataOverHTTP(t *testing.T) {
	var gotPath, gotQuery, gotAccept, gotRID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		gotRID = r.Header.Get("X-Correlation-Id")
		w.Header().Set("Content-Type", "application/vnd.sdmx.data+json;version=2.0.0")
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/rest/", apiversion.V2_0_0, WithRequestIDHeader("X-Correlation-Id"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := requestid.NewContext(context.Background(), "rid-1")
	resp, err := c.Data(ctx, exrQuery, qb.DataSDMXJSON)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if gotPath != "/rest/data/dataflow/ECB/EXR/*/M.USD.EUR" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotQuery != "attributes=dsd&measures=all&includeHistory=false" {
		t.Fatalf("query=%q", gotQuery)
	}
	if gotAccept != "application/vnd.sdmx.data+json;version=2.0.0" {
		t.Fatalf("accept=%q", gotAccept)
	}
	if gotRID != "rid-1" || resp.RequestID != "rid-1" {
		t.Fatalf("request id header=%q response=%q", gotRID, resp.RequestID)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != `{"data":{}}` {
		t.Fatalf("resp=%+v", resp)
	}
	if !strings.HasPrefix(resp.ContentType, "application/vnd.sdmx.data+json") {
		t.Fatalf("content type=%q", resp.ContentType)
	}
	if resp.URL != srv.URL+"/rest/data/dataflow/ECB/EXR/*/M.USD.EUR?attributes=dsd&measures=all&includeHistory=false" {
		t.Fatalf("url=%q", resp.URL)
	}
}

func TestRegistryClientStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		kind      sdmxerr.Kind
		retriable bool
	}{
		{status: http.StatusBadRequest, kind: sdmxerr.KindClientError},
		{status: http.StatusUnauthorized, kind: sdmxerr.KindClientError},
		{status: http.StatusNotAcceptable, kind: sdmxerr.KindClientError},
		{status: http.StatusRequestURITooLong, kind: sdmxerr.KindClientError},
		{status: http.StatusNotFound, kind: sdmxerr.KindNotFound},
		{status: http.StatusUnprocessableEntity, kind: sdmxerr.KindInvalid},
		{status: http.StatusInternalServerError, kind: sdmxerr.KindInternal},
		{status: http.StatusNotImplemented, kind: sdmxerr.KindInternal},
		{status: http.StatusServiceUnavailable, kind: sdmxerr.KindUnavailable, retriable: true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewStringResponse(tt.status, "  No results  "))
			c, err := New("https://registry.example.org/rest", apiversion.V2_1_0, WithHTTPClient(doer))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = c.Get(context.Background(), qb.StructureQuery{Type: qb.Codelist}, "")
			kind, ok := sdmxerr.KindOf(err)
			if !ok || kind != tt.kind {
				t.Fatalf("err=%v kind=%v", err, kind)
			}
			if sdmxerr.IsRetriable(err) != tt.retriable {
				t.Fatalf("retriable=%v", sdmxerr.IsRetriable(err))
			}
			var se *sdmxerr.Error
			if !errors.As(err, &se) || se.Status != tt.status {
				t.Fatalf("status not recorded: %v", err)
			}
			if !strings.Contains(err.Error(), "No results") {
				t.Fatalf("body not surfaced: %v", err)
			}
			if reqs := doer.Requests(); len(reqs) != 1 || reqs[0].Header.Get("Accept") != "" {
				t.Fatalf("requests=%v", reqs)
			}
		})
	}
}

func TestRegistryClientTransportFailureIsUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	doer := httpclienttest.NewFakeDoerWithReplies(t, httpclienttest.Reply{Err: cause})
	m := metrics.New(nil)
	c, err := New("http://localhost:9", apiversion.V1_5_0, WithHTTPClient(doer), WithMetrics(m))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Get(context.Background(), qb.DataQuery{}, "")
	if !sdmxerr.IsRetriable(err) || !errors.Is(err, cause) {
		t.Fatalf("err=%v", err)
	}
	if got := testutil.ToFloat64(m.RegistryRequestsTotal.WithLabelValues("data", "1.5.0", "Unavailable")); got != 1 {
		t.Fatalf("unavailable count=%v", got)
	}
}

func TestRegistryClientRejectsBeforeSending(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)
	m := metrics.New(nil)
	c, err := New("https://registry.example.org", apiversion.V2_0_0, WithHTTPClient(doer), WithMetrics(m))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.Get(context.Background(), qb.DataQuery{Limit: qb.Int(800)}, ""); !sdmxerr.IsInvalid(err) {
		t.Fatalf("limit at V2.0.0: err=%v", err)
	}
	if _, err := c.Get(context.Background(), qb.RegistrationByIDQuery{ID: qb.IDs("A", "B")}, ""); !sdmxerr.IsClientError(err) {
		t.Fatalf("multiple registration ids: err=%v", err)
	}
	if _, err := c.Registration(context.Background(), qb.SchemaQuery{}, qb.RegistrationSDMXJSON); !sdmxerr.IsClientError(err) {
		t.Fatalf("format mismatch: err=%v", err)
	}
	if _, err := c.GetFormat(context.Background(), qb.DataQuery{}, "sdmx-yaml"); !sdmxerr.IsClientError(err) {
		t.Fatalf("unknown format: err=%v", err)
	}
	if n := len(doer.Requests()); n != 0 {
		t.Fatalf("%d requests were sent", n)
	}
	if got := testutil.ToFloat64(m.BuildErrorsTotal.WithLabelValues("data", "Invalid")); got != 1 {
		t.Fatalf("build errors=%v", got)
	}
}

func TestRegistryClientTypedHelpersSelectAccept(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.NewTypedResponse(http.StatusOK, "application/xml", "<Structure/>"),
		httpclienttest.NewStringResponse(http.StatusOK, "{}"),
		httpclienttest.NewStringResponse(http.StatusOK, "{}"),
		httpclienttest.NewStringResponse(http.StatusOK, "<xs:schema/>"),
		httpclienttest.NewStringResponse(http.StatusOK, "{}"),
	)
	c, err := New("https://registry.example.org/rest", apiversion.V2_1_0, WithHTTPClient(doer), WithUserAgent("sdmxctl-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	resp, err := c.Structure(ctx, qb.StructureQuery{Type: qb.Dataflow, AgencyID: qb.ID("BIS")}, qb.StructureSDMXML30)
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if resp.ContentType != "application/xml" {
		t.Fatalf("content type=%q", resp.ContentType)
	}
	if _, err := c.Availability(ctx, qb.AvailabilityQuery{ResourceID: qb.ID("CBS")}, ""); err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if _, err := c.RefMeta(ctx, qb.RefMetaByMetadataflowQuery{AgencyID: qb.ID("BIS")}, qb.RefMetaSDMXJSON); err != nil {
		t.Fatalf("RefMeta: %v", err)
	}
	if _, err := c.Schema(ctx, qb.SchemaQuery{Context: qb.SchemaDataflow, AgencyID: qb.ID("BIS"), ResourceID: qb.ID("CBS")}, ""); err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if _, err := c.Registration(ctx, qb.RegistrationByProviderQuery{}, qb.RegistrationSDMXJSON); err != nil {
		t.Fatalf("Registration: %v", err)
	}

	reqs := doer.Requests()
	wantAccept := []string{
		"application/vnd.sdmx.structure+xml;version=3.0.0",
		"",
		"application/vnd.sdmx.metadata+json;version=2.0.0",
		"",
		"application/vnd.sdmx.registry+json;version=2.0.0",
	}
	for i, r := range reqs {
		if r.Header.Get("User-Agent") != "sdmxctl-test" {
			t.Fatalf("request %d user agent=%q", i, r.Header.Get("User-Agent"))
		}
		if len(r.Header.Get(requestid.DefaultHeaderKey)) != 28 {
			t.Fatalf("request %d has no generated request id", i)
		}
		if wantAccept[i] != "" && r.Header.Get("Accept") != wantAccept[i] {
			t.Fatalf("request %d accept=%q want %q", i, r.Header.Get("Accept"), wantAccept[i])
		}
		if r.Header.Get("Accept") == "" {
			t.Fatalf("request %d has no Accept header", i)
		}
	}
	if got := reqs[0].URL.String(); got != "https://registry.example.org/rest/structure/dataflow/BIS/*/~?detail=full&references=none" {
		t.Fatalf("structure url=%q", got)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New("https://registry.example.org", apiversion.ApiVersion{}); !sdmxerr.IsClientError(err) {
		t.Fatalf("zero version: err=%v", err)
	}
	for _, base := range []string{"", "  ", "ftp://registry.example.org", "registry.example.org", "http://"} {
		if _, err := New(base, apiversion.V2_0_0); !sdmxerr.IsClientError(err) {
			t.Fatalf("New(%q) err=%v", base, err)
		}
	}
	c, err := New(" https://registry.example.org/rest/ ", apiversion.V2_0_0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "https://registry.example.org/rest" || c.Version() != apiversion.V2_0_0 {
		t.Fatalf("base=%q version=%s", c.BaseURL(), c.Version())
	}
	u, err := c.URL(qb.DataQuery{}, true)
	if err != nil || u != "https://registry.example.org/rest/data" {
		t.Fatalf("URL=%q err=%v", u, err)
	}
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	c, err := New(srv.URL, apiversion.V2_0_0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Get(ctx, qb.DataQuery{}, "")
	if !sdmxerr.IsRetriable(err) || !IsCanceled(err) {
		t.Fatalf("err=%v", err)
	}
}
