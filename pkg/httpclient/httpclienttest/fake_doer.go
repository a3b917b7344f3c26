package httpclienttest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/r9s-ai/sdmxrest/pkg/httpclient"
)

// Reply is one queued outcome of FakeDoer.Do: a response, or a transport
// error when Err is set.
type Reply struct {
	Response *http.Response
	Err      error
}

// FakeDoer implements httpclient.HTTPDoer so registry calls can be tested
// without outbound HTTP requests.
type FakeDoer struct {
	t       testing.TB
	mu      sync.Mutex
	replies []Reply
	reqs    []*http.Request
}

// NewFakeDoer returns a FakeDoer that answers each Do call with the next
// response, in order.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	replies := make([]Reply, 0, len(responses))
	for _, r := range responses {
		replies = append(replies, Reply{Response: r})
	}
	return &FakeDoer{t: t, replies: replies}
}

// NewFakeDoerWithReplies is NewFakeDoer for sequences that include
// transport errors.
func NewFakeDoerWithReplies(t testing.TB, replies ...Reply) *FakeDoer {
	return &FakeDoer{t: t, replies: append([]Reply(nil), replies...)}
}

// Do records the request and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if len(f.replies) == 0 {
		f.t.Fatalf("fake http client has no replies left for request %s %s", req.Method, req.URL.String())
		return nil, io.ErrUnexpectedEOF
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Response != nil && r.Response.Request == nil {
		r.Response.Request = req
	}
	return r.Response, nil
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.reqs...)
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewTypedResponse is NewStringResponse with a Content-Type header.
func NewTypedResponse(status int, contentType, body string) *http.Response {
	resp := NewStringResponse(status, body)
	resp.Header.Set("Content-Type", contentType)
	return resp
}

var _ httpclient.HTTPDoer = (*FakeDoer)(nil)
