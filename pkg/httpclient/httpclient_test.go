package httpclient

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestProxyConfigProxyFunc(t *testing.T) {
	p := ProxyConfig{
		HTTP:    "http://proxy.local:3128",
		HTTPS:   "http://secure-proxy.local:3128",
		NoProxy: "registry.internal",
	}
	pf := p.ProxyFunc()

	tests := []struct {
		target string
		want   string
	}{
		{target: "http://sdmx.example.org/rest/data", want: "http://proxy.local:3128"},
		{target: "https://sdmx.example.org/rest/data", want: "http://secure-proxy.local:3128"},
		{target: "https://registry.internal/rest/structure", want: ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.target)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.target, err)
		}
		got, err := pf(u)
		if err != nil {
			t.Fatalf("proxy(%s) err=%v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Fatalf("proxy(%s)=%q want %q", tt.target, gotStr, tt.want)
		}
	}
}

func TestNewSetsTimeoutAndTransport(t *testing.T) {
	c := New(3*time.Second, ProxyConfig{HTTPS: "http://proxy.local:8080"})
	if c.Timeout != 3*time.Second {
		t.Fatalf("timeout=%s", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport=%T", c.Transport)
	}
	if tr == http.DefaultTransport {
		t.Fatalf("transport must not be shared with http.DefaultTransport")
	}
	req, _ := http.NewRequest(http.MethodGet, "https://sdmx.example.org/rest/data", http.NoBody)
	got, err := tr.Proxy(req)
	if err != nil || got == nil || got.Host != "proxy.local:8080" {
		t.Fatalf("proxy=%v err=%v", got, err)
	}
}

var _ HTTPDoer = (*http.Client)(nil)
