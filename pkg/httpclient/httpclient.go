package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// HTTPDoer captures the subset of *http.Client the service facade relies on.
// Tests inject fake implementations so registry calls can be verified
// offline.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProxyConfig selects the outbound proxy of one endpoint. Empty fields fall
// back to the process environment (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
type ProxyConfig struct {
	HTTP    string
	HTTPS   string
	NoProxy string
}

func (p ProxyConfig) empty() bool {
	return strings.TrimSpace(p.HTTP) == "" && strings.TrimSpace(p.HTTPS) == "" && strings.TrimSpace(p.NoProxy) == ""
}

// ProxyFunc resolves the proxy for a request URL.
func (p ProxyConfig) ProxyFunc() func(*url.URL) (*url.URL, error) {
	if p.empty() {
		return httpproxy.FromEnvironment().ProxyFunc()
	}
	cfg := &httpproxy.Config{
		HTTPProxy:  strings.TrimSpace(p.HTTP),
		HTTPSProxy: strings.TrimSpace(p.HTTPS),
		NoProxy:    strings.TrimSpace(p.NoProxy),
	}
	return cfg.ProxyFunc()
}

// New returns an *http.Client with its own transport. A zero timeout means
// no client-side deadline; callers still bound requests with a context.
func New(timeout time.Duration, proxy ProxyConfig) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	pf := proxy.ProxyFunc()
	tr.Proxy = func(req *http.Request) (*url.URL, error) {
		return pf(req.URL)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}
}
