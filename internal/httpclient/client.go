package httpclient

import (
	"net/http"
	"time"
)

// Options holds HTTP client configuration options
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Factory creates configured HTTP clients
type Factory struct {
	defaultOptions Options
	transport      http.RoundTripper
}

// NewFactory creates a new HTTP client factory with default options
func NewFactory(defaultOptions Options) *Factory {
	if defaultOptions.Timeout == 0 {
		defaultOptions.Timeout = 60 * time.Second
	}
	if defaultOptions.UserAgent == "" {
		defaultOptions.UserAgent = "EduverseBackend/1.0"
	}

	// One pooled transport shared by every provider client.
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
	}

	return &Factory{
		defaultOptions: defaultOptions,
		transport:      transport,
	}
}

// CreateClient creates a new HTTP client with the specified options
func (f *Factory) CreateClient(options Options) *http.Client {
	if options.Timeout == 0 {
		options.Timeout = f.defaultOptions.Timeout
	}
	if options.UserAgent == "" {
		options.UserAgent = f.defaultOptions.UserAgent
	}

	return &http.Client{
		Timeout: options.Timeout,
		Transport: &userAgentTransport{
			base:      f.transport,
			userAgent: options.UserAgent,
		},
	}
}

// CreateDefaultClient creates a client with default options
func (f *Factory) CreateDefaultClient() *http.Client {
	return f.CreateClient(Options{})
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
