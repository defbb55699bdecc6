package customHttpClient

import (
	"net/http"

	"github.com/akolanti/pdfchat/internal/config"
)

// NewClient returns a client sharing one pooled transport, so the llm and embedding
// providers reuse connections to the same hosts.
func NewClient() *http.Client {
	return &http.Client{
		Transport: sharedTransport,
		Timeout:   config.LLMRequestTimeout,
	}
}

var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
	ForceAttemptHTTP2:   true,
}
