package http

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// Factory builds HTTP Clients sharing one *tls.Config and timeout.
type Factory struct {
	TLSConfig *tls.Config
	Timeout   time.Duration
}

// NewFactory returns a Factory. A nil tlsConfig uses net/http's defaults.
func NewFactory(tlsConfig *tls.Config, timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Factory{TLSConfig: tlsConfig, Timeout: timeout}
}

// Scheme implements protocol.ClientFactory.
func (f *Factory) Scheme() string { return Scheme }

// Init implements protocol.ClientFactory.
func (f *Factory) Init() error { return nil }

// Destroy implements protocol.ClientFactory.
func (f *Factory) Destroy() error { return nil }

// CreateClient implements protocol.ClientFactory.
func (f *Factory) CreateClient() (protocol.Client, error) {
	transport := &http.Transport{TLSClientConfig: f.TLSConfig}
	return NewClient(&http.Client{Transport: transport, Timeout: f.Timeout}), nil
}
