package ws

import (
	"crypto/tls"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// Factory builds ws Clients sharing one dialer configuration.
type Factory struct {
	TLSConfig        *tls.Config
	HandshakeTimeout time.Duration
}

// NewFactory returns a Factory. A zero handshakeTimeout uses
// websocket.DefaultDialer's.
func NewFactory(tlsConfig *tls.Config, handshakeTimeout time.Duration) *Factory {
	return &Factory{TLSConfig: tlsConfig, HandshakeTimeout: handshakeTimeout}
}

// Scheme implements protocol.ClientFactory.
func (f *Factory) Scheme() string { return Scheme }

// Init implements protocol.ClientFactory.
func (f *Factory) Init() error { return nil }

// Destroy implements protocol.ClientFactory.
func (f *Factory) Destroy() error { return nil }

// CreateClient implements protocol.ClientFactory.
func (f *Factory) CreateClient() (protocol.Client, error) {
	dialer := &websocket.Dialer{
		TLSClientConfig:  f.TLSConfig,
		HandshakeTimeout: f.HandshakeTimeout,
	}
	if dialer.HandshakeTimeout <= 0 {
		dialer.HandshakeTimeout = websocket.DefaultDialer.HandshakeTimeout
	}
	return NewClient(dialer), nil
}
