// Package ws is a protocol.Client/protocol.ClientFactory binding over
// github.com/gorilla/websocket. Reads/writes/invokes have no meaningful
// WebSocket-level semantics on their own, so this binding only
// implements subscribeResource/unlinkResource over a live connection;
// readResource/writeResource/invokeResource report a ClientError
// instead of silently no-op'ing.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
)

// Scheme is the URI scheme this binding registers under.
const Scheme = "ws"

var errNotSupported = fmt.Errorf("ws binding: only subscribeResource/unlinkResource are supported")

// Client dials one gorilla/websocket connection per SubscribeResource
// call, since a TD form's href names a specific endpoint and WebSocket
// connections are not meaningfully shared across distinct resources.
type Client struct {
	dialer   *websocket.Dialer
	header   http.Header
	headerMu sync.Mutex
}

// NewClient returns a Client using dialer, or websocket.DefaultDialer when
// dialer is nil.
func NewClient(dialer *websocket.Dialer) *Client {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Client{dialer: dialer, header: http.Header{}}
}

// SetCredentials implements protocol.Client: installs an "Authorization:
// Bearer" header sent on the initial upgrade handshake of every subsequent
// Dial. Bearer credentials (or none) are the only kinds accepted; any
// other kind returns an error.
func (c *Client) SetCredentials(creds security.Credentials) error {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	switch cr := creds.(type) {
	case nil, security.NoCredentials:
		c.header = http.Header{}
	case security.BearerCredentials:
		c.header = http.Header{"Authorization": []string{"Bearer " + cr.Token}}
	default:
		return fmt.Errorf("ws binding: unsupported credentials kind %q", creds.Kind())
	}
	return nil
}

// Start implements protocol.Client. Connections are dialed lazily, one
// per SubscribeResource call.
func (c *Client) Start(ctx context.Context) error { return nil }

// Stop implements protocol.Client.
func (c *Client) Stop(ctx context.Context) error { return nil }

func (c *Client) ReadResource(ctx context.Context, r protocol.Resource) (protocol.Content, error) {
	return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: errNotSupported}
}

func (c *Client) WriteResource(ctx context.Context, r protocol.Resource, content protocol.Content) error {
	return &protocol.ClientError{Scheme: Scheme, Cause: errNotSupported}
}

func (c *Client) InvokeResource(ctx context.Context, r protocol.Resource, content *protocol.Content) (protocol.Content, error) {
	return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: errNotSupported}
}

// SubscribeResource dials r.Form.Href and returns a ContentStream fed by
// every inbound frame.
func (c *Client) SubscribeResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) (protocol.ContentStream, error) {
	c.headerMu.Lock()
	header := c.header.Clone()
	c.headerMu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, r.Form.Href, header)
	if err != nil {
		return nil, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	return newFrameStream(conn, r.Form.EffectiveContentType()), nil
}

// UnlinkResource is a no-op: the Client keeps no per-Resource state, and
// the connection opened by SubscribeResource is closed only by the
// returned stream's own Close.
func (c *Client) UnlinkResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) error {
	return nil
}
