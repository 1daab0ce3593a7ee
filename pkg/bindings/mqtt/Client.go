package mqtt

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
)

// Client is a protocol.Client backed by a single paho connection. A
// Resource's Form.Href is used directly as the MQTT topic (or topic
// prefix, for readResource/invokeResource's correlated request/response
// exchange) — the TD author is expected to have already resolved any
// "{thingID}"/"{name}" placeholders via the dispatch layer's URI template
// expansion before the form reaches here.
type Client struct {
	opts        *paho.ClientOptions
	readTimeout time.Duration
	conn        paho.Client
}

// SetCredentials implements protocol.Client. Must be called before Start.
func (c *Client) SetCredentials(creds security.Credentials) error {
	return applyCredentials(c.opts, creds)
}

// Start implements protocol.Client: dials the broker.
func (c *Client) Start(ctx context.Context) error {
	c.conn = paho.NewClient(c.opts)
	token := c.conn.Connect()
	return waitToken(ctx, token)
}

// Stop implements protocol.Client: disconnects cleanly.
func (c *Client) Stop(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	c.conn.Disconnect(250)
	return nil
}

// ReadResource subscribes to r.Form.Href+"/resp/<id>" for a fresh
// correlation ID, publishes an empty request to the matching "/req/<id>"
// topic, and waits for the first message or readTimeout, whichever comes
// first.
func (c *Client) ReadResource(ctx context.Context, r protocol.Resource) (protocol.Content, error) {
	corrID, err := newCorrelationID()
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	respTopic := r.Form.Href + "/resp/" + corrID
	reqTopic := r.Form.Href + "/req/" + corrID

	resultCh := make(chan []byte, 1)
	subToken := c.conn.Subscribe(respTopic, 1, func(_ paho.Client, msg paho.Message) {
		select {
		case resultCh <- msg.Payload():
		default:
		}
	})
	if err := waitToken(ctx, subToken); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	defer c.conn.Unsubscribe(respTopic)

	pubToken := c.conn.Publish(reqTopic, 1, false, nil)
	if err := waitToken(ctx, pubToken); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	timeout := c.readTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	select {
	case body := <-resultCh:
		return protocol.Content{MediaType: r.Form.EffectiveContentType(), Body: body}, nil
	case <-ctx.Done():
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: ctx.Err()}
	case <-time.After(timeout):
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: fmt.Errorf("read timed out after %s", timeout)}
	}
}

// WriteResource publishes content directly to r.Form.Href.
func (c *Client) WriteResource(ctx context.Context, r protocol.Resource, content protocol.Content) error {
	token := c.conn.Publish(r.Form.Href, 1, false, content.Body)
	if err := waitToken(ctx, token); err != nil {
		return &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	return nil
}

// InvokeResource publishes content (or an empty body when nil) to
// r.Form.Href and, when the form declares a response content type, waits
// on a correlated response topic the same way ReadResource does.
func (c *Client) InvokeResource(ctx context.Context, r protocol.Resource, content *protocol.Content) (protocol.Content, error) {
	var body []byte
	if content != nil {
		body = content.Body
	}

	if r.Form.Response == nil {
		token := c.conn.Publish(r.Form.Href, 1, false, body)
		if err := waitToken(ctx, token); err != nil {
			return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
		}
		return protocol.Content{}, nil
	}

	corrID, err := newCorrelationID()
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	respTopic := r.Form.Href + "/resp/" + corrID
	reqTopic := r.Form.Href + "/req/" + corrID

	resultCh := make(chan []byte, 1)
	subToken := c.conn.Subscribe(respTopic, 1, func(_ paho.Client, msg paho.Message) {
		select {
		case resultCh <- msg.Payload():
		default:
		}
	})
	if err := waitToken(ctx, subToken); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	defer c.conn.Unsubscribe(respTopic)

	pubToken := c.conn.Publish(reqTopic, 1, false, body)
	if err := waitToken(ctx, pubToken); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	timeout := c.readTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	select {
	case respBody := <-resultCh:
		return protocol.Content{MediaType: r.Form.Response.ContentType, Body: respBody}, nil
	case <-ctx.Done():
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: ctx.Err()}
	case <-time.After(timeout):
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: fmt.Errorf("invoke timed out after %s", timeout)}
	}
}

// SubscribeResource subscribes to r.Form.Href and returns a channel-backed
// ContentStream fed by every message paho delivers on it.
func (c *Client) SubscribeResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) (protocol.ContentStream, error) {
	stream := newMessageStream(r.Form.EffectiveContentType())
	token := c.conn.Subscribe(r.Form.Href, 1, func(_ paho.Client, msg paho.Message) {
		stream.push(msg.Payload())
	})
	if err := waitToken(ctx, token); err != nil {
		return nil, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	stream.onClose = func() { c.conn.Unsubscribe(r.Form.Href) }
	return stream, nil
}

// UnlinkResource unsubscribes from r.Form.Href.
func (c *Client) UnlinkResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) error {
	token := c.conn.Unsubscribe(r.Form.Href)
	if err := waitToken(ctx, token); err != nil {
		return &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	return nil
}

func waitToken(ctx context.Context, token paho.Token) error {
	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()
	select {
	case <-done:
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newCorrelationID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
