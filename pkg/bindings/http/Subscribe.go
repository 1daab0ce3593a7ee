package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// pollInterval is how long pollStream waits between long-poll requests
// once one completes, whether it returned a new value or not.
const pollInterval = 500 * time.Millisecond

// pollStream is a ContentStream that repeatedly issues a GET against an
// observeproperty/subscribeevent form's href, treating each successful
// response as one delivered item. Plain HTTP has no server-push
// transport, so this long-poll loop is the HTTP binding's substitute
// for a real subscription.
type pollStream struct {
	client *Client
	href   string

	mu     sync.Mutex
	closed bool
}

// SubscribeResource starts a long-poll loop against r.Form.Href.
func (c *Client) SubscribeResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) (protocol.ContentStream, error) {
	return &pollStream{client: c, href: r.Form.Href}, nil
}

// UnlinkResource is a no-op for the polling binding: the stream's own
// Close is what actually stops its loop.
func (c *Client) UnlinkResource(ctx context.Context, r protocol.Resource, _ protocol.ResourceType) error {
	return nil
}

// Next blocks for one poll-request/response round trip and returns the
// response body as Content, or the ctx error if ctx ends first.
func (s *pollStream) Next(ctx context.Context) (protocol.Content, error) {
	select {
	case <-ctx.Done():
		return protocol.Content{}, ctx.Err()
	default:
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return protocol.Content{}, context.Canceled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.href, bytes.NewReader(nil))
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	if err := s.client.authorize(req); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return protocol.Content{}, &protocol.ClientError{
			Scheme: Scheme,
			Cause:  fmt.Errorf("unexpected status %d polling %s", resp.StatusCode, s.href),
		}
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: err}
	}

	select {
	case <-time.After(pollInterval):
	case <-ctx.Done():
	}

	return protocol.Content{MediaType: resp.Header.Get("Content-Type"), Body: buf.Bytes()}, nil
}

// Close marks the stream closed; an in-flight Next call still returns its
// current response rather than being interrupted mid-request.
func (s *pollStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
