package consumedthing_test

import (
	"context"
	"errors"
	"sync"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
)

// stubStream is a ContentStream backed by a fixed slice of items, optionally
// followed by a terminal error. Close is idempotent and cancels delivery.
type stubStream struct {
	mu     sync.Mutex
	items  []protocol.Content
	endErr error
	closed bool
}

func (s *stubStream) Next(ctx context.Context) (protocol.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return protocol.Content{}, context.Canceled
	}
	select {
	case <-ctx.Done():
		return protocol.Content{}, ctx.Err()
	default:
	}
	if len(s.items) > 0 {
		item := s.items[0]
		s.items = s.items[1:]
		return item, nil
	}
	if s.endErr != nil {
		err := s.endErr
		s.endErr = nil
		return protocol.Content{}, err
	}
	return protocol.Content{}, errors.New("stubStream: exhausted with no terminal error set")
}

func (s *stubStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// stubClient is a protocol.Client whose per-resource behavior is supplied
// by the test via function fields.
type stubClient struct {
	mu sync.Mutex

	ReadFn      func(protocol.Resource) (protocol.Content, error)
	WriteFn     func(protocol.Resource, protocol.Content) error
	InvokeFn    func(protocol.Resource, *protocol.Content) (protocol.Content, error)
	SubscribeFn func(protocol.Resource, protocol.ResourceType) (protocol.ContentStream, error)

	unlinkCount int
	unlinked    []protocol.Resource
}

func (c *stubClient) ReadResource(_ context.Context, r protocol.Resource) (protocol.Content, error) {
	if c.ReadFn != nil {
		return c.ReadFn(r)
	}
	return protocol.Content{}, nil
}

func (c *stubClient) WriteResource(_ context.Context, r protocol.Resource, content protocol.Content) error {
	if c.WriteFn != nil {
		return c.WriteFn(r, content)
	}
	return nil
}

func (c *stubClient) InvokeResource(_ context.Context, r protocol.Resource, content *protocol.Content) (protocol.Content, error) {
	if c.InvokeFn != nil {
		return c.InvokeFn(r, content)
	}
	return protocol.Content{}, nil
}

func (c *stubClient) SubscribeResource(_ context.Context, r protocol.Resource, rt protocol.ResourceType) (protocol.ContentStream, error) {
	if c.SubscribeFn != nil {
		return c.SubscribeFn(r, rt)
	}
	return &stubStream{}, nil
}

func (c *stubClient) UnlinkResource(_ context.Context, r protocol.Resource, _ protocol.ResourceType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unlinkCount++
	c.unlinked = append(c.unlinked, r)
	return nil
}

func (c *stubClient) UnlinkCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlinkCount
}

func (c *stubClient) SetCredentials(security.Credentials) error { return nil }
func (c *stubClient) Start(context.Context) error               { return nil }
func (c *stubClient) Stop(context.Context) error                { return nil }

// stubFactory always returns the same pre-built client.
type stubFactory struct {
	scheme  string
	client  *stubClient
	created int
}

func (f *stubFactory) Scheme() string { return f.scheme }
func (f *stubFactory) CreateClient() (protocol.Client, error) {
	f.created++
	return f.client, nil
}
func (f *stubFactory) Init() error    { return nil }
func (f *stubFactory) Destroy() error { return nil }
