package mqtt

import (
	"context"
	"sync"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// messageStream is a protocol.ContentStream fed by paho's message
// callback. Buffered so a slow consumer doesn't block the mqtt client's
// own delivery goroutine; the buffer drops the oldest item on overflow,
// since a stale property/event value is worse than none delivered on
// stall recovery.
type messageStream struct {
	mediaType string

	mu      sync.Mutex
	items   chan []byte
	closed  bool
	onClose func()
}

func newMessageStream(mediaType string) *messageStream {
	return &messageStream{mediaType: mediaType, items: make(chan []byte, 16)}
}

func (s *messageStream) push(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.items <- payload:
	default:
		select {
		case <-s.items:
		default:
		}
		select {
		case s.items <- payload:
		default:
		}
	}
}

func (s *messageStream) Next(ctx context.Context) (protocol.Content, error) {
	select {
	case payload, ok := <-s.items:
		if !ok {
			return protocol.Content{}, context.Canceled
		}
		return protocol.Content{MediaType: s.mediaType, Body: payload}, nil
	case <-ctx.Done():
		return protocol.Content{}, ctx.Err()
	}
}

func (s *messageStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	onClose := s.onClose
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}
	return nil
}
