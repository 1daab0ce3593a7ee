package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wostzone/wot-consume/pkg/protocol"
)

// frameStream is a ContentStream reading one gorilla/websocket connection.
// ReadMessage has no context parameter, so Next races it against ctx.Done
// in a goroutine; a cancellation abandons the read and closes the
// connection, unblocking the stray goroutine.
type frameStream struct {
	conn      *websocket.Conn
	mediaType string

	mu     sync.Mutex
	closed bool
}

func newFrameStream(conn *websocket.Conn, mediaType string) *frameStream {
	return &frameStream{conn: conn, mediaType: mediaType}
}

type readResult struct {
	data []byte
	err  error
}

func (s *frameStream) Next(ctx context.Context) (protocol.Content, error) {
	resultCh := make(chan readResult, 1)
	go func() {
		_, data, err := s.conn.ReadMessage()
		resultCh <- readResult{data: data, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return protocol.Content{}, &protocol.ClientError{Scheme: Scheme, Cause: res.err}
		}
		return protocol.Content{MediaType: s.mediaType, Body: res.data}, nil
	case <-ctx.Done():
		_ = s.Close()
		return protocol.Content{}, ctx.Err()
	}
}

func (s *frameStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
