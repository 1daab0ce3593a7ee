package protocol

import "bytes"

// Content is a protocol-agnostic payload: a media type plus its raw bytes.
// Value equality is by byte-wise body comparison and mediaType equality.
type Content struct {
	MediaType string
	Body      []byte
}

// Equal reports whether c and other carry the same mediaType and body.
func (c Content) Equal(other Content) bool {
	return c.MediaType == other.MediaType && bytes.Equal(c.Body, other.Body)
}
