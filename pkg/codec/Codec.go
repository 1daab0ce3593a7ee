// Package codec implements the process-wide Content Codec Registry that
// converts between structured values and media-typed byte payloads.
package codec

import (
	"fmt"
	"strings"

	"github.com/wostzone/wot-consume/pkg/td"
)

// Codec is a bidirectional converter between a structured value and a
// media-typed byte sequence.
type Codec interface {
	// Encode serializes value into bytes for the given canonical media type.
	Encode(value interface{}, mediaType string) ([]byte, error)
	// Decode parses bytes into a value for the given canonical media type.
	// schema is optional and used by codecs that support structured
	// validation/typed decoding (e.g. decoding objects into maps).
	Decode(data []byte, mediaType string, schema *td.DataSchema) (interface{}, error)
}

// GetMediaType strips parameters (e.g. "; charset=utf-8") from a Content-Type
// header value and lowercases it, giving the canonical form used as the
// comparison basis for declared vs. observed content types.
func GetMediaType(typeHeader string) string {
	mt := typeHeader
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = mt[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// UnsupportedMediaTypeError is returned by Encode/Decode when no codec
// matches the media type and no default codec is registered.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("no codec registered for media type '%s' and no default codec is set", e.MediaType)
}
