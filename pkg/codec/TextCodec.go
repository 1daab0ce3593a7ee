package codec

import (
	"fmt"

	"github.com/wostzone/wot-consume/pkg/td"
)

// TextCodec encodes/decodes text/plain payloads as raw strings.
type TextCodec struct{}

// Encode converts value to its string representation.
func (TextCodec) Encode(value interface{}, _ string) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	return []byte(fmt.Sprintf("%v", value)), nil
}

// Decode returns the raw bytes as a string value.
func (TextCodec) Decode(data []byte, _ string, _ *td.DataSchema) (interface{}, error) {
	return string(data), nil
}
