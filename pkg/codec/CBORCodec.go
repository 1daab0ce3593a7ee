package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wostzone/wot-consume/pkg/td"
)

// CBORCodec encodes/decodes application/cbor payloads for constrained
// (CoAP-style) transports. Decoded values use the cbor library's default
// Go types: a top-level object is a map[string]interface{} only when the
// schema declares an object; otherwise maps decode as
// map[interface{}]interface{} and integers as uint64/int64, unlike the
// JSON codec's float64.
type CBORCodec struct{}

// Encode marshals value to CBOR bytes.
func (CBORCodec) Encode(value interface{}, _ string) ([]byte, error) {
	return cbor.Marshal(value)
}

// Decode unmarshals CBOR bytes, decoding a top-level object into a
// map[string]interface{} when schema says so.
func (CBORCodec) Decode(data []byte, _ string, schema *td.DataSchema) (interface{}, error) {
	if schema != nil && schema.Type == td.DataTypeObject {
		var m map[string]interface{}
		if err := cbor.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	var v interface{}
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
