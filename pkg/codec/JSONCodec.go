package codec

import (
	"encoding/json"

	"github.com/wostzone/wot-consume/pkg/td"
)

// JSONCodec encodes/decodes application/json payloads. This is the codec
// registered as the registry default, matching the TD default form
// content type of application/json.
type JSONCodec struct{}

// Encode marshals value to JSON bytes.
func (JSONCodec) Encode(value interface{}, _ string) ([]byte, error) {
	return json.Marshal(value)
}

// Decode unmarshals JSON bytes. When schema describes an object, the result
// is decoded into a map[string]interface{} so callers get predictable field
// access; otherwise native JSON types are used (string, float64, bool,
// []interface{}, nil).
func (JSONCodec) Decode(data []byte, _ string, schema *td.DataSchema) (interface{}, error) {
	if schema != nil && schema.Type == td.DataTypeObject {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
