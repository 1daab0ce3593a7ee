package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wostzone/wot-consume/pkg/codec"
	"github.com/wostzone/wot-consume/pkg/td"
)

func TestCBORCodecRoundTripsScalar(t *testing.T) {
	c := codec.CBORCodec{}
	data, err := c.Encode("on", "application/cbor")
	require.NoError(t, err)

	value, err := c.Decode(data, "application/cbor", nil)
	require.NoError(t, err)
	assert.Equal(t, "on", value)
}

func TestCBORCodecRoundTripsObjectViaSchema(t *testing.T) {
	c := codec.CBORCodec{}
	in := map[string]interface{}{"temp": 21.5, "unit": "C"}
	data, err := c.Encode(in, "application/cbor")
	require.NoError(t, err)

	schema := &td.DataSchema{Type: td.DataTypeObject}
	value, err := c.Decode(data, "application/cbor", schema)
	require.NoError(t, err)
	assert.Equal(t, in, value)
}
