package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wostzone/wot-consume/pkg/codec"
)

func TestTextCodecRoundTripsString(t *testing.T) {
	c := codec.TextCodec{}
	data, err := c.Encode("hello", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	value, err := c.Decode(data, "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestTextCodecEncodesNonStringViaFormat(t *testing.T) {
	c := codec.TextCodec{}
	data, err := c.Encode(42, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}
