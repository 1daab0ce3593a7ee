package consumedthing

import "io"

// InteractionInput is a tagged variant of either a structured Value or a
// byte-producing Stream. writeProperty/writeMultipleProperties only
// accept the Value variant; Stream inputs fail with UnsupportedInput.
type InteractionInput struct {
	isStream bool
	value    interface{}
	stream   io.Reader
}

// NewValueInput wraps a structured value (decoded JSON-like tree, string,
// number, bool, map, slice, ...) as an InteractionInput.
func NewValueInput(value interface{}) InteractionInput {
	return InteractionInput{value: value}
}

// NewStreamInput wraps a byte-producing reader as an InteractionInput.
func NewStreamInput(stream io.Reader) InteractionInput {
	return InteractionInput{isStream: true, stream: stream}
}

// IsStream reports whether this input carries a Stream rather than a Value.
func (i InteractionInput) IsStream() bool { return i.isStream }

// Value returns the wrapped structured value. Only meaningful when
// IsStream() is false.
func (i InteractionInput) Value() interface{} { return i.value }

// Stream returns the wrapped reader. Only meaningful when IsStream() is true.
func (i InteractionInput) Stream() io.Reader { return i.stream }
