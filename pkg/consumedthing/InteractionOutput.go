package consumedthing

import (
	"sync"

	"github.com/wostzone/wot-consume/pkg/codec"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/td"
)

// InteractionOutput lazily wraps one Content plus its data schema.
// Value() decodes through the Codec Registry on first call and caches
// the result; ArrayBuffer() returns the raw byte body and is orthogonal
// to Value() — either can be called any number of times.
type InteractionOutput struct {
	content protocol.Content
	schema  *td.DataSchema
	codecs  *codec.Registry

	mu        sync.Mutex
	decoded   bool
	value     interface{}
	decodeErr error
	dataUsed  bool
}

// NewInteractionOutput wraps content for consumption against schema,
// decoding through codecs on demand. schema may be nil when the affordance
// carries no data schema (e.g. an action with no output).
func NewInteractionOutput(content protocol.Content, schema *td.DataSchema, codecs *codec.Registry) *InteractionOutput {
	return &InteractionOutput{content: content, schema: schema, codecs: codecs}
}

// Value decodes the wrapped Content's body through the Codec Registry.
// The first call materializes and caches the result (and any decode
// error); subsequent calls return the cached pair without decoding again.
func (o *InteractionOutput) Value() (interface{}, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.decoded {
		o.value, o.decodeErr = o.codecs.Decode(o.content.Body, o.content.MediaType, o.schema)
		o.decoded = true
		o.dataUsed = true
	}
	return o.value, o.decodeErr
}

// ArrayBuffer returns the raw byte body of the wrapped Content.
func (o *InteractionOutput) ArrayBuffer() []byte {
	return o.content.Body
}

// DataUsed reports whether Value() has been called at least once.
func (o *InteractionOutput) DataUsed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dataUsed
}

// ContentType returns the canonical media type of the wrapped Content.
func (o *InteractionOutput) ContentType() string {
	return codec.GetMediaType(o.content.MediaType)
}
