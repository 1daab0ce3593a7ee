package codec

import (
	"sync"

	"github.com/wostzone/wot-consume/pkg/td"
)

// Registry is the process-wide mapping of canonical media type to Codec.
// Registration ("addCodec") is expected to be rare (typically once at
// process start per media type) and is guarded by a write-rare RWMutex.
type Registry struct {
	mu           sync.RWMutex
	codecs       map[string]Codec
	defaultType  string
	hasDefault   bool
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
	}
}

// AddCodec registers codec for mediaType (already expected to be canonical,
// i.e. lowercased and parameter-free). If makeDefault is true, this codec
// becomes the fallback used for unknown/missing media types; the most
// recent registration with makeDefault=true wins.
func (r *Registry) AddCodec(mediaType string, codec Codec, makeDefault bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mediaType = GetMediaType(mediaType)
	r.codecs[mediaType] = codec
	if makeDefault {
		r.defaultType = mediaType
		r.hasDefault = true
	}
}

func (r *Registry) lookup(mediaType string) (Codec, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt := GetMediaType(mediaType)
	if c, found := r.codecs[mt]; found {
		return c, mt, true
	}
	if r.hasDefault {
		return r.codecs[r.defaultType], r.defaultType, true
	}
	return nil, mt, false
}

// Encode serializes value to bytes under mediaType, falling back to the
// default codec when mediaType is unknown or empty. Fails with
// UnsupportedMediaTypeError if no codec matches and no default is set.
func (r *Registry) Encode(value interface{}, mediaType string) ([]byte, error) {
	c, canonical, found := r.lookup(mediaType)
	if !found {
		return nil, &UnsupportedMediaTypeError{MediaType: mediaType}
	}
	return c.Encode(value, canonical)
}

// Decode parses bytes into a value under mediaType, using schema for
// structured decoding where the codec supports it.
func (r *Registry) Decode(data []byte, mediaType string, schema *td.DataSchema) (interface{}, error) {
	c, canonical, found := r.lookup(mediaType)
	if !found {
		return nil, &UnsupportedMediaTypeError{MediaType: mediaType}
	}
	return c.Decode(data, canonical, schema)
}
