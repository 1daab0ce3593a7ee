package uritemplate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wostzone/wot-consume/pkg/uritemplate"
)

func TestExpandSimple(t *testing.T) {
	out, changed := uritemplate.Expand("http://example.com/things/{id}", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things/lamp1", out)
	assert.True(t, changed)
}

func TestExpandNoVariables(t *testing.T) {
	out, changed := uritemplate.Expand("http://example.com/things/lamp1", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things/lamp1", out)
	assert.False(t, changed)
}

func TestExpandMissingVariableLeavesExpressionEmpty(t *testing.T) {
	out, changed := uritemplate.Expand("http://example.com/{missing}/fixed", map[string]string{})
	assert.Equal(t, "http://example.com//fixed", out)
	assert.True(t, changed)
}

func TestExpandQuery(t *testing.T) {
	out, changed := uritemplate.Expand("http://example.com/things{?id,at}", map[string]string{"id": "lamp1", "at": "now"})
	assert.Equal(t, "http://example.com/things?id=lamp1&at=now", out)
	assert.True(t, changed)
}

func TestExpandQueryPartialVariables(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things{?id,at}", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things?id=lamp1", out)
}

func TestExpandAmpersand(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things?fixed=1{&id}", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things?fixed=1&id=lamp1", out)
}

func TestExpandPathSegment(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things{/id}", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things/lamp1", out)
}

func TestExpandPathParameter(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things{;id}", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things;id=lamp1", out)
}

func TestExpandPathParameterEmptyValue(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things{;flag}", map[string]string{"flag": ""})
	assert.Equal(t, "http://example.com/things;flag", out)
}

func TestExpandEscapesReservedCharacters(t *testing.T) {
	out, _ := uritemplate.Expand("http://example.com/things/{id}", map[string]string{"id": "a b/c"})
	assert.Equal(t, "http://example.com/things/a+b%2Fc", out)
}

func TestExpandUnterminatedExpressionIsLiteral(t *testing.T) {
	out, changed := uritemplate.Expand("http://example.com/things/{id", map[string]string{"id": "lamp1"})
	assert.Equal(t, "http://example.com/things/{id", out)
	assert.False(t, changed)
}
