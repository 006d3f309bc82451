package chatsy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_SchemaAndParse(t *testing.T) {
	type Args struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)

	schema := ext.Schema()
	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "age")

	args, err := ext.ParseAndValidate([]byte(`{"name":"Ada","age":36}`))
	require.NoError(t, err)
	assert.Equal(t, Args{Name: "Ada", Age: 36}, args)
}

func TestExtractor_SchemaCopyIsShallow(t *testing.T) {
	type Args struct {
		Name string `json:"name"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	s1 := ext.Schema()
	s1["type"] = "changed"
	s2 := ext.Schema()
	assert.Equal(t, "object", s2["type"])
}

func TestExtractor_ValidationFailure(t *testing.T) {
	type Args struct {
		Age int `json:"age"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"age":"old"}`))
	require.Error(t, err)
	assert.True(t, IsInvalidArgs(err))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExtractor_ParseError(t *testing.T) {
	type Args struct {
		Age int `json:"age"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`age=1`))
	require.Error(t, err)
	assert.True(t, IsInvalidArgs(err))
	assert.Contains(t, err.Error(), "json parse error")
}

func TestExtractor_Strict(t *testing.T) {
	type Args struct {
		A int `json:"a"`
	}
	ext, err := NewExtractor[Args](true)
	require.NoError(t, err)
	schema := ext.Schema()
	assert.Equal(t, false, schema["additionalProperties"])

	_, err = ext.ParseAndValidate([]byte(`{"a":1,"extra":2}`))
	require.Error(t, err)
	assert.True(t, IsInvalidArgs(err))
}

// ptrValidated implements Validatable with a pointer receiver.
type ptrValidated struct {
	N int `json:"n"`
}

func (p *ptrValidated) Validate() error {
	if p.N < 0 {
		return errors.New("n must be non-negative")
	}
	return nil
}

func TestExtractor_PointerReceiverValidatable(t *testing.T) {
	ext, err := NewExtractor[ptrValidated](false)
	require.NoError(t, err)

	args, err := ext.ParseAndValidate([]byte(`{"n":3}`))
	require.NoError(t, err)
	assert.Equal(t, 3, args.N)

	_, err = ext.ParseAndValidate([]byte(`{"n":-1}`))
	require.Error(t, err)
	assert.True(t, IsInvalidArgs(err))
	assert.ErrorIs(t, err, ErrValidation)
}
