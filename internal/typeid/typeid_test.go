package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewElementID(t *testing.T) {
	a := NewElementID("shape")
	b := NewElementID("shape")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "shape_"))
	require.NoError(t, Validate(a, PrefixShape))

	assert.True(t, strings.HasPrefix(NewElementID("sticker"), "el_"))
}

func TestValidate(t *testing.T) {
	id := NewSessionID()
	assert.NoError(t, Validate(id, PrefixSession))
	assert.ErrorContains(t, Validate(id, PrefixAsset), "expected prefix")
	assert.Error(t, Validate("not-an-id", PrefixSession))
}
