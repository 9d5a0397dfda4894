package codectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_CachesAndReuses(t *testing.T) {
	p := NewParser(2, nil)

	h := p.Parse("(__prefix__)")
	require.NotNil(t, h)
	assert.Same(t, h, p.Parse("(__prefix__)"))
	assert.Same(t, h, p.Parse(Same))
	assert.Equal(t, 1, p.Len())
}

func TestParser_MalformedIsNoContext(t *testing.T) {
	p := NewParser(0, nil)

	assert.Nil(t, p.Parse("(let [__prefix__"))
	assert.Nil(t, p.Parse(Same))
	assert.Nil(t, p.Parse(""))
}

func TestParser_Eviction(t *testing.T) {
	p := NewParser(1, nil)
	p.Parse("(a __prefix__)")
	p.Parse("(b __prefix__)")
	assert.Equal(t, 1, p.Len())

	h := p.Parse(Same)
	require.NotNil(t, h)
	assert.Equal(t, "b", h.Head)
}
