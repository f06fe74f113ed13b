package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNarrative(t *testing.T) {
	c := New(0)

	_, ok := c.Narrative("snap-1")
	assert.False(t, ok)

	c.SetNarrative("snap-1", "## Özet")
	c.SetNarrative("snap-2", "## Özet 2")

	got, ok := c.Narrative("snap-1")
	assert.True(t, ok)
	assert.Equal(t, "## Özet", got)
	assert.Equal(t, 2, c.ItemCount())

	c.Forget("snap-1")
	_, ok = c.Narrative("snap-1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.ItemCount())
}

func TestNarrativeExpires(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.SetNarrative("snap-1", "text")

	assert.Eventually(t, func() bool {
		_, ok := c.Narrative("snap-1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
