package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := New(4) // low cost keeps the test fast

	digest, err := h.Hash("Abcd1!")
	assert.NoError(t, err)
	assert.NotEqual(t, "Abcd1!", digest)

	assert.True(t, h.Verify("Abcd1!", digest))
	assert.False(t, h.Verify("Abcd2!", digest))
}

func TestHasher_DistinctDigestsPerCall(t *testing.T) {
	h := New(4)

	first, err := h.Hash("Abcd1!")
	assert.NoError(t, err)
	second, err := h.Hash("Abcd1!")
	assert.NoError(t, err)

	// Salted hashing yields a different digest each time.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Abcd1!", first))
	assert.True(t, h.Verify("Abcd1!", second))
}

func TestNew_CostOutOfRangeFallsBack(t *testing.T) {
	h := New(99)

	digest, err := h.Hash("Abcd1!")
	assert.NoError(t, err)
	assert.True(t, h.Verify("Abcd1!", digest))
}
