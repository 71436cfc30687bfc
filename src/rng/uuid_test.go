package rng_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lost-woods/kingdom/src/rng"
)

func TestNewRequestID_Version4FromStream(t *testing.T) {
	a, err := rng.NewRequestID(rng.NewSeededReader(5))
	require.NoError(t, err)
	b, err := rng.NewRequestID(rng.NewSeededReader(5))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same stream, same id")

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestNewRequestID_ShortStream(t *testing.T) {
	_, err := rng.NewRequestID(&scriptedReader{chunks: [][]byte{make([]byte, 4)}})
	assert.Error(t, err)
}
