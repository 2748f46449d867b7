package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	t.Parallel()

	opts, err := Options{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	opts, err = Options{Size: 500, Level: "h"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Options{Size: 500, Level: LevelHigh}, opts)

	_, err = Options{Size: 199}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Options{Size: 501}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Options{Level: "X"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
