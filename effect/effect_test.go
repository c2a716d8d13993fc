package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwing(t *testing.T) {
	t.Parallel()

	easing, err := Easing(DefaultEasing)
	require.NoError(t, err)

	testCases := []struct {
		beat     int64
		phase    float64
		expected float64
	}{
		{0, 0.5, 0},
		{1, 0, -1},
		{1, 0.5, 0},
		{1, 1, 1},
		{2, 0, 1},
		{2, 1, -1},
		{3, 0, -1},
		{1, -0.2, -1},
		{1, 1.4, 1},
	}

	for _, testCase := range testCases {
		assert.InDelta(t, testCase.expected, Swing(testCase.beat, testCase.phase, easing), 1e-9, "beat %d phase %.2f", testCase.beat, testCase.phase)
	}
}

func TestEasing(t *testing.T) {
	t.Parallel()

	for _, name := range Easings() {
		fn, err := Easing(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0.0, fn(0), 1e-9, name)
		assert.InDelta(t, 1.0, fn(1), 1e-9, name)
	}

	_, err := Easing("bounce-forever")
	require.ErrorIs(t, err, ErrUnknownEasing)
	require.Contains(t, err.Error(), DefaultEasing)
}

func TestShapes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.25, Sawtooth(false)(0.25))
	assert.Equal(t, 0.75, Sawtooth(true)(0.25))

	flash := Flash(0.25)
	assert.Equal(t, 1.0, flash(0))
	assert.InDelta(t, 0.5, flash(0.125), 1e-9)
	assert.Zero(t, flash(0.5))
	assert.Zero(t, Flash(0)(0))
}
