package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaConfig(t *testing.T, maxLen int) *Config {
	t.Helper()
	c, err := New([]byte("abcdefghijklmnopqrstuvwxyz"), maxLen)
	require.NoError(t, err)
	return c
}

// Scenario 1 from spec.md §8: alphabet a..z, L=4.
func TestScenario1CharsetBijection(t *testing.T) {
	t.Parallel()

	c := alphaConfig(t, 4)

	p, err := c.IndexToPlaintext(0)
	require.NoError(t, err)
	assert.Equal(t, "a", string(p))

	p, err = c.IndexToPlaintext(26)
	require.NoError(t, err)
	assert.Equal(t, "aa", string(p))

	last := uint64(26 + 26*26 + 26*26*26 - 1)
	p, err = c.IndexToPlaintext(last)
	require.NoError(t, err)
	assert.Equal(t, "zzz", string(p))
}

func TestBijectionRoundTrip(t *testing.T) {
	t.Parallel()

	c := alphaConfig(t, 3)
	n := c.SearchSpaceSize()

	for i := uint64(0); i < n; i++ {
		p, err := c.IndexToPlaintext(i)
		require.NoError(t, err)

		back, err := c.PlaintextToIndex(p)
		require.NoError(t, err)
		assert.Equal(t, i, back)
	}
}

func TestSearchSpaceSize(t *testing.T) {
	t.Parallel()

	c := alphaConfig(t, 4)
	assert.Equal(t, uint64(26+26*26+26*26*26+26*26*26*26), c.SearchSpaceSize())
}

func TestPlaintextToIndexRejectsOutOfAlphabet(t *testing.T) {
	t.Parallel()

	c, err := New([]byte("0123456789"), 5)
	require.NoError(t, err)

	_, err = c.PlaintextToIndex([]byte("42a"))
	require.Error(t, err)
	var outOfAlphabet *ErrOutOfAlphabet
	require.ErrorAs(t, err, &outOfAlphabet)
}

func TestPlaintextToIndexRejectsTooLong(t *testing.T) {
	t.Parallel()

	c, err := New([]byte("01"), 2)
	require.NoError(t, err)

	_, err = c.PlaintextToIndex([]byte("010"))
	require.Error(t, err)
}

func TestIndexToPlaintextRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	c, err := New([]byte("01"), 2)
	require.NoError(t, err)

	_, err = c.IndexToPlaintext(c.SearchSpaceSize())
	require.Error(t, err)
}

func TestNewRejectsEmptyAlphabet(t *testing.T) {
	t.Parallel()

	_, err := New(nil, 4)
	require.ErrorIs(t, err, ErrEmptyAlphabet)
}

func TestNewRejectsTooLongMaxLen(t *testing.T) {
	t.Parallel()

	_, err := New([]byte("ab"), MaxLength+1)
	require.Error(t, err)
	var tooLong *ErrLengthTooLarge
	require.ErrorAs(t, err, &tooLong)
}

func TestNewRejectsDuplicateBytes(t *testing.T) {
	t.Parallel()

	_, err := New([]byte("aab"), 3)
	require.Error(t, err)
}

func TestNewRejectsOverflow(t *testing.T) {
	t.Parallel()

	// A 256-byte alphabet at length 32 vastly exceeds uint64.
	full := make([]byte, 256)
	for i := range full {
		full[i] = byte(i)
	}
	_, err := New(full, MaxLength)
	require.ErrorIs(t, err, ErrOverflow)
}
