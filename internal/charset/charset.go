// Package charset implements the bijection between 64-bit indices and
// plaintext bytes over a chosen alphabet, up to a fixed maximum length.
package charset

import (
	"errors"
	"fmt"
)

// MaxLength is the largest plaintext length this package will index;
// beyond this, mixed-radix offsets risk overflowing uint64.
const MaxLength = 32

// ErrEmptyAlphabet is returned when configuring a charset with no symbols.
var ErrEmptyAlphabet = errors.New("charset: alphabet is empty")

// ErrLengthTooLarge is returned when the configured max length is outside
// [1, MaxLength].
type ErrLengthTooLarge struct {
	Length int
}

func (e *ErrLengthTooLarge) Error() string {
	return fmt.Sprintf("charset: max length %d is outside [1, %d]", e.Length, MaxLength)
}

// ErrOverflow is returned when the search space size would exceed the range
// of a uint64.
var ErrOverflow = errors.New("charset: search space size overflows uint64")

// ErrOutOfAlphabet is returned by PlaintextToIndex when a byte isn't in the
// configured alphabet. A plaintext of the wrong length gets a plain error.
type ErrOutOfAlphabet struct {
	Byte byte
}

func (e *ErrOutOfAlphabet) Error() string {
	return fmt.Sprintf("charset: byte %q is not in the alphabet", e.Byte)
}

// Config is a bijection between [0, N) and plaintexts of length 1..L over an
// ordered alphabet A. N = search space size. Immutable once built.
type Config struct {
	alphabet []byte
	maxLen   int

	// cumulative[l] = number of plaintexts of length < l, for l = 0..maxLen+1.
	// cumulative[0] == 0, cumulative[maxLen+1] == N.
	cumulative []uint64

	// index[b] gives the ordinal of alphabet byte b, or -1 if absent.
	index [256]int16
}

// New builds a Config over the given ordered alphabet (duplicates are an
// error) and max plaintext length.
func New(alphabet []byte, maxLen int) (*Config, error) {
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if maxLen <= 0 || maxLen > MaxLength {
		return nil, &ErrLengthTooLarge{Length: maxLen}
	}

	c := &Config{
		alphabet: append([]byte(nil), alphabet...),
		maxLen:   maxLen,
	}

	for i := range c.index {
		c.index[i] = -1
	}
	for i, b := range c.alphabet {
		if c.index[b] != -1 {
			return nil, fmt.Errorf("charset: duplicate byte %q in alphabet", b)
		}
		c.index[b] = int16(i)
	}

	cumulative := make([]uint64, maxLen+2)
	base := uint64(len(c.alphabet))
	var power uint64 = 1
	var sum uint64

	for l := 1; l <= maxLen; l++ {
		cumulative[l] = sum

		var next uint64
		if l > 1 {
			var overflowed bool
			next, overflowed = mulOverflows(power, base)
			if overflowed {
				return nil, ErrOverflow
			}
			power = next
		} else {
			power = base
		}

		added, overflowed := addOverflows(sum, power)
		if overflowed {
			return nil, ErrOverflow
		}
		sum = added
	}
	cumulative[maxLen+1] = sum
	c.cumulative = cumulative

	return c, nil
}

func mulOverflows(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	r := a * b
	return r, r/b != a
}

func addOverflows(a, b uint64) (uint64, bool) {
	r := a + b
	return r, r < a
}

// Alphabet returns the configured ordered alphabet. The returned slice must
// not be mutated.
func (c *Config) Alphabet() []byte {
	return c.alphabet
}

// MaxLen returns the configured maximum plaintext length.
func (c *Config) MaxLen() int {
	return c.maxLen
}

// SearchSpaceSize returns N, the number of distinct plaintexts the config
// indexes, i.e. C[L+1].
func (c *Config) SearchSpaceSize() uint64 {
	return c.cumulative[c.maxLen+1]
}

// IndexToPlaintext maps an index in [0, N) to its plaintext, most-significant
// digit first.
func (c *Config) IndexToPlaintext(i uint64) ([]byte, error) {
	if i >= c.SearchSpaceSize() {
		return nil, fmt.Errorf("charset: index %d is out of range [0, %d)", i, c.SearchSpaceSize())
	}

	length := 0
	for l := 1; l <= c.maxLen; l++ {
		if c.cumulative[l] <= i && i < c.cumulative[l+1] {
			length = l
			break
		}
	}

	r := i - c.cumulative[length]
	base := uint64(len(c.alphabet))
	out := make([]byte, length)

	for pos := length - 1; pos >= 0; pos-- {
		digit := r % base
		r /= base
		out[pos] = c.alphabet[digit]
	}

	return out, nil
}

// PlaintextToIndex maps a plaintext back to its index. Fails if a byte is
// outside the alphabet or the plaintext is empty or longer than MaxLen.
func (c *Config) PlaintextToIndex(plaintext []byte) (uint64, error) {
	length := len(plaintext)
	if length == 0 || length > c.maxLen {
		return 0, fmt.Errorf("charset: plaintext length %d is out of range [1, %d]", length, c.maxLen)
	}

	base := uint64(len(c.alphabet))
	var r uint64

	for _, b := range plaintext {
		ord := c.index[b]
		if ord == -1 {
			return 0, &ErrOutOfAlphabet{Byte: b}
		}
		r = r*base + uint64(ord)
	}

	return c.cumulative[length] + r, nil
}
