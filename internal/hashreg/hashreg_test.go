package hashreg

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/md4"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]Kind{
		"md4":      MD4,
		"md5":      MD5,
		"ntlm":     NTLM,
		"sha1":     SHA1,
		"sha2-256": SHA2_256,
		"sha256":   SHA2_256,
		"sha3-256": SHA3_256,
	}

	for name, want := range cases {
		got, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Parse("bogus")
	require.Error(t, err)
	var unknown *ErrUnknownKind
	require.ErrorAs(t, err, &unknown)
}

func TestDigestSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16, MD4.DigestSize())
	assert.Equal(t, 16, MD5.DigestSize())
	assert.Equal(t, 16, NTLM.DigestSize())
	assert.Equal(t, 20, SHA1.DigestSize())
	assert.Equal(t, 32, SHA2_256.DigestSize())
	assert.Equal(t, 32, SHA3_256.DigestSize())
}

func TestDigestMatchesSize(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{MD4, MD5, NTLM, SHA1, SHA2_256, SHA3_256} {
		d := k.Digest([]byte("password123"))
		assert.Len(t, d, k.DigestSize(), "kind %s", k)
	}
}

func TestMD5KnownVector(t *testing.T) {
	t.Parallel()

	want := md5.Sum([]byte("hello"))
	got := MD5.Digest([]byte("hello"))
	assert.Equal(t, want[:], got)
}

func TestNTLMKnownVector(t *testing.T) {
	t.Parallel()

	// NTLM("password") is a well-known test vector.
	got := NTLM.Digest([]byte("password"))
	assert.Equal(t, "8846f7eaee8fb117ad06bdd830b7586c", hex.EncodeToString(got))
}

func TestNTLMHighByteIsLatin1NotUTF8(t *testing.T) {
	t.Parallel()

	// A byte >= 0x80 must widen to the matching Latin-1 code point
	// (0x00E9 for 0xE9), not be interpreted as a UTF-8 continuation byte.
	h := md4.New()
	h.Write([]byte{0xE9, 0x00})
	expected := h.Sum(nil)

	got := NTLM.Digest([]byte{0xE9})
	assert.Equal(t, expected, got)
}
