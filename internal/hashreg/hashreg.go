// Package hashreg is the pluggable digest registry: a closed enumeration of
// the hash kinds a rainbow table can target, each exposing a from-scratch
// digest function.
package hashreg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/sha3"
)

// Kind identifies a supported digest algorithm.
type Kind uint8

const (
	// MD4 is the raw MD4 digest of the plaintext bytes.
	MD4 Kind = iota
	// MD5 is the raw MD5 digest of the plaintext bytes.
	MD5
	// NTLM is MD4 of the UTF-16LE encoding of the plaintext.
	NTLM
	// SHA1 is the raw SHA-1 digest of the plaintext bytes.
	SHA1
	// SHA2_256 is the raw SHA-2-256 digest of the plaintext bytes.
	SHA2_256
	// SHA3_256 is the raw SHA-3-256 digest of the plaintext bytes.
	SHA3_256
)

// names indexes Kind -> canonical name, used for parsing and error messages.
var names = [...]string{
	MD4:      "md4",
	MD5:      "md5",
	NTLM:     "ntlm",
	SHA1:     "sha1",
	SHA2_256: "sha2-256",
	SHA3_256: "sha3-256",
}

// String returns the canonical lowercase name of the hash kind.
func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ErrUnknownKind is returned by Parse when given a name that doesn't match
// any registered hash kind.
type ErrUnknownKind struct {
	Name string
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown hash kind %q", e.Name)
}

// Parse resolves a hash kind by its canonical name (case-sensitive, as
// produced by Kind.String). Accepts a couple of common aliases.
func Parse(name string) (Kind, error) {
	switch name {
	case "md4":
		return MD4, nil
	case "md5":
		return MD5, nil
	case "ntlm":
		return NTLM, nil
	case "sha1":
		return SHA1, nil
	case "sha2-256", "sha256":
		return SHA2_256, nil
	case "sha3-256", "sha3_256":
		return SHA3_256, nil
	default:
		return 0, &ErrUnknownKind{Name: name}
	}
}

// DigestSize returns the fixed output width in bytes for the hash kind.
func (k Kind) DigestSize() int {
	switch k {
	case MD4, MD5, NTLM:
		return 16
	case SHA1:
		return 20
	case SHA2_256, SHA3_256:
		return 32
	default:
		return 0
	}
}

// Digest computes the digest of plaintext under the given hash kind. Every
// call hashes from scratch; no streaming state is retained between calls.
func (k Kind) Digest(plaintext []byte) []byte {
	switch k {
	case MD4:
		sum := md4.New()
		sum.Write(plaintext)
		return sum.Sum(nil)
	case MD5:
		sum := md5.Sum(plaintext)
		return sum[:]
	case NTLM:
		return ntlmDigest(plaintext)
	case SHA1:
		sum := sha1.Sum(plaintext)
		return sum[:]
	case SHA2_256:
		sum := sha256.Sum256(plaintext)
		return sum[:]
	case SHA3_256:
		sum := sha3.Sum256(plaintext)
		return sum[:]
	default:
		panic(fmt.Sprintf("hashreg: unhandled kind %d", k))
	}
}

// ntlmDigest hashes the UTF-16LE encoding of plaintext with MD4. Non-ASCII
// (non-UTF-8-decodable or high) bytes are upcast as ISO-8859-1 code points
// rather than decoded as UTF-8, per the spec's chosen convention.
func ntlmDigest(plaintext []byte) []byte {
	utf16le := make([]byte, 0, len(plaintext)*2)

	for _, b := range plaintext {
		// Plaintexts are generated from a fixed byte alphabet (component B),
		// never from arbitrary UTF-8 text, so each input byte is treated as
		// one Latin-1 code point rather than decoded as a UTF-8 rune.
		utf16le = append(utf16le, b, 0)
	}

	sum := md4.New()
	sum.Write(utf16le)
	return sum.Sum(nil)
}
