// Package reduction implements the column-indexed reduction family that maps
// a digest back down into the plaintext index space.
package reduction

import "encoding/binary"

// PrimeShift is the fixed mixer constant that perturbs the reduction by
// table id. Fixed by the spec so tables stay portable across implementations.
const PrimeShift uint64 = 0x9E3779B97F4A7C15

// Mixer computes the per-column, per-table perturbation XORed into a
// digest's leading 8 bytes before reducing modulo the search space size.
func Mixer(col uint32, tableID uint32) uint64 {
	return uint64(col) + uint64(tableID)*PrimeShift
}

// Reduce maps a digest to an index in [0, n) for the given column and table.
// The first 8 bytes of the digest, interpreted little-endian, seed the
// reduction; digests narrower than 8 bytes are zero-extended (none of the
// registered hash kinds are this narrow, but the rule is defined for
// completeness).
func Reduce(digest []byte, col uint32, tableID uint32, n uint64) uint64 {
	var buf [8]byte
	copy(buf[:], digest) // zero-extends if digest is shorter than 8 bytes
	seed := binary.LittleEndian.Uint64(buf[:])

	return (seed ^ Mixer(col, tableID)) % n
}
