// Package store implements the compressed endpoint index: delta encoding
// with Rice coding over endpoint-sorted chains, laid out so a reader can
// memory-map the file and decode only the spans a lookup actually touches.
package store

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/truelossless/cugparck/internal/hashreg"
	"github.com/truelossless/cugparck/internal/rterrors"
)

// Magic identifies a cugparck compressed table file.
const Magic = "CGPK"

// Version is the current file format version. Readers must reject any
// other version.
const Version uint16 = 1

// DefaultSampleStride is the default spacing between entries in the
// sampling index (S in spec.md §4.G).
const DefaultSampleStride uint32 = 1024

// headerFixedSize is the byte length of the header before the variable
// charset_bytes trailer.
const headerFixedSize = 4 + 2 + 1 + 1 + 1 + 1 + 4 + 8 + 8 + 8 + 1 + 4

// Header is the bit-exact file header described in spec.md §4.G.
type Header struct {
	Version      uint16
	HashKind     hashreg.Kind
	CharsetLen   uint8
	L            uint8
	Reserved     uint8 // "k" — reserved
	TableID      uint32
	M0           uint64
	T            uint64
	M            uint64 // number of chains actually stored
	RiceK        uint8
	SampleStride uint32
	Charset      []byte
}

// Size returns the total encoded size of the header, including the
// variable-length charset trailer.
func (h *Header) Size() int {
	return headerFixedSize + int(h.CharsetLen)
}

func (h *Header) encode() []byte {
	buf := make([]byte, h.Size())
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.HashKind)
	buf[7] = h.CharsetLen
	buf[8] = h.L
	buf[9] = h.Reserved
	binary.LittleEndian.PutUint32(buf[10:14], h.TableID)
	binary.LittleEndian.PutUint64(buf[14:22], h.M0)
	binary.LittleEndian.PutUint64(buf[22:30], h.T)
	binary.LittleEndian.PutUint64(buf[30:38], h.M)
	buf[38] = h.RiceK
	binary.LittleEndian.PutUint32(buf[39:43], h.SampleStride)
	copy(buf[headerFixedSize:], h.Charset)
	return buf
}

// decodeHeader parses a header from buf, which must contain at least
// headerFixedSize bytes (callers read the charset trailer themselves once
// CharsetLen is known).
func decodeHeader(buf []byte) (*Header, error) {
	if len(buf) < headerFixedSize {
		return nil, fmt.Errorf("store: header truncated: got %d bytes, want at least %d", len(buf), headerFixedSize)
	}
	if string(buf[0:4]) != Magic {
		return nil, &rterrors.CorruptedTable{Message: fmt.Sprintf("bad magic %q", buf[0:4])}
	}

	h := &Header{
		Version:      binary.LittleEndian.Uint16(buf[4:6]),
		HashKind:     hashreg.Kind(buf[6]),
		CharsetLen:   buf[7],
		L:            buf[8],
		Reserved:     buf[9],
		TableID:      binary.LittleEndian.Uint32(buf[10:14]),
		M0:           binary.LittleEndian.Uint64(buf[14:22]),
		T:            binary.LittleEndian.Uint64(buf[22:30]),
		M:            binary.LittleEndian.Uint64(buf[30:38]),
		RiceK:        buf[38],
		SampleStride: binary.LittleEndian.Uint32(buf[39:43]),
	}

	if h.Version != Version {
		return nil, &rterrors.CorruptedTable{Message: fmt.Sprintf("unsupported version %d", h.Version)}
	}

	return h, nil
}

// writeHeader writes the encoded header to w.
func writeHeader(w io.Writer, h *Header) error {
	_, err := w.Write(h.encode())
	return err
}
