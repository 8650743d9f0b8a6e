package bson

import "encoding/binary"

// uint32At reads a little-endian uint32 at off. ok is false when fewer than
// four bytes remain.
func uint32At(b []byte, off int) (uint32, bool) {
	if off < 0 || len(b)-off < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}

// uint64At reads a little-endian uint64 at off.
func uint64At(b []byte, off int) (uint64, bool) {
	if off < 0 || len(b)-off < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[off:]), true
}

// DocumentSize returns the declared total length of the document at the start
// of buf.
func DocumentSize(buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, ErrEmptyBuffer
	}
	size, ok := uint32At(buf, 0)
	if !ok {
		return 0, ErrDocumentTooSmall
	}
	return size, nil
}
