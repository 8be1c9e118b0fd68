// Package binary holds the small slice of the binary module format the
// front end needs to round-trip a text module far enough to exercise a
// seed scenario end to end (SPEC_FULL.md §4.7): LEB128 varints and the
// eight-byte module header. It deliberately stops well short of a full
// encoder/decoder for every section — that belongs to a separate
// validation/compilation stage this front end hands off to, not to a
// text-format toolchain.
package binary

import (
	"fmt"
	"io"
)

// ReadU32 reads an unsigned LEB128-encoded value, grounded on the
// teacher's ReadU32 byte-at-a-time loop.
func ReadU32(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint32
	for count := 0; ; count++ {
		if count > 5 {
			return 0, fmt.Errorf("u32 LEB128 too long")
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadS64 reads a signed LEB128-encoded value.
func ReadS64(r io.ByteReader) (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

// ReadS32 reads a signed 32-bit LEB128-encoded value.
func ReadS32(r io.ByteReader) (int32, error) {
	v, err := ReadS64(r)
	return int32(v), err
}

// WriteU32 appends dst's LEB128 encoding of v.
func WriteU32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// WriteS64 appends dst's signed LEB128 encoding of v.
func WriteS64(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// WriteS32 appends dst's signed LEB128 encoding of v.
func WriteS32(dst []byte, v int32) []byte {
	return WriteS64(dst, int64(v))
}

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d} // "\0asm"

// EncodeHeader returns the 8-byte module preamble: the "\0asm" magic
// followed by the little-endian version. Section encoding is a separate
// collaborator's job.
func EncodeHeader(version uint32) []byte {
	out := make([]byte, 0, 8)
	out = append(out, magic[:]...)
	out = append(out, byte(version), byte(version>>8), byte(version>>16), byte(version>>24))
	return out
}
