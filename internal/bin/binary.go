// Package bin provides the big-endian integer helpers used across the wire codecs.
package bin

import "encoding/binary"

// PutU16BE writes a uint16 in big-endian order.
func PutU16BE(dst []byte, v uint16) { binary.BigEndian.PutUint16(dst, v) }

// PutU24BE writes the low 24 bits of v in big-endian order.
func PutU24BE(dst []byte, v uint32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

// PutU32BE writes a uint32 in big-endian order.
func PutU32BE(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }

// PutU64BE writes a uint64 in big-endian order.
func PutU64BE(dst []byte, v uint64) { binary.BigEndian.PutUint64(dst, v) }

// U16BE reads a uint16 in big-endian order.
func U16BE(src []byte) uint16 { return binary.BigEndian.Uint16(src) }

// U24BE reads a 24-bit big-endian unsigned integer.
func U24BE(src []byte) uint32 {
	return uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
}

// U32BE reads a uint32 in big-endian order.
func U32BE(src []byte) uint32 { return binary.BigEndian.Uint32(src) }

// U64BE reads a uint64 in big-endian order.
func U64BE(src []byte) uint64 { return binary.BigEndian.Uint64(src) }
