/*
This file implements the field codecs of the wire format.
Each codec is a single routine that works in both directions: on a write-mode
stream it encodes *v, on a read-mode stream it decodes into *v. A message's
encode and decode procedures are therefore the same ordered list of calls,
and that list is the message's wire schema.
Booleans: 1 bit.
U8: 8 bits. U32, I32, F32: 32 bits, raw bit pattern, no validation.
UintN: the low n bits of a uint32, for small enumerations and grid coordinates.
Multi-byte values are laid out little-endian before their bits are copied, so
the wire format does not depend on the byte order of the producing machine.
*/
package serialize

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rony4d/go-csm/utils/bits"
)

// serializeBits dispatches to WriteBits or ReadBits depending on the stream mode.
func serializeBits(s *bits.Stream, b []byte, n int) {
	if s.Mode() == bits.Write {
		s.WriteBits(b, n)
	} else {
		s.ReadBits(b, n)
	}
}

// Bits reads/writes the first n bits of b as-is.
func Bits(s *bits.Stream, b []byte, n int) {
	serializeBits(s, b, n)
}

// Bool reads/writes a single bit.
func Bool(s *bits.Stream, v *bool) {
	var b [1]byte
	if *v {
		b[0] = 1
	}
	serializeBits(s, b[:], 1)
	if s.Mode() == bits.Read {
		*v = b[0]&1 != 0
	}
}

// U8 reads/writes a byte as 8 bits.
func U8(s *bits.Stream, v *uint8) {
	b := [1]byte{*v}
	serializeBits(s, b[:], 8)
	if s.Mode() == bits.Read {
		*v = b[0]
	}
}

// u32 moves the 32-bit pattern *v through the stream.
func u32(s *bits.Stream, v *uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], *v)
	serializeBits(s, b[:], 32)
	if s.Mode() == bits.Read {
		*v = binary.LittleEndian.Uint32(b[:])
	}
}

// U32 reads/writes an unsigned 32-bit integer.
func U32(s *bits.Stream, v *uint32) {
	u32(s, v)
}

// I32 reads/writes a signed 32-bit integer in two's complement.
func I32(s *bits.Stream, v *int32) {
	u := uint32(*v)
	u32(s, &u)
	if s.Mode() == bits.Read {
		*v = int32(u)
	}
}

// F32 reads/writes an IEEE-754 single. NaN payloads and infinities are
// carried bit for bit.
func F32(s *bits.Stream, v *float32) {
	u := math.Float32bits(*v)
	u32(s, &u)
	if s.Mode() == bits.Read {
		*v = math.Float32frombits(u)
	}
}

// UintN reads/writes the low n bits of *v, 1 <= n <= 32. Writing a value that
// does not fit in n bits panics; on read the upper bits of *v are cleared.
func UintN(s *bits.Stream, v *uint32, n int) {
	if n < 1 || n > 32 {
		panic(fmt.Errorf("%w: UintN width %d", bits.ErrBadCount, n))
	}
	if s.Mode() == bits.Write && n < 32 && *v>>n != 0 {
		panic(fmt.Errorf("%w: %d does not fit in %d bits", ErrValueTooWide, *v, n))
	}

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], *v)
	serializeBits(s, b[:], n)
	if s.Mode() == bits.Read {
		*v = binary.LittleEndian.Uint32(b[:]) & (math.MaxUint32 >> (32 - n))
	}
}
