package bits

// This package implements a bit-granular "Bit Stream" over byte storage.
// It allows you to write data that is not aligned to standard 8-bit byte boundaries.
//
// A Stream is created in one of two modes and never changes mode:
// - Write: the stream grows inside an arena.Arena, starting at the arena head.
//   Every byte the stream touches is covered by an arena allocation.
// - Read: the stream walks a caller supplied byte slice and never mutates it.
//
// Bits are addressed LSB first: bit 0 of byte 0, bit 1 of byte 0, ...,
// bit 7 of byte 0, bit 0 of byte 1. Source and destination values use the
// same addressing, so a value's first in-memory bit is the first bit on the wire.

import (
	"errors"
	"fmt"

	"github.com/rony4d/go-csm/utils/arena"
)

// Mode selects the direction of a Stream.
type Mode int

const (
	Write Mode = iota
	Read
)

func (m Mode) String() string {
	switch m {
	case Write:
		return "write"
	case Read:
		return "read"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

var (
	ErrBadPairing = errors.New("bits: write mode needs an arena only, read mode needs a buffer only")
	ErrWrongMode  = errors.New("bits: operation not allowed in this mode")
	ErrBadCount   = errors.New("bits: invalid bit count")
)

// Stream is a cursor over a byte buffer that reads or writes individual bits.
type Stream struct {
	mode       Mode
	byteOffset int // Index of the current byte
	bitOffset  int // 0-7: Index of the next bit in the current byte

	// Read mode
	buf []byte

	// Write mode. head marks the arena cursor at creation; the stream's
	// byte 0 is arena byte head.Offset().
	arena *arena.Arena
	head  arena.Region
}

// New creates a stream, enforcing the mode pairing: Write takes an initialized
// arena and no buffer, Read takes a buffer and no arena.
func New(mode Mode, buf []byte, a *arena.Arena) *Stream {
	switch {
	case mode == Write && buf == nil && a != nil:
		return NewWriter(a)
	case mode == Read && buf != nil && a == nil:
		return NewReader(buf)
	default:
		panic(fmt.Errorf("%w: mode=%s buffer=%t arena=%t", ErrBadPairing, mode, buf != nil, a != nil))
	}
}

// NewWriter creates a write-mode stream whose bytes start at the current head
// of a. The arena must stay alive, and must not be cleared, while the stream
// is in use.
func NewWriter(a *arena.Arena) *Stream {
	if a == nil {
		panic(fmt.Errorf("%w: nil arena", ErrBadPairing))
	}
	return &Stream{
		mode:  Write,
		arena: a,
		head:  a.Head(), // panics if a is not initialized
	}
}

// NewReader creates a read-mode stream over buf.
//
// WARNING: reads are not checked against len(buf). The caller must make sure
// buf holds every bit the decode sequence will consume; going past the end
// panics with a runtime index error.
func NewReader(buf []byte) *Stream {
	return &Stream{
		mode: Read,
		buf:  buf,
	}
}

// Mode returns the stream's direction.
func (s *Stream) Mode() Mode { return s.mode }

// ByteOffset returns the index of the byte holding the next bit.
func (s *Stream) ByteOffset() int { return s.byteOffset }

// BitOffset returns the position (0-7) of the next bit within the current byte.
func (s *Stream) BitOffset() int { return s.bitOffset }

// BitsConsumed returns the total number of bits written or read so far.
func (s *Stream) BitsConsumed() int {
	return s.byteOffset*8 + s.bitOffset
}

// advance moves a (byte, bit) cursor forward by one bit. It is the only place
// where the bit offset rolls over into the byte offset.
func advance(byteOff, bitOff *int) {
	if *bitOff == 7 {
		*byteOff++
		*bitOff = 0
	} else {
		*bitOff++
	}
}

// bytesFor rounds a bit count up to whole bytes.
func bytesFor(bits int) int {
	return (bits + 7) / 8
}

// mustHaveArena panics with arena.ErrStaleRegion once the arena the stream
// was created on has been cleared or destroyed.
func (s *Stream) mustHaveArena() {
	if !s.head.Valid() {
		s.head.Bytes()
	}
}

// committed returns how many bytes past the write base the arena has handed
// out. Allocations made by anyone else after the stream was created count too;
// the stream assumes it is the arena's only user while it is live.
func (s *Stream) committed() int {
	return s.arena.Len() - s.head.Offset()
}

// reserve makes sure the arena covers the first need bytes of the stream,
// growing it by exactly the shortfall.
func (s *Stream) reserve(need int) {
	s.mustHaveArena()
	have := s.committed()
	if need <= have {
		return
	}
	grown := s.arena.Alloc(need - have).Bytes()
	// Fresh bytes may hold stale data from a previous arena cycle; zero them so
	// the unused bits of the final byte are deterministic.
	clear(grown)
}

// WriteBits copies the first n bits of src into the stream, one bit at a time,
// starting at bit 0 of src[0]. Panics if the stream is not in write mode or
// src is shorter than n bits.
func (s *Stream) WriteBits(src []byte, n int) {
	if s.mode != Write {
		panic(fmt.Errorf("%w: WriteBits on %s stream", ErrWrongMode, s.mode))
	}
	if n < 0 || bytesFor(n) > len(src) {
		panic(fmt.Errorf("%w: %d bits from %d bytes", ErrBadCount, n, len(src)))
	}
	if n == 0 {
		return
	}

	need := bytesFor(s.BitsConsumed() + n)
	s.reserve(need)
	data := s.arena.Span(s.head.Offset(), need).Bytes()

	var srcByte, srcBit int
	for i := 0; i < n; i++ {
		mask := byte(1) << s.bitOffset
		if src[srcByte]&(1<<srcBit) != 0 {
			data[s.byteOffset] |= mask
		} else {
			data[s.byteOffset] &^= mask
		}
		advance(&srcByte, &srcBit)
		advance(&s.byteOffset, &s.bitOffset)
	}
}

// ReadBits copies the next n bits of the stream into dst, starting at bit 0 of
// dst[0]. Bits of dst beyond n are left untouched. Panics if the stream is not
// in read mode or dst is shorter than n bits.
func (s *Stream) ReadBits(dst []byte, n int) {
	if s.mode != Read {
		panic(fmt.Errorf("%w: ReadBits on %s stream", ErrWrongMode, s.mode))
	}
	if n < 0 || bytesFor(n) > len(dst) {
		panic(fmt.Errorf("%w: %d bits into %d bytes", ErrBadCount, n, len(dst)))
	}

	var dstByte, dstBit int
	for i := 0; i < n; i++ {
		mask := byte(1) << dstBit
		if s.buf[s.byteOffset]&(1<<s.bitOffset) != 0 {
			dst[dstByte] |= mask
		} else {
			dst[dstByte] &^= mask
		}
		advance(&dstByte, &dstBit)
		advance(&s.byteOffset, &s.bitOffset)
	}
}

// Result describes the bytes a write-mode stream has produced.
type Result struct {
	// SizeBytes is the number of bits written rounded up to whole bytes.
	SizeBytes int
	region    arena.Region
}

// Bytes returns the encoded bytes. The slice aliases arena storage and is
// only valid until the arena is cleared or destroyed; it panics afterwards.
func (r Result) Bytes() []byte {
	return r.region.Bytes()
}

// Region returns the arena handle covering the encoded bytes.
func (r Result) Region() arena.Region { return r.region }

// Result returns the descriptor for everything written so far.
func (s *Stream) Result() Result {
	if s.mode != Write {
		panic(fmt.Errorf("%w: Result on %s stream", ErrWrongMode, s.mode))
	}
	s.mustHaveArena()
	size := bytesFor(s.BitsConsumed())
	if size == 0 {
		return Result{}
	}
	return Result{
		SizeBytes: size,
		region:    s.arena.Span(s.head.Offset(), size),
	}
}
