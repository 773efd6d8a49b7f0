package serialize

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rony4d/go-csm/utils/arena"
	"github.com/rony4d/go-csm/utils/bits"
)

// adapter.go connects message schemas to streams.
//
// A Message describes its wire schema once, in Serialize, as an ordered list
// of codec calls. Encode runs it against a write-mode stream, Decode against a
// read-mode stream. Decode trusts its input like the read stream does;
// Unmarshal is the checked variant for bytes that came from the network.

// Standard errors for decoding validation.
var (
	ErrShortBuffer          = errors.New("short buffer: message needs more bits than supplied")
	ErrTrailingData         = errors.New("trailing data: bytes left after the last field")
	ErrNonCanonicalEncoding = errors.New("non canonical encoding: unused bits non-zero")
	ErrValueTooWide         = errors.New("value too wide for its field")
)

// maxScratch bounds the scratch arena Size will use to measure a message.
const maxScratch = 1 << 20

// Message is implemented by every type with a wire schema.
type Message interface {
	// Serialize calls the field codecs in schema order. It must make the same
	// calls for a given stream mode regardless of direction.
	Serialize(s *bits.Stream)
}

// Encode writes m into a new write-mode stream at the head of a and returns
// the produced bytes. The result is only valid until a is cleared.
func Encode(a *arena.Arena, m Message) bits.Result {
	s := bits.NewWriter(a)
	m.Serialize(s)
	return s.Result()
}

// Marshal encodes m into a freshly allocated slice the caller owns. It is the
// slow path for code that has no arena of its own.
func Marshal(m Message) []byte {
	size := (Size(m) + 7) / 8
	a := arena.New(size + 1)
	defer a.Destroy()
	return append([]byte(nil), Encode(a, m).Bytes()...)
}

// Decode reads m from buf. It does no bounds checking: buf must hold every
// bit the schema consumes, otherwise Decode panics.
func Decode(buf []byte, m Message) {
	m.Serialize(bits.NewReader(buf))
}

// Unmarshal decodes m from untrusted bytes. It returns ErrShortBuffer instead
// of panicking when buf is too short, and rejects trailing bytes and non-zero
// padding bits so that every message has exactly one encoding.
func Unmarshal(buf []byte, m Message) (err error) {
	s := bits.NewReader(buf)

	// Safety catch for out-of-range reads (the read stream skips bounds checks)
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtime.Error); ok {
				err = fmt.Errorf("%w: %v", ErrShortBuffer, rerr)
				return
			}
			panic(r)
		}
	}()

	m.Serialize(s)

	used := s.ByteOffset()
	if s.BitOffset() != 0 {
		used++
	}
	if len(buf) > used {
		return fmt.Errorf("%w: %d of %d bytes used", ErrTrailingData, used, len(buf))
	}
	if s.BitOffset() != 0 && buf[used-1]>>s.BitOffset() != 0 {
		return ErrNonCanonicalEncoding
	}
	return nil
}

// Size returns the number of bits m occupies on the wire. It encodes m into a
// private scratch arena, doubling the scratch size until the message fits.
func Size(m Message) int {
	for capacity := 64; ; capacity *= 2 {
		if n, ok := trySize(m, capacity); ok {
			return n
		}
	}
}

func trySize(m Message, capacity int) (n int, ok bool) {
	a := arena.New(capacity)
	defer a.Destroy()

	defer func() {
		if r := recover(); r != nil {
			if err, isErr := r.(error); isErr && errors.Is(err, arena.ErrOutOfCapacity) && capacity < maxScratch {
				n, ok = 0, false
				return
			}
			panic(r)
		}
	}()

	s := bits.NewWriter(a)
	m.Serialize(s)
	return s.BitsConsumed(), true
}
