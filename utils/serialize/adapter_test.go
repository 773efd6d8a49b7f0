package serialize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-csm/utils/arena"
	"github.com/rony4d/go-csm/utils/bits"
)

// record is the four-field harness message: u32, u8, bool, f32.
type record struct {
	A uint32
	B uint8
	C bool
	D float32
}

func (m *record) Serialize(s *bits.Stream) {
	U32(s, &m.A)
	U8(s, &m.B)
	Bool(s, &m.C)
	F32(s, &m.D)
}

// blob is a message whose length depends on its first field.
type blob struct {
	Long bool
	Data []uint32
}

func (m *blob) Serialize(s *bits.Stream) {
	Bool(s, &m.Long)
	n := 1
	if m.Long {
		n = 64
	}
	if len(m.Data) < n {
		m.Data = make([]uint32, n)
	}
	for i := 0; i < n; i++ {
		U32(s, &m.Data[i])
	}
}

func TestEncodeDecode_Record(t *testing.T) {
	require := require.New(t)

	a := arena.New(128)
	in := record{A: 133041, B: 8, C: true, D: 600.1234}
	res := Encode(a, &in)

	// 32 + 8 + 1 + 32 = 73 bits -> 10 bytes
	require.Equal(10, res.SizeBytes)
	require.Equal(10, a.Len())

	var out record
	Decode(res.Bytes(), &out)
	require.Equal(in, out)
	require.Equal(math.Float32bits(in.D), math.Float32bits(out.D))
}

func TestEncode_ConsecutiveMessagesShareArena(t *testing.T) {
	a := arena.New(128)
	first := Encode(a, &record{A: 1})
	second := Encode(a, &record{A: 2})

	assert.Equal(t, 0, first.Region().Offset())
	assert.Equal(t, first.SizeBytes, second.Region().Offset())

	var r1, r2 record
	Decode(first.Bytes(), &r1)
	Decode(second.Bytes(), &r2)
	assert.Equal(t, uint32(1), r1.A)
	assert.Equal(t, uint32(2), r2.A)
}

func TestMarshal_OwnsBytes(t *testing.T) {
	in := record{A: 133041, B: 8, C: true, D: 600.1234}
	buf := Marshal(&in)
	require.Len(t, buf, 10)

	a := arena.New(64)
	assert.Equal(t, Encode(a, &in).Bytes(), buf)

	var out record
	require.NoError(t, Unmarshal(buf, &out))
	assert.Equal(t, in, out)

	assert.Empty(t, Marshal(&empty{}))
}

// empty has no fields at all.
type empty struct{}

func (*empty) Serialize(*bits.Stream) {}

func TestDecode_ShortBufferPanics(t *testing.T) {
	assert.Panics(t, func() { Decode([]byte{1, 2, 3}, &record{}) })
}

func TestUnmarshal(t *testing.T) {
	a := arena.New(128)
	in := record{A: 0xFFFFFFFF, B: 0x80, C: true, D: float32(math.Inf(-1))}
	valid := append([]byte(nil), Encode(a, &in).Bytes()...)

	t.Run("Valid", func(t *testing.T) {
		var out record
		require.NoError(t, Unmarshal(valid, &out))
		assert.Equal(t, in, out)
	})

	t.Run("Truncated", func(t *testing.T) {
		var out record
		err := Unmarshal(valid[:len(valid)-1], &out)
		assert.ErrorIs(t, err, ErrShortBuffer)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.ErrorIs(t, Unmarshal(nil, &record{}), ErrShortBuffer)
	})

	t.Run("Trailing byte", func(t *testing.T) {
		err := Unmarshal(append(append([]byte(nil), valid...), 0), &record{})
		assert.ErrorIs(t, err, ErrTrailingData)
	})

	t.Run("Dirty padding", func(t *testing.T) {
		dirty := append([]byte(nil), valid...)
		dirty[len(dirty)-1] |= 0x80 // 73 bits used, bit 7 of the last byte is padding
		assert.ErrorIs(t, Unmarshal(dirty, &record{}), ErrNonCanonicalEncoding)
	})
}

func TestSize(t *testing.T) {
	assert.Equal(t, 73, Size(&record{}))
	assert.Equal(t, 33, Size(&blob{}))
	// 1 + 64*32 bits needs several scratch doublings.
	assert.Equal(t, 1+64*32, Size(&blob{Long: true}))
}

// TestSize_DoesNotTouchMessage checks that measuring leaves values intact.
func TestSize_DoesNotTouchMessage(t *testing.T) {
	m := record{A: 7, B: 3, C: true, D: 1.25}
	Size(&m)
	assert.Equal(t, record{A: 7, B: 3, C: true, D: 1.25}, m)
}

func BenchmarkEncodeRecord(b *testing.B) {
	a := arena.New(1 << 16)
	m := record{A: 133041, B: 8, C: true, D: 600.1234}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if a.Remaining() < 16 {
			a.Clear()
		}
		Encode(a, &m)
	}
}

func BenchmarkDecodeRecord(b *testing.B) {
	a := arena.New(64)
	buf := Encode(a, &record{A: 133041, B: 8, C: true, D: 600.1234}).Bytes()
	var m record
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(buf, &m)
	}
}
