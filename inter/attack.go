package inter

import (
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-csm/utils/bits"
	"github.com/rony4d/go-csm/utils/serialize"
)

const (
	// GridSize is the extent of the board along each of its four axes.
	GridSize = 3

	// coordBits is enough for 0..GridSize-1.
	coordBits = 2
)

// Attack targets a single cell of the 3x3x3x3 board.
//
// Wire layout (41 bits, 6 bytes):
// 1. Turn (32 bits, two's complement)
// 2. X, Y, Z, W (2 bits each)
// 3. Confirmed (1 bit)
type Attack struct {
	Turn       int32
	X, Y, Z, W uint8
	Confirmed  bool
}

// Valid reports whether every coordinate lies on the board.
func (a *Attack) Valid() bool {
	return a.X < GridSize && a.Y < GridSize && a.Z < GridSize && a.W < GridSize
}

// Serialize implements serialize.Message. Encoding an attack with a
// coordinate that does not fit its 2-bit field panics.
func (a *Attack) Serialize(s *bits.Stream) {
	serialize.I32(s, &a.Turn)
	coord(s, &a.X)
	coord(s, &a.Y)
	coord(s, &a.Z)
	coord(s, &a.W)
	serialize.Bool(s, &a.Confirmed)
}

func coord(s *bits.Stream, c *uint8) {
	v := uint32(*c)
	serialize.UintN(s, &v, coordBits)
	*c = uint8(v)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *Attack) MarshalBinary() ([]byte, error) {
	return serialize.Marshal(a), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. A well-formed
// buffer may still carry coordinate 3, which is off the board; callers
// check Valid.
func (a *Attack) UnmarshalBinary(raw []byte) error {
	return serialize.Unmarshal(raw, a)
}

// EncodeRLP implements rlp.Encoder.
func (a *Attack) EncodeRLP(w io.Writer) error {
	b, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	return rlp.Encode(w, b)
}

// DecodeRLP implements rlp.Decoder.
func (a *Attack) DecodeRLP(src *rlp.Stream) error {
	b, err := src.Bytes()
	if err != nil {
		return err
	}
	return a.UnmarshalBinary(b)
}

// RPCMarshal converts the attack to a JSON-friendly map.
func (a *Attack) RPCMarshal() map[string]interface{} {
	return map[string]interface{}{
		"turn":      a.Turn,
		"target":    []hexutil.Uint64{hexutil.Uint64(a.X), hexutil.Uint64(a.Y), hexutil.Uint64(a.Z), hexutil.Uint64(a.W)},
		"confirmed": a.Confirmed,
		"valid":     a.Valid(),
	}
}
