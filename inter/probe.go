/*
Package inter holds the records exchanged between peers.

Every record describes its wire layout exactly once, in its Serialize method,
as an ordered list of field codec calls. The same method encodes into an arena
and decodes from a received buffer, so the two directions cannot drift apart.
There is no framing, tag or version on the wire: both sides must agree on the
record type out of band.
*/
package inter

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-csm/utils/bits"
	"github.com/rony4d/go-csm/utils/serialize"
)

// Probe is a connection quality sample.
//
// Wire layout (73 bits, 10 bytes):
// 1. Seq (32 bits)
// 2. Channel (8 bits)
// 3. Reliable (1 bit)
// 4. Latency (32 bits, IEEE-754 single)
type Probe struct {
	Seq      uint32
	Channel  uint8
	Reliable bool
	Latency  float32 // milliseconds
}

// Serialize implements serialize.Message.
func (p *Probe) Serialize(s *bits.Stream) {
	serialize.U32(s, &p.Seq)
	serialize.U8(s, &p.Channel)
	serialize.Bool(s, &p.Reliable)
	serialize.F32(s, &p.Latency)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Probe) MarshalBinary() ([]byte, error) {
	return serialize.Marshal(p), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Input is untrusted:
// short, padded or overlong buffers are rejected.
func (p *Probe) UnmarshalBinary(raw []byte) error {
	return serialize.Unmarshal(raw, p)
}

// EncodeRLP implements rlp.Encoder. The record travels as an RLP string
// holding its bit-packed encoding.
func (p *Probe) EncodeRLP(w io.Writer) error {
	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return rlp.Encode(w, b)
}

// DecodeRLP implements rlp.Decoder.
func (p *Probe) DecodeRLP(src *rlp.Stream) error {
	b, err := src.Bytes()
	if err != nil {
		return err
	}
	return p.UnmarshalBinary(b)
}

// RPCMarshal converts the probe to a JSON-friendly map. JSON has no NaN or
// infinity, so latency is only present when finite; latencyBits always is.
func (p *Probe) RPCMarshal() map[string]interface{} {
	fields := map[string]interface{}{
		"seq":         hexutil.Uint64(p.Seq),
		"channel":     hexutil.Uint64(p.Channel),
		"reliable":    p.Reliable,
		"latencyBits": hexutil.Uint64(math.Float32bits(p.Latency)),
	}
	if l := float64(p.Latency); !math.IsNaN(l) && !math.IsInf(l, 0) {
		fields["latency"] = p.Latency
	}
	return fields
}
