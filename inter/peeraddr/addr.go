// Package peeraddr provides a compact, fixed-size peer address.
// An Addr packs into a single uint64 so it can be stored in a connection
// table slot without indirection, and renders as a 0x-prefixed hex string for
// configs, logs and JSON.
package peeraddr

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Size is the length of the flat byte form: type, 4 IP bytes, 2 port bytes.
const Size = 7

var (
	ErrBadLength = errors.New("peer address: wrong length")
	ErrBadType   = errors.New("peer address: unknown type")
)

// Types lists the supported address families.
var Types = struct {
	IPv4 uint8
}{
	IPv4: 0x04,
}

// Addr is an IPv4 endpoint tagged with its address family.
type Addr struct {
	Type uint8
	IP   [4]byte
	Port uint16
}

// Empty reports whether the address is the zero value.
func (a Addr) Empty() bool {
	return a == Addr{}
}

// Bytes returns the flat form: [Type][IP...][Port big-endian].
func (a Addr) Bytes() []byte {
	return []byte{a.Type, a.IP[0], a.IP[1], a.IP[2], a.IP[3], byte(a.Port >> 8), byte(a.Port)}
}

// FromBytes parses the flat form produced by Bytes.
func FromBytes(b []byte) (Addr, error) {
	if len(b) != Size {
		return Addr{}, fmt.Errorf("%w: %d bytes", ErrBadLength, len(b))
	}
	if b[0] != Types.IPv4 {
		return Addr{}, fmt.Errorf("%w: %#x", ErrBadType, b[0])
	}
	a := Addr{Type: b[0], Port: uint16(b[5])<<8 | uint16(b[6])}
	copy(a.IP[:], b[1:5])
	return a, nil
}

// Uint64 packs the address into the low 56 bits of a word, Type highest.
func (a Addr) Uint64() uint64 {
	var u uint64
	for _, b := range a.Bytes() {
		u = u<<8 | uint64(b)
	}
	return u
}

// FromUint64 is the inverse of Uint64. It does not validate the type.
func FromUint64(u uint64) Addr {
	var b [Size]byte
	for i := Size - 1; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	a := Addr{Type: b[0], Port: uint16(b[5])<<8 | uint16(b[6])}
	copy(a.IP[:], b[1:5])
	return a
}

// String returns the 0x-prefixed hex of Bytes.
func (a Addr) String() string {
	return "0x" + common.Bytes2Hex(a.Bytes())
}

// FromString parses a hex string (with or without "0x" prefix).
func FromString(str string) (Addr, error) {
	return FromBytes(common.FromHex(str))
}

// HostPort formats the address as "ip:port".
func (a Addr) HostPort() string {
	return net.JoinHostPort(net.IP(a.IP[:]).String(), strconv.Itoa(int(a.Port)))
}

// FromHostPort parses "ip:port" with an IPv4 ip.
func FromHostPort(s string) (Addr, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return Addr{}, err
	}
	ip := net.ParseIP(host).To4()
	if ip == nil {
		return Addr{}, fmt.Errorf("%w: %q is not IPv4", ErrBadType, host)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return Addr{}, fmt.Errorf("peer address port: %w", err)
	}
	a := Addr{Type: Types.IPv4, Port: uint16(p)}
	copy(a.IP[:], ip)
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*a = res
	return nil
}
