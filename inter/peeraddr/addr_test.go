package peeraddr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

var sample = Addr{Type: Types.IPv4, IP: [4]byte{10, 0, 0, 1}, Port: 30303}

func TestFromString(t *testing.T) {
	require := require.New(t)

	for _, s := range []string{"040a000001765f", "0x040a000001765f"} {
		got, err := FromString(s)
		require.NoError(err)
		require.Equal(sample, got)
	}

	for _, s := range []string{"", "0x", "-", "0x040a000001765f00", "0x050a000001765f"} {
		_, err := FromString(s)
		require.Errorf(err, "input %q", s)
	}
}

func TestString(t *testing.T) {
	require.Equal(t, "0x040a000001765f", sample.String())
}

func TestEmpty(t *testing.T) {
	require.True(t, Addr{}.Empty())
	require.False(t, sample.Empty())
}

func TestUint64(t *testing.T) {
	require := require.New(t)

	u := sample.Uint64()
	require.Equal(uint64(0x040a000001765f), u)
	require.Equal(sample, FromUint64(u))
	require.Equal(Addr{}, FromUint64(0))
}

func TestHostPort(t *testing.T) {
	require := require.New(t)

	require.Equal("10.0.0.1:30303", sample.HostPort())

	got, err := FromHostPort("10.0.0.1:30303")
	require.NoError(err)
	require.Equal(sample, got)

	_, err = FromHostPort("[::1]:30303")
	require.ErrorIs(err, ErrBadType)
	_, err = FromHostPort("10.0.0.1:70000")
	require.Error(err)
	_, err = FromHostPort("10.0.0.1")
	require.Error(err)
}

func TestMarshalUnmarshal(t *testing.T) {
	require := require.New(t)

	data, err := json.Marshal(sample)
	require.NoError(err)
	require.Equal(`"`+sample.String()+`"`, string(data))

	var decoded Addr
	require.NoError(json.Unmarshal(data, &decoded))
	require.Equal(sample, decoded)
}
