package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-csm/utils/arena"
)

func smallConfig() Config {
	return Config{Program: 256, Persistent: 128, Session: 128, Frame: 64}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 64*MiB, cfg.Program)
	assert.Equal(t, 4*MiB, cfg.Persistent)
	assert.Equal(t, 4*MiB, cfg.Session)
	assert.Equal(t, 4*MiB, cfg.Frame)
}

func TestPools_Lifetimes(t *testing.T) {
	require := require.New(t)

	p := New(smallConfig(), nil)
	defer p.Close()

	p.Program.Alloc(10)
	p.Persistent.Alloc(10)
	session := p.Session.Alloc(10)
	frame := p.Frame.Alloc(10)

	p.EndFrame()
	require.Equal(0, p.Frame.Len())
	require.Equal(10, p.Session.Len())
	require.False(frame.Valid())
	require.True(session.Valid())
	require.Equal(uint64(1), p.Frames())

	p.Frame.Alloc(5)
	p.EndSession()
	require.Equal(0, p.Frame.Len())
	require.Equal(0, p.Session.Len())
	require.False(session.Valid())
	require.Equal(10, p.Program.Len())
	require.Equal(10, p.Persistent.Len())
	require.Equal(uint64(2), p.Frames())
	require.Equal(uint64(1), p.Sessions())
}

func TestPools_Metrics(t *testing.T) {
	p := New(smallConfig(), nil)
	defer p.Close()

	p.Frame.Alloc(16)
	m := p.Metrics()
	require.Len(t, m, 4)

	names := make([]string, len(m))
	for i := range m {
		names[i] = m[i].Name
	}
	assert.Equal(t, []string{"program", "persistent", "session", "frame"}, names)
	assert.Equal(t, 16, m[3].Used)
	assert.Equal(t, 0.25, m[3].Utilization)
}

func TestPools_WatermarkObserver(t *testing.T) {
	var got []arena.Watermark
	p := New(smallConfig(), func(w arena.Watermark) { got = append(got, w) })
	defer p.Close()

	p.Frame.Alloc(40)
	p.Session.Alloc(10)
	require.Len(t, got, 1)
	assert.Equal(t, arena.Watermark{Name: "frame", Used: 40, Capacity: 64}, got[0])

	p.EndFrame()
	p.Frame.Alloc(40)
	assert.Len(t, got, 2)
}

func TestPools_Close(t *testing.T) {
	p := New(smallConfig(), nil)
	p.Close()
	for _, m := range p.Metrics() {
		assert.Zero(t, m.Capacity)
	}
	assert.Panics(t, p.EndFrame)
}
