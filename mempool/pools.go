// Package mempool groups the arenas a process runs on, one per lifetime.
//
// Program memory lives until exit, Persistent memory across sessions, Session
// memory until the current session ends, and Frame memory for a single
// iteration of the main loop. Ending a lifetime clears its arena and every
// shorter-lived one in a single step.
package mempool

import (
	"github.com/rony4d/go-csm/utils/arena"
)

const MiB = 1 << 20

// Config sizes the arenas, in bytes.
type Config struct {
	Program    int `env:"PROGRAM"`
	Persistent int `env:"PERSISTENT"`
	Session    int `env:"SESSION"`
	Frame      int `env:"FRAME"`
}

// DefaultConfig returns the stock arena sizes.
func DefaultConfig() Config {
	return Config{
		Program:    64 * MiB,
		Persistent: 4 * MiB,
		Session:    4 * MiB,
		Frame:      4 * MiB,
	}
}

// Pools owns one arena per lifetime.
type Pools struct {
	Program    *arena.Arena
	Persistent *arena.Arena
	Session    *arena.Arena
	Frame      *arena.Arena

	frames   uint64
	sessions uint64
}

// New allocates all arenas. obs, if not nil, receives every arena's watermark.
func New(cfg Config, obs arena.Observer) *Pools {
	mk := func(name string, size int) *arena.Arena {
		return arena.New(size, arena.WithName(name), arena.WithObserver(obs))
	}
	return &Pools{
		Program:    mk("program", cfg.Program),
		Persistent: mk("persistent", cfg.Persistent),
		Session:    mk("session", cfg.Session),
		Frame:      mk("frame", cfg.Frame),
	}
}

// EndFrame releases everything allocated during the current frame.
func (p *Pools) EndFrame() {
	p.Frame.Clear()
	p.frames++
}

// EndSession releases session and frame memory.
func (p *Pools) EndSession() {
	p.Session.Clear()
	p.EndFrame()
	p.sessions++
}

// Frames returns the number of frames ended so far.
func (p *Pools) Frames() uint64 { return p.frames }

// Sessions returns the number of sessions ended so far.
func (p *Pools) Sessions() uint64 { return p.sessions }

// Close destroys every arena. The Pools must not be used afterwards.
func (p *Pools) Close() {
	for _, a := range p.all() {
		a.Destroy()
	}
}

// Metrics returns a snapshot of every arena, longest lifetime first.
func (p *Pools) Metrics() []arena.Metrics {
	all := p.all()
	res := make([]arena.Metrics, len(all))
	for i, a := range all {
		res[i] = a.Metrics()
	}
	return res
}

func (p *Pools) all() []*arena.Arena {
	return []*arena.Arena{p.Program, p.Persistent, p.Session, p.Frame}
}
