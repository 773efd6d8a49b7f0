package arena

// This package implements a fixed-capacity bump ("arena") allocator.
//
// An Arena owns one contiguous byte slice and a cursor. Alloc hands out the
// next n bytes and moves the cursor forward; there is no way to free a single
// allocation. Memory is reclaimed only in bulk with Clear (keep the storage,
// rewind the cursor) or Destroy (drop the storage).
//
// Misuse is a programming error, not a runtime condition: allocating past the
// capacity, touching an arena before Init or after Destroy, and reading through
// a handle that outlived a Clear all panic immediately. The panic value is an
// error wrapping one of the sentinel errors below.

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("arena: not initialized")
	ErrAlreadyInitialized = errors.New("arena: already initialized")
	ErrDestroyed          = errors.New("arena: use after Destroy")
	ErrOutOfCapacity      = errors.New("arena: out of capacity")
	ErrBadSize            = errors.New("arena: invalid size")
	ErrOutOfRange         = errors.New("arena: span outside committed bytes")
	ErrStaleRegion        = errors.New("arena: region used after Clear or Destroy")
)

// Watermark is delivered to an Observer when an arena first becomes more than
// half full.
type Watermark struct {
	Name     string
	Used     int
	Capacity int
}

// Observer receives watermark notifications. It must not allocate from the
// arena that is notifying it.
type Observer func(Watermark)

func nopObserver(Watermark) {}

// Option configures an Arena at Init time.
type Option func(*Arena)

// WithName labels the arena in watermark notifications and metrics.
func WithName(name string) Option {
	return func(a *Arena) { a.name = name }
}

// WithObserver installs the watermark observer. A nil observer is ignored.
func WithObserver(obs Observer) Option {
	return func(a *Arena) {
		if obs != nil {
			a.observer = obs
		}
	}
}

// storage is one generation of arena contents. Clear and Destroy retire the
// current generation so that every Region issued under it stops resolving.
type storage struct {
	buf  []byte
	live bool
}

func (s *storage) retire() {
	s.live = false
	s.buf = nil
}

// Arena is a fixed-capacity bump allocator. The zero value is uninitialized;
// call Init (or use New) before allocating. Not goroutine-safe.
type Arena struct {
	cursor      int
	capacity    int
	allocs      int
	mem         *storage
	initialized bool
	destroyed   bool

	name     string
	observer Observer
	warned   bool
}

// New returns an initialized arena of the given capacity.
func New(capacity int, opts ...Option) *Arena {
	a := &Arena{}
	a.Init(capacity, opts...)
	return a
}

// Init allocates capacity bytes of backing storage and resets the cursor.
// Calling Init on a live arena panics; Destroy it first.
func (a *Arena) Init(capacity int, opts ...Option) {
	if a.initialized {
		panic(fmt.Errorf("%w: %q", ErrAlreadyInitialized, a.name))
	}
	if capacity <= 0 {
		panic(fmt.Errorf("%w: capacity %d", ErrBadSize, capacity))
	}

	*a = Arena{observer: nopObserver}
	for _, opt := range opts {
		opt(a)
	}
	a.mem = &storage{buf: make([]byte, capacity), live: true}
	a.capacity = capacity
	a.initialized = true
}

// mustBeLive panics unless the arena can serve requests.
func (a *Arena) mustBeLive() {
	if a.initialized {
		return
	}
	if a.destroyed {
		panic(ErrDestroyed)
	}
	panic(ErrNotInitialized)
}

// Alloc returns a handle to size contiguous bytes at the cursor and advances
// the cursor by size. The bytes are not zeroed: after a Clear they may still
// hold whatever the previous owner wrote.
//
// The request must leave at least one byte unused (cursor+size < capacity);
// otherwise Alloc panics with ErrOutOfCapacity. There is no recovery path,
// arenas are meant to be sized during development.
func (a *Arena) Alloc(size int) Region {
	a.mustBeLive()
	if size < 0 {
		panic(fmt.Errorf("%w: alloc %d bytes", ErrBadSize, size))
	}
	if a.cursor+size >= a.capacity {
		panic(fmt.Errorf("%w: %q alloc %d bytes at %d of %d",
			ErrOutOfCapacity, a.name, size, a.cursor, a.capacity))
	}

	off := a.cursor
	a.cursor += size
	a.allocs++

	if !a.warned && a.cursor*2 > a.capacity {
		a.warned = true
		a.observer(Watermark{Name: a.name, Used: a.cursor, Capacity: a.capacity})
	}

	return Region{mem: a.mem, off: off, n: size}
}

// Head returns an empty handle positioned immediately after the last
// allocated byte. It does not advance the cursor.
func (a *Arena) Head() Region {
	a.mustBeLive()
	return Region{mem: a.mem, off: a.cursor}
}

// Span returns a handle over the committed bytes [off, off+n). It never
// allocates; the range must already lie below the cursor.
func (a *Arena) Span(off, n int) Region {
	a.mustBeLive()
	if off < 0 || n < 0 || off+n > a.cursor {
		panic(fmt.Errorf("%w: [%d,%d) cursor %d", ErrOutOfRange, off, off+n, a.cursor))
	}
	return Region{mem: a.mem, off: off, n: n}
}

// Clear rewinds the cursor to zero. Capacity and the backing bytes are kept
// (and not wiped), but every Region handed out so far becomes stale.
func (a *Arena) Clear() {
	a.mustBeLive()
	buf := a.mem.buf
	a.mem.retire()
	a.mem = &storage{buf: buf, live: true}
	a.cursor = 0
	a.allocs = 0
	a.warned = false
}

// Destroy releases the backing storage. Any later use of the arena, including
// a second Destroy, panics with ErrDestroyed.
func (a *Arena) Destroy() {
	a.mustBeLive()
	a.mem.retire()
	a.mem = nil
	a.cursor = 0
	a.allocs = 0
	a.capacity = 0
	a.initialized = false
	a.destroyed = true
	a.warned = false
}

// Copy moves src into dst. If dst currently owns storage it is destroyed
// first. Afterwards dst describes exactly the storage and cursor src did and
// src is left uninitialized; Regions issued by src keep resolving through dst's
// storage.
func Copy(src, dst *Arena) {
	if src == dst {
		return
	}
	if dst.initialized {
		dst.Destroy()
	}
	*dst = *src
	*src = Arena{}
}

// Len returns the number of bytes allocated so far.
func (a *Arena) Len() int { return a.cursor }

// Cap returns the total capacity in bytes.
func (a *Arena) Cap() int { return a.capacity }

// Remaining returns the largest size Alloc will currently accept.
func (a *Arena) Remaining() int {
	if !a.initialized {
		return 0
	}
	return a.capacity - a.cursor - 1
}

// Initialized reports whether the arena currently owns storage.
func (a *Arena) Initialized() bool { return a.initialized }

// Name returns the label set with WithName.
func (a *Arena) Name() string { return a.name }

// Metrics is a point-in-time snapshot of arena usage.
type Metrics struct {
	Name        string
	Used        int
	Capacity    int
	Allocs      int     // Alloc calls since the last Clear
	Utilization float64 // Used / Capacity, 0 for an uninitialized arena
}

// Metrics returns a snapshot of the arena's usage.
func (a *Arena) Metrics() Metrics {
	m := Metrics{Name: a.name, Used: a.cursor, Capacity: a.capacity, Allocs: a.allocs}
	if a.capacity > 0 {
		m.Utilization = float64(a.cursor) / float64(a.capacity)
	}
	return m
}
