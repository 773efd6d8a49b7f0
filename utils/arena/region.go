package arena

import "fmt"

// Region is an (offset, length) handle into an arena's storage. It is only
// good for the storage generation it was issued under: once the owning arena
// is cleared or destroyed, Bytes panics with ErrStaleRegion.
//
// The zero Region is empty and always valid.
type Region struct {
	mem *storage
	off int
	n   int
}

// Offset returns the position of the region from the start of the arena.
func (r Region) Offset() int { return r.off }

// Len returns the region size in bytes.
func (r Region) Len() int { return r.n }

// Valid reports whether the region still refers to live storage.
func (r Region) Valid() bool {
	return r.mem == nil || r.mem.live
}

// Bytes returns the region's bytes. The slice aliases arena storage; writes
// through it are visible to every other holder of the same range.
func (r Region) Bytes() []byte {
	if r.mem == nil {
		return nil
	}
	if !r.mem.live {
		panic(fmt.Errorf("%w: [%d,%d)", ErrStaleRegion, r.off, r.off+r.n))
	}
	return r.mem.buf[r.off : r.off+r.n : r.off+r.n]
}
