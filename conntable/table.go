// Package conntable keeps a fixed number of connection slots in arena memory.
//
// Each slot is SlotSize bytes: a used flag followed by the peer address as a
// little-endian uint64. The whole table is one allocation, so it lives and
// dies with the arena it was carved from; clearing that arena invalidates the
// table and any later call panics.
package conntable

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rony4d/go-csm/utils/arena"
)

// SlotSize is the number of arena bytes one slot takes.
const SlotSize = 1 + 8

var (
	ErrTableFull = errors.New("connection table full")
	ErrBadSlot   = errors.New("connection table: bad slot")
)

// Table is a fixed-capacity set of connections indexed by slot.
type Table struct {
	slots arena.Region
	max   int
	used  int
}

// Bytes returns the arena space a table of max slots needs.
func Bytes(max int) int {
	return max * SlotSize
}

// New carves a table of max slots out of a. All slots start free.
func New(a *arena.Arena, max int) *Table {
	if max <= 0 {
		panic(fmt.Errorf("%w: capacity %d", arena.ErrBadSize, max))
	}
	t := &Table{slots: a.Alloc(Bytes(max)), max: max}
	clear(t.slots.Bytes())
	return t
}

func (t *Table) slot(i int) []byte {
	off := i * SlotSize
	return t.slots.Bytes()[off : off+SlotSize]
}

// Add stores addr in the lowest free slot and returns its index.
func (t *Table) Add(addr uint64) (int, error) {
	buf := t.slots.Bytes()
	for i := 0; i < t.max; i++ {
		s := buf[i*SlotSize : (i+1)*SlotSize]
		if s[0] != 0 {
			continue
		}
		s[0] = 1
		binary.LittleEndian.PutUint64(s[1:], addr)
		t.used++
		return i, nil
	}
	return -1, fmt.Errorf("%w: %d slots", ErrTableFull, t.max)
}

// Free releases slot i. Freeing a slot that is out of range or not in use
// panics.
func (t *Table) Free(i int) {
	s := t.mustUse(i)
	s[0] = 0
	binary.LittleEndian.PutUint64(s[1:], 0)
	t.used--
}

// Addr returns the address held by slot i, which must be in use.
func (t *Table) Addr(i int) uint64 {
	return binary.LittleEndian.Uint64(t.mustUse(i)[1:])
}

// InUse reports whether slot i holds a connection.
func (t *Table) InUse(i int) bool {
	if i < 0 || i >= t.max {
		return false
	}
	return t.slot(i)[0] != 0
}

func (t *Table) mustUse(i int) []byte {
	if i < 0 || i >= t.max {
		panic(fmt.Errorf("%w: %d out of %d", ErrBadSlot, i, t.max))
	}
	s := t.slot(i)
	if s[0] == 0 {
		panic(fmt.Errorf("%w: %d is free", ErrBadSlot, i))
	}
	return s
}

// Len returns the number of slots in use.
func (t *Table) Len() int { return t.used }

// Cap returns the number of slots.
func (t *Table) Cap() int { return t.max }
