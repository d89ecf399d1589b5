// SPDX-License-Identifier: Unlicense OR MIT

package kernel

import (
	"sync/atomic"
	"unsafe"
)

// tablePoolSize is the number of intermediate tables available to the
// boot mapper. It matches what the three boot aliases need in the
// deepest scheme.
const tablePoolSize = 4

// arenaTables is the number of tables placed on page boundaries in
// an arena: the root followed by the pool.
const arenaTables = 1 + tablePoolSize

// tableArena is the storage for the boot tables. Go can't align a
// variable to a page, so the arena holds one spare table and the
// aligned window is computed from its address.
type tableArena struct {
	raw [arenaTables + 1]pageTable
}

// tablePool hands out the pool tables of an arena. Tables are never
// returned.
type tablePool struct {
	slots *[tablePoolSize]pageTable
	next  atomic.Uint32
}

// tables returns the page aligned window of the arena.
//
//go:nosplit
func (a *tableArena) tables() *[arenaTables]pageTable {
	base := unsafe.Pointer(&a.raw[0])
	off := (pageSize - uintptr(base)%pageSize) % pageSize
	return (*[arenaTables]pageTable)(unsafe.Add(base, off))
}

// alloc returns a zeroed table from the pool. Running past the pool
// indexes out of the slot array and faults.
//
//go:nosplit
func (p *tablePool) alloc() *pageTable {
	i := p.next.Add(1) - 1
	return &p.slots[i]
}

// used returns the number of tables handed out.
//
//go:nosplit
func (p *tablePool) used() int {
	return int(p.next.Load())
}

// physOf returns the physical address of a table. Before translation
// is enabled, addresses are physical.
//
//go:nosplit
func physOf(t *pageTable) physicalAddress {
	return physicalAddress(uintptr(unsafe.Pointer(t)))
}
