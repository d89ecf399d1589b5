// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// bootMap maps [va, va+length) to physical memory starting at pa with
// giant page leaves, allocating intermediate tables from the pool as
// needed. The range is widened to giant page boundaries; mapping an
// already mapped page overwrites its leaf.
//
//go:nosplit
func (c *bootContext) bootMap(root *pageTable, levels int, va virtualAddress, pa physicalAddress, length uintptr, flags pageFlags) {
	start := va.alignGiant()
	// The end wraps to 0 for a range reaching the top of the address
	// space, so the loop compares for inequality.
	end := (va + virtualAddress(length)).alignGiantUp()
	pa &^= pageSize1GB - 1
	for ; start != end; start, pa = start+pageSize1GB, pa+pageSize1GB {
		table := root
		for level := levels - 1; level > giantLevel; level-- {
			entry := &table[tableIndex(level, start)]
			if entry.valid() {
				if table = c.tableAt(decodeFrame(*entry)); table == nil {
					fatal("bootMap: pointer entry outside boot arena")
				}
				continue
			}
			next := c.pool.alloc()
			*entry = encodePointer(physOf(next))
			table = next
		}
		table[tableIndex(giantLevel, start)] = encodeLeaf(pa, flags)
	}
}

// tableAt returns the arena table at pa, or nil if pa is not one.
//
//go:nosplit
func (c *bootContext) tableAt(pa physicalAddress) *pageTable {
	tables := c.arena.tables()
	for i := range tables {
		if physOf(&tables[i]) == pa {
			return &tables[i]
		}
	}
	return nil
}
