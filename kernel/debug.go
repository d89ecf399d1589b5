// SPDX-License-Identifier: Unlicense OR MIT

package kernel

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

type pageTableRange struct {
	vaddr virtualAddress
	paddr physicalAddress
	size  uintptr
	flags pageFlags
}

// dumpPageTable returns the leaf mappings reachable from the root of
// c, sorted by virtual address.
func dumpPageTable(c *bootContext) []pageTableRange {
	var entries []pageTableRange
	c.dumpTable(c.root, c.scheme.levels-1, 0, &entries)
	slices.SortFunc(entries, func(a, b pageTableRange) int {
		return cmp.Compare(a.vaddr, b.vaddr)
	})
	return entries
}

func (c *bootContext) dumpTable(t *pageTable, level int, base virtualAddress, entries *[]pageTableRange) {
	shift := pageShift + levelBits*uint(level)
	for i, e := range t {
		if !e.valid() {
			continue
		}
		vaddr := base + virtualAddress(i)<<shift
		if level == c.scheme.levels-1 && i&(pageTableSize/2) != 0 {
			// Sign extend.
			vaddr |= ^virtualAddress(0) << c.scheme.vaBits()
		}
		if e.leaf() {
			*entries = append(*entries, pageTableRange{vaddr, decodeFrame(e), 1 << shift, e.flags()})
			continue
		}
		if level == 0 {
			// A pointer at the last level is not a mapping.
			continue
		}
		if next := c.tableAt(decodeFrame(e)); next != nil {
			c.dumpTable(next, level-1, vaddr, entries)
		}
	}
}

// translate walks the tables of c like the hardware would.
func (c *bootContext) translate(va virtualAddress) (physicalAddress, bool) {
	if !c.scheme.canonical(va) {
		return 0, false
	}
	table := c.root
	for level := c.scheme.levels - 1; level >= 0; level-- {
		e := table[tableIndex(level, va)]
		if !e.valid() {
			return 0, false
		}
		if e.leaf() {
			offset := va & (virtualAddress(1)<<(pageShift+levelBits*uint(level)) - 1)
			return decodeFrame(e) | physicalAddress(offset), true
		}
		if table = c.tableAt(decodeFrame(e)); table == nil {
			return 0, false
		}
	}
	return 0, false
}

// verifyBootTables checks the tables built by preMMU: leaves carry the
// boot flags, virtual ranges are disjoint, and every alias reaches
// the same physical pages.
func verifyBootTables(c *bootContext) error {
	entries := dumpPageTable(c)
	for i, e := range entries {
		if e.flags != bootFlags|pageFlagValid {
			return fmt.Errorf("verify: mapping %#x has flags %#x", e.vaddr, e.flags)
		}
		if i > 0 {
			prev := entries[i-1]
			if prev.vaddr+virtualAddress(prev.size) > e.vaddr && prev.vaddr+virtualAddress(prev.size) != 0 {
				return fmt.Errorf("verify: overlapping mappings %#x and %#x", prev.vaddr, e.vaddr)
			}
		}
	}
	l := &c.layout
	for _, a := range l.aliases() {
		for off := uintptr(0); off < l.LoadSize; off += pageSize1GB {
			va := a.virt + virtualAddress(off)
			pa, ok := c.translate(va)
			if !ok {
				return fmt.Errorf("verify: %s alias %#x is not mapped", a.kind, va)
			}
			if want := physicalAddress(l.LoadBase + off); pa != want {
				return fmt.Errorf("verify: %s alias %#x maps %#x, want %#x", a.kind, va, pa, want)
			}
		}
	}
	return nil
}
