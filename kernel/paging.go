// SPDX-License-Identifier: Unlicense OR MIT

package kernel

const (
	pageShift = 12
	pageSize  = 1 << pageShift

	// Index bits per table level.
	levelBits     = 9
	pageTableSize = 1 << levelBits

	// giantLevel is the level holding the boot leaf entries. A leaf
	// there maps 1 GB in every scheme.
	giantLevel  = 2
	pageSize1GB = 1 << (pageShift + levelBits*giantLevel)

	// The physical page number starts at bit 10 of an entry and is
	// 44 bits wide.
	ptePPNShift = 10
	ptePPNMask  = (1<<44 - 1) << ptePPNShift
)

type physicalAddress uintptr

type virtualAddress uintptr

type pageFlags uint64

// pageTable is the hardware representation of a page table at
// any level.
type pageTable [pageTableSize]pageTableEntry

// pageTableEntry is the hardware representation of a page table
// entry.
type pageTableEntry uint64

const (
	pageFlagValid    pageFlags = 1 << 0
	pageFlagRead     pageFlags = 1 << 1
	pageFlagWrite    pageFlags = 1 << 2
	pageFlagExec     pageFlags = 1 << 3
	pageFlagUser     pageFlags = 1 << 4
	pageFlagGlobal   pageFlags = 1 << 5
	pageFlagAccessed pageFlags = 1 << 6
	pageFlagDirty    pageFlags = 1 << 7

	allPageFlags = pageFlagValid | pageFlagRead | pageFlagWrite | pageFlagExec |
		pageFlagUser | pageFlagGlobal | pageFlagAccessed | pageFlagDirty

	// A leaf has at least one of these set. A pointer has none.
	leafFlags = pageFlagRead | pageFlagWrite | pageFlagExec

	// bootFlags is given to every boot alias. A and D are preset so
	// harts without hardware A/D updates don't fault.
	bootFlags = pageFlagRead | pageFlagWrite | pageFlagExec |
		pageFlagGlobal | pageFlagAccessed | pageFlagDirty
)

// tableIndex returns the index into the level table selecting va.
// Level 0 is the innermost level.
//
//go:nosplit
func tableIndex(level int, va virtualAddress) int {
	shift := pageShift + levelBits*uint(level)
	return int(va>>shift) & (pageTableSize - 1)
}

// encodeLeaf returns a leaf entry mapping the page aligned pa.
//
//go:nosplit
func encodeLeaf(pa physicalAddress, flags pageFlags) pageTableEntry {
	return pageTableEntry(pa>>pageShift)<<ptePPNShift | pageTableEntry(flags|pageFlagValid)
}

// encodePointer returns an entry pointing to the table at pa.
//
//go:nosplit
func encodePointer(pa physicalAddress) pageTableEntry {
	return pageTableEntry(pa>>pageShift)<<ptePPNShift | pageTableEntry(pageFlagValid)
}

// decodeFrame returns the physical address the entry refers to.
//
//go:nosplit
func decodeFrame(e pageTableEntry) physicalAddress {
	return physicalAddress((e&ptePPNMask)>>ptePPNShift) << pageShift
}

//go:nosplit
func (e pageTableEntry) valid() bool {
	return pageFlags(e)&pageFlagValid != 0
}

//go:nosplit
func (e pageTableEntry) leaf() bool {
	return e.valid() && pageFlags(e)&leafFlags != 0
}

//go:nosplit
func (e pageTableEntry) pointer() bool {
	return e.valid() && pageFlags(e)&leafFlags == 0
}

//go:nosplit
func (e pageTableEntry) flags() pageFlags {
	return pageFlags(e) & allPageFlags
}

// Align the address downwards to the giant page size.
func (a virtualAddress) alignGiant() virtualAddress {
	return a &^ (pageSize1GB - 1)
}

// Align the address upwards to the giant page size. The result wraps
// to 0 at the top of the address space.
func (a virtualAddress) alignGiantUp() virtualAddress {
	return (a + pageSize1GB - 1) &^ (pageSize1GB - 1)
}
