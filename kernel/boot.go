// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// Boot translation: build the boot tables, enable translation and move
// the boot frame to the linear alias. The sequence runs once, on one
// hart, before anything else uses translated addresses. The frame move
// itself is done by the entry code, in the frame whose return address
// is the real return target.

type bootState uint8

const (
	statePhysOnly bootState = iota
	stateTablesBuilt
	stateMMUEnabled
	stateVirtActive
)

// bootContext owns the boot tables for the duration of the boot
// sequence.
type bootContext struct {
	scheme Scheme
	layout Layout
	arena  *tableArena
	root   *pageTable
	pool   tablePool
	state  bootState
}

// hart is the privileged state touched by the boot sequence.
type hart interface {
	writeSATP(v uint64)
	readSATP() uint64
	// sfenceVMA invalidates all cached translations of all address
	// spaces.
	sfenceVMA()
}

// bootStackSize is the size of the stack the entry code runs the boot
// sequence on. It must match BOOT_STACK_SIZE in asm_riscv64.s.
const bootStackSize = 4 * pageSize

// The static boot context. Its tables are zero in the loaded image.
var (
	bootArena tableArena
	bootCtx   bootContext
)

//go:nosplit
func (c *bootContext) init(arena *tableArena, s Scheme, l Layout) {
	tables := arena.tables()
	c.scheme = s
	c.layout = l
	c.arena = arena
	c.root = &tables[0]
	c.pool.slots = (*[tablePoolSize]pageTable)(tables[1:])
	c.state = statePhysOnly
}

// runBoot runs the boot sequence and returns the offset the entry
// code must add to its stack pointer and return address.
//
//go:nosplit
func runBoot(c *bootContext, h hart) uintptr {
	c.preMMU()
	c.enableMMU(h)
	return c.postMMU()
}

// preMMU maps the load region at its identity, linear and high-half
// aliases.
//
//go:nosplit
func (c *bootContext) preMMU() {
	if c.state != statePhysOnly {
		fatal("preMMU: boot tables already built")
	}
	l := &c.layout
	for _, a := range l.aliases() {
		c.bootMap(c.root, c.scheme.levels, a.virt, physicalAddress(l.LoadBase), l.LoadSize, bootFlags)
	}
	c.state = stateTablesBuilt
}

// enableMMU installs the root table and flushes stale translations.
// The identity alias keeps the next instruction fetch valid.
//
//go:nosplit
func (c *bootContext) enableMMU(h hart) {
	if c.state != stateTablesBuilt {
		fatal("enableMMU: boot tables not built")
	}
	satp := c.scheme.SATP(0, uintptr(physOf(c.root)))
	h.writeSATP(satp)
	h.sfenceVMA()
	// satp is WARL: a hart without the mode keeps the old value.
	if got := h.readSATP(); got != satp {
		outputString("satp: ")
		outputUint64(got)
		outputString("\n")
		fatal("enableMMU: translation mode not supported by hart")
	}
	c.state = stateMMUEnabled
}

// postMMU returns the offset moving the boot frame from physical to
// linear alias addresses. It must directly follow enableMMU, and the
// caller must apply the offset before anything else runs.
//
//go:nosplit
func (c *bootContext) postMMU() uintptr {
	if c.state != stateMMUEnabled {
		fatal("postMMU: translation not enabled")
	}
	c.state = stateVirtActive
	return c.layout.PhysVirtOffset
}
