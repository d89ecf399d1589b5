// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// Host side simulation of the boot sequence, for tools and tests.

// Mapping is a leaf mapping of the boot tables.
type Mapping struct {
	Virt  uintptr
	Phys  uintptr
	Size  uintptr
	Flags uint64
}

// BootReport describes the result of a simulated boot.
type BootReport struct {
	Scheme Scheme
	Layout Layout
	// SATP is the value written to satp.
	SATP uint64
	// Ops lists the privileged operations in the order they ran.
	Ops []string
	// FrameOffset is the offset the entry code adds to its stack
	// pointer and return address.
	FrameOffset uintptr
	// TablesUsed is the number of pool tables allocated.
	TablesUsed int
	// RootEntries are the indices of the valid root entries.
	RootEntries []int
	Mappings    []Mapping

	ctx *bootContext
}

// recordingHart stands in for a hart off the target. Its satp behaves
// like the register of a hart implementing every mode unless
// rejectSATP is set.
type recordingHart struct {
	satp       uint64
	rejectSATP bool
	ops        []string
}

func (h *recordingHart) writeSATP(v uint64) {
	h.ops = append(h.ops, "csrw satp")
	if !h.rejectSATP {
		h.satp = v
	}
}

func (h *recordingHart) readSATP() uint64 {
	h.ops = append(h.ops, "csrr satp")
	return h.satp
}

func (h *recordingHart) sfenceVMA() {
	h.ops = append(h.ops, "sfence.vma")
}

// SimulateBoot runs the boot sequence for scheme s and layout l on
// fresh tables and a simulated hart, and verifies the resulting
// tables.
func SimulateBoot(s Scheme, l Layout) (*BootReport, error) {
	if err := l.Validate(s); err != nil {
		return nil, err
	}
	c := new(bootContext)
	c.init(new(tableArena), s, l)
	h := new(recordingHart)
	offset := runBoot(c, h)
	if err := verifyBootTables(c); err != nil {
		return nil, err
	}
	r := &BootReport{
		Scheme:      s,
		Layout:      l,
		SATP:        h.satp,
		Ops:         h.ops,
		FrameOffset: offset,
		TablesUsed:  c.pool.used(),
		ctx:         c,
	}
	for i, e := range c.root {
		if e.valid() {
			r.RootEntries = append(r.RootEntries, i)
		}
	}
	for _, e := range dumpPageTable(c) {
		r.Mappings = append(r.Mappings, Mapping{
			Virt:  uintptr(e.vaddr),
			Phys:  uintptr(e.paddr),
			Size:  e.size,
			Flags: uint64(e.flags),
		})
	}
	return r, nil
}

// Translate returns the physical address the boot tables map va to.
func (r *BootReport) Translate(va uintptr) (uintptr, bool) {
	pa, ok := r.ctx.translate(virtualAddress(va))
	return uintptr(pa), ok
}
