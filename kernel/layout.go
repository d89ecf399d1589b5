// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// Link-time layout. The link step must agree with these values; a
// mismatch faults right after the boot frame is adjusted.
const (
	// KernelBase is the start of the high-half alias.
	KernelBase = 0xffff_ffff_c000_0000

	// PhysVirtOffset is the distance from a physical address to its
	// linear alias.
	PhysVirtOffset = 0xffff_ffc0_0000_0000

	// ImageOffset is where the kernel image starts in the load region,
	// past the firmware.
	ImageOffset = 0x20_0000

	// LinkBase is the virtual address the kernel image is linked at.
	LinkBase = PhysVirtOffset + bootLoadBase + ImageOffset

	bootLoadBase = 0x8000_0000
	bootLoadSize = pageSize1GB
)

// Layout describes the physical load region and the virtual bases it
// is aliased at during boot.
type Layout struct {
	LoadBase       uintptr
	LoadSize       uintptr
	PhysVirtOffset uintptr
	KernelBase     uintptr
}

// DefaultLayout is the layout of the boot image.
var DefaultLayout = Layout{
	LoadBase:       bootLoadBase,
	LoadSize:       bootLoadSize,
	PhysVirtOffset: PhysVirtOffset,
	KernelBase:     KernelBase,
}

// LinkBase returns the address the kernel image must be linked at for
// the layout. It is in the linear alias.
func (l Layout) LinkBase() uintptr {
	return l.LoadBase + ImageOffset + l.PhysVirtOffset
}

type aliasKind int

const (
	aliasIdentity aliasKind = iota
	aliasLinear
	aliasHighHalf
)

// bootAlias is one virtual window onto the load region.
type bootAlias struct {
	kind aliasKind
	virt virtualAddress
}

// aliases returns the identity, linear and high-half windows, in the
// order they are mapped.
//
//go:nosplit
func (l Layout) aliases() [3]bootAlias {
	return [3]bootAlias{
		{aliasIdentity, virtualAddress(l.LoadBase)},
		{aliasLinear, virtualAddress(l.LoadBase + l.PhysVirtOffset)},
		{aliasHighHalf, virtualAddress(l.KernelBase)},
	}
}

func (k aliasKind) String() string {
	switch k {
	case aliasIdentity:
		return "identity"
	case aliasLinear:
		return "linear"
	case aliasHighHalf:
		return "high-half"
	default:
		return "unknown"
	}
}

// Validate checks the layout against the boot mapper's assumptions
// for the scheme: giant page alignment, canonical virtual addresses
// and enough pool tables for the three aliases.
func (l Layout) Validate(s Scheme) error {
	const mask = pageSize1GB - 1
	if l.LoadSize == 0 {
		return kernError("Validate: empty load region")
	}
	if l.LoadBase&mask != 0 || l.LoadSize&mask != 0 {
		return kernError("Validate: load region not giant page aligned")
	}
	if l.PhysVirtOffset&mask != 0 || l.KernelBase&mask != 0 {
		return kernError("Validate: alias base not giant page aligned")
	}
	for _, a := range l.aliases() {
		last := a.virt + virtualAddress(l.LoadSize-1)
		if !s.canonical(a.virt) || !s.canonical(last) {
			return kernError("Validate: " + a.kind.String() + " alias is not canonical in " + s.name)
		}
		if last < a.virt {
			return kernError("Validate: " + a.kind.String() + " alias wraps the address space")
		}
	}
	if n := l.requiredTables(s); n > tablePoolSize {
		return kernError("Validate: layout needs more intermediate tables than the boot pool holds")
	}
	return nil
}

// requiredTables counts the intermediate tables the boot mapper
// allocates for the layout's aliases under scheme s.
func (l Layout) requiredTables(s Scheme) int {
	type tableKey struct {
		level  int
		prefix virtualAddress
	}
	seen := make(map[tableKey]bool)
	for _, a := range l.aliases() {
		start := a.virt.alignGiant()
		end := (a.virt + virtualAddress(l.LoadSize)).alignGiantUp()
		for va := start; va != end; va += pageSize1GB {
			// Tables below the root are identified by the address
			// bits above the level they serve.
			for level := s.levels - 2; level >= giantLevel; level-- {
				shift := pageShift + levelBits*uint(level+1)
				seen[tableKey{level, va >> shift}] = true
			}
		}
	}
	return len(seen)
}
