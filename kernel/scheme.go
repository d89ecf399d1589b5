// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// Scheme is a RISC-V translation scheme. It fixes the number of table
// levels walked by the hardware and the satp mode selecting it.
type Scheme struct {
	name   string
	levels int
	mode   uint64
}

// satp fields.
const (
	satpModeShift = 60
	satpASIDShift = 44
	satpASIDMask  = 1<<16 - 1
	satpPPNMask   = 1<<44 - 1
)

var (
	Sv39 = Scheme{name: "sv39", levels: 3, mode: 8}
	Sv48 = Scheme{name: "sv48", levels: 4, mode: 9}
	Sv57 = Scheme{name: "sv57", levels: 5, mode: 10}
)

var schemes = []Scheme{Sv39, Sv48, Sv57}

// ParseScheme returns the scheme with the given name, such as "sv48".
func ParseScheme(name string) (Scheme, error) {
	for _, s := range schemes {
		if s.name == name {
			return s, nil
		}
	}
	return Scheme{}, kernError("ParseScheme: unknown translation scheme " + name)
}

func (s Scheme) String() string {
	return s.name
}

// Levels returns the number of table levels of the scheme.
func (s Scheme) Levels() int {
	return s.levels
}

// SATP returns the satp register value selecting the scheme with the
// given address space id and root table.
//
//go:nosplit
func (s Scheme) SATP(asid uint16, root uintptr) uint64 {
	return s.mode<<satpModeShift |
		(uint64(asid)&satpASIDMask)<<satpASIDShift |
		uint64(root>>pageShift)&satpPPNMask
}

// vaBits is the width of a virtual address in the scheme.
func (s Scheme) vaBits() uint {
	return pageShift + levelBits*uint(s.levels)
}

// canonical reports whether va is sign extended from its top
// translated bit, as the hardware requires.
func (s Scheme) canonical(va virtualAddress) bool {
	top := int64(va) >> (s.vaBits() - 1)
	return top == 0 || top == -1
}
