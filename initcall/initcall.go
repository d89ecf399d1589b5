// SPDX-License-Identifier: Unlicense OR MIT

// Package initcall reads the table of module init calls the link step
// places between two boundary addresses. Each entry is a function
// returning a descriptor of the module.
package initcall

import (
	"errors"
	"fmt"
	"io"
	"unsafe"
)

// Kind tags the variant of a Descriptor.
type Kind uint8

const (
	KindDriver Kind = 1 + iota
)

// Descriptor describes a module.
type Descriptor struct {
	Kind       Kind
	Name       string
	Compatible string
}

// Entry is the in-memory layout of one table entry.
type Entry struct {
	Init func() Descriptor
}

// Table is a read-only view of init call entries.
type Table []Entry

var (
	ErrRange     = errors.New("initcall: end before start")
	ErrAlignment = errors.New("initcall: range is not a multiple of the entry size")
)

// Driver returns a driver descriptor.
func Driver(name, compatible string) Descriptor {
	return Descriptor{Kind: KindDriver, Name: name, Compatible: compatible}
}

func (k Kind) String() string {
	switch k {
	case KindDriver:
		return "driver"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FromRange returns the table of entries in [start, end). The range
// must hold whole entries and stay mapped while the table is used.
func FromRange(start, end uintptr) (Table, error) {
	if end < start {
		return nil, ErrRange
	}
	size := unsafe.Sizeof(Entry{})
	if (end-start)%size != 0 {
		return nil, ErrAlignment
	}
	n := int((end - start) / size)
	if n == 0 {
		return nil, nil
	}
	return Table(unsafe.Slice((*Entry)(unsafe.Pointer(start)), n)), nil
}

// Each calls the init function of every entry in order and passes the
// descriptor to fn. Entries without an init function are skipped.
func (t Table) Each(fn func(Descriptor)) {
	for _, e := range t {
		if e.Init == nil {
			continue
		}
		fn(e.Init())
	}
}

// Print writes the range of t and a line for every driver found.
func (t Table) Print(w io.Writer) error {
	var start, end uintptr
	if len(t) > 0 {
		start = uintptr(unsafe.Pointer(&t[0]))
		end = start + uintptr(len(t))*unsafe.Sizeof(Entry{})
	}
	if _, err := fmt.Fprintf(w, "init calls range: 0x%X ~ 0x%X\n\n", start, end); err != nil {
		return err
	}
	var err error
	t.Each(func(d Descriptor) {
		if err != nil || d.Kind != KindDriver {
			return
		}
		_, err = fmt.Fprintf(w, "Found driver '%s': compatible '%s'\n", d.Name, d.Compatible)
	})
	return err
}
