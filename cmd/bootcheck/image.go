// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"bytes"
	"debug/elf"
	"fmt"

	"eliasnaur.com/rvboot/kernel"
)

// segment is a loadable segment of a kernel image.
type segment struct {
	vaddr, paddr, memsz uint64
}

func checkImage(r *kernel.BootReport, path string) error {
	data, release, err := mapImage(path)
	if err != nil {
		return err
	}
	defer release()
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if f.Machine != elf.EM_RISCV || f.Class != elf.ELFCLASS64 {
		return fmt.Errorf("not a riscv64 image: %v %v", f.Class, f.Machine)
	}
	var segs []segment
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}
		segs = append(segs, segment{vaddr: p.Vaddr, paddr: p.Paddr, memsz: p.Memsz})
	}
	if err := checkSegments(r, segs); err != nil {
		return err
	}
	if _, ok := r.Translate(uintptr(f.Entry)); !ok {
		return fmt.Errorf("entry point %#x is not mapped", f.Entry)
	}
	return nil
}

// checkSegments verifies that the first and last byte of every
// segment is mapped, and to its load address when it has one.
func checkSegments(r *kernel.BootReport, segs []segment) error {
	for _, s := range segs {
		for _, off := range []uint64{0, s.memsz - 1} {
			va := s.vaddr + off
			pa, ok := r.Translate(uintptr(va))
			if !ok {
				return fmt.Errorf("segment %#x: address %#x is not mapped", s.vaddr, va)
			}
			if s.paddr != s.vaddr && uint64(pa) != s.paddr+off {
				return fmt.Errorf("segment %#x: address %#x maps %#x, want %#x", s.vaddr, va, pa, s.paddr+off)
			}
		}
	}
	return nil
}
