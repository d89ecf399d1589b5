// SPDX-License-Identifier: Unlicense OR MIT

package kernel

import (
	"math/rand"
	"testing"
)

func TestEncodeLeafRoundTrip(t *testing.T) {
	addrs := []physicalAddress{
		0,
		0x1000,
		0x8000_0000,
		0x8020_0000,
		0x40_0000_0000,
		0xff_ffff_ffff_f000,
	}
	flagSets := []pageFlags{
		bootFlags,
		pageFlagRead,
		pageFlagRead | pageFlagWrite | pageFlagUser,
		pageFlagExec | pageFlagGlobal,
	}
	for _, pa := range addrs {
		for _, flags := range flagSets {
			e := encodeLeaf(pa, flags)
			if got := decodeFrame(e); got != pa {
				t.Errorf("decodeFrame(encodeLeaf(%#x, %#x)) = %#x", pa, flags, got)
			}
			if !e.leaf() || e.pointer() {
				t.Errorf("encodeLeaf(%#x, %#x) = %#x is not a leaf", pa, flags, e)
			}
			if got, want := e.flags(), flags|pageFlagValid; got != want {
				t.Errorf("encodeLeaf(%#x, %#x).flags() = %#x, want %#x", pa, flags, got, want)
			}
		}
	}
}

func TestEncodeLeafBootEntry(t *testing.T) {
	// The boot entry for the load region, as written by hand in
	// earlier boot code.
	const want = pageTableEntry(0x80000<<10 | 0xef)
	if got := encodeLeaf(0x8000_0000, bootFlags); got != want {
		t.Errorf("encodeLeaf(0x80000000, bootFlags) = %#x, want %#x", got, want)
	}
}

func TestEntryKinds(t *testing.T) {
	tests := []struct {
		name    string
		entry   pageTableEntry
		valid   bool
		leaf    bool
		pointer bool
	}{
		{"invalid", 0, false, false, false},
		{"pointer", encodePointer(0x8000_1000), true, false, true},
		{"leaf", encodeLeaf(0x8000_0000, bootFlags), true, true, false},
		{"execute only leaf", encodeLeaf(0x8000_0000, pageFlagExec), true, true, false},
		{"invalid with frame", pageTableEntry(0x80000 << ptePPNShift), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.valid(); got != tt.valid {
				t.Errorf("valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.entry.leaf(); got != tt.leaf {
				t.Errorf("leaf() = %v, want %v", got, tt.leaf)
			}
			if got := tt.entry.pointer(); got != tt.pointer {
				t.Errorf("pointer() = %v, want %v", got, tt.pointer)
			}
		})
	}
}

func TestPointerRoundTrip(t *testing.T) {
	pa := physicalAddress(0x8020_5000)
	e := encodePointer(pa)
	if got := decodeFrame(e); got != pa {
		t.Errorf("decodeFrame(encodePointer(%#x)) = %#x", pa, got)
	}
	if got := e.flags(); got != pageFlagValid {
		t.Errorf("encodePointer(%#x).flags() = %#x, want only the valid bit", pa, got)
	}
}

func TestTableIndex(t *testing.T) {
	tests := []struct {
		level int
		va    virtualAddress
		want  int
	}{
		{0, 0x1234_5000, 0x145},
		{1, 0x1234_5000, 0x91},
		{2, 0x8000_0000, 2},
		{2, 0xffff_ffc0_8000_0000, 0x102},
		{2, KernelBase, 0x1ff},
		{3, 0x8000_0000, 0},
		{3, 0xffff_ffc0_8000_0000, 0x1ff},
		{4, KernelBase, 0x1ff},
	}
	for _, tt := range tests {
		if got := tableIndex(tt.level, tt.va); got != tt.want {
			t.Errorf("tableIndex(%d, %#x) = %#x, want %#x", tt.level, tt.va, got, tt.want)
		}
	}
}

func TestTableIndexRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		va := virtualAddress(rnd.Uint64())
		for level := 0; level < 5; level++ {
			idx := tableIndex(level, va)
			if idx < 0 || idx >= pageTableSize {
				t.Fatalf("tableIndex(%d, %#x) = %d, out of range", level, va, idx)
			}
			if again := tableIndex(level, va); again != idx {
				t.Fatalf("tableIndex(%d, %#x) = %d then %d", level, va, idx, again)
			}
		}
	}
}

func TestAlignGiant(t *testing.T) {
	tests := []struct {
		va       virtualAddress
		down, up virtualAddress
	}{
		{0x8000_0000, 0x8000_0000, 0x8000_0000},
		{0x8000_1000, 0x8000_0000, 0xc000_0000},
		{0xbfff_ffff, 0x8000_0000, 0xc000_0000},
		{KernelBase + 1, KernelBase, 0},
	}
	for _, tt := range tests {
		if got := tt.va.alignGiant(); got != tt.down {
			t.Errorf("%#x.alignGiant() = %#x, want %#x", tt.va, got, tt.down)
		}
		if got := tt.va.alignGiantUp(); got != tt.up {
			t.Errorf("%#x.alignGiantUp() = %#x, want %#x", tt.va, got, tt.up)
		}
	}
}
