// SPDX-License-Identifier: Unlicense OR MIT

package initcall

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
	"unsafe"
)

func sampleEntries() []Entry {
	return []Entry{
		{Init: func() Descriptor { return Driver("uart", "ns16550a") }},
		{Init: func() Descriptor { return Driver("rtc", "google,goldfish-rtc") }},
	}
}

func TestFromRange(t *testing.T) {
	entries := sampleEntries()
	start := uintptr(unsafe.Pointer(&entries[0]))
	end := start + uintptr(len(entries))*unsafe.Sizeof(Entry{})
	table, err := FromRange(start, end)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	table.Each(func(d Descriptor) {
		names = append(names, d.Name)
	})
	runtime.KeepAlive(entries)
	if got := strings.Join(names, ","); got != "uart,rtc" {
		t.Errorf("names = %q, want %q", got, "uart,rtc")
	}
}

func TestFromRangeErrors(t *testing.T) {
	size := unsafe.Sizeof(Entry{})
	tests := []struct {
		name       string
		start, end uintptr
		wantErr    error
		wantLen    int
	}{
		{"empty", 0x1000, 0x1000, nil, 0},
		{"reversed", 0x2000, 0x1000, ErrRange, 0},
		{"partial entry", 0x1000, 0x1000 + size/2, ErrAlignment, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := FromRange(tt.start, tt.end)
			if err != tt.wantErr {
				t.Errorf("FromRange() error = %v, want %v", err, tt.wantErr)
			}
			if len(table) != tt.wantLen {
				t.Errorf("FromRange() len = %d, want %d", len(table), tt.wantLen)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	table := Table(sampleEntries())
	table = append(table, Entry{})
	var buf bytes.Buffer
	if err := table.Print(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"init calls range: 0x",
		"Found driver 'uart': compatible 'ns16550a'\n",
		"Found driver 'rtc': compatible 'google,goldfish-rtc'\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output %q lacks %q", out, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindDriver.String(); got != "driver" {
		t.Errorf("KindDriver.String() = %q", got)
	}
	if got := Kind(7).String(); got != "kind(7)" {
		t.Errorf("Kind(7).String() = %q", got)
	}
}
