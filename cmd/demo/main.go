// SPDX-License-Identifier: Unlicense OR MIT

// Command demo walks the module init call table and prints the
// drivers it finds.
package main

import (
	"io"
	"log"
	"os"
	"unsafe"

	"eliasnaur.com/rvboot/initcall"
)

// initCalls stands in for the link-time init call section.
var initCalls = [...]initcall.Entry{
	{Init: func() initcall.Descriptor { return initcall.Driver("rtc", "google,goldfish-rtc") }},
	{Init: func() initcall.Descriptor { return initcall.Driver("uart", "ns16550a") }},
}

func main() {
	log.SetFlags(0)
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// initCallsRange returns the boundary addresses of the init calls.
func initCallsRange() (start, end uintptr) {
	start = uintptr(unsafe.Pointer(&initCalls[0]))
	return start, start + unsafe.Sizeof(initCalls)
}

func run(w io.Writer) error {
	io.WriteString(w, "\n[rvboot demo]: B0\n\n")
	table, err := initcall.FromRange(initCallsRange())
	if err != nil {
		return err
	}
	if err := table.Print(w); err != nil {
		return err
	}
	io.WriteString(w, "\nResult: Okay!\n")
	return nil
}
