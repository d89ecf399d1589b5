// SPDX-License-Identifier: Unlicense OR MIT

package kernel

var (
	bootStack [bootStackSize / 8]uint64

	// bootOffset is the frame offset enterLinear applies.
	bootOffset uintptr
)

// machineHart is the hart running the boot sequence.
type machineHart struct{}

// bootTranslate builds the boot tables and enables translation on the
// static boot context. rt0 calls it while running at physical
// addresses and moves its own frame by bootOffset afterwards.
//
//go:nosplit
func bootTranslate() {
	var h machineHart
	bootCtx.init(&bootArena, bootScheme, DefaultLayout)
	bootOffset = runBoot(&bootCtx, h)
}

// bootMain is the first code running in the linear alias.
//
//go:nosplit
func bootMain() {
	outputString("boot: ")
	outputString(bootCtx.scheme.name)
	outputString(" translation enabled, satp ")
	outputUint64(readSATP())
	outputString("\n")
}

//go:nosplit
func (machineHart) writeSATP(v uint64) {
	writeSATP(v)
}

//go:nosplit
func (machineHart) readSATP() uint64 {
	return readSATP()
}

//go:nosplit
func (machineHart) sfenceVMA() {
	sfenceVMAAll()
}

//go:nosplit
func outputByte(b byte) {
	sbiConsolePutchar(b)
}

// rt0 is the image entry point, jumped to by the firmware at the
// physical load address. Link with
// -ldflags=-E=eliasnaur.com/rvboot/kernel.rt0.
func rt0()

// enterLinear adds bootOffset to the stack pointer and return address
// of its caller, rt0, and returns into the linear alias.
func enterLinear()

func writeSATP(v uint64)
func readSATP() uint64
func sfenceVMAAll()
func sbiConsolePutchar(c byte)
func halt()
