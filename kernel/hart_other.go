// SPDX-License-Identifier: Unlicense OR MIT

//go:build !riscv64

package kernel

import (
	"io"
	"os"
)

// hostConsole receives console output when the kernel package runs
// outside a riscv64 hart, such as in tests and host tools.
var hostConsole io.Writer = os.Stderr

func outputByte(b byte) {
	hostConsole.Write([]byte{b})
}

// halt stops the caller. Off the hart it panics so that tools and
// tests observe fatal errors.
func halt() {
	panic("kernel: halt")
}
