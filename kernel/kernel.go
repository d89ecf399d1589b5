// SPDX-License-Identifier: Unlicense OR MIT

package kernel

// kernError is an error type usable in kernel code.
type kernError string

//go:nosplit
func (k kernError) Error() string {
	return string(k)
}

//go:nosplit
func fatal(msg string) {
	outputString("fatal error: ")
	outputString(msg)
	outputString("\n")
	halt()
}

//go:nosplit
func outputString(s string) {
	for i := 0; i < len(s); i++ {
		outputByte(s[i])
	}
}

//go:nosplit
func outputUint64(v uint64) {
	const hexDigits = "0123456789abcdef"
	outputString("0x")
	for shift := 60; shift >= 0; shift -= 4 {
		outputByte(hexDigits[(v>>uint(shift))&0xf])
	}
}
