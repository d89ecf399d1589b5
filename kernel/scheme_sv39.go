// SPDX-License-Identifier: Unlicense OR MIT

//go:build !sv48 && !sv57

package kernel

// bootScheme is the scheme the boot tables are built for. Select
// another one with the sv48 or sv57 build tag.
var bootScheme = Sv39
