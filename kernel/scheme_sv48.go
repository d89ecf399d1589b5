// SPDX-License-Identifier: Unlicense OR MIT

//go:build sv48 && !sv57

package kernel

var bootScheme = Sv48
