// SPDX-License-Identifier: Unlicense OR MIT

//go:build sv57

package kernel

var bootScheme = Sv57
