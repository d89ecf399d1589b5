// SPDX-License-Identifier: Unlicense OR MIT

//go:build !(linux || darwin || freebsd)

package main

import "os"

func mapImage(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
