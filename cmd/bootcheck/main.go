// SPDX-License-Identifier: Unlicense OR MIT

// Command bootcheck simulates the boot translation tables for a
// scheme and layout, prints and verifies them, and optionally checks a
// linked kernel image against them.
//
// Usage:
//
//	bootcheck [-scheme sv39] [-load-base 0x80000000] [-image kernel.elf] [-lds out.lds]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"eliasnaur.com/rvboot/kernel"
)

type config struct {
	scheme  kernel.Scheme
	layout  kernel.Layout
	image   string
	lds     string
	verbose bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bootcheck: ")
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (config, error) {
	fs := flag.NewFlagSet("bootcheck", flag.ContinueOnError)
	def := kernel.DefaultLayout
	scheme := fs.String("scheme", "sv39", "translation scheme: sv39, sv48 or sv57")
	loadBase := fs.Uint64("load-base", uint64(def.LoadBase), "physical base of the load region")
	loadSize := fs.Uint64("load-size", uint64(def.LoadSize), "size of the load region")
	offset := fs.Uint64("offset", uint64(def.PhysVirtOffset), "linear alias offset")
	kernelBase := fs.Uint64("kernel-base", uint64(def.KernelBase), "high-half alias base")
	var cfg config
	fs.StringVar(&cfg.image, "image", "", "kernel ELF image to check against the tables")
	fs.StringVar(&cfg.lds, "lds", "", "write the linker script base address fragment to this file")
	fs.BoolVar(&cfg.verbose, "v", false, "print the simulated privileged operations")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	s, err := kernel.ParseScheme(*scheme)
	if err != nil {
		return config{}, err
	}
	cfg.scheme = s
	cfg.layout = kernel.Layout{
		LoadBase:       uintptr(*loadBase),
		LoadSize:       uintptr(*loadSize),
		PhysVirtOffset: uintptr(*offset),
		KernelBase:     uintptr(*kernelBase),
	}
	return cfg, nil
}

func run(cfg config, w io.Writer) error {
	r, err := kernel.SimulateBoot(cfg.scheme, cfg.layout)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.scheme, err)
	}
	printReport(w, r, cfg.verbose)
	if cfg.image != "" {
		if err := checkImage(r, cfg.image); err != nil {
			return fmt.Errorf("%s: %w", cfg.image, err)
		}
		fmt.Fprintf(w, "image %s: all loadable segments mapped\n", cfg.image)
	}
	if cfg.lds != "" {
		if err := os.WriteFile(cfg.lds, []byte(linkerScript(cfg.layout)), 0644); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, r *kernel.BootReport, verbose bool) {
	fmt.Fprintf(w, "scheme %s (%d levels), satp %#016x\n", r.Scheme, r.Scheme.Levels(), r.SATP)
	fmt.Fprintf(w, "root entries %#x, pool tables used %d\n", r.RootEntries, r.TablesUsed)
	for _, m := range r.Mappings {
		fmt.Fprintf(w, "  %#016x -> %#016x %4dM flags %#x\n", m.Virt, m.Phys, m.Size>>20, m.Flags)
	}
	fmt.Fprintf(w, "frame offset %#x, link base %#x\n", r.FrameOffset, r.Layout.LinkBase())
	if verbose {
		fmt.Fprintf(w, "ops: %s\n", strings.Join(r.Ops, ", "))
	}
}

// linkerScript returns the linker script fragment fixing the base
// address the image is linked at.
func linkerScript(l kernel.Layout) string {
	return fmt.Sprintf("CFG_BASE_ADDRESS = %#x;\n", l.LinkBase())
}
