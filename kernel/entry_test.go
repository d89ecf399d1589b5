// SPDX-License-Identifier: Unlicense OR MIT

package kernel

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

// asmBodies returns the instructions of every TEXT block in the
// riscv64 assembly, keyed by symbol, with comments and labels removed.
func asmBodies(t *testing.T) (map[string][]string, map[string]string) {
	t.Helper()
	src, err := os.ReadFile("asm_riscv64.s")
	if err != nil {
		t.Fatal(err)
	}
	bodies := make(map[string][]string)
	defines := make(map[string]string)
	var cur string
	for _, line := range strings.Split(string(src), "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
		case fields[0] == "#define" && len(fields) == 3:
			defines[fields[1]] = fields[2]
		case fields[0] == "TEXT":
			cur = strings.TrimPrefix(strings.SplitN(fields[1], "(", 2)[0], "·")
		case cur != "" && !strings.HasSuffix(fields[0], ":"):
			bodies[cur] = append(bodies[cur], strings.Join(fields, " "))
		}
	}
	return bodies, defines
}

func TestEntrySequence(t *testing.T) {
	bodies, _ := asmBodies(t)
	var calls []string
	for _, ins := range bodies["rt0"] {
		if strings.HasPrefix(ins, "CALL ") || strings.HasPrefix(ins, "JMP ") {
			calls = append(calls, ins)
		}
	}
	want := []string{
		"CALL ·bootTranslate(SB)",
		"CALL ·enterLinear(SB)",
		"CALL ·bootMain(SB)",
		"JMP ·halt(SB)",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("rt0 control transfers = %q, want %q", calls, want)
	}
}

func TestEnterLinearAdjustsOnlySPAndRA(t *testing.T) {
	bodies, _ := asmBodies(t)
	want := []string{
		"MOV ·bootOffset(SB), X5",
		"ADD X5, X2, X2",
		"ADD X5, X1, X1",
		"RET",
	}
	if got := bodies["enterLinear"]; !reflect.DeepEqual(got, want) {
		t.Errorf("enterLinear = %q, want %q", got, want)
	}
}

func TestBootStackSize(t *testing.T) {
	_, defines := asmBodies(t)
	n, err := strconv.Atoi(defines["BOOT_STACK_SIZE"])
	if err != nil {
		t.Fatalf("BOOT_STACK_SIZE: %v", err)
	}
	if n != bootStackSize {
		t.Errorf("BOOT_STACK_SIZE = %d, want %d", n, bootStackSize)
	}
}
