// main.go - CLI entry point / benchmark harness (spec.md §6,
// SPEC_FULL.md §1/§3)
//
// Grounded on the donor's own main.go for its raw os.Args argument style
// (mode + filename, no flag package) and exit-code discipline
// (os.Exit(1) with a message on stderr, no panic); the GUI/audio/video
// setup that dominates that file has no counterpart here. -suite mode's
// bounded concurrent fan-out is grounded on SPEC_FULL.md §2's rationale
// for wiring golang.org/x/sync/errgroup, which the donor's go.mod
// declares but never imports directly in this checkout.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/moorts/go8080/assembler"
)

var diag = log.New(os.Stderr, "", 0)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: go8080 <file.com|file.asm>")
	fmt.Fprintln(os.Stderr, "       go8080 -suite <dir>")
	fmt.Fprintln(os.Stderr, "       go8080 -monitor <file.com|file.asm>")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "-suite":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := runSuite(os.Args[2]); err != nil {
			diag.Fatalf("suite: %v", err)
		}
	case "-monitor":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := runMonitor(os.Args[2]); err != nil {
			diag.Fatalf("monitor: %v", err)
		}
	default:
		if len(os.Args) != 2 {
			usage()
			os.Exit(1)
		}
		out, err := runFile(os.Args[1])
		if err != nil {
			diag.Fatalf("%s: %v", os.Args[1], err)
		}
		fmt.Print(out)
	}
}

// loadProgram builds a fresh CPU8080 with path's program loaded, honoring
// .asm's origins (SPEC_FULL.md §3's -suite/load feature) or loading a
// .COM image verbatim at 0x100 (spec.md §6's memory-layout convention).
// It also returns the assembled line map, nil for a .COM image.
func loadProgram(path string) (*CPU8080, map[uint16]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	mem := NewMemory(0x10000)
	cpu := NewCPU8080(mem)

	if strings.EqualFold(filepath.Ext(path), ".asm") {
		prog, err := assembler.Assemble(string(data))
		if err != nil {
			return nil, nil, fmt.Errorf("assemble %s: %w", path, err)
		}
		if len(prog.Origins) == 0 {
			cpu.LoadRAM(prog.Bytes, 0x100)
		} else {
			loadWithOrigins(mem, prog)
		}
		cpu.PC = 0x100
		cpu.SP = 0xFF00
		return cpu, prog.LineMap, nil
	}

	cpu.LoadRAM(data, 0x100)
	cpu.PC = 0x100
	cpu.SP = 0xFF00
	return cpu, nil, nil
}

// loadWithOrigins splits prog.Bytes across its recorded ORG boundaries,
// loading each segment at its own load address (SPEC_FULL.md §3).
func loadWithOrigins(mem *Memory, prog *assembler.Program) {
	prevOffset := 0
	prevAddr := uint16(0)
	for _, o := range prog.Origins {
		if o.Offset > prevOffset {
			mem.LoadVec(prog.Bytes[prevOffset:o.Offset], prevAddr)
		}
		prevOffset = o.Offset
		prevAddr = o.LoadAddr
	}
	if prevOffset < len(prog.Bytes) {
		mem.LoadVec(prog.Bytes[prevOffset:], prevAddr)
	}
}

func runFile(path string) (string, error) {
	cpu, _, err := loadProgram(path)
	if err != nil {
		return "", err
	}
	return RunCPM(cpu)
}

func runMonitor(path string) error {
	cpu, lineMap, err := loadProgram(path)
	if err != nil {
		return err
	}
	InstallBIOS(cpu)

	var sourceLine func(int) string
	if strings.EqualFold(filepath.Ext(path), ".asm") {
		if data, err := os.ReadFile(path); err == nil {
			lines := assembler.NewSource(string(data)).Lines
			sourceLine = func(idx int) string {
				for _, l := range lines {
					if l.Idx == idx {
						return l.Text
					}
				}
				return ""
			}
		}
	}

	m := NewMonitor(cpu, os.Stdout, os.Stdin, lineMap, sourceLine)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return m.Run(fd)
}

// runSuite assembles/loads and runs every .com/.asm file in dir
// concurrently, bounded by GOMAXPROCS, collecting the first failure
// (SPEC_FULL.md §2's errgroup wiring).
func runSuite(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".com" && ext != ".asm" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			out, err := runFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			diag.Printf("%s: ok (%d bytes console output)", path, len(out))
			return nil
		})
	}

	return g.Wait()
}
