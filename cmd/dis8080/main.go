// main.go - standalone disassembler CLI (SPEC_FULL.md §0/§1)
//
// Grounded on cmd/ie32to64/main.go's flag.String/flag.Bool/flag.Usage
// shape: one auxiliary flag plus a single positional input path, errors
// printed to stderr with a non-zero exit. -raw switches between treating
// input as a raw byte dump (decoded directly) and as assembled .asm
// source (run through assembler.Assemble first, per SPEC_FULL.md §1's
// rationale for using the flag package here but not in the root CLI).

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/moorts/go8080/assembler"
)

func main() {
	raw := flag.Bool("raw", false, "treat input as a raw byte dump instead of .asm source")
	lenient := flag.Bool("lenient", false, "substitute - for an undecodable opcode instead of failing")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dis8080 [options] input\n\nDisassembles an 8080 program to its canonical mnemonic listing.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var bytes []byte
	if *raw {
		bytes = data
	} else {
		fmt.Print(assembler.NewSource(string(data)).String())
		fmt.Println()
		fmt.Println(strings.Repeat("-", 40))
		prog, err := assembler.Assemble(string(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		bytes = prog.Bytes
	}

	lines, err := assembler.Decode(bytes, *lenient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(assembler.MnemonicLine(lines))
}
