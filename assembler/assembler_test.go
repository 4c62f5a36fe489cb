package assembler

import (
	"testing"
)

func mustAssemble(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q): unexpected error: %v", src, err)
	}
	return prog
}

func TestAssembleSimpleImmediate(t *testing.T) {
	prog := mustAssemble(t, "MVI A, 5\nEND")
	want := []byte{0x3E, 0x05}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleForwardLabel(t *testing.T) {
	prog := mustAssemble(t, "label: JMP label\nEND")
	want := []byte{0xC3, 0x00, 0x00}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleSumLoop(t *testing.T) {
	src := `
MVI B, 16
MVI A, 0
loop: ADD B
DCR B
JNZ loop
HLT
END
`
	prog := mustAssemble(t, src)
	want := []byte{
		0x06, 0x10, // MVI B,16
		0x3E, 0x00, // MVI A,0
		0x80,                   // ADD B (loop:)
		0x05,                   // DCR B
		0xC2, 0x04, 0x00,       // JNZ loop
		0x76, // HLT
	}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleMacroExpansion(t *testing.T) {
	src := "ADD8 MACRO\nADI 8\nENDM\nADD8\nEND"
	prog := mustAssemble(t, src)
	want := []byte{0xC6, 0x08}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleMacroWithParams(t *testing.T) {
	src := "SETR MACRO R, V\nMVI R, V\nENDM\nSETR B, 10\nSETR C, 20\nEND"
	prog := mustAssemble(t, src)
	want := []byte{0x06, 0x0A, 0x0E, 0x14}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleEquAndOrg(t *testing.T) {
	src := `
BASE EQU 100H
ORG BASE
MVI A, 1
END
`
	prog := mustAssemble(t, src)
	if len(prog.Origins) != 1 {
		t.Fatalf("expected one origin, got %d: %+v", len(prog.Origins), prog.Origins)
	}
	if prog.Origins[0].LoadAddr != 0x100 || prog.Origins[0].Offset != 0 {
		t.Fatalf("unexpected origin: %+v", prog.Origins[0])
	}
	want := []byte{0x3E, 0x01}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleSetRebinds(t *testing.T) {
	src := `
X SET 1
MVI A, X
X SET 2
MVI B, X
END
`
	prog := mustAssemble(t, src)
	want := []byte{0x3E, 0x01, 0x06, 0x02}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleMacroLocalEquResolvesAcrossExpansions(t *testing.T) {
	src := "LOAD5 MACRO\nVAL EQU 5\nMVI A, VAL\nENDM\nLOAD5\nLOAD5\nEND"
	prog := mustAssemble(t, src)
	want := []byte{0x3E, 0x05, 0x3E, 0x05}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleConditional(t *testing.T) {
	src := `
FLAG EQU 0
IF FLAG
MVI A, 1
ENDIF
MVI A, 2
END
`
	prog := mustAssemble(t, src)
	want := []byte{0x3E, 0x02}
	if string(prog.Bytes) != string(want) {
		t.Fatalf("got % X, want % X", prog.Bytes, want)
	}
}

func TestAssembleLineMap(t *testing.T) {
	src := "MVI A, 5\nADI 3\nHLT\nEND"
	prog := mustAssemble(t, src)
	if idx, ok := prog.LineMap[0]; !ok || idx != 0 {
		t.Fatalf("expected line map entry for addr 0 -> line 0, got %d,%v", idx, ok)
	}
	if idx, ok := prog.LineMap[2]; !ok || idx != 1 {
		t.Fatalf("expected line map entry for addr 2 -> line 1, got %d,%v", idx, ok)
	}
	if idx, ok := prog.LineMap[4]; !ok || idx != 2 {
		t.Fatalf("expected line map entry for addr 4 -> line 2, got %d,%v", idx, ok)
	}
}

func TestAssembleMissingEND(t *testing.T) {
	_, err := Assemble("MVI A, 5")
	if err == nil {
		t.Fatal("expected error for missing END")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("expected *SemanticError, got %T: %v", err, err)
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	src := "foo: NOP\nfoo: NOP\nEND"
	_, err := Assemble(src)
	if err == nil {
		t.Fatal("expected error for duplicate label")
	}
}

func TestAssembleUnresolvedSymbol(t *testing.T) {
	src := "JMP nowhere\nEND"
	_, err := Assemble(src)
	if err == nil {
		t.Fatal("expected error for unresolved reference")
	}
}

func TestAssembleReservedWordAsLabel(t *testing.T) {
	src := "MOV: NOP\nEND"
	_, err := Assemble(src)
	if err == nil {
		t.Fatal("expected error using a mnemonic as a label")
	}
}

func TestSourceStringStripsComments(t *testing.T) {
	src := "MVI A, 5 ; load five\nEND\n"
	got := NewSource(src).String()
	want := "MVI A, 5\nEND\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceStringHandlesCRLF(t *testing.T) {
	src := "MVI A, 5\r\nEND\r\n"
	got := NewSource(src).String()
	want := "MVI A, 5\nEND\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInstrSize(t *testing.T) {
	cases := []struct {
		mnemonic string
		size     int
		ok       bool
	}{
		{"NOP", 1, true},
		{"MVI", 2, true},
		{"LXI", 3, true},
		{"JMP", 3, true},
		{"JNZ", 3, true},
		{"ADD", 1, true},
		{"ADI", 2, true},
		{"BOGUS", 0, false},
	}
	for _, c := range cases {
		size, ok := InstrSize(c.mnemonic)
		if size != c.size || ok != c.ok {
			t.Errorf("InstrSize(%q) = %d,%v, want %d,%v", c.mnemonic, size, ok, c.size, c.ok)
		}
	}
}
