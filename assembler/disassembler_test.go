package assembler

import (
	"reflect"
	"testing"
)

func TestDecodeJmp(t *testing.T) {
	got, err := Decode([]byte{0xC3, 0xCD, 0xAB}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"JMP 0abcdH"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeMixedStream(t *testing.T) {
	// MVI A,5 ; ADI 3 ; HLT
	got, err := Decode([]byte{0x3E, 0x05, 0xC6, 0x03, 0x76}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MVI A,5H", "ADI 3H", "HLT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeMovAndRegisters(t *testing.T) {
	// MOV B,C ; MOV M,A ; MOV A,M
	got, err := Decode([]byte{0x41, 0x77, 0x7E}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MOV B,C", "MOV M,A", "MOV A,M"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeConditionalJumpAndCall(t *testing.T) {
	got, err := Decode([]byte{0xCA, 0x00, 0x01, 0xDC, 0x34, 0x12}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"JZ 100H", "CC 1234H"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeLxiAndDad(t *testing.T) {
	got, err := Decode([]byte{0x21, 0x34, 0x12, 0x09}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"LXI H,1234H", "DAD B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeRst(t *testing.T) {
	got, err := Decode([]byte{0xCF}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"RST 1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeDuplicateOpcodes(t *testing.T) {
	// 0xCB is a documented duplicate of JMP, 0xD9 of RET.
	got, err := Decode([]byte{0xCB, 0x00, 0x00, 0xD9}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"JMP 0H", "RET"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeTruncatedInstructionFails(t *testing.T) {
	_, err := Decode([]byte{0xC3, 0x01}, false)
	if err == nil {
		t.Fatal("expected an error decoding a truncated 3-byte instruction")
	}
	if _, ok := err.(*InvalidOpcodeError); !ok {
		t.Fatalf("expected *InvalidOpcodeError, got %T", err)
	}
}

func TestDecodeLenientSubstitutesPlaceholder(t *testing.T) {
	got, err := Decode([]byte{0xC3, 0x01}, true)
	if err != nil {
		t.Fatalf("unexpected error in lenient mode: %v", err)
	}
	if len(got) == 0 || got[len(got)-1] != "-" {
		t.Fatalf("expected lenient mode to substitute \"-\", got %v", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	resolve := func(string) (int32, bool) { return 0, false }
	instrs := []struct {
		mnemonic string
		operands string
	}{
		{"MVI", "A,5"},
		{"LXI", "H,1234H"},
		{"MOV", "B,C"},
		{"ADD", "D"},
		{"JMP", "100H"},
		{"CALL", "200H"},
		{"PUSH", "B"},
		{"POP", "PSW"},
	}
	for _, instr := range instrs {
		bytes, err := Encode(0, instr.mnemonic, instr.operands, 0, resolve)
		if err != nil {
			t.Fatalf("Encode(%s %s): %v", instr.mnemonic, instr.operands, err)
		}
		text, size, err := DecodeOne(bytes, 0)
		if err != nil {
			t.Fatalf("DecodeOne after encoding %s %s: %v", instr.mnemonic, instr.operands, err)
		}
		if size != len(bytes) {
			t.Fatalf("%s %s: decoded size %d, encoded size %d", instr.mnemonic, instr.operands, size, len(bytes))
		}
		if text == "" {
			t.Fatalf("%s %s: decoded to empty text", instr.mnemonic, instr.operands)
		}
	}
}
