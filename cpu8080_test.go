package main

import "testing"

func newTestCPU(bytes []byte) *CPU8080 {
	mem := NewMemory(0x10000)
	mem.LoadVec(bytes, 0)
	cpu := NewCPU8080(mem)
	return cpu
}

func runToHalt(t *testing.T, cpu *CPU8080) {
	t.Helper()
	for i := 0; i < 10000 && cpu.Running; i++ {
		if _, err := cpu.ExecuteNext(); err != nil {
			t.Fatalf("ExecuteNext: %v", err)
		}
	}
	if cpu.Running {
		t.Fatal("program did not halt within 10000 instructions")
	}
}

func TestMviAdiHlt(t *testing.T) {
	cpu := newTestCPU([]byte{0x3E, 0x05, 0xC6, 0x03, 0x76})
	runToHalt(t, cpu)
	if got := cpu.Reg.A(); got != 8 {
		t.Fatalf("A = %d, want 8", got)
	}
	if cpu.Reg.GetFlag(flagZero) {
		t.Fatal("zero flag should be clear")
	}
	if cpu.Reg.GetFlag(flagCarry) {
		t.Fatal("carry flag should be clear")
	}
	if cpu.Running {
		t.Fatal("cpu should have halted")
	}
}

func TestSumOneToSixteenLoop(t *testing.T) {
	// MVI B,16 ; MVI A,0 ; loop: ADD B ; DCR B ; JNZ loop ; HLT
	cpu := newTestCPU([]byte{
		0x06, 0x10,
		0x3E, 0x00,
		0x80,
		0x05,
		0xC2, 0x04, 0x00,
		0x76,
	})
	runToHalt(t, cpu)
	if got := cpu.Reg.A(); got != 0x88 {
		t.Fatalf("A = %#02x, want 0x88", got)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	cpu := newTestCPU([]byte{0xC5, 0xD1}) // PUSH B ; POP D
	cpu.SP = 0x100
	cpu.Reg.Set16(PairBC, 0x1234)
	if _, err := cpu.ExecuteNext(); err != nil {
		t.Fatalf("PUSH B: %v", err)
	}
	if _, err := cpu.ExecuteNext(); err != nil {
		t.Fatalf("POP D: %v", err)
	}
	if got := cpu.Reg.Get16(PairDE); got != 0x1234 {
		t.Fatalf("DE = %#04x, want 0x1234", got)
	}
	if cpu.SP != 0x100 {
		t.Fatalf("SP = %#04x, want stack balanced back to 0x100", cpu.SP)
	}
}

func TestPushPopPSWSanitizes(t *testing.T) {
	cpu := newTestCPU([]byte{0xF5, 0xF1}) // PUSH PSW ; POP PSW
	cpu.SP = 0x100
	cpu.Reg.SetA(0x42)
	cpu.Reg.SetFlagsByte(0xFF)
	if _, err := cpu.ExecuteNext(); err != nil {
		t.Fatalf("PUSH PSW: %v", err)
	}
	if _, err := cpu.ExecuteNext(); err != nil {
		t.Fatalf("POP PSW: %v", err)
	}
	if got := cpu.Reg.A(); got != 0x42 {
		t.Fatalf("A = %#02x, want 0x42 (accumulator round-tripped through the stack)", got)
	}
	if got := cpu.Reg.Flags(); got != sanitizePSW(0xFF) {
		t.Fatalf("flags = %#02x, want sanitized flags %#02x", got, sanitizePSW(0xFF))
	}
}

func TestCallRetStackBalance(t *testing.T) {
	// main: CALL sub ; HLT      sub: RET
	cpu := newTestCPU([]byte{0xCD, 0x04, 0x00, 0x76, 0xC9})
	cpu.SP = 0xFF00
	startSP := cpu.SP

	if _, err := cpu.ExecuteNext(); err != nil { // CALL
		t.Fatalf("CALL: %v", err)
	}
	if cpu.PC != 4 {
		t.Fatalf("PC after CALL = %#04x, want 0x0004", cpu.PC)
	}
	if cpu.SP != startSP-2 {
		t.Fatalf("SP after CALL = %#04x, want %#04x", cpu.SP, startSP-2)
	}

	if _, err := cpu.ExecuteNext(); err != nil { // RET
		t.Fatalf("RET: %v", err)
	}
	if cpu.PC != 3 {
		t.Fatalf("PC after RET = %#04x, want 0x0003 (return address)", cpu.PC)
	}
	if cpu.SP != startSP {
		t.Fatalf("SP after RET = %#04x, want stack balanced back to %#04x", cpu.SP, startSP)
	}

	if _, err := cpu.ExecuteNext(); err != nil { // HLT
		t.Fatalf("HLT: %v", err)
	}
	if cpu.Running {
		t.Fatal("cpu should have halted")
	}
}

func TestPush16StackOverflow(t *testing.T) {
	cpu := newTestCPU(nil)
	cpu.SP = 1
	if err := cpu.push16(0x1234); err == nil {
		t.Fatal("expected StackOverflowError pushing with sp=1")
	} else if _, ok := err.(*StackOverflowError); !ok {
		t.Fatalf("expected *StackOverflowError, got %T", err)
	}
}

func TestPop16StackUnderflow(t *testing.T) {
	mem := NewMemory(0x10)
	cpu := NewCPU8080(mem)
	cpu.SP = uint16(mem.Size() - 1)
	if _, err := cpu.pop16(); err == nil {
		t.Fatal("expected StackUnderflowError")
	} else if _, ok := err.(*StackUnderflowError); !ok {
		t.Fatalf("expected *StackUnderflowError, got %T", err)
	}
}

func TestInOutDevices(t *testing.T) {
	cpu := newTestCPU([]byte{0xDB, 0x05, 0xD3, 0x06})
	var written byte
	if err := cpu.RegisterInputDevice(InputDeviceFunc(func() byte { return 0x77 }), 5); err != nil {
		t.Fatalf("RegisterInputDevice: %v", err)
	}
	if err := cpu.RegisterOutputDevice(OutputDeviceFunc(func(b byte) { written = b }), 6); err != nil {
		t.Fatalf("RegisterOutputDevice: %v", err)
	}
	if _, err := cpu.ExecuteNext(); err != nil { // IN 5
		t.Fatalf("IN: %v", err)
	}
	if cpu.Reg.A() != 0x77 {
		t.Fatalf("A after IN = %#02x, want 0x77", cpu.Reg.A())
	}
	if _, err := cpu.ExecuteNext(); err != nil { // OUT 6
		t.Fatalf("OUT: %v", err)
	}
	if written != 0x77 {
		t.Fatalf("device received %#02x, want 0x77", written)
	}
}

func TestInNoDeviceError(t *testing.T) {
	cpu := newTestCPU([]byte{0xDB, 0x09})
	_, err := cpu.ExecuteNext()
	if err == nil {
		t.Fatal("expected NoDeviceError")
	}
	if _, ok := err.(*NoDeviceError); !ok {
		t.Fatalf("expected *NoDeviceError, got %T", err)
	}
}

func TestDaaClassicBCDCorrection(t *testing.T) {
	// 0x15 + 0x27 as packed BCD digits (15 + 27 = 42) sums to 0x3C in raw
	// binary; DAA must correct it to 0x42.
	cpu := newTestCPU(nil)
	cpu.Reg.SetA(0x3C)
	cpu.Reg.SetFlag(flagAux, false)
	cpu.Reg.SetFlag(flagCarry, false)
	cpu.daa()
	if got := cpu.Reg.A(); got != 0x42 {
		t.Fatalf("A after DAA = %#02x, want 0x42", got)
	}
}

func TestParityFlagSetOnLogicOp(t *testing.T) {
	cpu := newTestCPU(nil)
	cpu.Reg.SetA(0xFF)
	cpu.andA(0xFF) // 0xFF has 8 set bits: even parity
	if !cpu.Reg.GetFlag(flagParity) {
		t.Fatal("expected parity flag set for 0xFF (even parity)")
	}
	cpu.Reg.SetA(0x01)
	cpu.orA(0x00) // 0x01 has 1 set bit: odd parity
	if cpu.Reg.GetFlag(flagParity) {
		t.Fatal("expected parity flag clear for 0x01 (odd parity)")
	}
}

func TestSubAWithBorrowAndCompareDoesNotStore(t *testing.T) {
	cpu := newTestCPU(nil)
	cpu.Reg.SetA(0x10)
	cpu.subA(0x20, false, false) // CMP-style: only flags, accumulator unchanged
	if cpu.Reg.A() != 0x10 {
		t.Fatalf("A changed by non-storing subA: got %#02x, want 0x10", cpu.Reg.A())
	}
	if !cpu.Reg.GetFlag(flagCarry) {
		t.Fatal("expected carry (borrow) set for 0x10 - 0x20")
	}
}

func TestDadSetsCarryOnOverflow(t *testing.T) {
	cpu := newTestCPU(nil)
	cpu.Reg.Set16(PairHL, 0xFFFF)
	cpu.dad(1)
	if cpu.Reg.Get16(PairHL) != 0 {
		t.Fatalf("HL after DAD overflow = %#04x, want 0", cpu.Reg.Get16(PairHL))
	}
	if !cpu.Reg.GetFlag(flagCarry) {
		t.Fatal("expected carry flag set on 16-bit DAD overflow")
	}
}

func TestXchgCycleCount(t *testing.T) {
	cpu := newTestCPU([]byte{0xEB}) // XCHG
	cycles, err := cpu.ExecuteNext()
	if err != nil {
		t.Fatalf("ExecuteNext: %v", err)
	}
	if cycles != 4 {
		t.Fatalf("XCHG cycles = %d, want 4", cycles)
	}
	if cpu.Cycles != 4 {
		t.Fatalf("cpu.Cycles = %d, want 4", cpu.Cycles)
	}
}

func TestResetReArmsRunningAndInterrupts(t *testing.T) {
	cpu := newTestCPU([]byte{0x76})
	runToHalt(t, cpu)
	cpu.Reset()
	if !cpu.Running || !cpu.InterruptsEnabled {
		t.Fatal("Reset should re-arm running and interrupts")
	}
	if cpu.PC != 0 || cpu.SP != 0 {
		t.Fatalf("Reset should zero PC/SP, got pc=%#04x sp=%#04x", cpu.PC, cpu.SP)
	}
}
