package main

import "testing"

func TestRegisterFilePairRoundTrip(t *testing.T) {
	r := NewRegisterFile()
	r.Set16(PairBC, 0x1234)
	if got := r.Get16(PairBC); got != 0x1234 {
		t.Fatalf("Get16(BC) = %#04x, want 0x1234", got)
	}
	if b, c := r.Get8(RegB), r.Get8(RegC); b != 0x12 || c != 0x34 {
		t.Fatalf("B,C = %#02x,%#02x, want 0x12,0x34", b, c)
	}
}

func TestRegisterFileHalvesIndependent(t *testing.T) {
	r := NewRegisterFile()
	r.Set16(PairHL, 0xAABB)
	r.Set8(RegH, 0xFF)
	if got := r.Get16(PairHL); got != 0xFFBB {
		t.Fatalf("Get16(HL) after Set8(H) = %#04x, want 0xFFBB", got)
	}
	r.Set8(RegL, 0x00)
	if got := r.Get16(PairHL); got != 0xFF00 {
		t.Fatalf("Get16(HL) after Set8(L) = %#04x, want 0xFF00", got)
	}
}

func TestRegisterFileAccumulator(t *testing.T) {
	r := NewRegisterFile()
	r.SetA(0x42)
	if got := r.A(); got != 0x42 {
		t.Fatalf("A() = %#02x, want 0x42", got)
	}
	if got := r.Get8(RegA); got != 0x42 {
		t.Fatalf("Get8(RegA) = %#02x, want 0x42", got)
	}
}

func TestNewRegisterFileAlways1Bit(t *testing.T) {
	r := NewRegisterFile()
	if r.Flags()&flagAlways1 == 0 {
		t.Fatal("fresh register file should have flagAlways1 set")
	}
	if r.Flags() != flagAlways1 {
		t.Fatalf("fresh flags byte = %#02x, want %#02x", r.Flags(), flagAlways1)
	}
}

func TestRegisterFileSetGetFlipFlag(t *testing.T) {
	r := NewRegisterFile()
	r.SetFlag(flagZero, true)
	if !r.GetFlag(flagZero) {
		t.Fatal("expected flagZero set")
	}
	r.SetFlag(flagZero, false)
	if r.GetFlag(flagZero) {
		t.Fatal("expected flagZero cleared")
	}
	before := r.GetFlag(flagCarry)
	r.FlipFlag(flagCarry)
	if r.GetFlag(flagCarry) == before {
		t.Fatal("FlipFlag did not toggle flagCarry")
	}
}

func TestRegisterFileSanitizePSW(t *testing.T) {
	r := NewRegisterFile()
	r.SetFlagsByte(0xFF)
	r.SanitizePSW()
	want := sanitizePSW(0xFF)
	if got := r.Flags(); got != want {
		t.Fatalf("SanitizePSW left flags %#02x, want %#02x", got, want)
	}
	if got := r.Flags(); got&flagAlways1 == 0 {
		t.Fatalf("SanitizePSW must keep flagAlways1 set, got %#02x", got)
	}
}

func TestParityEven(t *testing.T) {
	cases := []struct {
		v    byte
		even bool
	}{
		{0x00, true},
		{0x01, false},
		{0x03, true},
		{0xFF, true},
		{0x0F, true},
		{0x07, false},
	}
	for _, c := range cases {
		if got := parityEven(c.v); got != c.even {
			t.Errorf("parityEven(%#02x) = %v, want %v", c.v, got, c.even)
		}
	}
}
