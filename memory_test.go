package main

import "testing"

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory(0x100)
	m.Write(0x10, 0x42)
	if got := m.Read(0x10); got != 0x42 {
		t.Fatalf("Read(0x10) = %#02x, want 0x42", got)
	}
}

func TestMemoryMirrorsBeyondSize(t *testing.T) {
	m := NewMemory(0x100)
	m.Write(0x10, 0x99)
	if got := m.Read(0x110); got != 0x99 {
		t.Fatalf("Read(0x110) = %#02x, want mirrored 0x99", got)
	}
}

func TestMemoryLoadVec(t *testing.T) {
	m := NewMemory(0x100)
	data := []byte{1, 2, 3, 4}
	m.LoadVec(data, 0x10)
	got := m.Slice(0x10, 4)
	for i, b := range data {
		if got[i] != b {
			t.Fatalf("Slice[%d] = %#02x, want %#02x", i, got[i], b)
		}
	}
	if m.LastChanged() != 0x13 {
		t.Fatalf("LastChanged() = %#04x, want 0x13", m.LastChanged())
	}
}

func TestMemorySizeAndSlice(t *testing.T) {
	m := NewMemory(0x40)
	if m.Size() != 0x40 {
		t.Fatalf("Size() = %d, want 0x40", m.Size())
	}
	s := m.Slice(0, 0x40)
	if len(s) != 0x40 {
		t.Fatalf("Slice length = %d, want 0x40", len(s))
	}
}

func TestMemoryLastChangedTracksWrite(t *testing.T) {
	m := NewMemory(0x100)
	m.Write(0x05, 1)
	m.Write(0x20, 2)
	if m.LastChanged() != 0x20 {
		t.Fatalf("LastChanged() = %#04x, want 0x20", m.LastChanged())
	}
}
