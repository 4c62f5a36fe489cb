// flags.go - PSW flag bit layout shared by registers.go and the ALU handlers

package main

// Flag bit positions within the low byte of PSW. This is the authoritative
// layout: bit 0x02 is unused and always reads 1.
const (
	flagSign    byte = 0x80
	flagZero    byte = 0x40
	flagAux     byte = 0x10
	flagParity  byte = 0x04
	flagCarry   byte = 0x01
	flagAlways1 byte = 0x02
)

// parityEven reports whether v has an even number of set bits.
func parityEven(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// sanitizePSW enforces the PSW invariants after a raw 16-bit load (e.g.
// POP PSW): bit 0x02 forced to 1, bits 0x08/0x20 forced to 0.
func sanitizePSW(flags byte) byte {
	return (flags & 0xD5) | flagAlways1
}
