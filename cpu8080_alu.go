// cpu8080_alu.go - arithmetic/logic handlers and their flag formulas
//
// Grounded on original_source/emulator/src/instructions/arithmetic.rs
// (add/sub two's-complement formulas and the aux-carry nibble checks),
// logic.rs (AND/XOR/OR, including ANA's (a|v)&0x08 aux-carry variant
// resolved as an Open Question) and special.rs (the DAA nibble-correction
// algorithm, RLC/RRC/RAL/RAR, CMA/STC/CMC).

package main

// setArithFlags sets sign/zero/parity/carry/aux from a completed ALU
// result; used by the add/subtract/compare family.
func (c *CPU8080) setArithFlags(result byte, carry, aux bool) {
	r := c.Reg
	r.SetFlag(flagSign, result&0x80 != 0)
	r.SetFlag(flagZero, result == 0)
	r.SetFlag(flagParity, parityEven(result))
	r.SetFlag(flagCarry, carry)
	r.SetFlag(flagAux, aux)
}

// setLogicFlags sets sign/zero/parity from result, sets aux as given
// (computed by ANA, false for XRA/ORA), and always clears carry.
func (c *CPU8080) setLogicFlags(result byte, aux bool) {
	r := c.Reg
	r.SetFlag(flagSign, result&0x80 != 0)
	r.SetFlag(flagZero, result == 0)
	r.SetFlag(flagParity, parityEven(result))
	r.SetFlag(flagCarry, false)
	r.SetFlag(flagAux, aux)
}

// addA implements ADD (carryIn=false) and ADC (carryIn=carry flag).
func (c *CPU8080) addA(v byte, carryIn bool) {
	a := c.Reg.A()
	var ci uint16
	if carryIn {
		ci = 1
	}
	sum := uint16(a) + uint16(v) + ci
	result := byte(sum)
	carry := sum > 0xFF
	aux := uint16(a&0x0F)+uint16(v&0x0F)+ci > 0x0F
	c.setArithFlags(result, carry, aux)
	c.Reg.SetA(result)
}

// subA implements SUB/CMP (borrow=false) and SBB (borrow=carry flag) via
// two's-complement addition: result = a + (~v & 0xFF) + 1, minus one more
// when a borrow is flowing in. store controls whether the accumulator is
// updated (false for CMP, which only sets flags).
func (c *CPU8080) subA(v byte, borrow bool, store bool) {
	a := c.Reg.A()
	notV := ^v
	sum := uint16(a) + uint16(notV) + 1
	auxSum := uint16(a&0x0F) + uint16(notV&0x0F) + 1
	if borrow {
		sum--
		auxSum--
	}
	result := byte(sum)
	carry := sum <= 0xFF
	aux := auxSum > 0x0F
	c.setArithFlags(result, carry, aux)
	if store {
		c.Reg.SetA(result)
	}
}

func (c *CPU8080) andA(v byte) {
	a := c.Reg.A()
	result := a & v
	c.Reg.SetA(result)
	c.setLogicFlags(result, (a|v)&0x08 != 0)
}

func (c *CPU8080) xorA(v byte) {
	result := c.Reg.A() ^ v
	c.Reg.SetA(result)
	c.setLogicFlags(result, false)
}

func (c *CPU8080) orA(v byte) {
	result := c.Reg.A() | v
	c.Reg.SetA(result)
	c.setLogicFlags(result, false)
}

// inr increments a byte, touching every flag but carry.
func (c *CPU8080) inr(prev byte) byte {
	result := prev + 1
	aux := (prev&0x0F)+1 > 0x0F
	r := c.Reg
	r.SetFlag(flagSign, result&0x80 != 0)
	r.SetFlag(flagZero, result == 0)
	r.SetFlag(flagParity, parityEven(result))
	r.SetFlag(flagAux, aux)
	return result
}

// dcr decrements a byte, touching every flag but carry. The aux flag is
// set unless the low nibble borrows (mirrors INR's formula under two's
// complement: prev's low nibble plus 0x0F, i.e. -1, stays within a nibble
// only when prev's low nibble was already 0).
func (c *CPU8080) dcr(prev byte) byte {
	result := prev - 1
	aux := (prev&0x0F)+0x0F > 0x0F
	r := c.Reg
	r.SetFlag(flagSign, result&0x80 != 0)
	r.SetFlag(flagZero, result == 0)
	r.SetFlag(flagParity, parityEven(result))
	r.SetFlag(flagAux, aux)
	return result
}

// dad adds a pair into HL, touching only the carry flag (set from bit 16).
func (c *CPU8080) dad(v uint16) {
	hl := c.Reg.Get16(PairHL)
	sum := uint32(hl) + uint32(v)
	c.Reg.Set16(PairHL, uint16(sum))
	c.Reg.SetFlag(flagCarry, sum > 0xFFFF)
}

func (c *CPU8080) rlc() {
	a := c.Reg.A()
	carry := a&0x80 != 0
	result := a<<1 | a>>7
	c.Reg.SetA(result)
	c.Reg.SetFlag(flagCarry, carry)
}

func (c *CPU8080) rrc() {
	a := c.Reg.A()
	carry := a&0x01 != 0
	result := a>>1 | a<<7
	c.Reg.SetA(result)
	c.Reg.SetFlag(flagCarry, carry)
}

func (c *CPU8080) ral() {
	a := c.Reg.A()
	var oldCarry byte
	if c.Reg.GetFlag(flagCarry) {
		oldCarry = 1
	}
	newCarry := a&0x80 != 0
	result := a<<1 | oldCarry
	c.Reg.SetA(result)
	c.Reg.SetFlag(flagCarry, newCarry)
}

func (c *CPU8080) rar() {
	a := c.Reg.A()
	var oldCarry byte
	if c.Reg.GetFlag(flagCarry) {
		oldCarry = 0x80
	}
	newCarry := a&0x01 != 0
	result := a>>1 | oldCarry
	c.Reg.SetA(result)
	c.Reg.SetFlag(flagCarry, newCarry)
}

func (c *CPU8080) cma() {
	c.Reg.SetA(^c.Reg.A())
}

func (c *CPU8080) stc() {
	c.Reg.SetFlag(flagCarry, true)
}

func (c *CPU8080) cmc() {
	c.Reg.FlipFlag(flagCarry)
}

// daa applies binary-coded-decimal nibble correction to the accumulator,
// following the two-step low-nibble-then-high-nibble algorithm: each
// nibble is bumped by 6 if it exceeds 9 or its carry-in (aux for the low
// nibble, the carry flag for the high nibble) is set.
func (c *CPU8080) daa() {
	r := c.Reg
	acc := r.A()
	low := acc & 0x0F
	if low > 9 || r.GetFlag(flagAux) {
		acc += 6
		low += 6
	}
	high := (acc & 0xF0) >> 4
	if high > 9 || r.GetFlag(flagCarry) {
		high += 6
	}
	result := (high&0x0F)<<4 + (low & 0x0F)
	r.SetFlag(flagAux, low > 0x0F)
	r.SetFlag(flagCarry, high > 0x0F)
	r.SetFlag(flagSign, result&0x80 != 0)
	r.SetFlag(flagZero, result == 0)
	r.SetFlag(flagParity, parityEven(result))
	r.SetA(result)
}
