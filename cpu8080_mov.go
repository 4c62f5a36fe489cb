// cpu8080_mov.go - data-movement handlers: MOV/MVI/LXI/STAX/LDAX/XCHG/
// SHLD/LHLD/STA/LDA/XTHL/SPHL/PCHL/INX/DCX
//
// Grounded on the donor's BC()/SetBC()-style pair helpers for the 16-bit
// moves, and on original_source/emulator/src/instructions/transfer.rs for
// which operand combinations exist (no MOV M,M - that opcode is HLT).
// Each handler is wired into the dispatch table by method expression
// ((*CPU8080).fooHandler), so it recovers its own opcode byte from the
// instruction just fetched rather than taking it as a parameter.

package main

// pairByRP decodes the 2-bit register-pair field used by LXI/INX/DCX/DAD/
// STAX/LDAX/PUSH/POP: 0=BC,1=DE,2=HL,3=SP (or PSW for PUSH/POP).
func pairByRP(rp byte, psw bool) PairName {
	switch rp {
	case 0:
		return PairBC
	case 1:
		return PairDE
	case 2:
		return PairHL
	case 3:
		if psw {
			return PairPSW
		}
		return PairHL // SP has no PairName; callers needing SP use c.SP directly
	}
	panic("unreachable register pair")
}

func (c *CPU8080) fetchedOpcode() byte {
	return c.Mem.Read(c.PC - 1)
}

func (c *CPU8080) movHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	dst := (opcode - 0x40) >> 3
	src := (opcode - 0x40) & 0x07
	c.writeOperand(dst, c.readOperand(src))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) mviHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	dst := (opcode >> 3) & 0x07
	v, err := c.readByte()
	if err != nil {
		return 0, err
	}
	c.writeOperand(dst, v)
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) lxiHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	v, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	if rp == 3 {
		c.SP = v
	} else {
		c.Reg.Set16(pairByRP(rp, false), v)
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) inxHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	if rp == 3 {
		c.SP++
	} else {
		p := pairByRP(rp, false)
		c.Reg.Set16(p, c.Reg.Get16(p)+1)
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) dcxHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	if rp == 3 {
		c.SP--
	} else {
		p := pairByRP(rp, false)
		c.Reg.Set16(p, c.Reg.Get16(p)-1)
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) dadHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	var v uint16
	if rp == 3 {
		v = c.SP
	} else {
		v = c.Reg.Get16(pairByRP(rp, false))
	}
	c.dad(v)
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) staxHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	p := PairBC
	if opcode == 0x12 {
		p = PairDE
	}
	c.Mem.Write(c.Reg.Get16(p), c.Reg.A())
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) ldaxHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	p := PairBC
	if opcode == 0x1A {
		p = PairDE
	}
	c.Reg.SetA(c.Mem.Read(c.Reg.Get16(p)))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) shldHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	hl := c.Reg.Get16(PairHL)
	c.Mem.Write(addr, byte(hl))
	c.Mem.Write(addr+1, byte(hl>>8))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) lhldHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	lo := c.Mem.Read(addr)
	hi := c.Mem.Read(addr + 1)
	c.Reg.Set16(PairHL, uint16(hi)<<8|uint16(lo))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) staHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	c.Mem.Write(addr, c.Reg.A())
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) ldaHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	c.Reg.SetA(c.Mem.Read(addr))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) xchgHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	de := c.Reg.Get16(PairDE)
	hl := c.Reg.Get16(PairHL)
	c.Reg.Set16(PairDE, hl)
	c.Reg.Set16(PairHL, de)
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) xthlHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	lo := c.Mem.Read(c.SP)
	hi := c.Mem.Read(c.SP + 1)
	hl := c.Reg.Get16(PairHL)
	c.Mem.Write(c.SP, byte(hl))
	c.Mem.Write(c.SP+1, byte(hl>>8))
	c.Reg.Set16(PairHL, uint16(hi)<<8|uint16(lo))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) sphlHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	c.SP = c.Reg.Get16(PairHL)
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) pchlHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	c.PC = c.Reg.Get16(PairHL)
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) inrHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	idx := (opcode >> 3) & 0x07
	c.writeOperand(idx, c.inr(c.readOperand(idx)))
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) dcrHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	idx := (opcode >> 3) & 0x07
	c.writeOperand(idx, c.dcr(c.readOperand(idx)))
	return opcodeCycles[opcode], nil
}
