// cpu8080_flow.go - control flow, stack, and I/O port handlers
//
// Grounded on original_source/emulator/src/instructions/branch.rs for the
// conditional encoding (condition bits at opcode>>3&7) and on stack.rs for
// the PSW sanitization applied to POP PSW specifically. Conditional CALL/
// RET report the taken cycle count by adding condCallExtra/condRetExtra
// from clock.go on top of the not-taken base already in opcodeCycles.

package main

func (c *CPU8080) nopHandler() (byte, error) {
	return opcodeCycles[c.fetchedOpcode()], nil
}

func (c *CPU8080) hltHandler() (byte, error) {
	c.Running = false
	return opcodeCycles[c.fetchedOpcode()], nil
}

func (c *CPU8080) jmpHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	c.PC = addr
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) jccHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	cc := (opcode >> 3) & 0x07
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	if c.checkCondition(cc) {
		c.PC = addr
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) callHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	if err := c.push16(c.PC); err != nil {
		return 0, err
	}
	c.PC = addr
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) callccHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	cc := (opcode >> 3) & 0x07
	addr, err := c.readAddr()
	if err != nil {
		return 0, err
	}
	if !c.checkCondition(cc) {
		return opcodeCycles[opcode], nil
	}
	if err := c.push16(c.PC); err != nil {
		return 0, err
	}
	c.PC = addr
	return opcodeCycles[opcode] + condCallExtra, nil
}

func (c *CPU8080) retHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	addr, err := c.pop16()
	if err != nil {
		return 0, err
	}
	c.PC = addr
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) retccHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	cc := (opcode >> 3) & 0x07
	if !c.checkCondition(cc) {
		return opcodeCycles[opcode], nil
	}
	addr, err := c.pop16()
	if err != nil {
		return 0, err
	}
	c.PC = addr
	return opcodeCycles[opcode] + condRetExtra, nil
}

func (c *CPU8080) rstHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	n := (opcode >> 3) & 0x07
	if err := c.push16(c.PC); err != nil {
		return 0, err
	}
	c.PC = uint16(n) * 8
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) pushHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	v := c.Reg.Get16(pairByRP(rp, true))
	if err := c.push16(v); err != nil {
		return 0, err
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) popHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	rp := (opcode >> 4) & 0x03
	v, err := c.pop16()
	if err != nil {
		return 0, err
	}
	p := pairByRP(rp, true)
	c.Reg.Set16(p, v)
	if p == PairPSW {
		c.Reg.SanitizePSW()
	}
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) diHandler() (byte, error) {
	c.InterruptsEnabled = false
	return opcodeCycles[c.fetchedOpcode()], nil
}

func (c *CPU8080) eiHandler() (byte, error) {
	c.InterruptsEnabled = true
	return opcodeCycles[c.fetchedOpcode()], nil
}

func (c *CPU8080) inHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	port, err := c.readByte()
	if err != nil {
		return 0, err
	}
	dev := c.inputDevices[port]
	if dev == nil {
		return 0, &NoDeviceError{Port: port, Input: true}
	}
	c.Reg.SetA(dev.Read())
	return opcodeCycles[opcode], nil
}

func (c *CPU8080) outHandler() (byte, error) {
	opcode := c.fetchedOpcode()
	port, err := c.readByte()
	if err != nil {
		return 0, err
	}
	dev := c.outputDevices[port]
	if dev == nil {
		return 0, &NoDeviceError{Port: port, Input: false}
	}
	dev.Write(c.Reg.A())
	return opcodeCycles[opcode], nil
}
