// cpu8080_ops.go - builds the 256-entry dispatch table
//
// Follows the donor's initBaseOps shape (cpu_z80.go): uniform opcode
// ranges are wired with a small loop, then every remaining opcode is
// assigned explicitly so the table's layout mirrors the Intel 8080
// opcode map byte for byte, including the documented opcode duplicates
// (0x08/0x10/0x18/0x20/0x28/0x30/0x38 as NOP, 0xCB as JMP, 0xD9 as RET,
// 0xDD/0xED/0xFD as CALL).

package main

import "fmt"

func (c *CPU8080) initOps() {
	for i := range c.ops {
		c.ops[i] = unimplementedHandler
	}

	// 0x00-0x3F: NOP/LXI/STAX/INX/INR/DCR/MVI/rotates/DAD/LDAX/DCX/SHLD/
	// LHLD/STA/LDA/DAA/CMA/STC/CMC, all addressed by small per-column loops.
	for _, op := range []byte{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		c.ops[op] = (*CPU8080).nopHandler
	}
	for _, op := range []byte{0x01, 0x11, 0x21, 0x31} {
		c.ops[op] = (*CPU8080).lxiHandler
	}
	for _, op := range []byte{0x02, 0x12} {
		c.ops[op] = (*CPU8080).staxHandler
	}
	for _, op := range []byte{0x03, 0x13, 0x23, 0x33} {
		c.ops[op] = (*CPU8080).inxHandler
	}
	for _, op := range []byte{0x0A, 0x1A} {
		c.ops[op] = (*CPU8080).ldaxHandler
	}
	for _, op := range []byte{0x0B, 0x1B, 0x2B, 0x3B} {
		c.ops[op] = (*CPU8080).dcxHandler
	}
	for _, op := range []byte{0x09, 0x19, 0x29, 0x39} {
		c.ops[op] = (*CPU8080).dadHandler
	}
	for rd := byte(0); rd < 8; rd++ {
		op := rd<<3 | 0x04
		c.ops[op] = (*CPU8080).inrHandler
		op = rd<<3 | 0x05
		c.ops[op] = (*CPU8080).dcrHandler
		op = rd<<3 | 0x06
		c.ops[op] = (*CPU8080).mviHandler
	}
	c.ops[0x07] = func(cc *CPU8080) (byte, error) { cc.rlc(); return opcodeCycles[0x07], nil }
	c.ops[0x0F] = func(cc *CPU8080) (byte, error) { cc.rrc(); return opcodeCycles[0x0F], nil }
	c.ops[0x17] = func(cc *CPU8080) (byte, error) { cc.ral(); return opcodeCycles[0x17], nil }
	c.ops[0x1F] = func(cc *CPU8080) (byte, error) { cc.rar(); return opcodeCycles[0x1F], nil }
	c.ops[0x22] = (*CPU8080).shldHandler
	c.ops[0x2A] = (*CPU8080).lhldHandler
	c.ops[0x27] = func(cc *CPU8080) (byte, error) { cc.daa(); return opcodeCycles[0x27], nil }
	c.ops[0x2F] = func(cc *CPU8080) (byte, error) { cc.cma(); return opcodeCycles[0x2F], nil }
	c.ops[0x32] = (*CPU8080).staHandler
	c.ops[0x3A] = (*CPU8080).ldaHandler
	c.ops[0x37] = func(cc *CPU8080) (byte, error) { cc.stc(); return opcodeCycles[0x37], nil }
	c.ops[0x3F] = func(cc *CPU8080) (byte, error) { cc.cmc(); return opcodeCycles[0x3F], nil }

	// 0x40-0x7F: MOV dst,src, with 0x76 overridden to HLT.
	for op := 0x40; op <= 0x7F; op++ {
		c.ops[op] = (*CPU8080).movHandler
	}
	c.ops[0x76] = (*CPU8080).hltHandler

	// 0x80-0xBF: ALU reg/M, eight families of eight.
	for op := 0x80; op <= 0x87; op++ {
		c.ops[op] = aluAddHandler
	}
	for op := 0x88; op <= 0x8F; op++ {
		c.ops[op] = aluAdcHandler
	}
	for op := 0x90; op <= 0x97; op++ {
		c.ops[op] = aluSubHandler
	}
	for op := 0x98; op <= 0x9F; op++ {
		c.ops[op] = aluSbbHandler
	}
	for op := 0xA0; op <= 0xA7; op++ {
		c.ops[op] = aluAnaHandler
	}
	for op := 0xA8; op <= 0xAF; op++ {
		c.ops[op] = aluXraHandler
	}
	for op := 0xB0; op <= 0xB7; op++ {
		c.ops[op] = aluOraHandler
	}
	for op := 0xB8; op <= 0xBF; op++ {
		c.ops[op] = aluCmpHandler
	}

	// 0xC0-0xFF: branches, stack, RST, immediate ALU, I/O.
	for _, op := range []byte{0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8} {
		c.ops[op] = (*CPU8080).retccHandler
	}
	for _, op := range []byte{0xC1, 0xD1, 0xE1, 0xF1} {
		c.ops[op] = (*CPU8080).popHandler
	}
	for _, op := range []byte{0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA} {
		c.ops[op] = (*CPU8080).jccHandler
	}
	for _, op := range []byte{0xC3, 0xCB} {
		c.ops[op] = (*CPU8080).jmpHandler
	}
	for _, op := range []byte{0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC} {
		c.ops[op] = (*CPU8080).callccHandler
	}
	for _, op := range []byte{0xC5, 0xD5, 0xE5, 0xF5} {
		c.ops[op] = (*CPU8080).pushHandler
	}
	for _, op := range []byte{0xC9, 0xD9} {
		c.ops[op] = (*CPU8080).retHandler
	}
	for _, op := range []byte{0xCD, 0xDD, 0xED, 0xFD} {
		c.ops[op] = (*CPU8080).callHandler
	}
	for n := byte(0); n < 8; n++ {
		c.ops[0xC7|n<<3] = (*CPU8080).rstHandler
	}
	c.ops[0xC6] = immAluHandler(func(cc *CPU8080, v byte) { cc.addA(v, false) })
	c.ops[0xCE] = immAluHandler(func(cc *CPU8080, v byte) { cc.addA(v, cc.Reg.GetFlag(flagCarry)) })
	c.ops[0xD6] = immAluHandler(func(cc *CPU8080, v byte) { cc.subA(v, false, true) })
	c.ops[0xDE] = immAluHandler(func(cc *CPU8080, v byte) { cc.subA(v, cc.Reg.GetFlag(flagCarry), true) })
	c.ops[0xE6] = immAluHandler(func(cc *CPU8080, v byte) { cc.andA(v) })
	c.ops[0xEE] = immAluHandler(func(cc *CPU8080, v byte) { cc.xorA(v) })
	c.ops[0xF6] = immAluHandler(func(cc *CPU8080, v byte) { cc.orA(v) })
	c.ops[0xFE] = immAluHandler(func(cc *CPU8080, v byte) { cc.subA(v, false, false) })
	c.ops[0xD3] = (*CPU8080).outHandler
	c.ops[0xDB] = (*CPU8080).inHandler
	c.ops[0xE3] = (*CPU8080).xthlHandler
	c.ops[0xE9] = (*CPU8080).pchlHandler
	c.ops[0xEB] = (*CPU8080).xchgHandler
	c.ops[0xF3] = (*CPU8080).diHandler
	c.ops[0xF9] = (*CPU8080).sphlHandler
	c.ops[0xFB] = (*CPU8080).eiHandler
}

// immAluHandler wraps a one-operand ALU op that reads its byte operand
// from the instruction stream (the ADI/ACI/SUI/SBI/ANI/XRI/ORI/CPI family).
func immAluHandler(apply func(*CPU8080, byte)) opHandler {
	return func(c *CPU8080) (byte, error) {
		opcode := c.Mem.Read(c.PC - 1)
		v, err := c.readByte()
		if err != nil {
			return 0, err
		}
		apply(c, v)
		return opcodeCycles[opcode], nil
	}
}

func aluAddHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.addA(c.readOperand(opcode&0x07), false)
	return opcodeCycles[opcode], nil
}

func aluAdcHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.addA(c.readOperand(opcode&0x07), c.Reg.GetFlag(flagCarry))
	return opcodeCycles[opcode], nil
}

func aluSubHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.subA(c.readOperand(opcode&0x07), false, true)
	return opcodeCycles[opcode], nil
}

func aluSbbHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.subA(c.readOperand(opcode&0x07), c.Reg.GetFlag(flagCarry), true)
	return opcodeCycles[opcode], nil
}

func aluAnaHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.andA(c.readOperand(opcode & 0x07))
	return opcodeCycles[opcode], nil
}

func aluXraHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.xorA(c.readOperand(opcode & 0x07))
	return opcodeCycles[opcode], nil
}

func aluOraHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.orA(c.readOperand(opcode & 0x07))
	return opcodeCycles[opcode], nil
}

func aluCmpHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	c.subA(c.readOperand(opcode&0x07), false, false)
	return opcodeCycles[opcode], nil
}

// unimplementedHandler fills every table slot before initOps assigns the
// real handlers. All 256 opcodes are legal on the 8080 (several are
// documented duplicates of another encoding), so this is never actually
// dispatched; it exists purely so a future missed assignment fails loudly
// instead of silently executing as a NOP.
func unimplementedHandler(c *CPU8080) (byte, error) {
	opcode := c.Mem.Read(c.PC - 1)
	panic(fmt.Sprintf("cpu8080: opcode %#02x has no dispatch entry", opcode))
}
