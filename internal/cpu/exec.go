package cpu

// Step advances the CPU by one instruction. A latched interrupt is serviced
// first when interrupts are enabled: its opcode executes in place of a memory
// fetch, the enable flip-flop clears, and a halted CPU wakes. Otherwise a
// halted CPU stays quiescent and Step does nothing.
func (c *CPU) Step() {
	if c.irqPending && c.ime {
		op := c.irqOpcode
		c.irqPending = false
		c.ime = false
		c.halted = false
		c.exec(op)
		return
	}
	if c.halted {
		return
	}
	c.exec(c.fetch8())
}

// getReg reads the register selected by a 3-bit operand field; index 6 is
// the memory byte addressed by HL.
func (c *CPU) getReg(idx byte) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read8(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg(idx, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write8(c.HL(), v)
	default:
		c.A = v
	}
}

// jmp always consumes the address bytes so PC advances uniformly whether or
// not the branch is taken. Same discipline for call.
func (c *CPU) jmp(cond bool) {
	addr := c.fetch16()
	if cond {
		c.PC = addr
	}
}

func (c *CPU) call(cond bool) {
	addr := c.fetch16()
	if cond {
		c.push16(c.PC)
		c.PC = addr
	}
}

func (c *CPU) ret(cond bool) {
	if cond {
		c.PC = c.pop16()
	}
}

// exec runs a single opcode. Operand bytes, if any, are fetched from PC.
// The mapping is total: every byte is an instruction, with the undocumented
// encodings aliasing NOP, JMP, CALL, and RET.
func (c *CPU) exec(op byte) {
	switch op {
	// NOP, including the undocumented 00xxx000 aliases
	case 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:

	// LXI rp,d16
	case 0x01:
		c.SetBC(c.fetch16())
	case 0x11:
		c.SetDE(c.fetch16())
	case 0x21:
		c.SetHL(c.fetch16())
	case 0x31:
		c.SP = c.fetch16()

	// STAX / LDAX (BC and DE only)
	case 0x02:
		c.write8(c.BC(), c.A)
	case 0x12:
		c.write8(c.DE(), c.A)
	case 0x0A:
		c.A = c.read8(c.BC())
	case 0x1A:
		c.A = c.read8(c.DE())

	// Direct loads and stores
	case 0x22: // SHLD a16
		c.write16(c.fetch16(), c.HL())
	case 0x2A: // LHLD a16
		c.SetHL(c.read16(c.fetch16()))
	case 0x32: // STA a16
		c.write8(c.fetch16(), c.A)
	case 0x3A: // LDA a16
		c.A = c.read8(c.fetch16())

	// INX / DCX rp (no flags)
	case 0x03:
		c.SetBC(c.BC() + 1)
	case 0x13:
		c.SetDE(c.DE() + 1)
	case 0x23:
		c.SetHL(c.HL() + 1)
	case 0x33:
		c.SP++
	case 0x0B:
		c.SetBC(c.BC() - 1)
	case 0x1B:
		c.SetDE(c.DE() - 1)
	case 0x2B:
		c.SetHL(c.HL() - 1)
	case 0x3B:
		c.SP--

	// INR r / DCR r (00DDD10x)
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		d := op >> 3 & 7
		c.setReg(d, c.inr(c.getReg(d)))
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		d := op >> 3 & 7
		c.setReg(d, c.dcr(c.getReg(d)))

	// MVI r,d8 (00DDD110)
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		c.setReg(op>>3&7, c.fetch8())

	// Rotates
	case 0x07:
		c.rlc()
	case 0x0F:
		c.rrc()
	case 0x17:
		c.ral()
	case 0x1F:
		c.rar()

	// DAD rp
	case 0x09:
		c.dad(c.BC())
	case 0x19:
		c.dad(c.DE())
	case 0x29:
		c.dad(c.HL())
	case 0x39:
		c.dad(c.SP)

	// Accumulator and carry specials
	case 0x27:
		c.daa()
	case 0x2F: // CMA
		c.A = ^c.A
	case 0x37: // STC
		c.setF(flagC, true)
	case 0x3F: // CMC
		c.setF(flagC, c.F&flagC == 0)

	// HLT sits where MOV M,M would be
	case 0x76:
		c.halted = true

	// MOV r,r (01DDDSSS)
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		c.setReg(op>>3&7, c.getReg(op&7))

	// ALU r (10FFFSSS)
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87: // ADD
		c.add(c.getReg(op&7), 0)
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F: // ADC
		c.add(c.getReg(op&7), c.carryIn())
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97: // SUB
		c.sub(c.getReg(op&7), 0)
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F: // SBB
		c.sub(c.getReg(op&7), c.carryIn())
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7: // ANA
		c.and(c.getReg(op & 7))
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF: // XRA
		c.xor(c.getReg(op & 7))
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7: // ORA
		c.or(c.getReg(op & 7))
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF: // CMP
		c.cmp(c.getReg(op & 7))

	// ALU immediates (11FFF110)
	case 0xC6: // ADI
		c.add(c.fetch8(), 0)
	case 0xCE: // ACI
		c.add(c.fetch8(), c.carryIn())
	case 0xD6: // SUI
		c.sub(c.fetch8(), 0)
	case 0xDE: // SBI
		c.sub(c.fetch8(), c.carryIn())
	case 0xE6: // ANI
		c.and(c.fetch8())
	case 0xEE: // XRI
		c.xor(c.fetch8())
	case 0xF6: // ORI
		c.or(c.fetch8())
	case 0xFE: // CPI
		c.cmp(c.fetch8())

	// RET and Rcc; 0xD9 is an undocumented RET
	case 0xC9, 0xD9:
		c.ret(true)
	case 0xC0:
		c.ret(c.F&flagZ == 0)
	case 0xC8:
		c.ret(c.F&flagZ != 0)
	case 0xD0:
		c.ret(c.F&flagC == 0)
	case 0xD8:
		c.ret(c.F&flagC != 0)
	case 0xE0:
		c.ret(c.F&flagP == 0)
	case 0xE8:
		c.ret(c.F&flagP != 0)
	case 0xF0:
		c.ret(c.F&flagS == 0)
	case 0xF8:
		c.ret(c.F&flagS != 0)

	// JMP and Jcc; 0xCB is an undocumented JMP
	case 0xC3, 0xCB:
		c.jmp(true)
	case 0xC2:
		c.jmp(c.F&flagZ == 0)
	case 0xCA:
		c.jmp(c.F&flagZ != 0)
	case 0xD2:
		c.jmp(c.F&flagC == 0)
	case 0xDA:
		c.jmp(c.F&flagC != 0)
	case 0xE2:
		c.jmp(c.F&flagP == 0)
	case 0xEA:
		c.jmp(c.F&flagP != 0)
	case 0xF2:
		c.jmp(c.F&flagS == 0)
	case 0xFA:
		c.jmp(c.F&flagS != 0)

	// CALL and Ccc; 0xDD, 0xED, and 0xFD are undocumented CALLs
	case 0xCD, 0xDD, 0xED, 0xFD:
		c.call(true)
	case 0xC4:
		c.call(c.F&flagZ == 0)
	case 0xCC:
		c.call(c.F&flagZ != 0)
	case 0xD4:
		c.call(c.F&flagC == 0)
	case 0xDC:
		c.call(c.F&flagC != 0)
	case 0xE4:
		c.call(c.F&flagP == 0)
	case 0xEC:
		c.call(c.F&flagP != 0)
	case 0xF4:
		c.call(c.F&flagS == 0)
	case 0xFC:
		c.call(c.F&flagS != 0)

	// PUSH / POP rp (PSW is the fourth pair)
	case 0xC5:
		c.push16(c.BC())
	case 0xD5:
		c.push16(c.DE())
	case 0xE5:
		c.push16(c.HL())
	case 0xF5:
		c.push16(c.PSW())
	case 0xC1:
		c.SetBC(c.pop16())
	case 0xD1:
		c.SetDE(c.pop16())
	case 0xE1:
		c.SetHL(c.pop16())
	case 0xF1:
		c.SetPSW(c.pop16())

	// RST n jumps to 8*n
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(op & 0x38)

	// Exchanges and register transfers
	case 0xEB: // XCHG
		hl := c.HL()
		c.SetHL(c.DE())
		c.SetDE(hl)
	case 0xE3: // XTHL
		hl := c.HL()
		c.SetHL(c.read16(c.SP))
		c.write16(c.SP, hl)
	case 0xE9: // PCHL
		c.PC = c.HL()
	case 0xF9: // SPHL
		c.SP = c.HL()

	// Port I/O
	case 0xDB: // IN p8
		c.A = c.in(c.fetch8())
	case 0xD3: // OUT p8
		c.out(c.fetch8(), c.A)

	// Interrupt enable flip-flop
	case 0xF3: // DI
		c.ime = false
	case 0xFB: // EI
		c.ime = true
	}
}
