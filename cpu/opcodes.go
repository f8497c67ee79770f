package cpu

// Register encoding used throughout the 8080 instruction set: a 3-bit
// field where 0-5 select B,C,D,E,H,L, 6 selects the memory byte addressed
// by HL, and 7 selects A.
func (e *Engine) readReg(code uint8) uint8 {
	switch code & 0x07 {
	case 0:
		return e.B
	case 1:
		return e.C
	case 2:
		return e.D
	case 3:
		return e.E
	case 4:
		return e.H
	case 5:
		return e.L
	case 6:
		return e.mem.Read(e.HL())
	default:
		return e.A
	}
}

func (e *Engine) writeReg(code uint8, v uint8) {
	switch code & 0x07 {
	case 0:
		e.B = v
	case 1:
		e.C = v
	case 2:
		e.D = v
	case 3:
		e.E = v
	case 4:
		e.H = v
	case 5:
		e.L = v
	case 6:
		e.mem.Write(e.HL(), v)
	default:
		e.A = v
	}
}

// getRP/setRP decode the 2-bit register-pair field used by LXI, INX, DCX,
// DAD: 0=BC, 1=DE, 2=HL, 3=SP.
func (e *Engine) getRP(rp uint8) uint16 {
	switch rp & 0x03 {
	case 0:
		return e.BC()
	case 1:
		return e.DE()
	case 2:
		return e.HL()
	default:
		return e.SP
	}
}

func (e *Engine) setRP(rp uint8, v uint16) {
	switch rp & 0x03 {
	case 0:
		e.setBC(v)
	case 1:
		e.setDE(v)
	case 2:
		e.setHL(v)
	default:
		e.SP = v
	}
}

// Step executes exactly one instruction and returns its T-state count
// (spec §4.5). It never returns an error: the 8080 has no architectural
// exceptions and memory/IO wrap rather than trap.
func (e *Engine) Step() int {
	switch {
	case e.halted && e.pending == 0:
		// Idle: HALT holds until an interrupt is accepted. PC is not
		// advanced.
		return 4
	case e.inte && e.pending != 0:
		op := e.pending
		e.pending = 0
		e.inte = false
		e.halted = false
		// The latched opcode is executed as if it had been fetched, but PC
		// is not pre-incremented for it: any operand bytes it needs are
		// read starting at the current PC.
		return e.execute(op)
	default:
		op := e.fetchByte()
		return e.execute(op)
	}
}

// execute dispatches a single opcode byte and returns its T-state count.
// The three regular families (MOV, HLT, and the 10ooosss ALU-against-A
// block) are decoded by bit pattern since they're uniform across their
// entire range; everything else goes through executeMisc's explicit
// per-opcode switch.
func (e *Engine) execute(op uint8) int {
	switch {
	case op == 0x76:
		e.halted = true
		return 7
	case op >= 0x40 && op <= 0x7F:
		dst := (op >> 3) & 0x07
		src := op & 0x07
		e.writeReg(dst, e.readReg(src))
		if dst == 6 || src == 6 {
			return 7
		}
		return 5
	case op >= 0x80 && op <= 0xBF:
		src := op & 0x07
		v := e.readReg(src)
		cycles := 4
		if src == 6 {
			cycles = 7
		}
		switch (op >> 3) & 0x07 {
		case 0: // ADD
			e.doAdd(v, false)
		case 1: // ADC
			e.doAdd(v, true)
		case 2: // SUB
			e.doSub(v, false, true)
		case 3: // SBB
			e.doSub(v, true, true)
		case 4: // ANA
			e.doAnd(v)
		case 5: // XRA
			e.doXor(v)
		case 6: // ORA
			e.doOr(v)
		case 7: // CMP
			e.doSub(v, false, false)
		}
		return cycles
	default:
		return e.executeMisc(op)
	}
}

// executeMisc covers the 00xxxxxx and 11xxxxxx opcode ranges: everything
// that isn't a uniform MOV or ALU-against-A instruction.
func (e *Engine) executeMisc(op uint8) int {
	switch op {
	// ---- 0x00-0x3F: misc, immediate, INR/DCR, rotates, DAA/CMA/CMC/STC ----
	case 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:
		return 4 // NOP and documented NOP duplicates
	case 0x01, 0x11, 0x21, 0x31:
		e.setRP((op>>4)&0x03, e.fetchWord())
		return 10 // LXI rp,d16
	case 0x02:
		e.mem.Write(e.BC(), e.A)
		return 7 // STAX B
	case 0x12:
		e.mem.Write(e.DE(), e.A)
		return 7 // STAX D
	case 0x0A:
		e.A = e.mem.Read(e.BC())
		return 7 // LDAX B
	case 0x1A:
		e.A = e.mem.Read(e.DE())
		return 7 // LDAX D
	case 0x03, 0x13, 0x23, 0x33:
		rp := (op >> 4) & 0x03
		e.setRP(rp, e.getRP(rp)+1)
		return 5 // INX rp
	case 0x0B, 0x1B, 0x2B, 0x3B:
		rp := (op >> 4) & 0x03
		e.setRP(rp, e.getRP(rp)-1)
		return 5 // DCX rp
	case 0x09, 0x19, 0x29, 0x39:
		e.doDad(e.getRP((op >> 4) & 0x03))
		return 10 // DAD rp
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C:
		reg := (op >> 3) & 0x07
		e.writeReg(reg, e.doInr(e.readReg(reg)))
		return 5 // INR r
	case 0x34:
		e.writeReg(6, e.doInr(e.readReg(6)))
		return 10 // INR M
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D:
		reg := (op >> 3) & 0x07
		e.writeReg(reg, e.doDcr(e.readReg(reg)))
		return 5 // DCR r
	case 0x35:
		e.writeReg(6, e.doDcr(e.readReg(6)))
		return 10 // DCR M
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E:
		e.writeReg((op>>3)&0x07, e.fetchByte())
		return 7 // MVI r,d8
	case 0x36:
		e.writeReg(6, e.fetchByte())
		return 10 // MVI M,d8
	case 0x07:
		e.rlc()
		return 4
	case 0x0F:
		e.rrc()
		return 4
	case 0x17:
		e.ral()
		return 4
	case 0x1F:
		e.rar()
		return 4
	case 0x27:
		e.daa()
		return 4
	case 0x2F:
		e.cma()
		return 4
	case 0x37:
		e.stc()
		return 4
	case 0x3F:
		e.cmc()
		return 4
	case 0x22:
		addr := e.fetchWord()
		e.mem.Write(addr, e.L)
		e.mem.Write(addr+1, e.H)
		return 16 // SHLD a16
	case 0x2A:
		addr := e.fetchWord()
		e.L = e.mem.Read(addr)
		e.H = e.mem.Read(addr + 1)
		return 16 // LHLD a16
	case 0x32:
		e.mem.Write(e.fetchWord(), e.A)
		return 13 // STA a16
	case 0x3A:
		e.A = e.mem.Read(e.fetchWord())
		return 13 // LDA a16

	// ---- 0xC0-0xFF: control flow, stack, I/O, immediate ALU ----
	case 0xC0:
		return e.condRet(e.predNZ())
	case 0xC8:
		return e.condRet(e.predZ())
	case 0xD0:
		return e.condRet(e.predNC())
	case 0xD8:
		return e.condRet(e.predC())
	case 0xE0:
		return e.condRet(e.predPO())
	case 0xE8:
		return e.condRet(e.predPE())
	case 0xF0:
		return e.condRet(e.predP())
	case 0xF8:
		return e.condRet(e.predM())
	case 0xC9, 0xD9:
		// Unconditional RET (and its documented duplicate) is a fixed
		// 10-cycle instruction, distinct from the 11/5-cycle conditional
		// cond_ret primitive used by R<cc> below.
		e.PC = e.popWord()
		return 10

	case 0xC2:
		return e.condJmp(e.predNZ())
	case 0xCA:
		return e.condJmp(e.predZ())
	case 0xD2:
		return e.condJmp(e.predNC())
	case 0xDA:
		return e.condJmp(e.predC())
	case 0xE2:
		return e.condJmp(e.predPO())
	case 0xEA:
		return e.condJmp(e.predPE())
	case 0xF2:
		return e.condJmp(e.predP())
	case 0xFA:
		return e.condJmp(e.predM())
	case 0xC3, 0xCB:
		return e.condJmp(true) // JMP and documented duplicate

	case 0xC4:
		return e.condCall(e.predNZ())
	case 0xCC:
		return e.condCall(e.predZ())
	case 0xD4:
		return e.condCall(e.predNC())
	case 0xDC:
		return e.condCall(e.predC())
	case 0xE4:
		return e.condCall(e.predPO())
	case 0xEC:
		return e.condCall(e.predPE())
	case 0xF4:
		return e.condCall(e.predP())
	case 0xFC:
		return e.condCall(e.predM())
	case 0xCD, 0xDD, 0xED, 0xFD:
		return e.condCall(true) // CALL and documented duplicates

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		return e.rst((op - 0xC7) / 8)

	case 0xC1:
		e.setBC(e.popWord())
		return 10
	case 0xD1:
		e.setDE(e.popWord())
		return 10
	case 0xE1:
		e.setHL(e.popWord())
		return 10
	case 0xF1:
		psw := e.popWord()
		e.A = uint8(psw >> 8)
		e.flags = uint8(psw)&^(flag3|flag5) | flag1
		return 10 // POP PSW forces the fixed bit pattern

	case 0xC5:
		e.pushWord(e.BC())
		return 11
	case 0xD5:
		e.pushWord(e.DE())
		return 11
	case 0xE5:
		e.pushWord(e.HL())
		return 11
	case 0xF5:
		e.pushWord(e.PSW())
		return 11

	case 0xC6:
		e.doAdd(e.fetchByte(), false)
		return 7 // ADI
	case 0xCE:
		e.doAdd(e.fetchByte(), true)
		return 7 // ACI
	case 0xD6:
		e.doSub(e.fetchByte(), false, true)
		return 7 // SUI
	case 0xDE:
		e.doSub(e.fetchByte(), true, true)
		return 7 // SBI
	case 0xE6:
		e.doAnd(e.fetchByte())
		return 7 // ANI
	case 0xEE:
		e.doXor(e.fetchByte())
		return 7 // XRI
	case 0xF6:
		e.doOr(e.fetchByte())
		return 7 // ORI
	case 0xFE:
		e.doSub(e.fetchByte(), false, false)
		return 7 // CPI

	case 0xE3:
		lo := e.mem.Read(e.SP)
		hi := e.mem.Read(e.SP + 1)
		e.mem.Write(e.SP, e.L)
		e.mem.Write(e.SP+1, e.H)
		e.L, e.H = lo, hi
		return 18 // XTHL
	case 0xEB:
		hl, de := e.HL(), e.DE()
		e.setDE(hl)
		e.setHL(de)
		return 5 // XCHG
	case 0xE9:
		e.PC = e.HL()
		return 5 // PCHL
	case 0xF9:
		e.SP = e.HL()
		return 5 // SPHL

	case 0xDB:
		e.A = e.ports.In(e.fetchByte())
		return 10 // IN
	case 0xD3:
		e.ports.Out(e.fetchByte(), e.A)
		return 10 // OUT

	case 0xF3:
		e.inte = false
		return 4 // DI
	case 0xFB:
		e.inte = true
		return 4 // EI
	}
	// Every opcode 0x00-0xFF is handled above or by execute's bit-pattern
	// cases; this is unreachable for the documented 8080 instruction set.
	panic("unimplemented opcode")
}
