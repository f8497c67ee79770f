package cpu

// Fetch helpers. PC and SP are uint16 so all arithmetic here wraps mod
// 2^16 for free.

func (e *Engine) fetchByte() uint8 {
	v := e.mem.Read(e.PC)
	e.PC++
	return v
}

// fetchWord reads a little-endian 16-bit operand, low byte first.
func (e *Engine) fetchWord() uint16 {
	lo := e.fetchByte()
	hi := e.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (e *Engine) push(v uint8) {
	e.SP--
	e.mem.Write(e.SP, v)
}

func (e *Engine) pop() uint8 {
	v := e.mem.Read(e.SP)
	e.SP++
	return v
}

// pushWord pushes a 16-bit value high byte first, low byte second — the
// order PUSH B/D/H/PSW and CALL all use.
func (e *Engine) pushWord(v uint16) {
	e.push(uint8(v >> 8))
	e.push(uint8(v))
}

// popWord pops a 16-bit value low byte first, high byte second — the
// inverse of pushWord, used by POP B/D/H/PSW and RET.
func (e *Engine) popWord() uint16 {
	lo := e.pop()
	hi := e.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// Control-flow primitives, parameterised by a boolean predicate over a
// flag. Each returns the T-state count for the branch taken.

func (e *Engine) condRet(taken bool) int {
	if taken {
		e.PC = e.popWord()
		return 11
	}
	return 5
}

func (e *Engine) condJmp(taken bool) int {
	addr := e.fetchWord()
	if taken {
		e.PC = addr
	}
	return 10
}

func (e *Engine) condCall(taken bool) int {
	addr := e.fetchWord()
	if taken {
		e.pushWord(e.PC)
		e.PC = addr
		return 17
	}
	return 11
}

func (e *Engine) rst(vector uint8) int {
	e.pushWord(e.PC)
	e.PC = uint16(vector) * 8
	return 11
}

// Flag predicates used by the conditional branch/call/return opcodes.
func (e *Engine) predNZ() bool { return !e.Zero() }
func (e *Engine) predZ() bool  { return e.Zero() }
func (e *Engine) predNC() bool { return !e.Carry() }
func (e *Engine) predC() bool  { return e.Carry() }
func (e *Engine) predPO() bool { return !e.Parity() }
func (e *Engine) predPE() bool { return e.Parity() }
func (e *Engine) predP() bool  { return !e.Sign() }
func (e *Engine) predM() bool  { return e.Sign() }
