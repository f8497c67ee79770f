package cpu

import "math/bits"

// ALU primitives. These are pure functions over 8-bit operands; the Engine
// methods below apply their results to the register file and flags.

// aluAdd computes (a + b + cin) mod 256 and the carry/half-carry it
// produced. cin must be 0 or 1.
func aluAdd(a, b, cin uint8) (result uint8, carry, halfCarry bool) {
	sum := uint16(a) + uint16(b) + uint16(cin)
	result = uint8(sum)
	carry = sum >= 0x100
	halfCarry = (uint16(a&0x0F) + uint16(b&0x0F) + uint16(cin)) > 0x0F
	return
}

// aluSub computes (a - b - bin) mod 256 using the 8080's half-borrow
// definition: the low nibble of a plus the inverted low nibble of b plus
// the inverted borrow-in. bin must be 0 or 1.
func aluSub(a, b, bin uint8) (result uint8, borrow, halfBorrow bool) {
	result = a - b - bin
	borrow = uint16(b)+uint16(bin) > uint16(a)
	notB := ^b
	invBin := bin ^ 1
	halfBorrow = (uint16(a&0x0F) + uint16(notB&0x0F) + uint16(invBin)) > 0x0F
	return
}

// aluInc computes (v + 1) mod 256. Carry is never affected by INR so it's
// not part of this result.
func aluInc(v uint8) (result uint8, halfCarry bool) {
	result = v + 1
	halfCarry = v&0x0F == 0x0F
	return
}

// aluDec computes (v - 1) mod 256. Carry is never affected by DCR.
func aluDec(v uint8) (result uint8, halfBorrow bool) {
	result = v - 1
	halfBorrow = v&0x0F != 0
	return
}

// aluAnd computes a & b. AC reflects bit 3 of a|b, an 8080-specific quirk,
// not a true arithmetic carry.
func aluAnd(a, b uint8) (result uint8, halfCarry bool) {
	result = a & b
	halfCarry = (a|b)&0x08 != 0
	return
}

// aluDad computes (x + y) mod 65536 and whether it carried out of bit 15.
func aluDad(x, y uint16) (result uint16, carry bool) {
	sum := uint32(x) + uint32(y)
	result = uint16(sum)
	carry = sum >= 0x10000
	return
}

// zsp reports the Z, S and P flag values for an 8-bit result.
func zsp(v uint8) (z, s, p bool) {
	return v == 0, v&0x80 != 0, bits.OnesCount8(v)%2 == 0
}

// setArithFlags applies Z, S, P, AC and C from an additive or subtractive
// ALU result.
func (e *Engine) setArithFlags(result uint8, carry, halfCarry bool) {
	e.setZSP(result)
	e.setBit(FlagC, carry)
	e.setBit(FlagAC, halfCarry)
}

// setLogicFlags applies Z, S, P and AC from a bitwise result; C is always
// cleared per the 8080's AND/OR/XOR semantics.
func (e *Engine) setLogicFlags(result uint8, halfCarry bool) {
	e.setZSP(result)
	e.setBit(FlagC, false)
	e.setBit(FlagAC, halfCarry)
}

// setIncDecFlags applies Z, S, P and AC from an INR/DCR result, leaving C
// untouched.
func (e *Engine) setIncDecFlags(result uint8, halfCarry bool) {
	e.setZSP(result)
	e.setBit(FlagAC, halfCarry)
}

func (e *Engine) setZSP(v uint8) {
	z, s, p := zsp(v)
	e.setBit(FlagZ, z)
	e.setBit(FlagS, s)
	e.setBit(FlagP, p)
}

func (e *Engine) setBit(mask uint8, v bool) {
	if v {
		e.flags |= mask
	} else {
		e.flags &^= mask
	}
}

// doAdd performs ADD/ADC against A.
func (e *Engine) doAdd(v uint8, withCarry bool) {
	cin := uint8(0)
	if withCarry && e.Carry() {
		cin = 1
	}
	result, carry, ac := aluAdd(e.A, v, cin)
	e.setArithFlags(result, carry, ac)
	e.A = result
}

// doSub performs SUB/SBB/CMP against A. When store is false (CMP) the
// result is discarded but flags are still set.
func (e *Engine) doSub(v uint8, withBorrow, store bool) {
	bin := uint8(0)
	if withBorrow && e.Carry() {
		bin = 1
	}
	result, borrow, ac := aluSub(e.A, v, bin)
	e.setArithFlags(result, borrow, ac)
	if store {
		e.A = result
	}
}

// doAnd performs ANA against A.
func (e *Engine) doAnd(v uint8) {
	result, ac := aluAnd(e.A, v)
	e.A = result
	e.setLogicFlags(result, ac)
}

// doOr performs ORA against A.
func (e *Engine) doOr(v uint8) {
	result := e.A | v
	e.A = result
	e.setLogicFlags(result, false)
}

// doXor performs XRA against A.
func (e *Engine) doXor(v uint8) {
	result := e.A ^ v
	e.A = result
	e.setLogicFlags(result, false)
}

// doInr performs INR on an arbitrary operand, returning the new value.
func (e *Engine) doInr(v uint8) uint8 {
	result, ac := aluInc(v)
	e.setIncDecFlags(result, ac)
	return result
}

// doDcr performs DCR on an arbitrary operand, returning the new value.
func (e *Engine) doDcr(v uint8) uint8 {
	result, ac := aluDec(v)
	e.setIncDecFlags(result, ac)
	return result
}

// doDad performs DAD against HL; only C is affected.
func (e *Engine) doDad(v uint16) {
	result, carry := aluDad(e.HL(), v)
	e.setHL(result)
	e.setBit(FlagC, carry)
}

// rlc rotates A left through bit 7 into both C and bit 0.
func (e *Engine) rlc() {
	bit7 := e.A&0x80 != 0
	e.A = e.A << 1
	if bit7 {
		e.A |= 0x01
	}
	e.setBit(FlagC, bit7)
}

// rrc rotates A right through bit 0 into both C and bit 7.
func (e *Engine) rrc() {
	bit0 := e.A&0x01 != 0
	e.A = e.A >> 1
	if bit0 {
		e.A |= 0x80
	}
	e.setBit(FlagC, bit0)
}

// ral rotates A left through Carry.
func (e *Engine) ral() {
	bit7 := e.A&0x80 != 0
	newBit0 := uint8(0)
	if e.Carry() {
		newBit0 = 1
	}
	e.A = (e.A << 1) | newBit0
	e.setBit(FlagC, bit7)
}

// rar rotates A right through Carry.
func (e *Engine) rar() {
	bit0 := e.A&0x01 != 0
	newBit7 := uint8(0)
	if e.Carry() {
		newBit7 = 0x80
	}
	e.A = (e.A >> 1) | newBit7
	e.setBit(FlagC, bit0)
}

// daa decimal-adjusts A after a BCD addition. See spec.md §4.1 for the
// two-step correction; the sticky-upward carry in step one and the use of
// the pre-instruction A value for its "before adjustment" comparison are
// both required for CPUTEST/8080EXER-style exercisers to pass.
func (e *Engine) daa() {
	origA := e.A
	lowNibble := origA & 0x0F
	ac := e.AuxCarry()
	carry := e.Carry()

	var newAC bool
	if lowNibble > 9 || ac {
		e.A += 0x06
		newAC = lowNibble > 9
	} else {
		newAC = false
	}

	newCarry := carry || origA > 0xA0

	if (e.A>>4) > 9 || newCarry {
		e.A += 0x60
		newCarry = true
	}

	e.setZSP(e.A)
	e.setBit(FlagC, newCarry)
	e.setBit(FlagAC, newAC)
}

// cma complements A; no flags are affected.
func (e *Engine) cma() {
	e.A = ^e.A
}

// cmc toggles Carry; no other flags are affected.
func (e *Engine) cmc() {
	e.setBit(FlagC, !e.Carry())
}

// stc sets Carry; no other flags are affected.
func (e *Engine) stc() {
	e.setBit(FlagC, true)
}
