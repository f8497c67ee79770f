// Package disassemble renders 8080 instructions as text, one opcode at a
// time, without following any control transfer.
package disassemble

import (
	"fmt"

	"i8080emu/memory"
)

const (
	kModeImplied = iota
	kModeReg       // single register encoded in bits 0-2 (or M)
	kModeRegPair   // register pair encoded in bits 4-5
	kModeImm8      // one immediate data byte follows
	kModeImm16     // one immediate 16-bit value follows (low, high)
	kModeAddr      // one 16-bit address follows (STA/LDA/JMP/CALL/SHLD/LHLD)
	kModePort      // one port byte follows (IN/OUT)
	kModeRegImm8   // register encoded in opcode plus one immediate byte (MVI)
)

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
var rpNames = [4]string{"B", "D", "H", "SP"}

// jump/call/ret condition mnemonic suffixes, indexed by bits 3-5 of a
// conditional opcode.
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

type entry struct {
	mnemonic string
	mode     int
}

// table holds the fixed part of every opcode's disassembly: its mnemonic
// (with any register/condition suffix already expanded) and its operand
// shape.
var table = buildTable()

func buildTable() [256]entry {
	var t [256]entry
	for i := range t {
		t[i] = entry{"???", kModeImplied}
	}

	// 0x00-0x3F: NOPs, LXI/INX/DCX/DAD, STAX/LDAX, INR/DCR/MVI, rotates,
	// DAA/CMA/STC/CMC, SHLD/LHLD/STA/LDA.
	for _, op := range []uint8{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		t[op] = entry{"NOP", kModeImplied}
	}
	for rp := uint8(0); rp < 4; rp++ {
		t[0x01+rp*8] = entry{"LXI " + rpNames[rp] + ",", kModeImm16}
		t[0x03+rp*8] = entry{"INX " + rpNames[rp], kModeImplied}
		t[0x09+rp*8] = entry{"DAD " + rpNames[rp], kModeImplied}
		t[0x0B+rp*8] = entry{"DCX " + rpNames[rp], kModeImplied}
	}
	t[0x02] = entry{"STAX B", kModeImplied}
	t[0x12] = entry{"STAX D", kModeImplied}
	t[0x0A] = entry{"LDAX B", kModeImplied}
	t[0x1A] = entry{"LDAX D", kModeImplied}
	for r := uint8(0); r < 8; r++ {
		t[0x04+r*8] = entry{"INR " + regNames[r], kModeImplied}
		t[0x05+r*8] = entry{"DCR " + regNames[r], kModeImplied}
		t[0x06+r*8] = entry{"MVI " + regNames[r] + ",", kModeImm8}
	}
	t[0x07] = entry{"RLC", kModeImplied}
	t[0x0F] = entry{"RRC", kModeImplied}
	t[0x17] = entry{"RAL", kModeImplied}
	t[0x1F] = entry{"RAR", kModeImplied}
	t[0x22] = entry{"SHLD", kModeAddr}
	t[0x2A] = entry{"LHLD", kModeAddr}
	t[0x27] = entry{"DAA", kModeImplied}
	t[0x2F] = entry{"CMA", kModeImplied}
	t[0x32] = entry{"STA", kModeAddr}
	t[0x3A] = entry{"LDA", kModeAddr}
	t[0x37] = entry{"STC", kModeImplied}
	t[0x3F] = entry{"CMC", kModeImplied}

	// 0x40-0x7F: MOV r,r' and HLT.
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			t[op] = entry{"HLT", kModeImplied}
			continue
		}
		dst := regNames[(op>>3)&0x07]
		src := regNames[op&0x07]
		t[op] = entry{"MOV " + dst + "," + src, kModeImplied}
	}

	// 0x80-0xBF: ALU r.
	aluNames := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for op := 0x80; op <= 0xBF; op++ {
		t[op] = entry{aluNames[(op>>3)&0x07] + " " + regNames[op&0x07], kModeImplied}
	}

	// 0xC0-0xFF.
	for c := uint8(0); c < 8; c++ {
		t[0xC0+c*8] = entry{"R" + condNames[c], kModeImplied}
		t[0xC2+c*8] = entry{"J" + condNames[c], kModeAddr}
		t[0xC4+c*8] = entry{"C" + condNames[c], kModeAddr}
	}
	for rp := uint8(0); rp < 4; rp++ {
		name := rpNames[rp]
		if rp == 3 {
			name = "PSW"
		}
		t[0xC1+rp*16] = entry{"POP " + name, kModeImplied}
		t[0xC5+rp*16] = entry{"PUSH " + name, kModeImplied}
	}
	t[0xC9] = entry{"RET", kModeImplied}
	t[0xD9] = entry{"RET", kModeImplied} // documented duplicate
	t[0xC3] = entry{"JMP", kModeAddr}
	t[0xCB] = entry{"JMP", kModeAddr} // documented duplicate
	t[0xCD] = entry{"CALL", kModeAddr}
	t[0xDD] = entry{"CALL", kModeAddr} // documented duplicate
	t[0xED] = entry{"CALL", kModeAddr} // documented duplicate
	t[0xFD] = entry{"CALL", kModeAddr} // documented duplicate
	for v := uint8(0); v < 8; v++ {
		t[0xC7+v*8] = entry{fmt.Sprintf("RST %d", v), kModeImplied}
	}
	t[0xC6] = entry{"ADI", kModeImm8}
	t[0xCE] = entry{"ACI", kModeImm8}
	t[0xD6] = entry{"SUI", kModeImm8}
	t[0xDE] = entry{"SBI", kModeImm8}
	t[0xE6] = entry{"ANI", kModeImm8}
	t[0xEE] = entry{"XRI", kModeImm8}
	t[0xF6] = entry{"ORI", kModeImm8}
	t[0xFE] = entry{"CPI", kModeImm8}
	t[0xE3] = entry{"XTHL", kModeImplied}
	t[0xEB] = entry{"XCHG", kModeImplied}
	t[0xE9] = entry{"PCHL", kModeImplied}
	t[0xF9] = entry{"SPHL", kModeImplied}
	t[0xDB] = entry{"IN", kModePort}
	t[0xD3] = entry{"OUT", kModePort}
	t[0xF3] = entry{"DI", kModeImplied}
	t[0xFB] = entry{"EI", kModeImplied}

	return t
}

// Step disassembles the instruction at pc, returning its text rendering
// and the number of bytes (1-3) it occupies. It always reads the two bytes
// after pc, whatever the instruction's length; addresses wrap mod 2^16.
func Step(pc uint16, mem memory.Bank) (string, int) {
	op := mem.Read(pc)
	b1 := mem.Read(pc + 1)
	b2 := mem.Read(pc + 2)
	e := table[op]

	count := 1
	var operand string
	switch e.mode {
	case kModeImm8, kModeRegImm8:
		operand = fmt.Sprintf("#%02X", b1)
		count = 2
	case kModeImm16:
		operand = fmt.Sprintf("#%02X%02X", b2, b1)
		count = 3
	case kModeAddr:
		operand = fmt.Sprintf("%02X%02X", b2, b1)
		count = 3
	case kModePort:
		operand = fmt.Sprintf("%02X", b1)
		count = 2
	}

	bytes := fmt.Sprintf("%02X", op)
	if count > 1 {
		bytes += fmt.Sprintf(" %02X", b1)
	}
	if count > 2 {
		bytes += fmt.Sprintf(" %02X", b2)
	}

	text := e.mnemonic
	if operand != "" {
		text += operand
	}
	return fmt.Sprintf("%04X  %-8s  %s", pc, bytes, text), count
}
