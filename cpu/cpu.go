// Package cpu implements the Intel 8080 architecture and provides the
// methods needed to decode and run 8080 machine code against an injected
// memory and I/O collaborator.
package cpu

import (
	"fmt"

	"i8080emu/io"
	"i8080emu/memory"
)

// Flag bit positions within the packed PSW low byte. Bits 1, 3 and 5 are
// fixed (1, 0, 0 respectively) and are never touched by flag-setting
// helpers below; Init establishes the pattern and nothing else clears bit 1
// or sets bits 3/5.
const (
	FlagC  = uint8(0x01) // Carry
	flag1  = uint8(0x02) // always 1
	FlagP  = uint8(0x04) // Parity
	flag3  = uint8(0x08) // always 0
	FlagAC = uint8(0x10) // Auxiliary Carry
	flag5  = uint8(0x20) // always 0
	FlagZ  = uint8(0x40) // Zero
	FlagS  = uint8(0x80) // Sign
)

// InvalidEngineState is returned by New when it's asked to build an engine
// that can never run correctly.
type InvalidEngineState struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidEngineState) Error() string {
	return fmt.Sprintf("invalid engine state: %s", e.Reason)
}

// Engine holds all 8080 architectural state: the register file, flags,
// program counter, stack pointer, and the HALT/interrupt-enable latches. It
// owns none of the memory or port address space directly; both are
// supplied as capability collaborators so tests can inject deterministic
// implementations.
type Engine struct {
	A, B, C, D, E, H, L uint8
	PC, SP              uint16
	flags               uint8

	halted bool
	inte   bool
	pending uint8

	mem   memory.Bank
	ports io.Ports
}

// New builds an engine bound to the given memory and I/O collaborators and
// resets it to power-on state. ports may be nil, in which case IN always
// reads 0xFF and OUT is discarded.
func New(mem memory.Bank, ports io.Ports) (*Engine, error) {
	if mem == nil {
		return nil, InvalidEngineState{"memory collaborator is nil"}
	}
	if ports == nil {
		ports = io.Null{}
	}
	e := &Engine{mem: mem, ports: ports}
	e.Init()
	return e, nil
}

// Init resets all architectural state to the 8080's power-on values (spec
// §4.6): every register, PC and SP to zero, flags to the fixed-bit-only
// pattern, and both latches cleared. It does not touch the memory or port
// collaborators — loading a program is the host's job.
func (e *Engine) Init() {
	e.A, e.B, e.C, e.D, e.E, e.H, e.L = 0, 0, 0, 0, 0, 0, 0
	e.PC = 0
	e.SP = 0
	e.flags = flag1
	e.halted = false
	e.inte = false
	e.pending = 0
}

// Halted reports whether the HLT latch is set.
func (e *Engine) Halted() bool { return e.halted }

// InterruptsEnabled reports the INTE latch.
func (e *Engine) InterruptsEnabled() bool { return e.inte }

// RequestInterrupt latches a pending interrupt opcode for the next Step
// boundary. A value of 0 means "no interrupt" and simply clears any
// previously latched request.
func (e *Engine) RequestInterrupt(opcode uint8) {
	e.pending = opcode
}

// Register pair accessors. BC/DE/HL are always bit-identical to
// (high<<8)|low; there is no separate storage to keep in sync.

// BC returns the BC register pair.
func (e *Engine) BC() uint16 { return uint16(e.B)<<8 | uint16(e.C) }

// DE returns the DE register pair.
func (e *Engine) DE() uint16 { return uint16(e.D)<<8 | uint16(e.E) }

// HL returns the HL register pair.
func (e *Engine) HL() uint16 { return uint16(e.H)<<8 | uint16(e.L) }

func (e *Engine) setBC(v uint16) { e.B, e.C = uint8(v>>8), uint8(v) }
func (e *Engine) setDE(v uint16) { e.D, e.E = uint8(v>>8), uint8(v) }
func (e *Engine) setHL(v uint16) { e.H, e.L = uint8(v>>8), uint8(v) }

// PSW returns the packed Program Status Word: A in the high byte, the flag
// byte in the low byte.
func (e *Engine) PSW() uint16 { return uint16(e.A)<<8 | uint16(e.flags) }

// Flags accessors required by a test harness (spec §6) plus a few more for
// convenience; none of these are required by the core contract beyond
// PC/C/E/DE.

// Zero reports the Z flag.
func (e *Engine) Zero() bool { return e.flags&FlagZ != 0 }

// Sign reports the S flag.
func (e *Engine) Sign() bool { return e.flags&FlagS != 0 }

// Parity reports the P flag.
func (e *Engine) Parity() bool { return e.flags&FlagP != 0 }

// AuxCarry reports the AC flag.
func (e *Engine) AuxCarry() bool { return e.flags&FlagAC != 0 }

// Carry reports the C flag.
func (e *Engine) Carry() bool { return e.flags&FlagC != 0 }

// FlagsByte returns the raw packed flag byte (spec §3's PSW low byte).
func (e *Engine) FlagsByte() uint8 { return e.flags }
