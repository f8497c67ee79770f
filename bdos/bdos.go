// Package bdos implements just enough of CP/M's BDOS to run the classic
// 8080 instruction-exerciser test suites (TST8080, CPUTEST, 8080EXER and
// similar): console output calls 2 and 9, and the .COM loading convention
// those binaries expect. It is illustrative scaffolding around the core
// engine, not part of it.
package bdos

import (
	"fmt"
	"io"

	"i8080emu/cpu"
	"i8080emu/memory"
)

// comLoadAddr is where CP/M loads .COM binaries and where their PC starts.
const comLoadAddr = 0x0100

// printSubroutine is the address CP/M's BDOS print entry point is called
// through. Binaries written for CP/M call it expecting a CALL/RET; since
// there is no real BDOS here, LoadCOM patches a bare RET at this address so
// control returns immediately to the caller once Service has run.
const printSubroutine = 0x0005

// UnhandledCall reports a BDOS function number this shim does not
// implement.
type UnhandledCall struct {
	Func uint8
}

func (e *UnhandledCall) Error() string {
	return fmt.Sprintf("bdos: unhandled function call %d", e.Func)
}

// LoadCOM loads a raw .COM image into mem at the conventional CP/M load
// address and installs a RET opcode at the BDOS print entry point, then
// returns the address execution should start at.
func LoadCOM(mem memory.Bank, image []byte) uint16 {
	memory.LoadAt(mem, comLoadAddr, image)
	mem.Write(printSubroutine, 0xC9) // RET
	return comLoadAddr
}

// Shim services the two BDOS console functions these test suites rely on:
// function 2 prints the character in E, function 9 prints the
// '$'-terminated string at DE. Out receives the printed bytes.
type Shim struct {
	Out io.Writer
}

// New creates a Shim writing to out.
func New(out io.Writer) *Shim {
	return &Shim{Out: out}
}

// Service inspects the engine state and performs the requested BDOS call.
// Callers invoke this whenever the engine's PC lands on printSubroutine,
// before letting Step execute the patched RET.
func (s *Shim) Service(e *cpu.Engine, mem memory.Bank) error {
	switch e.C {
	case 2:
		fmt.Fprintf(s.Out, "%c", e.E)
	case 9:
		addr := e.DE()
		for {
			c := mem.Read(addr)
			if c == '$' {
				break
			}
			fmt.Fprintf(s.Out, "%c", c)
			addr++
		}
	default:
		return &UnhandledCall{Func: e.C}
	}
	return nil
}

// AtEntry reports whether the engine's PC is currently sitting at the BDOS
// print entry point and a call should be serviced before the next Step.
func (s *Shim) AtEntry(e *cpu.Engine) bool {
	return e.PC == printSubroutine
}

// Run drives the engine to completion (PC returning to 0, CP/M's warm-boot
// reentry point) servicing BDOS calls as they occur, and reports the total
// T-states elapsed.
func Run(e *cpu.Engine, mem memory.Bank, s *Shim) (uint64, error) {
	var cycles uint64
	for {
		if s.AtEntry(e) {
			if err := s.Service(e, mem); err != nil {
				return cycles, err
			}
		}
		cycles += uint64(e.Step())
		if e.PC == 0x0000 {
			return cycles, nil
		}
	}
}
