// Package irq defines the basic interface for working with an 8080's single
// interrupt line. Unlike the 6502 family's distinct IRQ/NMI/RDY lines, the
// 8080 has exactly one interrupt input; the interrupting device is
// responsible for placing an instruction (conventionally an RST n) on the
// data bus for the CPU to execute. A host loop polls a Source once per step
// and, if raised, hands its opcode to the engine via RequestInterrupt.
package irq

// Source defines the interface for a device that can raise the 8080's
// single interrupt line.
type Source interface {
	// Raised indicates whether the interrupt line is currently held high.
	Raised() bool
	// Opcode returns the instruction the device wants executed in response
	// to the interrupt being accepted (conventionally RST n, 0xC7+8n).
	// Only meaningful when Raised returns true.
	Opcode() uint8
	// Ack tells the device its interrupt has been accepted by the CPU so it
	// can drop the line (edge behavior) or leave it held (level behavior) as
	// appropriate to the device.
	Ack()
}

// Poll checks every source in order and returns the opcode of the first one
// that has raised its line, acknowledging it. Returns ok=false if none have.
func Poll(sources []Source) (opcode uint8, ok bool) {
	for _, s := range sources {
		if s.Raised() {
			op := s.Opcode()
			s.Ack()
			return op, true
		}
	}
	return 0, false
}
