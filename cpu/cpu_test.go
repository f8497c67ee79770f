package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"i8080emu/io"
	"i8080emu/memory"
)

// loadProgram writes a sequence of bytes at addr 0 of a fresh engine and
// memory, returning both.
func loadProgram(t *testing.T, prog []byte) (*Engine, memory.Bank) {
	t.Helper()
	mem := memory.NewFlat()
	mem.PowerOn()
	memory.LoadAt(mem, 0, prog)
	e, err := New(mem, io.Null{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, mem
}

func runUntilHalt(t *testing.T, e *Engine, maxSteps int) int {
	t.Helper()
	total := 0
	for i := 0; i < maxSteps; i++ {
		total += e.Step()
		if e.Halted() {
			return total
		}
	}
	t.Fatalf("did not halt within %d steps: %s", maxSteps, spew.Sdump(e))
	return total
}

func TestS1_NOPLoop(t *testing.T) {
	prog := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x76}
	e, _ := loadProgram(t, prog)

	cycles := 0
	for i := 0; i < 6; i++ {
		cycles += e.Step()
	}
	if e.PC != 0x0006 {
		t.Errorf("PC = %#04x, want 0x0006", e.PC)
	}
	if !e.Halted() {
		t.Errorf("expected HALT set")
	}
	if want := 4*5 + 7; cycles != want {
		t.Errorf("cycles = %d, want %d", cycles, want)
	}
}

func TestS2_SimpleArithmetic(t *testing.T) {
	prog := []byte{
		0x3E, 0x05, // MVI A,5
		0x06, 0x03, // MVI B,3
		0x80,       // ADD B
		0x76,       // HLT
	}
	e, _ := loadProgram(t, prog)
	cycles := runUntilHalt(t, e, 10)

	if e.A != 0x08 {
		t.Errorf("A = %#02x, want 0x08", e.A)
	}
	if e.Zero() || e.Sign() || e.Parity() || e.Carry() || e.AuxCarry() {
		t.Errorf("flags wrong: %s", spew.Sdump(e))
	}
	if want := 7 + 7 + 4 + 7; cycles != want {
		t.Errorf("cycles = %d, want %d", cycles, want)
	}
}

func TestS3_FlagsOnOverflow(t *testing.T) {
	prog := []byte{
		0x3E, 0xFF, // MVI A,0xFF
		0xC6, 0x01, // ADI 1
		0x76,
	}
	e, _ := loadProgram(t, prog)
	runUntilHalt(t, e, 10)

	if e.A != 0x00 {
		t.Errorf("A = %#02x, want 0x00", e.A)
	}
	if !e.Zero() || e.Sign() || !e.Parity() || !e.Carry() || !e.AuxCarry() {
		t.Errorf("flags wrong: Z=%v S=%v P=%v C=%v AC=%v", e.Zero(), e.Sign(), e.Parity(), e.Carry(), e.AuxCarry())
	}
}

func TestS4_SubtractionBorrow(t *testing.T) {
	prog := []byte{
		0x3E, 0x05, // MVI A,5
		0xD6, 0x0A, // SUI 0x0A
		0x76,
	}
	e, _ := loadProgram(t, prog)
	runUntilHalt(t, e, 10)

	if e.A != 0xFB {
		t.Errorf("A = %#02x, want 0xFB", e.A)
	}
	if e.Zero() || !e.Sign() || e.Parity() || !e.Carry() || e.AuxCarry() {
		t.Errorf("flags wrong: Z=%v S=%v P=%v C=%v AC=%v", e.Zero(), e.Sign(), e.Parity(), e.Carry(), e.AuxCarry())
	}
}

func TestS5_CallRetRoundTrip(t *testing.T) {
	prog := make([]byte, 0x10)
	prog[0x00], prog[0x01], prog[0x02] = 0xCD, 0x08, 0x00 // CALL 0x0008
	prog[0x03] = 0x76                                     // HLT
	prog[0x08] = 0xC9                                     // RET
	e, mem := loadProgram(t, prog)
	e.SP = 0x0100

	cyc1 := e.Step()
	if e.PC != 0x0008 || e.SP != 0x00FE {
		t.Fatalf("after CALL: PC=%#04x SP=%#04x cyc=%d", e.PC, e.SP, cyc1)
	}
	if got := mem.Read(0x00FE); got != 0x03 {
		t.Errorf("mem[0x00FE] = %#02x, want 0x03", got)
	}
	if got := mem.Read(0x00FF); got != 0x00 {
		t.Errorf("mem[0x00FF] = %#02x, want 0x00", got)
	}

	e.Step() // RET
	if e.PC != 0x0003 || e.SP != 0x0100 {
		t.Fatalf("after RET: PC=%#04x SP=%#04x", e.PC, e.SP)
	}
}

func TestS6_ConditionalBranchNotTaken(t *testing.T) {
	prog := []byte{
		0x3E, 0x00, // MVI A,0
		0xB7,       // ORA A (sets Z)
		0xC2, 0x10, 0x00, // JNZ 0x0010
		0x76,
	}
	e, _ := loadProgram(t, prog)
	cycles := runUntilHalt(t, e, 10)

	if e.PC != 0x0006 {
		t.Errorf("PC = %#04x, want 0x0006", e.PC)
	}
	if want := 7 + 4 + 10 + 7; cycles != want {
		t.Errorf("cycles = %d, want %d", cycles, want)
	}
}

func TestS7_DAAAfterBCDAdd(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	e.A = 0x15
	e.B = 0x27
	e.execute(0x80) // ADD B
	if e.A != 0x3C || e.Carry() || e.AuxCarry() {
		t.Fatalf("raw ADD result wrong: A=%#02x C=%v AC=%v", e.A, e.Carry(), e.AuxCarry())
	}
	e.daa()
	if e.A != 0x42 {
		t.Errorf("A after DAA = %#02x, want 0x42", e.A)
	}
	if e.Carry() {
		t.Errorf("C after DAA = true, want false")
	}
}

// TestFixedFlagBits covers invariant 1: bits {1,3,5} of the flag byte are
// always {1,0,0} after any Step.
func TestFixedFlagBits(t *testing.T) {
	prog := []byte{0x3C, 0x3D, 0xC6, 0xFF, 0x76} // INR A; DCR A; ADI 0xFF; HLT
	e, _ := loadProgram(t, prog)
	for !e.Halted() {
		e.Step()
		if e.flags&flag1 == 0 || e.flags&flag3 != 0 || e.flags&flag5 != 0 {
			t.Fatalf("fixed flag bits violated: flags=%#02x", e.flags)
		}
	}
}

// TestPushPopRoundTrip covers invariant 4.
func TestPushPopRoundTrip(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	e.SP = 0x2000
	startSP := e.SP
	e.push(0xAB)
	got := e.pop()
	if got != 0xAB {
		t.Errorf("pop() = %#02x, want 0xAB", got)
	}
	if e.SP != startSP {
		t.Errorf("SP = %#04x, want %#04x", e.SP, startSP)
	}
}

// TestPushPopPSWRoundTrip covers invariant 5.
func TestPushPopPSWRoundTrip(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	e.SP = 0x2000
	e.A = 0x42
	e.flags = FlagZ | FlagC | flag1

	before := *e
	e.execute(0xF5) // PUSH PSW
	e.execute(0xF1) // POP PSW

	if e.A != before.A {
		t.Errorf("A = %#02x, want %#02x", e.A, before.A)
	}
	if e.flags != before.flags {
		t.Errorf("flags = %#02x, want %#02x", e.flags, before.flags)
	}
}

// TestXCHGSelfInverse covers invariant 6.
func TestXCHGSelfInverse(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	e.setHL(0x1234)
	e.setDE(0x5678)
	before := *e
	e.execute(0xEB)
	e.execute(0xEB)
	if diff := deep.Equal(*e, before); diff != nil {
		t.Errorf("state mismatch after double XCHG: %v", diff)
	}
}

// TestJMPExact covers invariant 7.
func TestJMPExact(t *testing.T) {
	prog := []byte{0xC3, 0x34, 0x12} // JMP 0x1234
	e, _ := loadProgram(t, prog)
	e.Step()
	if e.PC != 0x1234 {
		t.Errorf("PC = %#04x, want 0x1234", e.PC)
	}
}

// TestParityMatchesPopcount covers invariant 9 across all byte values.
func TestParityMatchesPopcount(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	for v := 0; v < 256; v++ {
		e.A = 0
		e.doOr(uint8(v)) // ORA-style: A = 0 | v, flags set from v
		_, _, wantParity := zsp(uint8(v))
		if e.Parity() != wantParity {
			t.Errorf("v=%#02x: Parity()=%v want %v", v, e.Parity(), wantParity)
		}
	}
}

func TestIncDecLeaveCarryAlone(t *testing.T) {
	e, _ := loadProgram(t, []byte{0x76})
	e.A = 0xFF
	e.stc()
	e.writeReg(7, e.doInr(e.readReg(7)))
	if !e.Carry() {
		t.Errorf("INR cleared Carry, should leave it alone")
	}
	e.writeReg(7, e.doDcr(e.readReg(7)))
	if !e.Carry() {
		t.Errorf("DCR cleared Carry, should leave it alone")
	}
}

func TestAddIsModular(t *testing.T) {
	for a := 0; a < 256; a += 37 {
		for b := 0; b < 256; b += 41 {
			for cin := uint8(0); cin <= 1; cin++ {
				result, carry, _ := aluAdd(uint8(a), uint8(b), cin)
				want := (a + b + int(cin)) % 256
				if int(result) != want {
					t.Fatalf("aluAdd(%d,%d,%d) = %d, want %d", a, b, cin, result, want)
				}
				wantCarry := a+b+int(cin) >= 256
				if carry != wantCarry {
					t.Fatalf("aluAdd(%d,%d,%d) carry = %v, want %v", a, b, cin, carry, wantCarry)
				}
			}
		}
	}
}

func TestInterruptLatch(t *testing.T) {
	prog := []byte{0x76} // HLT immediately
	e, _ := loadProgram(t, prog)
	e.Step() // executes HLT
	if !e.Halted() {
		t.Fatalf("expected halted")
	}

	// Without an enabled interrupt the CPU stays halted and idle.
	if c := e.Step(); c != 4 {
		t.Errorf("idle halted step = %d cycles, want 4", c)
	}
	if e.PC != 0x0001 {
		t.Errorf("PC advanced while halted: %#04x", e.PC)
	}

	e.inte = true
	e.RequestInterrupt(0xC7) // RST 0
	e.Step()
	if e.Halted() {
		t.Errorf("expected HALT cleared by accepted interrupt")
	}
	if e.InterruptsEnabled() {
		t.Errorf("expected INTE cleared by accepted interrupt")
	}
	if e.PC != 0x0000 {
		t.Errorf("PC = %#04x after RST 0, want 0x0000", e.PC)
	}
}
