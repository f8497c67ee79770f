// Package memory defines the basic interface for working with an 8080's
// memory space. The 8080 has no MMU and no bank switching; every address in
// the 16-bit space maps to exactly one byte, so a single flat implementation
// is sufficient (unlike the layered Bank chains a 6502-family bus needs).
package memory

import (
	"math/rand"
	"time"
)

// Bank is the memory collaborator the engine reads and writes through.
// Addresses are uint16 so wrap mod 2^16 by construction.
type Bank interface {
	// Read returns the byte stored at addr.
	Read(addr uint16) uint8
	// Write stores val at addr.
	Write(addr uint16, val uint8)
	// PowerOn resets the bank to its power-on contents.
	PowerOn()
}

// flat implements Bank as a plain 64 KiB array with no aliasing, no
// protected regions, and no parent chain.
type flat struct {
	ram [1 << 16]uint8
}

// NewFlat creates a 64 KiB memory bank. Contents are undefined until
// PowerOn is called.
func NewFlat() Bank {
	return &flat{}
}

// Read implements Bank.
func (f *flat) Read(addr uint16) uint8 {
	return f.ram[addr]
}

// Write implements Bank.
func (f *flat) Write(addr uint16, val uint8) {
	f.ram[addr] = val
}

// PowerOn implements Bank. Real 8080 RAM powers on to indeterminate
// contents, so this randomizes rather than zeroing, matching how a test
// harness would actually observe an un-programmed machine.
func (f *flat) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range f.ram {
		f.ram[i] = uint8(rand.Intn(256))
	}
}

// LoadAt copies data into the bank starting at offset, wrapping mod 2^16 if
// data runs past the top of the address space. This is the raw loader used
// for CP/M-style .COM images (conventionally offset 0x0100) and plain ROM
// images (conventionally offset 0x0000); there are no headers to parse.
func LoadAt(b Bank, offset uint16, data []byte) {
	addr := offset
	for _, v := range data {
		b.Write(addr, v)
		addr++
	}
}
