package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownExpiry(t *testing.T) {
	tm := New(0x20, 0x21)
	tm.Out(0x20, 10)

	assert.False(t, tm.Raised())
	tm.Tick(4)
	assert.Equal(t, uint8(6), tm.In(0x21))
	assert.False(t, tm.Raised())

	tm.Tick(6)
	assert.True(t, tm.Raised())
	assert.Equal(t, uint8(0x01), tm.In(0x20))
}

func TestVectorSelection(t *testing.T) {
	tm := New(0x20, 0x21)
	tm.Out(0x21, 3)
	tm.Out(0x20, 1)
	tm.Tick(1)

	assert.True(t, tm.Raised())
	assert.Equal(t, uint8(0xC7+8*3), tm.Opcode())
}

func TestAckClearsExpiry(t *testing.T) {
	tm := New(0x20, 0x21)
	tm.Out(0x20, 1)
	tm.Tick(1)
	assert.True(t, tm.Raised())
	tm.Ack()
	assert.False(t, tm.Raised())
}

func TestReloadClearsExpiry(t *testing.T) {
	tm := New(0x20, 0x21)
	tm.Out(0x20, 1)
	tm.Tick(1)
	assert.True(t, tm.Raised())
	tm.Out(0x20, 5)
	assert.False(t, tm.Raised())
}
