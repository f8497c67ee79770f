package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := New(0x10, 0x11, &buf)

	c.Out(0x11, 'H')
	c.Out(0x11, 'i')
	c.Out(0x10, 'X') // status port writes are discarded

	assert.Equal(t, "Hi", buf.String())
}

func TestConsoleInput(t *testing.T) {
	var buf bytes.Buffer
	c := New(0x10, 0x11, &buf)

	assert.Equal(t, StatusOutputReady, c.In(0x10), "no input queued yet")

	c.Feed([]byte("AB"))
	assert.Equal(t, StatusOutputReady|StatusInputReady, c.In(0x10))
	assert.Equal(t, uint8('A'), c.In(0x11))
	assert.Equal(t, uint8('B'), c.In(0x11))
	assert.Equal(t, StatusOutputReady, c.In(0x10), "queue drained")
}

func TestConsoleUnknownPort(t *testing.T) {
	c := New(0x10, 0x11, &bytes.Buffer{})
	assert.Equal(t, uint8(0xFF), c.In(0x42))
}
