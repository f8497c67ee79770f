// Package console implements a two-port Altair-8800-style serial console:
// one status port and one data port, the canonical concrete device behind
// the 8080's IN/OUT instructions (spec.md §6's io.Ports boundary).
package console

import (
	"fmt"
	"io"

	ports "i8080emu/io"
)

const (
	// StatusInputReady is set in the status byte when a byte is queued for
	// input.
	StatusInputReady = uint8(0x01)
	// StatusOutputReady is set in the status byte whenever the device can
	// accept another output byte. This implementation never backpressures.
	StatusOutputReady = uint8(0x02)
)

// Console is a minimal serial terminal device: reading the status port
// reports whether input is queued and whether output can be accepted;
// reading the data port dequeues the next input byte; writing the data
// port emits a byte to Out.
type Console struct {
	StatusPort, DataPort uint8

	out   io.Writer
	queue []byte
}

var _ ports.Ports = (*Console)(nil)

// New creates a console bound to the given status/data ports, writing
// output bytes to out.
func New(statusPort, dataPort uint8, out io.Writer) *Console {
	return &Console{StatusPort: statusPort, DataPort: dataPort, out: out}
}

// Feed queues bytes for the next In() reads on the data port, simulating
// keystrokes arriving from a terminal.
func (c *Console) Feed(b []byte) {
	c.queue = append(c.queue, b...)
}

// In implements io.Ports.
func (c *Console) In(port uint8) uint8 {
	switch port {
	case c.StatusPort:
		status := StatusOutputReady
		if len(c.queue) > 0 {
			status |= StatusInputReady
		}
		return status
	case c.DataPort:
		if len(c.queue) == 0 {
			return 0
		}
		b := c.queue[0]
		c.queue = c.queue[1:]
		return b
	}
	return 0xFF
}

// Out implements io.Ports. Only the data port does anything; writes to the
// status port are discarded.
func (c *Console) Out(port uint8, val uint8) {
	if port == c.DataPort {
		fmt.Fprintf(c.out, "%c", val)
	}
}
