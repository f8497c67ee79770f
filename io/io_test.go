package io

import "testing"

type fakePort struct {
	in  uint8
	out uint8
}

func (f *fakePort) In(uint8) uint8    { return f.in }
func (f *fakePort) Out(_ uint8, v uint8) { f.out = v }

func TestNullPort(t *testing.T) {
	var n Null
	if got := n.In(0x10); got != 0xFF {
		t.Errorf("In = %#02x, want 0xFF", got)
	}
	n.Out(0x10, 0x42) // must not panic
}

func TestBusRouting(t *testing.T) {
	bus := NewBus()
	a := &fakePort{in: 0x11}
	b := &fakePort{in: 0x22}
	bus.Attach(0x01, a)
	bus.Attach(0x02, b)

	if got := bus.In(0x01); got != 0x11 {
		t.Errorf("In(0x01) = %#02x, want 0x11", got)
	}
	if got := bus.In(0x02); got != 0x22 {
		t.Errorf("In(0x02) = %#02x, want 0x22", got)
	}
	if got := bus.In(0x03); got != 0xFF {
		t.Errorf("In(0x03) = %#02x, want 0xFF (default)", got)
	}

	bus.Out(0x01, 0x99)
	if a.out != 0x99 {
		t.Errorf("a.out = %#02x, want 0x99", a.out)
	}
}
