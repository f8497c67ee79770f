package memory

import "testing"

func TestReadWrite(t *testing.T) {
	b := NewFlat()
	b.Write(0x1234, 0xAB)
	if got := b.Read(0x1234); got != 0xAB {
		t.Errorf("Read(0x1234) = %#02x, want 0xAB", got)
	}
}

func TestLoadAt(t *testing.T) {
	b := NewFlat()
	LoadAt(b, 0x0100, []byte{0x01, 0x02, 0x03})
	for i, want := range []uint8{0x01, 0x02, 0x03} {
		if got := b.Read(0x0100 + uint16(i)); got != want {
			t.Errorf("Read(0x%04x) = %#02x, want %#02x", 0x0100+i, got, want)
		}
	}
}

func TestLoadAtWraps(t *testing.T) {
	b := NewFlat()
	LoadAt(b, 0xFFFE, []byte{0x11, 0x22, 0x33})
	if got := b.Read(0xFFFE); got != 0x11 {
		t.Errorf("Read(0xFFFE) = %#02x, want 0x11", got)
	}
	if got := b.Read(0xFFFF); got != 0x22 {
		t.Errorf("Read(0xFFFF) = %#02x, want 0x22", got)
	}
	if got := b.Read(0x0000); got != 0x33 {
		t.Errorf("Read(0x0000) = %#02x, want 0x33 (wrapped)", got)
	}
}
