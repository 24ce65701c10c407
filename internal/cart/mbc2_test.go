package cart

import "testing"

func TestMBC2_RAMEnableGatedByAddressBit8(t *testing.T) {
	m := NewMBC2(make([]byte, 0x8000))

	m.Write(0x0000, 0x0A) // bit8 clear -> RAM enable
	m.Write(0xA000, 0x07)
	if got := m.Read(0xA000); got != 0x07|0xF0 {
		t.Fatalf("got %02X want %02X", got, 0x07|0xF0)
	}

	m.Write(0x0100, 0x0A) // bit8 set -> ROM bank select, not RAM enable
	if m.romBank != 0x0A {
		t.Fatalf("expected rom bank 0x0A, got %02X", m.romBank)
	}
}

func TestMBC2_RAMStoresOnlyLowNibble(t *testing.T) {
	m := NewMBC2(make([]byte, 0x8000))
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0xFF)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("expected read-back of 0xFF (low nibble set, high nibble forced), got %02X", got)
	}
	if m.ram[0] != 0x0F {
		t.Fatalf("expected stored nibble 0x0F, got %02X", m.ram[0])
	}
}

func TestMBC2_ROMBankZeroMapsToOne(t *testing.T) {
	m := NewMBC2(make([]byte, 0x10000))
	m.Write(0x0100, 0x00)
	if m.romBank != 1 {
		t.Fatalf("expected rom bank 0 to remap to 1, got %d", m.romBank)
	}
}
