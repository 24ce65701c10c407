package cart

import "testing"

func TestParseHeader_BadLogoRejected(t *testing.T) {
	rom := buildROM("TEST", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0104] ^= 0xFF // corrupt the Nintendo logo
	if _, err := ParseHeader(rom); err == nil {
		t.Fatalf("expected error on corrupted Nintendo logo, got nil")
	}
}

func TestDecodeRAMSize_2KiB(t *testing.T) {
	if got := decodeRAMSize(0x01); got != 2*1024 {
		t.Fatalf("RAM size code 0x01 got %d want 2048", got)
	}
}
