package dma

import "testing"

func newHarness() (*VRAMDMA, []byte, []byte) {
	src := make([]byte, 0x10000)
	vram := make([]byte, 0x2000)
	read := func(addr uint16) byte { return src[addr] }
	write := func(addr uint16, v byte) { vram[addr-0x8000] = v }
	return New(read, write), src, vram
}

func TestVRAMDMA_GeneralPurposeCopiesImmediately(t *testing.T) {
	d, src, vram := newHarness()
	for i := range 0x20 {
		src[i] = byte(i + 1)
	}
	d.Write(0xFF51, 0x00, nil)
	d.Write(0xFF52, 0x00, nil)
	d.Write(0xFF53, 0x00, nil)
	d.Write(0xFF54, 0x00, nil)
	d.Write(0xFF55, 0x01, nil) // bit7=0 -> GDMA, 2 blocks (0x20 bytes)

	for i := 0; i < 0x20; i++ {
		if vram[i] != byte(i+1) {
			t.Fatalf("byte %d: got %02X want %02X", i, vram[i], i+1)
		}
	}
	if d.Active() {
		t.Fatalf("GDMA should complete synchronously")
	}
	if got := d.Read(0xFF55); got != 0xFF {
		t.Fatalf("FF55 after GDMA completion want 0xFF got %02X", got)
	}
}

func TestVRAMDMA_HBlankCopiesOneBlockPerCall(t *testing.T) {
	d, src, vram := newHarness()
	for i := range 0x20 {
		src[i] = byte(0x80 + i)
	}
	d.Write(0xFF55, 0x81, nil) // bit7=1 -> HDMA, remain=1 (2 blocks)

	if !d.Active() {
		t.Fatalf("HDMA should remain active until blocks exhausted")
	}
	d.OnHBlank()
	if vram[0] != 0x80 || vram[0x10] == 0x90 {
		t.Fatalf("expected only first block copied after one HBlank")
	}
	if !d.Active() {
		t.Fatalf("one block remaining, should still be active")
	}
	d.OnHBlank()
	if vram[0x10] != 0x90 {
		t.Fatalf("second block not copied")
	}
	if d.Active() {
		t.Fatalf("HDMA should deactivate once all blocks copied")
	}
}

func TestVRAMDMA_TerminateActiveHDMA(t *testing.T) {
	d, _, _ := newHarness()
	d.Write(0xFF55, 0x83, nil) // 4 blocks of HDMA
	d.Write(0xFF55, 0x00, nil) // bit7=0 while active HDMA -> terminate, not new GDMA
	if d.Active() {
		t.Fatalf("expected termination to clear active")
	}
	if got := d.Read(0xFF55); got&0x80 == 0 {
		t.Fatalf("terminated transfer should read back with bit7 set")
	}
}
