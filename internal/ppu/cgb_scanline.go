package ppu

// VRAMBankReader is VRAMReader plus bank-aware access, needed by the CGB
// renderers to read tile data/attributes from either VRAM bank regardless
// of which bank VBK currently selects.
type VRAMBankReader interface {
	VRAMReader
	ReadBank(bank int, addr uint16) byte
}

// cgbAttr decodes a CGB tilemap attribute byte (always stored in VRAM bank 1
// at the same offset as the tile index in bank 0).
type cgbAttr struct {
	palette  byte
	bank     int
	xflip    bool
	yflip    bool
	priority bool
}

func decodeCGBAttr(a byte) cgbAttr {
	return cgbAttr{
		palette:  a & 0x07,
		bank:     int((a >> 4) & 0x01),
		xflip:    a&0x20 != 0,
		yflip:    a&0x40 != 0,
		priority: a&0x80 != 0,
	}
}

func cgbTileRow(mem VRAMBankReader, attr cgbAttr, tileNum byte, tileData8000 bool, fineY byte) (lo, hi byte) {
	row := fineY & 7
	if attr.yflip {
		row = 7 - row
	}
	var base uint16
	if tileData8000 {
		base = 0x8000 + uint16(tileNum)*16 + uint16(row)*2
	} else {
		base = 0x9000 + uint16(int8(tileNum))*16 + uint16(row)*2
	}
	lo = mem.ReadBank(attr.bank, base)
	hi = mem.ReadBank(attr.bank, base+1)
	return
}

func cgbPixel(lo, hi byte, col int, xflip bool) byte {
	bit := 7 - col
	if xflip {
		bit = col
	}
	return ((hi>>bit)&1)<<1 | (lo>>bit)&1
}

// RenderBGScanlineCGB renders one BG scanline's color indices, per-pixel
// palette number (0-7), and per-pixel BG-to-OBJ priority flag, honoring the
// CGB tilemap attribute byte stored in VRAM bank 1 at attrBase.
func RenderBGScanlineCGB(mem VRAMBankReader, mapBase, attrBase uint16, tileData8000 bool, scx, scy, ly byte) (ci [160]byte, pal [160]byte, pri [160]bool) {
	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	for x := 0; x < 160; x++ {
		bgX := (uint16(scx) + uint16(x)) & 0xFF
		tileX := (bgX >> 3) & 31
		mapOff := mapY*32 + tileX
		tileNum := mem.ReadBank(0, mapBase+mapOff)
		attr := decodeCGBAttr(mem.ReadBank(1, attrBase+mapOff))

		lo, hi := cgbTileRow(mem, attr, tileNum, tileData8000, fineY)
		col := int(bgX & 7)
		ci[x] = cgbPixel(lo, hi, col, attr.xflip)
		pal[x] = attr.palette
		pri[x] = attr.priority
	}
	return
}

// RenderWindowScanlineCGB is the window-layer counterpart to
// RenderBGScanlineCGB. wxStart is the screen X of the window's left edge
// (WX-7); pixels left of it are left zeroed for the caller to blend over.
func RenderWindowScanlineCGB(mem VRAMBankReader, mapBase, attrBase uint16, tileData8000 bool, wxStart int, winLine byte) (ci [160]byte, pal [160]byte, pri [160]bool) {
	if wxStart >= 160 {
		return
	}
	if wxStart < 0 {
		wxStart = 0
	}
	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7

	for x := wxStart; x < 160; x++ {
		winX := uint16(x - wxStart)
		tileX := (winX >> 3) & 31
		mapOff := mapY*32 + tileX
		tileNum := mem.ReadBank(0, mapBase+mapOff)
		attr := decodeCGBAttr(mem.ReadBank(1, attrBase+mapOff))

		lo, hi := cgbTileRow(mem, attr, tileNum, tileData8000, fineY)
		col := int(winX & 7)
		ci[x] = cgbPixel(lo, hi, col, attr.xflip)
		pal[x] = attr.palette
		pri[x] = attr.priority
	}
	return
}
