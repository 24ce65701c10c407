package ppu

// fetchRow drives f/q to produce exactly one pixel per iteration of the
// caller's loop, refetching the next tile in mapBase's row whenever the
// FIFO runs dry. tileX is advanced in place.
func fetchRow(f *bgFetcher, q *fifo, mapBase uint16, tileData8000 bool, mapY uint16, tileX *uint16, fineY byte) byte {
	if q.Len() == 0 {
		*tileX = (*tileX + 1) & 31
		tileIndexAddr := mapBase + mapY*32 + *tileX
		f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
		f.Fetch()
	}
	px, _ := q.Pop()
	return px
}

// RenderBGScanlineUsingFetcher renders 160 BG pixels for the given LY using
// the fetcher/FIFO pipeline.
// - mem: VRAM reader
// - mapBase: 0x9800 or 0x9C00
// - tileData8000: true -> 0x8000 addressing; false -> 0x8800 signed addressing
// - scx, scy: scroll registers
// - ly: current scanline (0..143)
// Output: 160 color indices (0..3)
func RenderBGScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, scx, scy, ly byte) [160]byte {
	var out [160]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	startX := uint16(scx)
	tileX := (startX >> 3) & 31
	fineX := int(startX & 7)

	tileIndexAddr := mapBase + mapY*32 + tileX

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
	f.Fetch()
	// Discard scx's fractional pixels so the FIFO's next Pop lands on the
	// on-screen column.
	for i := 0; i < fineX; i++ {
		_, _ = q.Pop()
	}

	for x := 0; x < 160; x++ {
		out[x] = fetchRow(f, &q, mapBase, tileData8000, mapY, &tileX, fineY)
	}
	return out
}

// RenderWindowScanlineUsingFetcher renders the window layer for a scanline
// using the fetcher/FIFO pipeline, filling pixels from wxStart (WX-7)
// onward; winLine is the window's own internal row counter. Pixels before
// wxStart are left as 0 (BG color index 0) so callers can blend BG/window.
func RenderWindowScanlineUsingFetcher(mem VRAMReader, mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [160]byte {
	var out [160]byte
	if wxStart >= 160 {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}
	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7
	tileX := uint16(0)
	tileIndexAddr := mapBase + mapY*32 + tileX

	var q fifo
	f := newBGFetcher(mem, &q)
	f.Configure(mapBase, tileData8000, tileIndexAddr, fineY)
	f.Fetch()

	for x := wxStart; x < 160; x++ {
		out[x] = fetchRow(f, &q, mapBase, tileData8000, mapY, &tileX, fineY)
	}
	return out
}
