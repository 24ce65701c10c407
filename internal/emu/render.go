package emu

import "github.com/pixelboy/gbcore/internal/ppu"

// vramAdapter exposes a *ppu.PPU as both ppu.VRAMReader (bank 0, for DMG
// rendering paths) and ppu.VRAMBankReader (for CGB paths), bypassing the
// CPU-facing mode-3 lockout since off-to-the-side scanline rendering
// always happens outside the CPU's own read/write window.
type vramAdapter struct{ p *ppu.PPU }

func (v vramAdapter) Read(addr uint16) byte               { return v.p.ReadBank(0, addr) }
func (v vramAdapter) ReadBank(bank int, addr uint16) byte { return v.p.ReadBank(bank, addr) }

// wireScanlineRenderer hooks the PPU's HBlank event to composite one
// scanline at a time into the framebuffer as the frame progresses.
func (m *Machine) wireScanlineRenderer() {
	m.bus.PPU().SetOnScanline(func(ly byte) {
		if ly == 0 {
			m.windowLine = -1
		}
		m.renderLine(ly)
	})
}

// StepFrame runs the CPU until a full frame (one VBlank) completes,
// compositing scanlines into the framebuffer as they finish.
func (m *Machine) StepFrame() {
	if m.bus == nil || m.cpu == nil {
		return
	}
	target := m.bus.PPU().Frame() + 1
	for m.bus.PPU().Frame() < target {
		m.cpu.Step()
	}
}

// StepFrameNoRender runs a frame without the host caring about pixel
// output (used by headless test-ROM harnesses); rendering still happens
// since it is driven by the same HBlank hook; callers just don't read
// Framebuffer() afterward.
func (m *Machine) StepFrameNoRender() { m.StepFrame() }

func (m *Machine) renderLine(ly byte) {
	if int(ly) >= m.h || m.bus == nil {
		return
	}
	p := m.bus.PPU()
	lcdc := p.LCDC()
	base := int(ly) * m.w * 4

	if lcdc&0x80 == 0 {
		for x := 0; x < m.w; x++ {
			i := base + x*4
			m.fb[i+0], m.fb[i+1], m.fb[i+2], m.fb[i+3] = 0xFF, 0xFF, 0xFF, 0xFF
		}
		return
	}

	mem := vramAdapter{p}
	scx, scy := p.SCX(), p.SCY()
	bgMapBase := uint16(0x9800)
	if lcdc&0x08 != 0 {
		bgMapBase = 0x9C00
	}
	winMapBase := uint16(0x9800)
	if lcdc&0x40 != 0 {
		winMapBase = 0x9C00
	}
	tileData8000 := lcdc&0x10 != 0
	cgb := m.useCGBBG

	var ci [160]byte
	var cgbPal [160]byte
	var cgbPri [160]bool

	bgVisible := cgb || lcdc&0x01 != 0
	if bgVisible {
		if cgb {
			ci, cgbPal, cgbPri = ppu.RenderBGScanlineCGB(mem, bgMapBase, bgMapBase, tileData8000, scx, scy, ly)
		} else {
			ci = ppu.RenderBGScanlineUsingFetcher(mem, bgMapBase, tileData8000, scx, scy, ly)
		}
	}

	winEnabled := lcdc&0x20 != 0 && bgVisible
	wy, wx := p.WY(), p.WX()
	if winEnabled && ly >= wy {
		wxStart := int(wx) - 7
		if wxStart < 160 {
			m.windowLine++
			start := wxStart
			if start < 0 {
				start = 0
			}
			if cgb {
				wci, wpal, wpri := ppu.RenderWindowScanlineCGB(mem, winMapBase, winMapBase, tileData8000, wxStart, byte(m.windowLine))
				for x := start; x < 160; x++ {
					ci[x], cgbPal[x], cgbPri[x] = wci[x], wpal[x], wpri[x]
				}
			} else {
				wci := ppu.RenderWindowScanlineUsingFetcher(mem, winMapBase, tileData8000, wxStart, byte(m.windowLine))
				for x := start; x < 160; x++ {
					ci[x] = wci[x]
				}
			}
		}
	}

	var objCI [160]byte
	var objPal [160]byte
	var objOBP1 [160]bool
	if lcdc&0x02 != 0 {
		sprites := ppu.DecodeOAMSprites(p.OAM())
		tall := lcdc&0x04 != 0
		if cgb {
			var forcePriority [160]bool
			if lcdc&0x01 != 0 {
				forcePriority = cgbPri
			}
			objCI, objPal = ppu.ComposeSpriteLineCGB(mem, sprites, ly, ci, forcePriority, tall)
		} else {
			objCI, objOBP1 = ppu.ComposeSpriteLineDMG(mem, sprites, ly, ci, tall)
		}
	}

	bgp, obp0, obp1 := p.BGP(), p.OBP0(), p.OBP1()
	compatSet := cgbCompatSets[m.compatPaletteID%len(cgbCompatSets)]

	for x := 0; x < 160; x++ {
		i := base + x*4
		var r, g, b byte
		switch {
		case objCI[x] != 0 && cgb:
			r, g, b = rgb555ToRGB(p.OBJPaletteColor555(int(objPal[x]), int(objCI[x])))
		case objCI[x] != 0:
			palReg := obp0
			if objOBP1[x] {
				palReg = obp1
			}
			shade := (palReg >> (objCI[x] * 2)) & 0x03
			r, g, b = compatSet.obj[shade][0], compatSet.obj[shade][1], compatSet.obj[shade][2]
		case cgb:
			r, g, b = rgb555ToRGB(p.BGPaletteColor555(int(cgbPal[x]), int(ci[x])))
		default:
			shade := (bgp >> (ci[x] * 2)) & 0x03
			r, g, b = compatSet.bg[shade][0], compatSet.bg[shade][1], compatSet.bg[shade][2]
		}
		m.fb[i+0], m.fb[i+1], m.fb[i+2], m.fb[i+3] = r, g, b, 0xFF
	}
}

// rgb555ToRGB expands a little-endian RGB555 word (5 bits per channel, as
// stored in CGB palette RAM) to 8-bit-per-channel color using the fixed
// non-linear stretch real CGB hardware's LCD applies, not a plain bit
// replication: lr=(13r+2g+b)>>1, lg=(3g+b)<<1, lb=(3r+2g+11b)>>1.
func rgb555ToRGB(v uint16) (r, g, b byte) {
	r5 := uint32(v & 0x1F)
	g5 := uint32((v >> 5) & 0x1F)
	b5 := uint32((v >> 10) & 0x1F)
	r = byte((r5*13 + g5*2 + b5) >> 1)
	g = byte((g5*3 + b5) << 1)
	b = byte((r5*3 + g5*2 + b5*11) >> 1)
	return
}
