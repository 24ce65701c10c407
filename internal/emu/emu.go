// Package emu wires cpu/bus/cart/ppu/apu into a single runnable console:
// load a ROM, step whole frames, read back a framebuffer and audio
// samples, and persist/restore state.
package emu

import (
	"github.com/pixelboy/gbcore/internal/bus"
	"github.com/pixelboy/gbcore/internal/cart"
	"github.com/pixelboy/gbcore/internal/cpu"
)

// Buttons is the host-facing input snapshot for one frame.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.Left {
		m |= 1 << 0
	}
	if b.Up {
		m |= 1 << 1
	}
	if b.Right {
		m |= 1 << 2
	}
	if b.Down {
		m |= 1 << 3
	}
	if b.A {
		m |= 1 << 4
	}
	if b.B {
		m |= 1 << 5
	}
	if b.Start {
		m |= 1 << 6
	}
	if b.Select {
		m |= 1 << 7
	}
	return m
}

// Machine is the top-level console: cartridge, bus, CPU, and the
// rendering/compat-palette state layered on top of them.
type Machine struct {
	cfg  Config
	w, h int
	fb   []byte // RGBA, w*h*4

	bus *bus.Bus
	cpu *cpu.CPU

	header  *cart.Header
	romPath string
	bootROM []byte

	cgbCart  bool // header CGB flag set (0x80 or 0xC0): ROM supports color
	cgbOnly  bool // header CGB flag == 0xC0: ROM requires CGB hardware
	useCGBBG bool // currently rendering with CGB color palettes

	windowLine      int
	compatPaletteID int

	serialWriter interface {
		Write(p []byte) (int, error)
	}
}

// New creates an unloaded Machine. Call LoadCartridge before stepping.
func New(cfg Config) *Machine {
	return &Machine{
		cfg: cfg, w: 160, h: 144,
		fb:              make([]byte, 160*144*4),
		compatPaletteID: 0,
	}
}

// SetBootROM stashes a boot ROM image to be mapped in on the next
// LoadCartridge/ResetWithBoot. Accepts DMG (256B) or CGB (2.25KiB) images.
func (m *Machine) SetBootROM(data []byte) {
	m.bootROM = nil
	if len(data) > 0 {
		m.bootROM = append([]byte(nil), data...)
	}
}

// LoadCartridge builds a fresh Bus/CPU around rom, optionally mapping a
// boot ROM image over the low address space until it writes FF50.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return err
	}
	if len(boot) > 0 {
		m.SetBootROM(boot)
	}

	m.header = h
	m.cgbCart = h.CGBFlag&0x80 != 0
	m.cgbOnly = h.CGBFlag == 0xC0
	m.useCGBBG = false
	if id, ok := autoCompatPaletteFromHeader(h); ok {
		m.compatPaletteID = id
	}

	c := cart.NewCartridge(rom)
	b := bus.NewWithCartridge(c)
	b.SetCGBMode(m.cgbCart)
	if len(m.bootROM) > 0 {
		b.SetBootROM(m.bootROM)
	}
	if m.serialWriter != nil {
		b.SetSerialWriter(m.serialWriter)
	}

	m.bus = b
	m.cpu = cpu.New(b)
	m.wireScanlineRenderer()
	m.windowLine = -1

	if len(m.bootROM) > 0 {
		m.cpu.SetPC(0x0000)
	} else if m.cgbCart {
		m.cpu.ResetCGBNoBoot(m.cgbOnly)
		m.useCGBBG = true
	} else {
		m.cpu.ResetNoBoot()
	}
	return nil
}

// ResetPostBoot restarts the currently loaded cartridge in plain DMG
// post-boot-ROM state, skipping the boot ROM entirely.
func (m *Machine) ResetPostBoot() {
	if m.bus == nil {
		return
	}
	m.bus.SetBootROM(nil)
	m.bus.SetCGBMode(false)
	m.useCGBBG = false
	m.cpu.ResetNoBoot()
	m.windowLine = -1
}

// ResetCGBPostBoot restarts the currently loaded cartridge in CGB
// post-boot-ROM state. cgbOnly forces the CGB-exclusive register value
// (used to force color mode even on DMG-compatible carts).
func (m *Machine) ResetCGBPostBoot(cgbOnly bool) {
	if m.bus == nil {
		return
	}
	m.bus.SetBootROM(nil)
	m.bus.SetCGBMode(true)
	m.useCGBBG = true
	m.cpu.ResetCGBNoBoot(cgbOnly)
	m.windowLine = -1
}

// ResetWithBoot restarts execution from the mapped boot ROM's entry
// point, re-running its logo check/scroll and register setup. Falls
// back to ResetPostBoot if no boot ROM was supplied.
func (m *Machine) ResetWithBoot() {
	if m.bus == nil {
		return
	}
	if len(m.bootROM) == 0 {
		m.ResetPostBoot()
		return
	}
	m.bus.SetBootROM(m.bootROM)
	m.cpu.ResetNoBoot()
	m.cpu.SetPC(0x0000)
	m.windowLine = -1
}

// SetButtons applies the host's current input snapshot for the next
// frame(s) until called again.
func (m *Machine) SetButtons(b Buttons) {
	if m.bus == nil {
		return
	}
	m.bus.SetJoypadState(b.mask())
}

// Framebuffer returns the RGBA pixel buffer for the last rendered frame.
func (m *Machine) Framebuffer() []byte { return m.fb }

// ROMPath returns the path LoadROMFromFile loaded from, or "" if the
// cartridge was loaded directly from bytes.
func (m *Machine) ROMPath() string { return m.romPath }

// ROMTitle returns the cartridge header's title field, or "" if no
// cartridge is loaded.
func (m *Machine) ROMTitle() string {
	if m.header == nil {
		return ""
	}
	return m.header.Title
}

// WantCGBColors reports whether the loaded cartridge's header declares
// CGB support. This is a static property of the ROM, not the current
// rendering toggle (see UseCGBBG).
func (m *Machine) WantCGBColors() bool { return m.cgbCart }

// UseCGBBG reports whether the machine is currently executing/rendering
// in CGB color mode.
func (m *Machine) UseCGBBG() bool { return m.useCGBBG }

// SetUseCGBBG flips the current color-rendering toggle without touching
// CPU/bus state; callers normally pair this with ResetCGBPostBoot or
// ResetPostBoot to actually switch the running mode.
func (m *Machine) SetUseCGBBG(v bool) { m.useCGBBG = v }

// IsCGBCompat reports whether the loaded cartridge supports CGB but is
// currently running in DMG-compatibility (monochrome-source, palette-
// recolored) mode, the case where CompatPalette selection applies.
func (m *Machine) IsCGBCompat() bool {
	return m.cgbCart && !m.cgbOnly && !m.useCGBBG
}

// SetUseFetcherBG toggles the DMG BG renderer between the fetcher/FIFO
// scanline path and (reserved for) a simpler direct path. Currently only
// the fetcher path is implemented, so this just records the preference.
func (m *Machine) SetUseFetcherBG(v bool) { m.cfg.UseFetcherBG = v }
