package bus

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/pixelboy/gbcore/internal/apu"
	"github.com/pixelboy/gbcore/internal/cart"
	"github.com/pixelboy/gbcore/internal/dma"
	"github.com/pixelboy/gbcore/internal/joypad"
	"github.com/pixelboy/gbcore/internal/ppu"
	"github.com/pixelboy/gbcore/internal/timer"
)

// Bus wires CPU-visible address space to cartridge, WRAM, HRAM, PPU, and
// the timer/joypad/DMA peripherals.
type Bus struct {
	cart cart.Cartridge

	wram    [8][0x1000]byte // 4 KiB banks; bank 0 fixed at C000-CFFF, 1-7 switchable (CGB) at D000-DFFF
	wramBnk byte            // FF70, bits0-2; a value of 0 selects bank 1
	hram    [0x7F]byte      // 0xFF80-0xFFFE

	ppu    *ppu.PPU
	apu    *apu.APU
	timer  *timer.Timer
	joypad *joypad.Joypad
	vdma   *dma.VRAMDMA

	ie    byte // FFFF
	ifReg byte // FF0F, lower 5 bits used

	sb byte      // FF01
	sc byte      // FF02
	sw io.Writer // serial output sink

	// OAM DMA (FF46): simple 1-byte-per-cycle copy from src*0x100 to FE00.
	dma       byte
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int

	bootROM     []byte
	bootEnabled bool

	cgb        bool // CGB mode: enables VBK/WRAM banking/double speed/HDMA
	speedReq   bool // KEY1 bit0: speed switch armed
	doubleSpeed bool // KEY1 bit7
}

// New constructs a Bus around the cartridge type cart.NewCartridge picks
// from rom's header (ROM-only when the header does not parse).
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewCartridge(rom))
}

// defaultSampleRate matches the host audio context's sample rate
// (internal/ui opens an ebiten audio context at 48000 Hz).
const defaultSampleRate = 48000

// NewWithCartridge wires a provided cartridge implementation.
func NewWithCartridge(c cart.Cartridge) *Bus {
	b := &Bus{cart: c}
	b.ppu = ppu.New(func(bit int) { b.ifReg |= 1 << bit })
	b.apu = apu.New(defaultSampleRate)
	b.timer = timer.New(func() { b.ifReg |= 1 << 2 })
	b.joypad = joypad.New(func() { b.ifReg |= 1 << 4 })
	b.vdma = dma.New(b.Read, b.ppu.CPUWrite)
	b.ppu.SetOnHBlank(b.vdma.OnHBlank)
	b.wramBnk = 1
	return b
}

// SetCGBMode enables CGB-only registers: VBK, WRAM banking (FF70), KEY1
// double-speed, HDMA/GDMA, and the BG/OBJ palette RAM.
func (b *Bus) SetCGBMode(v bool) {
	b.cgb = v
	b.ppu.SetCGBMode(v)
}

func (b *Bus) PPU() *ppu.PPU          { return b.ppu }
func (b *Bus) APU() *apu.APU          { return b.apu }
func (b *Bus) Cart() cart.Cartridge   { return b.cart }
func (b *Bus) Timer() *timer.Timer    { return b.timer }
func (b *Bus) Joypad() *joypad.Joypad { return b.joypad }
func (b *Bus) DoubleSpeed() bool      { return b.doubleSpeed }

func (b *Bus) wramBank() int {
	if !b.cgb {
		return 1
	}
	n := int(b.wramBnk & 0x07)
	if n == 0 {
		n = 1
	}
	return n
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		if b.bootEnabled && b.cgb && addr >= 0x0200 && addr < 0x0900 && len(b.bootROM) >= 0x900 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xCFFF:
		return b.wram[0][addr-0xC000]
	case addr >= 0xD000 && addr <= 0xDFFF:
		return b.wram[b.wramBank()][addr-0xD000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		mirror := addr - 0x2000
		if mirror <= 0xCFFF {
			return b.wram[0][mirror-0xC000]
		}
		return b.wram[b.wramBank()][mirror-0xD000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF04:
		return b.timer.ReadDIV()
	case addr == 0xFF05:
		return b.timer.ReadTIMA()
	case addr == 0xFF06:
		return b.timer.ReadTMA()
	case addr == 0xFF07:
		return b.timer.ReadTAC()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B, addr == 0xFF4F,
		addr == 0xFF68, addr == 0xFF69, addr == 0xFF6A, addr == 0xFF6B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		return b.apu.CPURead(addr)
	case addr >= 0xFF51 && addr <= 0xFF55:
		if !b.cgb {
			return 0xFF
		}
		return b.vdma.Read(addr)
	case addr == 0xFF4D:
		if !b.cgb {
			return 0xFF
		}
		v := byte(0x7E)
		if b.doubleSpeed {
			v |= 0x80
		}
		if b.speedReq {
			v |= 0x01
		}
		return v
	case addr == 0xFF70:
		if !b.cgb {
			return 0xFF
		}
		return 0xF8 | (b.wramBnk & 0x07)
	case addr == 0xFF50:
		return 0xFF
	case addr == 0xFF0F:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr == 0xFFFF:
		return b.ie
	}
	return 0xFF
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
		return
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
		return
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
		return
	case addr >= 0xC000 && addr <= 0xCFFF:
		b.wram[0][addr-0xC000] = value
		return
	case addr >= 0xD000 && addr <= 0xDFFF:
		b.wram[b.wramBank()][addr-0xD000] = value
		return
	case addr >= 0xE000 && addr <= 0xFDFF:
		mirror := addr - 0x2000
		if mirror <= 0xCFFF {
			b.wram[0][mirror-0xC000] = value
		} else {
			b.wram[b.wramBank()][mirror-0xD000] = value
		}
		return
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
		return
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return
		}
		b.ppu.CPUWrite(addr, value)
		return
	case addr == 0xFF00:
		b.joypad.WriteSelect(value)
		return
	case addr == 0xFF04:
		b.timer.WriteDIV()
		return
	case addr == 0xFF05:
		b.timer.WriteTIMA(value)
		return
	case addr == 0xFF06:
		b.timer.WriteTMA(value)
		return
	case addr == 0xFF07:
		b.timer.WriteTAC(value)
		return
	case addr == 0xFF01:
		b.sb = value
		return
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ifReg |= 1 << 3
			b.sc &^= 0x80
		}
		return
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B, addr == 0xFF4F,
		addr == 0xFF68, addr == 0xFF69, addr == 0xFF6A, addr == 0xFF6B:
		b.ppu.CPUWrite(addr, value)
		return
	case addr == 0xFF46:
		b.dma = value
		b.dmaActive = true
		b.dmaSrc = uint16(value) << 8
		b.dmaIndex = 0
		return
	case addr >= 0xFF10 && addr <= 0xFF26, addr >= 0xFF30 && addr <= 0xFF3F:
		b.apu.CPUWrite(addr, value)
		return
	case addr >= 0xFF51 && addr <= 0xFF54:
		if b.cgb {
			b.vdma.Write(addr, value, nil)
		}
		return
	case addr == 0xFF55:
		if b.cgb {
			b.vdma.Write(addr, value, nil)
		}
		return
	case addr == 0xFF4D:
		if b.cgb {
			b.speedReq = value&0x01 != 0
		}
		return
	case addr == 0xFF70:
		if b.cgb {
			b.wramBnk = value & 0x07
		}
		return
	case addr == 0xFF50:
		if value != 0x00 {
			b.bootEnabled = false
		}
		return
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
		return
	case addr == 0xFFFF:
		b.ie = value
		return
	}
}

// SetJoypadState sets which buttons are currently pressed, using the
// joypad package's bit layout (Left/Up/Right/Down/A/B/Start/Select).
func (b *Bus) SetJoypadState(mask byte) { b.joypad.SetState(mask) }

func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) > 0 {
		b.bootROM = make([]byte, len(data))
		copy(b.bootROM, data)
		b.bootEnabled = true
	}
}

// PerformSpeedSwitch executes the CGB STOP-triggered speed switch: called
// by the CPU's STOP handler when KEY1 bit0 is armed.
func (b *Bus) PerformSpeedSwitch() {
	if !b.speedReq {
		return
	}
	b.doubleSpeed = !b.doubleSpeed
	b.speedReq = false
}

// Tick advances timer, PPU, and OAM DMA by the given number of T-cycles,
// as measured by the CPU. The video/audio/timer hardware runs at a fixed
// dot rate regardless of CPU speed, so in CGB double-speed mode they only
// see half as many cycles per CPU cycle (cpu.Step's cycle counts are
// always multiples of 4, so this halving is always exact).
func (b *Bus) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	effective := cycles
	if b.doubleSpeed {
		effective = cycles / 2
	}
	b.timer.Tick(effective)
	if b.ppu != nil {
		b.ppu.Tick(effective)
	}
	if b.apu != nil {
		b.apu.Tick(effective)
	}
	for i := 0; i < effective; i++ {
		if b.dmaActive {
			if b.dmaIndex < 0xA0 {
				v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
				b.ppu.CPUWrite(0xFE00+uint16(b.dmaIndex), v)
				b.dmaIndex++
			}
			if b.dmaIndex >= 0xA0 {
				b.dmaActive = false
			}
		}
	}
}

// --- Save/Load state ---

type busState struct {
	WRAM      [8][0x1000]byte
	WRAMBank  byte
	HRAM      [0x7F]byte
	IE, IF    byte
	SB, SC    byte
	DMA       byte
	DMAActive bool
	DMASrc    uint16
	DMAIdx    int
	BootEn    bool
	CGB       bool
	SpeedReq  bool
	Double    bool
}

func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(busState{
		WRAM: b.wram, WRAMBank: b.wramBnk, HRAM: b.hram,
		IE: b.ie, IF: b.ifReg, SB: b.sb, SC: b.sc,
		DMA: b.dma, DMAActive: b.dmaActive, DMASrc: b.dmaSrc, DMAIdx: b.dmaIndex,
		BootEn: b.bootEnabled, CGB: b.cgb, SpeedReq: b.speedReq, Double: b.doubleSpeed,
	})
	_ = enc.Encode(b.ppu.SaveState())
	_ = enc.Encode(b.apu.SaveState())
	_ = enc.Encode(b.timer.SaveState())
	_ = enc.Encode(b.joypad.SaveState())
	_ = enc.Encode(b.vdma.SaveState())
	_ = enc.Encode(b.cart.SaveState())
	return buf.Bytes()
}

func (b *Bus) LoadState(data []byte) {
	dec := gob.NewDecoder(bytes.NewReader(data))
	var s busState
	if err := dec.Decode(&s); err != nil {
		return
	}
	b.wram, b.wramBnk, b.hram = s.WRAM, s.WRAMBank, s.HRAM
	b.ie, b.ifReg, b.sb, b.sc = s.IE, s.IF, s.SB, s.SC
	b.dma, b.dmaActive, b.dmaSrc, b.dmaIndex = s.DMA, s.DMAActive, s.DMASrc, s.DMAIdx
	b.bootEnabled, b.cgb, b.speedReq, b.doubleSpeed = s.BootEn, s.CGB, s.SpeedReq, s.Double
	b.ppu.SetCGBMode(b.cgb)

	var ps []byte
	if err := dec.Decode(&ps); err == nil {
		b.ppu.LoadState(ps)
	}
	var as []byte
	if err := dec.Decode(&as); err == nil {
		b.apu.LoadState(as)
	}
	var ts timer.State
	if err := dec.Decode(&ts); err == nil {
		b.timer.LoadState(ts)
	}
	var js joypad.State
	if err := dec.Decode(&js); err == nil {
		b.joypad.LoadState(js)
	}
	var ds dma.State
	if err := dec.Decode(&ds); err == nil {
		b.vdma.LoadState(ds)
	}
	var cs []byte
	if err := dec.Decode(&cs); err == nil {
		b.cart.LoadState(cs)
	}
}
