package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC3 implements ROM/RAM banking plus the real-time-clock register bank.
// Banking behavior:
// - 0000-1FFF: RAM/RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank, 7 bits (0 maps to 1)
// - 4000-5FFF: RAM bank 0-3, or RTC register select 0x08-0x0C
// - 6000-7FFF: latch-clock-data trigger (write 0x00 then 0x01)
// - A000-BFFF: external RAM, or the latched RTC register selected above
type MBC3 struct {
	rom []byte
	ram []byte
	rtc *rtc

	ramEnabled  bool
	romBank     byte // 7 bits (1..127)
	bankOrRTCSel byte // 0..3 selects RAM bank; 0x08..0x0C selects an RTC register
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom, rtc: newRTC()}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	m.romBank = 1
	return m
}

func (m *MBC3) selectsRTC() bool { return m.bankOrRTCSel >= 0x08 && m.bankOrRTCSel <= 0x0C }

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.selectsRTC() {
			return m.rtc.readRegister(m.bankOrRTCSel)
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		rb := int(m.bankOrRTCSel & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.bankOrRTCSel = value
	case addr < 0x8000:
		m.rtc.onLatchWrite(value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.selectsRTC() {
			m.rtc.writeRegister(m.bankOrRTCSel, value)
			return
		}
		if len(m.ram) == 0 {
			return
		}
		rb := int(m.bankOrRTCSel & 0x03)
		off := rb*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC3) LoadRAM(data []byte) {
	if len(m.ram) == 0 || len(data) == 0 {
		return
	}
	copy(m.ram, data)
}

// SaveRTC/LoadRTC persist the RTC registers and wall-clock anchor to a
// companion file, the way battery RAM is persisted to .sav.
func (m *MBC3) SaveRTC() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(m.rtc.save())
	return buf.Bytes()
}

func (m *MBC3) LoadRTC(data []byte) {
	var s rtcState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	m.rtc.load(s)
}

type mbc3State struct {
	RAM                      []byte
	RAMEnabled               bool
	ROMBank, BankOrRTCSel    byte
	RTC                      rtcState
}

func (m *MBC3) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(mbc3State{
		RAM: m.ram, RAMEnabled: m.ramEnabled,
		ROMBank: m.romBank, BankOrRTCSel: m.bankOrRTCSel, RTC: m.rtc.save(),
	})
	return buf.Bytes()
}

func (m *MBC3) LoadState(data []byte) {
	var s mbc3State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return
	}
	if len(s.RAM) > 0 {
		m.ram = s.RAM
	}
	m.ramEnabled, m.romBank, m.bankOrRTCSel = s.RAMEnabled, s.ROMBank, s.BankOrRTCSel
	m.rtc.load(s.RTC)
}
