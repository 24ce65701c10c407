package emu

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"

	"github.com/pixelboy/gbcore/internal/cart"
)

// LoadROMFromFile reads rom from path and loads it, remembering path for
// ROMPath()/battery-save sibling-file conventions.
func (m *Machine) LoadROMFromFile(path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(rom, m.bootROM); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// SetSerialWriter attaches a sink for the cartridge's serial port output
// (used by test-ROM harnesses that report pass/fail over serial).
func (m *Machine) SetSerialWriter(w io.Writer) {
	m.serialWriter = w
	if m.bus != nil {
		m.bus.SetSerialWriter(w)
	}
}

// LoadBattery loads persisted battery RAM into the current cartridge, if
// it implements cart.BatteryBacked. Returns false if there is no
// cartridge loaded or it has no battery RAM.
func (m *Machine) LoadBattery(data []byte) bool {
	if m.bus == nil {
		return false
	}
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}

// SaveBattery returns the current cartridge's battery RAM, if any.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if m.bus == nil {
		return nil, false
	}
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data := bb.SaveRAM()
	return data, len(data) > 0
}

// machineState captures everything save/load state needs beyond what the
// bus and CPU already serialize: the rendering-mode toggles a save would
// otherwise lose (compat palette choice, CGB toggle).
type machineState struct {
	UseCGBBG        bool
	CompatPaletteID int
	CPU             []byte
	Bus             []byte
}

// SaveStateToFile gob-encodes CPU/bus state plus machine-level toggles.
func (m *Machine) SaveStateToFile(path string) error {
	if m.bus == nil || m.cpu == nil {
		return os.ErrInvalid
	}
	s := machineState{
		UseCGBBG:        m.useCGBBG,
		CompatPaletteID: m.compatPaletteID,
		CPU:             m.cpu.SaveState(),
		Bus:             m.bus.SaveState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadStateFromFile restores state written by SaveStateToFile.
func (m *Machine) LoadStateFromFile(path string) error {
	if m.bus == nil || m.cpu == nil {
		return os.ErrInvalid
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	m.useCGBBG = s.UseCGBBG
	m.compatPaletteID = s.CompatPaletteID
	m.cpu.LoadState(s.CPU)
	m.bus.LoadState(s.Bus)
	return nil
}
