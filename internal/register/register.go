// Package register implements the SM83 register file: the eight 8-bit
// registers, their paired 16-bit views, the stack pointer, program counter,
// and the flag bits packed into F.
package register

// Flag bits within F. The low nibble of F always reads as zero.
const (
	FlagZ byte = 1 << 7 // zero
	FlagN byte = 1 << 6 // subtract
	FlagH byte = 1 << 5 // half-carry
	FlagC byte = 1 << 4 // carry
)

// File holds the full register state.
type File struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte
	SP   uint16
	PC   uint16
}

// AF returns the accumulator/flags pair. F's low nibble is always masked
// to zero regardless of what was last written there.
func (r *File) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *File) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.F = byte(v) & 0xF0
}

func (r *File) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *File) SetBC(v uint16) {
	r.B = byte(v >> 8)
	r.C = byte(v)
}

func (r *File) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *File) SetDE(v uint16) {
	r.D = byte(v >> 8)
	r.E = byte(v)
}

func (r *File) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }
func (r *File) SetHL(v uint16) {
	r.H = byte(v >> 8)
	r.L = byte(v)
}

func (r *File) Flag(mask byte) bool { return r.F&mask != 0 }

func (r *File) SetFlags(z, n, h, c bool) {
	var f byte
	if z {
		f |= FlagZ
	}
	if n {
		f |= FlagN
	}
	if h {
		f |= FlagH
	}
	if c {
		f |= FlagC
	}
	r.F = f
}

// ResetPostBoot sets the register file to the documented DMG post-boot-ROM
// state, used when the engine is started without a boot ROM image.
func (r *File) ResetPostBoot() {
	r.A, r.F = 0x01, 0xB0
	r.B, r.C = 0x00, 0x13
	r.D, r.E = 0x00, 0xD8
	r.H, r.L = 0x01, 0x4D
	r.SP = 0xFFFE
	r.PC = 0x0100
}

// ResetCGBPostBoot sets the register file to the documented CGB
// post-boot-ROM state. cgbOnly distinguishes a CGB-flagged cartridge
// (A=0x11) from one running in CGB-compatibility mode (A=0x11 as well;
// the distinction real hardware makes is in B, used by the CGB boot ROM
// to flag DMG-compat games to the game code itself).
func (r *File) ResetCGBPostBoot(cgbOnly bool) {
	r.A, r.F = 0x11, 0x80
	if cgbOnly {
		r.B = 0x00
	} else {
		r.B = 0x01
	}
	r.C = 0x00
	r.D, r.E = 0x00, 0x08
	r.H, r.L = 0x00, 0x7C
	r.SP = 0xFFFE
	r.PC = 0x0100
}
