package register

import "testing"

func TestFLowNibbleAlwaysZero(t *testing.T) {
	var r File
	r.SetAF(0x1234)
	if r.F&0x0F != 0 {
		t.Fatalf("F low nibble = %#x, want 0", r.F&0x0F)
	}
	if got := r.AF(); got != 0x1230 {
		t.Fatalf("AF() = %#x, want 0x1230", got)
	}
}

func TestPairedRegisters(t *testing.T) {
	var r File
	r.SetBC(0xABCD)
	if r.B != 0xAB || r.C != 0xCD {
		t.Fatalf("B=%#x C=%#x, want AB/CD", r.B, r.C)
	}
	r.SetDE(0x1122)
	if r.DE() != 0x1122 {
		t.Fatalf("DE() = %#x, want 0x1122", r.DE())
	}
	r.SetHL(0x3344)
	if r.HL() != 0x3344 {
		t.Fatalf("HL() = %#x, want 0x3344", r.HL())
	}
}

func TestSetFlags(t *testing.T) {
	var r File
	r.SetFlags(true, false, true, false)
	if !r.Flag(FlagZ) || r.Flag(FlagN) || !r.Flag(FlagH) || r.Flag(FlagC) {
		t.Fatalf("F=%#x unexpected", r.F)
	}
}

func TestResetPostBoot(t *testing.T) {
	var r File
	r.ResetPostBoot()
	if r.AF() != 0x0100+0x00B0 && r.A != 0x01 {
		t.Fatalf("A=%#x F=%#x unexpected after ResetPostBoot", r.A, r.F)
	}
	if r.SP != 0xFFFE || r.PC != 0x0100 {
		t.Fatalf("SP=%#x PC=%#x unexpected", r.SP, r.PC)
	}
}
