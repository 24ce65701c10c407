package cart

import "testing"

func TestMBC3_RTC_LatchAndRead(t *testing.T) {
	prevNow := nowUnix
	nowUnix = func() int64 { return 100 }
	defer func() { nowUnix = prevNow }()

	rom := make([]byte, 0x8000)
	m := NewMBC3(rom, 0x2000)

	m.Write(0x0000, 0x0A) // RAM/RTC enable
	m.rtc.seconds, m.rtc.minutes, m.rtc.hours = 5, 6, 7
	m.rtc.dayLow, m.rtc.dayHigh = 0x01, 0x01
	m.rtc.anchor = 100

	m.Write(0x6000, 0x00) // latch sequence: 0x00 then 0x01
	m.Write(0x6000, 0x01)

	m.Write(0x4000, 0x08) // select RTC seconds register
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched sec got %d want 5", got)
	}

	// Live register changes after latch must not affect the latched read.
	m.rtc.seconds = 30
	if got := m.Read(0xA000); got != 5 {
		t.Fatalf("latched sec changed unexpectedly: got %d", got)
	}

	m.Write(0x4000, 0x0B)
	if got := m.Read(0xA000); got != 0x01 {
		t.Fatalf("latched day low got %02X want 01", got)
	}
	m.Write(0x4000, 0x0C)
	got := m.Read(0xA000)
	if got&0x01 == 0 {
		t.Fatalf("latched day-high bit 8 not set")
	}
	if got&0x40 != 0 {
		t.Fatalf("halt bit set unexpectedly")
	}
}

func TestMBC3_RTC_AdvanceAndPersist(t *testing.T) {
	prevNow := nowUnix
	nowVal := int64(100)
	nowUnix = func() int64 { return nowVal }
	defer func() { nowUnix = prevNow }()

	rom := make([]byte, 0x8000)
	m := NewMBC3(rom, 0x2000)
	m.Write(0x0000, 0x0A)
	m.rtc.seconds, m.rtc.minutes, m.rtc.hours = 30, 59, 23
	m.rtc.dayLow, m.rtc.dayHigh = 0xFF, 0x01 // day 0x1FF, max
	m.rtc.anchor = nowVal

	nowVal = 120 // +20s -> sec 50, min unchanged
	m.rtc.sync()
	if m.rtc.seconds != 50 || m.rtc.minutes != 59 {
		t.Fatalf("rtc advance 20s got sec=%d min=%d", m.rtc.seconds, m.rtc.minutes)
	}

	nowVal = 180 // +60s more -> rolls minute/hour/day, day wraps with carry set
	m.rtc.sync()
	if m.rtc.seconds != 50 || m.rtc.minutes != 0 || m.rtc.hours != 0 {
		t.Fatalf("rtc +60s rollover got %02d:%02d:%02d", m.rtc.hours, m.rtc.minutes, m.rtc.seconds)
	}
	if m.rtc.dayHigh&0x80 == 0 {
		t.Fatalf("expected day-counter carry bit set after overflow")
	}

	data := m.SaveState()
	n := NewMBC3(rom, 0x2000)
	n.LoadState(data)
	if n.rtc.seconds != m.rtc.seconds || n.rtc.minutes != m.rtc.minutes || n.rtc.hours != m.rtc.hours {
		t.Fatalf("rtc state did not persist across SaveState/LoadState")
	}
}

func TestMBC3_RTC_HaltFreezesClock(t *testing.T) {
	prevNow := nowUnix
	nowVal := int64(1000)
	nowUnix = func() int64 { return nowVal }
	defer func() { nowUnix = prevNow }()

	m := NewMBC3(make([]byte, 0x8000), 0x2000)
	m.Write(0x0000, 0x0A)
	m.rtc.seconds = 0
	m.rtc.dayHigh = 0x40 // halt bit set
	m.rtc.anchor = nowVal

	nowVal = 5000
	m.rtc.sync()
	if m.rtc.seconds != 0 {
		t.Fatalf("halted rtc should not advance, got seconds=%d", m.rtc.seconds)
	}
}

func TestMBC3_RAMBanking(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC3(rom, 4*0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x02) // select RAM bank 2 (not an RTC register)
	m.Write(0xA123, 0x42)
	if got := m.Read(0xA123); got != 0x42 {
		t.Fatalf("ram bank write/read mismatch: got %02X", got)
	}
	m.Write(0x4000, 0x00)
	if got := m.Read(0xA123); got == 0x42 {
		t.Fatalf("bank 0 should not alias bank 2's byte")
	}
}
