// Package joypad implements the JOYP button matrix and its interrupt edge.
package joypad

// Button bitmasks used by SetState. Bits set mean "pressed". This layout
// is the engine's external button API and is independent of the matrix's
// internal select-group wiring below.
const (
	Left  = 1 << 0
	Up    = 1 << 1
	Right = 1 << 2
	Down  = 1 << 3
	A     = 1 << 4
	B     = 1 << 5
	Start = 1 << 6
	Select = 1 << 7
)

// RequestFunc raises the joypad interrupt request bit owned by the
// motherboard.
type RequestFunc func()

// Joypad tracks the select lines written to FF00 and the current button
// state, and edge-detects the active-low nibble to fire interrupts.
type Joypad struct {
	selectBits byte // bits 5-4 of FF00 as last written
	pressed    byte // current button mask (Left..Select bits above, 1 = pressed)
	lastLower4 byte // previous active-low nibble, for edge detection

	request RequestFunc
}

func New(request RequestFunc) *Joypad {
	return &Joypad{request: request}
}

// Read returns the FF00 register value: bits 7-6 read as 1, bits 5-4
// reflect the select lines, bits 3-0 are the active-low button state for
// whichever group(s) are selected.
func (j *Joypad) Read() byte {
	return 0xC0 | (j.selectBits & 0x30) | j.lower4()
}

// WriteSelect handles a write to FF00 (only bits 5-4 are writable).
func (j *Joypad) WriteSelect(v byte) {
	j.selectBits = v & 0x30
	j.checkEdge()
}

// SetState replaces the full pressed-button mask and re-evaluates the
// interrupt edge against the currently selected group(s).
func (j *Joypad) SetState(mask byte) {
	j.pressed = mask
	j.checkEdge()
}

func (j *Joypad) lower4() byte {
	n := byte(0x0F)
	if j.selectBits&0x10 == 0 { // P14 low selects D-pad
		if j.pressed&Right != 0 {
			n &^= 0x01
		}
		if j.pressed&Left != 0 {
			n &^= 0x02
		}
		if j.pressed&Up != 0 {
			n &^= 0x04
		}
		if j.pressed&Down != 0 {
			n &^= 0x08
		}
	}
	if j.selectBits&0x20 == 0 { // P15 low selects face buttons
		if j.pressed&A != 0 {
			n &^= 0x01
		}
		if j.pressed&B != 0 {
			n &^= 0x02
		}
		if j.pressed&Select != 0 {
			n &^= 0x04
		}
		if j.pressed&Start != 0 {
			n &^= 0x08
		}
	}
	return n
}

// checkEdge fires the joypad interrupt on any 1->0 transition of the
// active-low nibble (a button becoming readably "pressed").
func (j *Joypad) checkEdge() {
	n := j.lower4()
	falling := j.lastLower4 &^ n
	if falling != 0 && j.request != nil {
		j.request()
	}
	j.lastLower4 = n
}

type State struct {
	SelectBits, Pressed, LastLower4 byte
}

func (j *Joypad) SaveState() State { return State{j.selectBits, j.pressed, j.lastLower4} }
func (j *Joypad) LoadState(s State) {
	j.selectBits, j.pressed, j.lastLower4 = s.SelectBits, s.Pressed, s.LastLower4
}
