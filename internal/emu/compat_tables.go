package emu

import (
	"strings"

	"github.com/pixelboy/gbcore/internal/cart"
)

// compatPaletteSet is one DMG-compatibility recoloring: four shades each
// for the BG layer and the (single, shared) OBJ layer, light to dark.
type compatPaletteSet struct {
	bg  [4][3]byte
	obj [4][3]byte
}

// cgbCompatSetNames/cgbCompatSets hold the curated DMG-compatibility
// palettes the CGB boot ROM's own palette picker offers; compatTitleExact
// and compatTitleContains below index into this table by position.
var cgbCompatSetNames = []string{"Green", "Sepia", "Blue", "Red", "Pastel", "Grayscale"}

var cgbCompatSets = []compatPaletteSet{
	{ // Green: classic DMG
		bg:  [4][3]byte{{0xE0, 0xF8, 0xD0}, {0x88, 0xC0, 0x70}, {0x34, 0x68, 0x56}, {0x08, 0x18, 0x20}},
		obj: [4][3]byte{{0xE0, 0xF8, 0xD0}, {0x88, 0xC0, 0x70}, {0x34, 0x68, 0x56}, {0x08, 0x18, 0x20}},
	},
	{ // Sepia
		bg:  [4][3]byte{{0xF4, 0xE8, 0xC8}, {0xC0, 0xA0, 0x70}, {0x80, 0x5C, 0x3C}, {0x30, 0x20, 0x14}},
		obj: [4][3]byte{{0xF4, 0xE8, 0xC8}, {0xC0, 0xA0, 0x70}, {0x80, 0x5C, 0x3C}, {0x30, 0x20, 0x14}},
	},
	{ // Blue
		bg:  [4][3]byte{{0xE0, 0xF0, 0xFF}, {0x70, 0xA8, 0xE0}, {0x38, 0x58, 0x98}, {0x10, 0x18, 0x38}},
		obj: [4][3]byte{{0xE0, 0xF0, 0xFF}, {0x70, 0xA8, 0xE0}, {0x38, 0x58, 0x98}, {0x10, 0x18, 0x38}},
	},
	{ // Red
		bg:  [4][3]byte{{0xFF, 0xE8, 0xE0}, {0xE0, 0x90, 0x78}, {0x98, 0x40, 0x38}, {0x38, 0x10, 0x10}},
		obj: [4][3]byte{{0xFF, 0xE8, 0xE0}, {0xE0, 0x90, 0x78}, {0x98, 0x40, 0x38}, {0x38, 0x10, 0x10}},
	},
	{ // Pastel
		bg:  [4][3]byte{{0xFB, 0xF0, 0xE8}, {0xD8, 0xC0, 0xE0}, {0x98, 0x88, 0xC0}, {0x40, 0x38, 0x60}},
		obj: [4][3]byte{{0xFB, 0xF0, 0xE8}, {0xD8, 0xC0, 0xE0}, {0x98, 0x88, 0xC0}, {0x40, 0x38, 0x60}},
	},
	{ // Grayscale, as a neutral fallback
		bg:  [4][3]byte{{0xFF, 0xFF, 0xFF}, {0xAA, 0xAA, 0xAA}, {0x55, 0x55, 0x55}, {0x00, 0x00, 0x00}},
		obj: [4][3]byte{{0xFF, 0xFF, 0xFF}, {0xAA, 0xAA, 0xAA}, {0x55, 0x55, 0x55}, {0x00, 0x00, 0x00}},
	},
}

// CurrentCompatPalette returns the active compat-palette index.
func (m *Machine) CurrentCompatPalette() int { return m.compatPaletteID }

// CycleCompatPalette advances (or retreats) the active compat palette.
func (m *Machine) CycleCompatPalette(delta int) {
	n := len(cgbCompatSets)
	m.compatPaletteID = ((m.compatPaletteID+delta)%n + n) % n
}

// CompatPaletteName returns the display name for palette id pid.
func (m *Machine) CompatPaletteName(pid int) string {
	return cgbCompatSetNames[((pid%len(cgbCompatSetNames))+len(cgbCompatSetNames))%len(cgbCompatSetNames)]
}

// SetCompatPalette sets the active compat palette directly, used when
// restoring a per-ROM preference.
func (m *Machine) SetCompatPalette(pid int) {
	n := len(cgbCompatSets)
	m.compatPaletteID = ((pid % n) + n) % n
}

// compatTitleExact maps exact, normalized titles to a preferred palette ID.
// Note: IDs index into cgbCompatSetNames/cgbCompatSets above.
var compatTitleExact = map[string]int{
	"TETRIS":              2, // Blue
	"TETRIS DX":           2,
	"SUPER MARIO LAND":    3, // Red
	"SUPER MARIO LAND 2":  3,
	"DR. MARIO":           4, // Pastel
	"DONKEY KONG":         1, // Sepia
	"THE LEGEND OF ZELDA": 0, // Green
	"ZELDA":               0,
	"METROID II":          3, // Red accent
	"KIRBY'S DREAM LAND":  4, // Pastel/soft
	"MEGA MAN":            2, // Blue
	"MEGAMAN":             2,
	"WARIO LAND":          1, // Sepia
	"POKEMON YELLOW":      4, // Pastel
	"POKEMON RED":         4,
	"POKEMON BLUE":        4,
	"POCKET MONSTERS":     4,
}

type containsRule struct {
	substr string
	id     int
}

// compatTitleContains applies broader substring heuristics for families.
var compatTitleContains = []containsRule{
	{"TETRIS", 2},
	{"MARIO", 3},
	{"ZELDA", 0},
	{"KIRBY", 4},
	{"DONKEY KONG", 1},
	{"METROID", 3},
	{"MEGA MAN", 2},
	{"MEGAMAN", 2},
	{"WARIO", 1},
	{"POKEMON", 4},
	{"POCKET MONSTERS", 4},
}

// autoCompatPaletteFromHeader tries to pick a good default palette using a small title table
// and then a stable fallback based on licensee/checksum. Returns (id, true) on success.
func autoCompatPaletteFromHeader(h *cart.Header) (int, bool) {
	if h == nil {
		return 0, false
	}
	title := strings.TrimSpace(strings.TrimRight(h.Title, "\x00"))
	t := strings.ToUpper(title)
	if id, ok := compatTitleExact[t]; ok {
		return id, true
	}
	for _, r := range compatTitleContains {
		if strings.Contains(t, r.substr) {
			return r.id, true
		}
	}
	// Fallback: for Nintendo-published titles, vary palette by header checksum; others use default.
	nintendo := false
	if h.OldLicensee == 0x33 {
		nintendo = (strings.ToUpper(h.NewLicensee) == "01")
	} else {
		nintendo = (h.OldLicensee == 0x01)
	}
	if nintendo {
		// Use header checksum to pick a stable palette across sessions.
		// Keep it within available set count (len(cgbCompatSetNames)).
		// We mod by 6 to align with our curated set length.
		return int(h.HeaderChecksum) % 6, true
	}
	return 0, true
}
