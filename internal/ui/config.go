package ui

// Config contains window/audio settings for the ebiten host boundary. ROM
// selection, save-state slots and persisted preferences are the caller's
// concern (see cmd/gbemu), not this package's.
type Config struct {
	Title        string // window title
	Scale        int    // integer upscaling factor
	AudioStereo  bool   // if true, output true stereo; if false, fold to mono
	UseFetcherBG bool   // render BG via fetcher/FIFO
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
