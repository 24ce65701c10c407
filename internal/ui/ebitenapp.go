package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pixelboy/gbcore/internal/emu"
)

// App is the host boundary ebiten draws into: a framebuffer sink, a stereo
// sample sink for the APU, and a button source fed from the keyboard. It
// does not browse ROMs or edit settings; cmd/gbemu picks the ROM and any
// persistence before handing it a loaded *emu.Machine.
type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
	fast   bool

	lastTime   time.Time
	frameAcc   float64
	audioMuted bool

	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *apuStream

	status      string
	statusUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	a := &App{cfg: cfg, m: m}
	a.lastTime = time.Now()
	a.audioCtx = audio.NewContext(48000)
	if m != nil {
		m.SetUseFetcherBG(cfg.UseFetcherBG)
	}
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if a.audioPlayer == nil {
		a.audioMuted = true
		a.m.APUClearAudioLatency()
		a.audioSrc = &apuStream{m: a.m, mono: !a.cfg.AudioStereo, muted: &a.audioMuted}
		if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
			a.audioPlayer = p
			a.applyPlayerBufferSize()
			a.audioPlayer.Play()
		}
	}

	var btn emu.Buttons
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		btn.Right = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		btn.Left = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		btn.Up = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		btn.Down = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		btn.A = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		btn.B = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		btn.Start = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		btn.Select = true
	}
	a.m.SetButtons(btn)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	prevFast := a.fast
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.ResetPostBoot()
		a.setStatus("Reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.m.ResetWithBoot()
		a.setStatus("Reset (boot ROM)")
	}
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.m.SaveStateToFile(a.statePath()); err == nil {
			a.setStatus("Saved")
		} else {
			a.setStatus("Save failed: " + err.Error())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := a.m.LoadStateFromFile(a.statePath()); err == nil {
			a.setStatus("Loaded")
		} else {
			a.setStatus("Load failed: " + err.Error())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.toggleCGBColors()
	}

	muted := a.paused
	if muted != a.audioMuted {
		a.audioMuted = muted
		a.lastTime = time.Now()
		a.frameAcc = 0
		a.m.APUClearAudioLatency()
	}
	if prevFast != a.fast {
		if a.fast {
			a.m.APUCapBufferedStereo(1920)
		} else {
			a.m.APUClearAudioLatency()
		}
		a.applyPlayerBufferSize()
	}

	a.stepEmulation()
	return nil
}

// stepEmulation runs whole Game Boy frames using a time accumulator so
// playback stays at ~59.7275 FPS independent of ebiten's own update rate.
func (a *App) stepEmulation() {
	if a.paused {
		return
	}
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.lastTime = now
	gbFps := 4194304.0 / 70224.0
	speed := 1.0
	if a.fast {
		speed = 4.0
	}
	a.frameAcc += dt * gbFps * speed
	steps := 0
	for a.frameAcc >= 1.0 && steps < 10 {
		a.m.StepFrame()
		a.frameAcc -= 1.0
		steps++
	}
	buffered := a.m.APUBufferedStereo()
	if a.audioMuted && buffered > 1024 {
		a.audioMuted = false
	}
}

func (a *App) toggleCGBColors() {
	if a.m == nil {
		return
	}
	turnOn := !a.m.UseCGBBG()
	if turnOn {
		compat := a.m.IsCGBCompat()
		a.m.SetUseCGBBG(true)
		if compat {
			a.m.ResetCGBPostBoot(true)
		}
	} else {
		a.m.SetUseCGBBG(false)
		a.m.ResetPostBoot()
	}
	a.setStatus(fmt.Sprintf("CGB colors: %v", map[bool]string{true: "on", false: "off"}[turnOn]))
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath() string {
	base := "unknown"
	if a.m != nil && a.m.ROMPath() != "" {
		base = a.m.ROMPath()
	}
	return base + ".savestate"
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, 4)
	}
	if a.status != "" && time.Now().Before(a.statusUntil) {
		ebitenutil.DebugPrintAt(screen, a.status, 4, 132)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return 160, 144 }
