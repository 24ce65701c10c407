package ui

import (
	"encoding/binary"
	"time"

	"github.com/pixelboy/gbcore/internal/emu"
)

// applyPlayerBufferSize sets ebiten's own audio player buffer: ~20ms during
// fast-forward (to avoid the host buffer piling up stale samples), ~40ms
// otherwise.
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	bufMs := 40
	if a.fast {
		bufMs = 20
	}
	a.audioPlayer.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}

// apuStream implements io.Reader by pulling PCM frames from the emulator's
// APU ring buffer and converting them to 16-bit little-endian stereo (or
// folded mono) samples for ebiten's audio.Player.
type apuStream struct {
	m     *emu.Machine
	mono  bool
	muted *bool

	underruns  int
	lastWant   int
	lastPulled int
}

func (s *apuStream) Read(p []byte) (int, error) {
	if len(p) == 0 || s == nil || s.m == nil {
		return 0, nil
	}
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		for i := range p {
			p[i] = 0
		}
		time.Sleep(5 * time.Millisecond)
		return len(p), nil
	}

	maxReq := len(p) / 4
	const capFrames = 2048 // ~42.7ms at 48kHz
	if maxReq > capFrames {
		maxReq = capFrames
	}

	deadline := time.Now().Add(15 * time.Millisecond)
	want := maxReq
	if buf := s.m.APUBufferedStereo(); buf > 0 {
		if buf < want {
			want = buf
		}
	} else {
		for time.Now().Before(deadline) {
			if b := s.m.APUBufferedStereo(); b > 0 {
				want = b
				if want > maxReq {
					want = maxReq
				}
				break
			}
			time.Sleep(1 * time.Millisecond)
		}
	}
	if want <= 0 {
		return s.silence(p, maxReq, 256), nil
	}

	pulled := 0
	i := 0
	for pulled < want {
		frames := s.m.APUPullStereo(want - pulled)
		if len(frames) == 0 {
			break
		}
		for j := 0; j+1 < len(frames) && i+3 < len(p); j += 2 {
			l := int16(frames[j])
			r := int16(frames[j+1])
			if s.mono {
				mix := int16((int32(l) + int32(r)) / 2)
				binary.LittleEndian.PutUint16(p[i:], uint16(mix))
				binary.LittleEndian.PutUint16(p[i+2:], uint16(mix))
			} else {
				binary.LittleEndian.PutUint16(p[i:], uint16(l))
				binary.LittleEndian.PutUint16(p[i+2:], uint16(r))
			}
			i += 4
			pulled++
		}
	}
	if pulled == 0 {
		return s.silence(p, maxReq, 128), nil
	}
	s.lastWant, s.lastPulled = pulled, pulled
	return pulled * 4, nil
}

// silence fills p with up to n silent frames, counting it as an underrun.
func (s *apuStream) silence(p []byte, maxReq, n int) int {
	if n > maxReq {
		n = maxReq
	}
	for i := 0; i < n*4 && i+3 < len(p); i += 4 {
		binary.LittleEndian.PutUint16(p[i:], 0)
		binary.LittleEndian.PutUint16(p[i+2:], 0)
	}
	s.underruns++
	s.lastWant, s.lastPulled = n, n
	return n * 4
}
