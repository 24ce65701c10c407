package emu

// APUPullStereo drains up to want interleaved [L0,R0,L1,R1,...] int16
// frames generated since the last pull.
func (m *Machine) APUPullStereo(want int) []int16 {
	if m.bus == nil {
		return nil
	}
	return m.bus.APU().PullStereo(want)
}

// APUBufferedStereo returns the number of stereo frames currently queued.
func (m *Machine) APUBufferedStereo() int {
	if m.bus == nil {
		return 0
	}
	return m.bus.APU().BufferedStereo()
}

// APUCapBufferedStereo drops the oldest queued frames down to n, bounding
// audio latency after a stall or a paused frame loop.
func (m *Machine) APUCapBufferedStereo(n int) {
	if m.bus == nil {
		return
	}
	m.bus.APU().CapBufferedStereo(n)
}

// APUClearAudioLatency discards all queued audio, resyncing to now.
func (m *Machine) APUClearAudioLatency() {
	if m.bus == nil {
		return
	}
	m.bus.APU().ClearAudioLatency()
}
