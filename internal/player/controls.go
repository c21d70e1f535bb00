package player

// Records the frame the next Update materializes. Out of range indices
// are clamped; the call is ignored until the handle is ready.
func (p *Player) SetFrame(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady {
		return
	}
	p.pending = clampFrame(index, p.meta.FrameCount)
}

// Returns the requested frame index
func (p *Player) CurrentFrame() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pending
}

// Steps one frame forward, wrapping to the first frame
func (p *Player) NextFrame() {
	p.step(1)
}

// Steps one frame back, wrapping to the last frame
func (p *Player) PreviousFrame() {
	p.step(-1)
}

func (p *Player) FirstFrame() {
	p.SetFrame(0)
}

func (p *Player) step(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.meta.FrameCount
	if p.state != StateReady || total <= 0 {
		return
	}
	p.pending = ((p.pending+delta)%total + total) % total
}
