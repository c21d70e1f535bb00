package player

import (
	"image"

	"github.com/0bVdnt/frameloop/internal/video"
)

// Materializes the requested frame. Repeated calls without a new
// SetFrame reuse the frame already in place.
func (p *Player) Update() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady || p.source == nil {
		return
	}

	texW, texH := p.textureSizeLocked()
	if p.buffer.Index() == p.pending && p.matW == texW && p.matH == texH {
		return
	}

	// Texture-only decodes straight at texture size, the other modes
	// need the full resolution pixels
	decW, decH := p.meta.Width, p.meta.Height
	if !p.mode.WantsPixels() {
		decW, decH = texW, texH
	}

	frame, err := p.source.FrameAt(p.ctx, p.pending, decW, decH)
	if err != nil {
		p.buffer.SetError(err)
		p.logger.Warn("Frame %d: %v", p.pending, err)
		return
	}

	var pixels, texture *image.RGBA
	switch p.mode {
	case video.DecodeTextureOnly:
		texture = frame.Image
	case video.DecodePixelsOnly:
		pixels = frame.Image
	case video.DecodePixelsAndTexture:
		pixels = frame.Image
		texture = video.Scale(pixels, texW, texH)
	}

	// The decoder may clamp; the frame still answers for the requested index
	frame.Index = p.pending
	p.buffer.Store(frame)
	p.pixels = pixels
	p.texture = texture
	p.matW, p.matH = texW, texH
}

func (p *Player) textureSizeLocked() (int, int) {
	var surfW, surfH int
	if p.surface != nil {
		surfW, surfH = p.surface.PixelSize()
	}
	return TextureDimensions(surfW, surfH, p.meta)
}

// Draws the materialized texture at (x, y) at its own size. Nothing is
// drawn before the first successful Update or in pixels-only mode.
func (p *Player) Draw(x, y int) {
	p.mu.RLock()
	texture := p.texture
	p.mu.RUnlock()

	if texture == nil || p.surface == nil {
		return
	}
	p.surface.DrawImage(texture, x, y)
}

// Index of the materialized frame, or -1
func (p *Player) MaterializedFrame() int {
	return p.buffer.Index()
}

// Full resolution pixels, nil in texture-only mode
func (p *Player) Pixels() *image.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pixels
}

// Surface-sized image Draw uses, nil in pixels-only mode
func (p *Player) Texture() *image.RGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.texture
}

// How many frames Update has materialized since the last load
func (p *Player) DecodedFrames() uint64 {
	return p.buffer.FrameCount()
}
