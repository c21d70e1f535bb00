package renderer

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// Draws an RGBA image with its top-left corner at pixel (x, y) of the
// viewport, clipped to the viewport, as half-block characters.
func (r *Renderer) DrawImage(img *image.RGBA, x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img == nil || r.screen == nil || r.closed {
		return
	}

	bounds := img.Bounds()
	imgW := bounds.Dx()
	imgH := bounds.Dy()

	if imgW <= 0 || imgH <= 0 {
		return
	}

	viewW, viewH := r.viewCellsLocked()
	if viewW <= 0 || viewH <= 0 {
		return
	}

	// Cell rows touched by the image; an odd y straddles a cell boundary
	firstRow := floorDiv(y, 2)
	lastRow := floorDiv(y+imgH-1, 2)

	pix := img.Pix
	stride := img.Stride

	for cellY := firstRow; cellY <= lastRow; cellY++ {
		if cellY < 0 || cellY >= viewH {
			continue
		}

		topRow := cellY*2 - y
		botRow := topRow + 1
		hasTop := topRow >= 0 && topRow < imgH
		hasBot := botRow >= 0 && botRow < imgH

		for px := range imgW {
			cellX := x + px
			if cellX < 0 || cellX >= viewW {
				continue
			}

			var tr, tg, tb byte
			if hasTop {
				off := topRow*stride + px*4
				tr, tg, tb = pix[off], pix[off+1], pix[off+2]
			}

			var br, bg, bb byte
			if hasBot {
				off := botRow*stride + px*4
				br, bg, bb = pix[off], pix[off+1], pix[off+2]
			} else if hasTop {
				br, bg, bb = tr, tg, tb
			}

			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb))).
				Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))

			r.screen.SetContent(cellX, cellY, '▀', nil, style)
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
