package renderer

import "github.com/gdamore/tcell/v2"

// draw text at specified cell position, clipped to the terminal
func (r *Renderer) DrawText(x, y int, text string, style tcell.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return
	}

	col := x
	for _, ch := range text {
		if col >= w {
			break
		}
		if col >= 0 {
			r.screen.SetContent(col, y, ch, nil, style)
		}
		col++
	}
}

// Fills a viewport row with a style
func (r *Renderer) FillLine(y int, style tcell.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	cols, rows := r.viewCellsLocked()
	if y < 0 || y >= rows {
		return
	}

	for x := range cols {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// Displays a message centered in the viewport
func (r *Renderer) RenderMessage(msg string, bgColor tcell.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.viewCellsLocked()
	if w <= 0 || h <= 0 {
		return
	}

	style := tcell.StyleDefault.Background(bgColor).Foreground(tcell.ColorWhite)

	y := h / 2
	for x := range w {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	runes := []rune(msg)
	x := max((w-len(runes))/2, 0)
	for i, ch := range runes {
		if x+i >= w {
			break
		}
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

// Draws a horizontal progress bar across the viewport
func (r *Renderer) ProgressBar(y int, progress float64, filledColor, emptyColor tcell.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.screen == nil || r.closed {
		return
	}

	w, h := r.viewCellsLocked()
	if y < 0 || y >= h || w < 4 {
		return
	}

	progress = min(max(progress, 0), 1)

	barW := w - 2
	filled := int(float64(barW) * progress)

	filledStyle := tcell.StyleDefault.Background(filledColor)
	emptyStyle := tcell.StyleDefault.Background(emptyColor)

	for x := 1; x < 1+filled && x < w-1; x++ {
		r.screen.SetContent(x, y, '━', nil, filledStyle)
	}
	for x := 1 + filled; x < 1+barW && x < w-1; x++ {
		r.screen.SetContent(x, y, '─', nil, emptyStyle)
	}

	// Position marker
	mx := min(1+filled, w-2)
	r.screen.SetContent(mx, y, '●', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}
