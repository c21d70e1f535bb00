package app

import "github.com/gdamore/tcell/v2"

type EventResult int

const (
	EventContinue EventResult = iota
	EventQuit
)

func (s *Shell) HandleEvent(ev tcell.Event) EventResult {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return s.handleResize(ev)
	case *tcell.EventKey:
		return s.handleKey(ev)
	}
	return EventContinue
}

// The viewport is clipped to the terminal, so a resize only needs a
// full repaint
func (s *Shell) handleResize(ev *tcell.EventResize) EventResult {
	w, h := ev.Size()
	s.logger.Debug("Resize: %dx%d", w, h)

	if s.window != nil {
		s.window.Sync()
		s.window.Clear()
	}
	return EventContinue
}

func (s *Shell) handleKey(ev *tcell.EventKey) EventResult {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return EventQuit
	}
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
		return EventQuit
	}
	return EventContinue
}
