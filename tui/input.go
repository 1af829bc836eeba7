package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

// Poster accepts input events, see game.Runner.
type Poster interface {
	Post(ev model.Event) bool
}

// Binding maps a key press to an input event. quit is set for the keys
// that leave the program.
func Binding(key tcell.Key, r rune) (ev model.Event, quit bool, ok bool) {
	switch key {
	case tcell.KeyUp:
		return model.MoveUp, false, true
	case tcell.KeyDown:
		return model.MoveDown, false, true
	case tcell.KeyLeft:
		return model.MoveLeft, false, true
	case tcell.KeyRight:
		return model.MoveRight, false, true
	case tcell.KeyEnter:
		return model.Confirm, false, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, true, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return model.ToggleWallMode, false, true
		case 'r', 'R':
			return model.ToggleOrientation, false, true
		case 's', 'S':
			return model.StartGame, false, true
		case 'q', 'Q':
			return 0, true, true
		}
	}
	return 0, false, false
}

// Loop reads the screen's events and posts the bound ones until a quit
// key is pressed or the screen is finalized. cancel is called on quit.
func Loop(ctx context.Context, cancel context.CancelFunc, screen tcell.Screen, term *Terminal, poster Poster) {
	for ctx.Err() == nil {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			term.Redraw()
		case *tcell.EventKey:
			event, quit, ok := Binding(ev.Key(), ev.Rune())
			if !ok {
				continue
			}
			if quit {
				log.Info("quit")
				cancel()
				return
			}
			poster.Post(event)
		}
	}
}
