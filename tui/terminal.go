package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/zucenko/quoridor/client"
	"github.com/zucenko/quoridor/model"
)

const (
	cellWidth  = 4
	cellHeight = 2
	originX    = 2
	originY    = 1
)

var styles = map[model.Color]tcell.Style{
	model.ColorNone:        tcell.StyleDefault,
	model.ColorEmpty:       tcell.StyleDefault,
	model.ColorOption:      tcell.StyleDefault.Background(tcell.ColorDarkGreen),
	model.ColorPlayer0:     tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	model.ColorPlayer1:     tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true),
	model.ColorWall:        tcell.StyleDefault.Foreground(tcell.ColorYellow),
	model.ColorWallValid:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	model.ColorWallOverlap: tcell.StyleDefault.Foreground(tcell.ColorPurple),
	model.ColorWallTrap:    tcell.StyleDefault.Foreground(tcell.ColorOrange),
	model.ColorWarning:     tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	model.ColorText:        tcell.StyleDefault.Foreground(tcell.ColorWhite),
}

var gridStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)

// Terminal draws a game on a tcell screen. It is a game.Display; every
// notification updates the view and redraws.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	view   *client.View
	sound  Sounder
}

func NewTerminal(screen tcell.Screen, sound Sounder) *Terminal {
	if sound == nil {
		sound = Silent{}
	}
	return &Terminal{screen: screen, view: client.NewView(), sound: sound}
}

func (t *Terminal) HighlightCells(cells []model.Position, color model.Color) {
	t.update(func(v *client.View) { v.HighlightCells(cells, color) })
}

func (t *Terminal) DrawToken(pos model.Position, color model.Color) {
	t.update(func(v *client.View) { v.DrawToken(pos, color) })
}

func (t *Terminal) DrawWall(w model.Wall, color model.Color) {
	t.update(func(v *client.View) { v.DrawWall(w, color) })
}

func (t *Terminal) ShowMessage(text string, color model.Color) {
	t.update(func(v *client.View) { v.ShowMessage(text, color) })
	switch {
	case color == model.ColorWarning:
		t.sound.Warn()
	case strings.HasPrefix(text, "WINNER"):
		t.sound.Victory()
	}
}

func (t *Terminal) UpdateSidePanel(player int, text string) {
	t.update(func(v *client.View) { v.UpdateSidePanel(player, text) })
}

func (t *Terminal) UpdateCountdown(seconds int) {
	t.update(func(v *client.View) { v.UpdateCountdown(seconds) })
}

// Refused shows why the last key did nothing, until the next redraw.
func (t *Terminal) Refused(ev model.Event, err error) {
	t.update(func(v *client.View) { v.Refused = fmt.Sprintf("%s: %v", ev.Name(), err) })
}

// View returns a snapshot of what is drawn.
func (t *Terminal) View() client.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.view
}

// Redraw repaints everything, e.g. after a resize.
func (t *Terminal) Redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
	t.draw()
}

func (t *Terminal) update(f func(v *client.View)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.view.Refused = ""
	f(t.view)
	// no animation on a terminal
	for len(t.view.Tweens) > 0 {
		t.view.Update(1)
	}
	t.draw()
}

func (t *Terminal) draw() {
	s := t.screen
	v := t.view
	s.Clear()

	for r := 0; r <= model.Size; r++ {
		y := originY + r*cellHeight
		for x := originX; x <= originX+model.Size*cellWidth; x++ {
			ch := '·'
			if (x-originX)%cellWidth == 0 {
				ch = '+'
			}
			s.SetContent(x, y, ch, nil, gridStyle)
		}
	}
	for r := 0; r < model.Size; r++ {
		y := originY + r*cellHeight + 1
		for c := 0; c <= model.Size; c++ {
			x := originX + c*cellWidth
			if c == 0 || c == model.Size {
				s.SetContent(x, y, '│', nil, gridStyle)
			}
			if c == model.Size {
				break
			}
			style := styles[v.Cells[r][c]]
			for i := 1; i < cellWidth; i++ {
				s.SetContent(x+i, y, ' ', nil, style)
			}
		}
	}

	for w, color := range v.Walls {
		style := styles[color]
		if w.Orientation == model.Horizontal {
			y := originY + w.Row*cellHeight
			for x := originX + (w.Col-1)*cellWidth; x <= originX+(w.Col+1)*cellWidth; x++ {
				s.SetContent(x, y, '━', nil, style)
			}
			continue
		}
		x := originX + w.Col*cellWidth
		for y := originY + (w.Row-1)*cellHeight; y <= originY+(w.Row+1)*cellHeight; y++ {
			s.SetContent(x, y, '┃', nil, style)
		}
	}

	for _, token := range v.Tokens() {
		x := originX + int(token.Col+0.5)*cellWidth + cellWidth/2
		y := originY + int(token.Row+0.5)*cellHeight + 1
		ch := 'A'
		if token.Color == model.ColorPlayer1 {
			ch = 'B'
		}
		style := styles[token.Color]
		if bg := v.Cells[int(token.Row+0.5)][int(token.Col+0.5)]; bg == model.ColorOption {
			style = style.Background(tcell.ColorDarkGreen)
		}
		s.SetContent(x, y, ch, nil, style)
	}

	panelX := originX + model.Size*cellWidth + 4
	for id, text := range v.Panels {
		y := originY + 1 + id*4
		t.print(panelX, y, fmt.Sprintf("Player %d", id+1), styles[model.PlayerColor(id)])
		t.print(panelX, y+1, text, styles[model.ColorText])
	}
	t.print(panelX, originY+9, fmt.Sprintf("Time: %2d", v.Countdown), styles[model.ColorText])

	bottom := originY + model.Size*cellHeight + 2
	t.print(originX, bottom, v.Message, styles[v.MessageColor])
	t.print(originX, bottom+1, v.Refused, gridStyle)
	t.print(originX, bottom+3, "arrows move  enter confirm  w walls  r rotate  s start  q quit", gridStyle)
	s.Show()
}

func (t *Terminal) print(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
