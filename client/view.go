package client

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/quoridor/game"
	"github.com/zucenko/quoridor/model"
)

const (
	slideSeconds = 0.25
	pulseSeconds = 0.15
)

// Token is a player token as it should be drawn this frame. Row and Col
// are fractional while the token slides.
type Token struct {
	Color    model.Color
	Row, Col float32
	Scale    float32
}

// View is the client side picture of one game, built from server
// messages only.
type View struct {
	GameID       string
	PlayerKey    int
	Cells        [model.Size][model.Size]model.Color
	Walls        map[model.Wall]model.Color
	Message      string
	MessageColor model.Color
	Panels       [2]string
	Countdown    int
	Refused      string

	Tweens map[*gween.Tween]*Action

	tokens map[model.Position]*Token
	erased map[model.Color]model.Position
}

func NewView() *View {
	v := &View{PlayerKey: -1}
	v.reset()
	return v
}

func (v *View) reset() {
	v.Cells = [model.Size][model.Size]model.Color{}
	v.Walls = make(map[model.Wall]model.Color)
	v.Message = ""
	v.MessageColor = model.ColorNone
	v.Panels = [2]string{}
	v.Refused = ""
	v.Tweens = make(map[*gween.Tween]*Action)
	v.tokens = make(map[model.Position]*Token)
	v.erased = make(map[model.Color]model.Position)
}

// Apply takes one message from the server.
func (v *View) Apply(mes model.ServerMessage) {
	for _, setup := range mes.Setup {
		v.reset()
		v.GameID = setup.GameID
		v.PlayerKey = setup.PlayerKey
		v.Countdown = setup.Countdown
		for _, w := range setup.Walls {
			v.Walls[w] = model.ColorWall
		}
		for _, p := range setup.Players {
			v.place(p.Position, model.PlayerColor(p.ID))
		}
	}
	v.Refused = mes.Refused
	game.Replay(v, mes.Notifications)
}

// Tokens returns the tokens to draw.
func (v *View) Tokens() []Token {
	tokens := make([]Token, 0, len(v.tokens))
	for _, t := range v.tokens {
		tokens = append(tokens, *t)
	}
	return tokens
}

// Update advances running tweens by dt seconds.
func (v *View) Update(dt float32) {
	for t, a := range v.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			for _, next := range a.nexts {
				next(v)
			}
			delete(v.Tweens, t)
		}
	}
}

func (v *View) HighlightCells(cells []model.Position, color model.Color) {
	for _, p := range cells {
		if p.OnBoard() {
			v.Cells[p.Row][p.Col] = color
			// repainting a cell wipes its token
			delete(v.tokens, p)
		}
	}
}

func (v *View) DrawToken(pos model.Position, color model.Color) {
	switch color {
	case model.ColorPlayer0, model.ColorPlayer1:
		from, moved := v.erased[color]
		delete(v.erased, color)
		if t, ok := v.tokens[pos]; ok && t.Color == color && !moved {
			return
		}
		t := v.place(pos, color)
		if moved && from != pos {
			v.slide(t, from, pos)
		}
	default:
		if t, ok := v.tokens[pos]; ok {
			v.erased[t.Color] = pos
			delete(v.tokens, pos)
		}
	}
}

func (v *View) DrawWall(w model.Wall, color model.Color) {
	if color == model.ColorNone {
		delete(v.Walls, w)
		return
	}
	v.Walls[w] = color
}

func (v *View) ShowMessage(text string, color model.Color) {
	v.Message = text
	v.MessageColor = color
}

func (v *View) UpdateSidePanel(player int, text string) {
	if player >= 0 && player < len(v.Panels) {
		v.Panels[player] = text
	}
}

func (v *View) UpdateCountdown(seconds int) {
	v.Countdown = seconds
}

func (v *View) place(pos model.Position, color model.Color) *Token {
	t := &Token{Color: color, Row: float32(pos.Row), Col: float32(pos.Col), Scale: 1}
	v.tokens[pos] = t
	return t
}

func (v *View) slide(t *Token, from, to model.Position) {
	t.Row, t.Col = float32(from.Row), float32(from.Col)
	move := gween.New(0, 1, slideSeconds, ease.OutQuad)
	a := &Action{onChange: func(f float32) {
		t.Row = float32(from.Row) + f*float32(to.Row-from.Row)
		t.Col = float32(from.Col) + f*float32(to.Col-from.Col)
	}}
	a.addOnFinish(func() {
		t.Row, t.Col = float32(to.Row), float32(to.Col)
	})
	pulse := a.next(gween.New(1.15, 1, pulseSeconds, ease.OutQuad))
	pulse.onChange = func(s float32) { t.Scale = s }
	pulse.addOnFinish(func() { t.Scale = 1 })
	v.Tweens[move] = a
}
