package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/client"
	"github.com/zucenko/quoridor/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	size          = 64
	margin        = 16
	panelWidth    = 220
	wallThickness = 8
)

var screenWidth = model.Size*size + 2*margin + panelWidth
var screenHeight = model.Size*size + 2*margin + 48

var errQuit = errors.New("quit")

func HexToF32(u uint32) GameColor {
	b := float64(0xff&u) / 255
	g := float64(0xff&(u>>8)) / 255
	r := float64(0xff&(u>>16)) / 255
	return GameColor{r, g, b}
}

type GameColor struct {
	r float64
	g float64
	b float64
}

func (c GameColor) Color() color.Color {
	return color.RGBA{uint8(c.r * 255), uint8(c.g * 255), uint8(c.b * 255), 255}
}

var palette = map[model.Color]GameColor{
	model.ColorNone:        HexToF32(0x2c2c2c),
	model.ColorEmpty:       HexToF32(0x2c2c2c),
	model.ColorOption:      HexToF32(0x2f5a34),
	model.ColorPlayer0:     HexToF32(0xfa3636),
	model.ColorPlayer1:     HexToF32(0x34a0fb),
	model.ColorWall:        HexToF32(0xedbc1e),
	model.ColorWallValid:   HexToF32(0x0abd38),
	model.ColorWallOverlap: HexToF32(0xcb18dd),
	model.ColorWallTrap:    HexToF32(0xfa7a36),
	model.ColorWarning:     HexToF32(0xedbc1e),
	model.ColorText:        HexToF32(0xffffff),
}

var keys = map[ebiten.Key]model.Event{
	ebiten.KeyUp:    model.MoveUp,
	ebiten.KeyDown:  model.MoveDown,
	ebiten.KeyLeft:  model.MoveLeft,
	ebiten.KeyRight: model.MoveRight,
	ebiten.KeyEnter: model.Confirm,
	ebiten.KeyW:     model.ToggleWallMode,
	ebiten.KeyR:     model.ToggleOrientation,
	ebiten.KeyS:     model.StartGame,
}

type Game struct {
	View  *client.View
	Conn  *client.Conn
	Panel *Nine
	Token *Nine
	gone  bool
}

var Font font.Face

func init() {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	const dpi = 72
	Font = truetype.NewFace(tt, &truetype.Options{
		Size:    20,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// receive applies everything the server sent since the last frame.
func (g *Game) receive() {
	for {
		select {
		case mes := <-g.Conn.Messages:
			g.View.Apply(mes)
		case <-g.Conn.Closed:
			if !g.gone {
				g.gone = true
				g.View.ShowMessage("DISCONNECTED", model.ColorWarning)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.receive()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return errQuit
	}
	for k, ev := range keys {
		if inpututil.IsKeyJustPressed(k) {
			g.Conn.Send(ev)
		}
	}
	g.View.Update(1.0 / float32(ebiten.MaxTPS()))

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	if err := screen.Fill(color.RGBA{70, 70, 70, 255}); err != nil {
		log.Printf("%v", err)
	}
	g.drawBoard(screen)
	g.drawPanel(screen)
	return nil
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	v := g.View
	for r := 0; r < model.Size; r++ {
		for c := 0; c < model.Size; c++ {
			x, y := float64(margin+c*size), float64(margin+r*size)
			ebitenutil.DrawRect(screen, x+2, y+2, size-4, size-4, palette[v.Cells[r][c]].Color())
		}
	}
	for w, clr := range v.Walls {
		x, y, width, height := wallRect(w)
		ebitenutil.DrawRect(screen, x, y, width, height, palette[clr].Color())
	}
	for _, t := range v.Tokens() {
		side := float64(size-20) * float64(t.Scale)
		x := float64(margin) + float64(t.Col)*size + (size-side)/2
		y := float64(margin) + float64(t.Row)*size + (size-side)/2
		c := palette[t.Color]
		g.Token.R, g.Token.G, g.Token.B = c.r, c.g, c.b
		g.Token.SetPosition(int(x), int(y))
		g.Token.SetSize(int(side), int(side))
		g.Token.Draw(screen)
	}
	text.Draw(screen, v.Message, Font, margin, screenHeight-20, palette[v.MessageColor].Color())
	if v.Refused != "" {
		ebitenutil.DebugPrintAt(screen, v.Refused, margin, screenHeight-14)
	}
}

func wallRect(w model.Wall) (x, y, width, height float64) {
	if w.Orientation == model.Horizontal {
		return float64(margin + (w.Col-1)*size), float64(margin+w.Row*size) - wallThickness/2, 2 * size, wallThickness
	}
	return float64(margin+w.Col*size) - wallThickness/2, float64(margin + (w.Row-1)*size), wallThickness, 2 * size
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	v := g.View
	left := margin*2 + model.Size*size
	g.Panel.SetPosition(left, margin)
	g.Panel.SetSize(panelWidth-margin, model.Size*size)
	g.Panel.Draw(screen)

	x := left + 12
	white := palette[model.ColorText].Color()
	for id, panel := range v.Panels {
		y := margin + 36 + id*90
		text.Draw(screen, fmt.Sprintf("Player %d", id+1), Font, x, y, palette[model.PlayerColor(id)].Color())
		text.Draw(screen, panel, Font, x, y+28, white)
	}
	text.Draw(screen, fmt.Sprintf("Time: %d", v.Countdown), Font, x, margin+230, white)
	if v.PlayerKey >= 0 {
		text.Draw(screen, fmt.Sprintf("You: Player %d", v.PlayerKey+1), Font, x, margin+270, palette[model.PlayerColor(v.PlayerKey)].Color())
	}
	ebitenutil.DebugPrintAt(screen, v.GameID, x, margin+model.Size*size-20)
}

func main() {
	url := flag.String("url", "ws://localhost:8080/play", "game server websocket")
	debug := flag.Bool("debug", os.Getenv("QUORIDOR_DEBUG") != "", "debug logging")
	flag.Parse()
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	conn, err := client.Dial(*url)
	if err != nil {
		log.Fatalf("cant connect to %s: %v", *url, err)
	}
	defer conn.Close()

	panel, err := newFrame(.6, .6, .6)
	if err != nil {
		log.Fatal(err)
	}
	token, err := newFrame(1, 1, 1)
	if err != nil {
		log.Fatal(err)
	}
	theGame := &Game{
		View:  client.NewView(),
		Conn:  conn,
		Panel: panel,
		Token: token,
	}
	err = ebiten.Run(theGame.update, screenWidth, screenHeight, 1, "Quoridor")
	if err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
