package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten"
)

const frameBorder = 4

// newFrame builds a nine patch with an opaque border and a translucent
// center, tinted r, g, b.
func newFrame(r, g, b float64) (*Nine, error) {
	const side = 3 * frameBorder
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			inner := x >= frameBorder && x < 2*frameBorder && y >= frameBorder && y < 2*frameBorder
			if inner {
				img.Set(x, y, color.RGBA{90, 90, 90, 90})
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	frame, err := ebiten.NewImageFromImage(img, ebiten.FilterDefault)
	if err != nil {
		return nil, err
	}
	return &Nine{
		images: frame,
		alpha:  1,
		R:      r, G: g, B: b, Scale: 1,
		positions: [4][2]int{{0, 0}, {frameBorder, frameBorder}, {2 * frameBorder, 2 * frameBorder}, {side, side}},
	}, nil
}

// Nine draws a nine patch: corners keep their size, edges stretch along
// one axis and the center along both.
type Nine struct {
	images         *ebiten.Image
	alpha          float64
	R, G, B, Scale float64
	// source slice lines, outer edges included
	positions           [4][2]int
	x, y, width, height int
	// target slice lines on screen
	targetPositions [4][2]float64
}

func (n *Nine) SetPosition(x, y int) {
	n.x = x
	n.y = y
	n.SetSize(n.width, n.height)
}

func (n *Nine) SetSize(width, height int) {
	n.width = width
	n.height = height
	for axis, origin := range [2]int{n.x, n.y} {
		size := [2]int{width, height}[axis]
		n.targetPositions[0][axis] = float64(origin)
		n.targetPositions[1][axis] = float64(origin) + n.Scale*float64(n.positions[1][axis]-n.positions[0][axis])
		n.targetPositions[2][axis] = float64(origin+size) - n.Scale*float64(n.positions[3][axis]-n.positions[2][axis])
		n.targetPositions[3][axis] = float64(origin + size)
	}
}

func (n *Nine) Draw(screen *ebiten.Image) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			src := image.Rect(n.positions[col][0], n.positions[row][1], n.positions[col+1][0], n.positions[row+1][1])
			if src.Empty() {
				continue
			}
			w := n.targetPositions[col+1][0] - n.targetPositions[col][0]
			h := n.targetPositions[row+1][1] - n.targetPositions[row][1]
			if w <= 0 || h <= 0 {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(w/float64(src.Dx()), h/float64(src.Dy()))
			op.GeoM.Translate(n.targetPositions[col][0], n.targetPositions[row][1])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			screen.DrawImage(n.images.SubImage(src).(*ebiten.Image), op)
		}
	}
}
