package model

import "fmt"

func (o Orientation) Name() string {
	switch o {
	case Vertical:
		return "VERTICAL"
	case Horizontal:
		return "HORIZONTAL"
	default:
		return fmt.Sprintf("n/a:%d", o)
	}
}

func (d Direction) Name() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return fmt.Sprintf("n/a:%d", d)
	}
}

func (c Capability) Name() string {
	switch c {
	case Blocked:
		return "BLOCKED"
	case Open:
		return "OPEN"
	case OpenViaJump:
		return "JUMP"
	default:
		return fmt.Sprintf("n/a:%d", c)
	}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (w Wall) String() string {
	return fmt.Sprintf("%s@%s", w.Orientation.Name(), w.Position)
}

// Options lists the cells a player standing on p could move to.
func Options(p Position, c [4]Capability) []Position {
	cells := make([]Position, 0, 4)
	for _, d := range Directions {
		if c[d] != Blocked {
			cells = append(cells, p.Step(d, c[d].Distance()))
		}
	}
	return cells
}
