package model

func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

func (b *Board) Reset() {
	*b = Board{}
}

// NewPlayers returns both players on their home rows, player 0 heading up.
func NewPlayers() [2]Player {
	return [2]Player{
		{ID: 0, Position: Position{Row: Size - 1, Col: Size / 2}, GoalRow: 0, WallsRemaining: WallsPerPlayer},
		{ID: 1, Position: Position{Row: 0, Col: Size / 2}, GoalRow: Size - 1, WallsRemaining: WallsPerPlayer},
	}
}

func (b *Board) Cell(p Position) *Cell {
	return &b.Cells[p.Row][p.Col]
}

// PlaceToken moves occupancy from one cell to another. No validation.
func (b *Board) PlaceToken(from, to Position) {
	if from.OnBoard() {
		b.Cell(from).Occupied = false
	}
	b.Cell(to).Occupied = true
}

// PlaceWall sets the paired flags of both cells the wall spans. Callers
// check WallFits first; placing the same wall twice is not supported.
func (b *Board) PlaceWall(w Wall) {
	first, second := w.Cells()
	if w.Orientation == Vertical {
		b.Cell(first).WallV = true
		b.Cell(second).WallV = true
	} else {
		b.Cell(first).WallH = true
		b.Cell(second).WallH = true
	}
	b.anchors[w.Orientation][w.Row][w.Col] = true
}

func (b *Board) HasWall(w Wall) bool {
	return w.Anchored() && b.anchors[w.Orientation][w.Row][w.Col]
}

// WallFits reports whether w can be placed: both edges free of a wall of
// the same orientation and no perpendicular wall crossing it at its middle.
func (b *Board) WallFits(w Wall) bool {
	if !w.Anchored() {
		return false
	}
	first, second := w.Cells()
	if w.Orientation == Vertical {
		if b.Cell(first).WallV || b.Cell(second).WallV {
			return false
		}
	} else {
		if b.Cell(first).WallH || b.Cell(second).WallH {
			return false
		}
	}
	return !b.anchors[w.Orientation.Flip()][w.Row][w.Col]
}

// Blocked reports whether leaving p towards d is impossible, either because
// of the board edge or because of a wall.
func (b *Board) Blocked(p Position, d Direction) bool {
	if !p.Step(d, 1).OnBoard() {
		return true
	}
	switch d {
	case Up:
		return b.Cells[p.Row][p.Col].WallH
	case Down:
		return b.Cells[p.Row+1][p.Col].WallH
	case Left:
		return b.Cells[p.Row][p.Col].WallV
	default:
		return b.Cells[p.Row][p.Col+1].WallV
	}
}

// Capability derives the movement options of a token standing on p.
// Only the straight jump over an adjacent token is supported.
func (b *Board) Capability(p Position) (c [4]Capability) {
	for _, d := range Directions {
		if b.Blocked(p, d) {
			continue
		}
		next := p.Step(d, 1)
		if !b.Cell(next).Occupied {
			c[d] = Open
			continue
		}
		if !b.Blocked(next, d) && !b.Cell(next.Step(d, 1)).Occupied {
			c[d] = OpenViaJump
		}
	}
	return
}

// Reachable runs a depth first search from p and stops at the first cell
// on goalRow.
func (b *Board) Reachable(from Position, goalRow int) bool {
	var visited [Size][Size]bool
	return b.search(from, goalRow, &visited)
}

func (b *Board) search(p Position, goalRow int, visited *[Size][Size]bool) bool {
	if p.Row == goalRow {
		return true
	}
	visited[p.Row][p.Col] = true
	for _, d := range Directions {
		if b.Blocked(p, d) {
			continue
		}
		next := p.Step(d, 1)
		if visited[next.Row][next.Col] {
			continue
		}
		if b.search(next, goalRow, visited) {
			return true
		}
	}
	return false
}

// WouldTrap reports whether placing w leaves player without any path to
// its goal row. The receiver is not modified.
func (b *Board) WouldTrap(w Wall, player Player) bool {
	if !w.Anchored() {
		return false
	}
	probe := *b
	probe.PlaceWall(w)
	return !probe.Reachable(player.Position, player.GoalRow)
}

func (p Position) Step(d Direction, n int) Position {
	switch d {
	case Up:
		p.Row -= n
	case Down:
		p.Row += n
	case Left:
		p.Col -= n
	case Right:
		p.Col += n
	}
	return p
}

func (p Position) OnBoard() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Anchored reports whether the wall anchor lies on a point walls can use.
func (w Wall) Anchored() bool {
	return w.Row >= 1 && w.Row < Size && w.Col >= 1 && w.Col < Size
}

// Cells returns the two cells whose flags the wall sets.
func (w Wall) Cells() (Position, Position) {
	if w.Orientation == Vertical {
		return Position{Row: w.Row - 1, Col: w.Col}, w.Position
	}
	return Position{Row: w.Row, Col: w.Col - 1}, w.Position
}

func (o Orientation) Flip() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Distance is the number of cells a move with this capability covers.
func (c Capability) Distance() int {
	switch c {
	case Open:
		return 1
	case OpenViaJump:
		return 2
	default:
		return 0
	}
}
