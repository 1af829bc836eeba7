package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrLayout = errors.New("invalid layout")

// Layout is a board position read from text. Cell lines hold the cells at
// even columns ('.', 'A' for player 0, 'B' for player 1) and '|' between two
// cells for a wall segment. The line below a cell line marks bottom edges
// with '-'.
//
//	. . . B . . .
//	        - -
//	. . .|. . . .
//	     |
//	. . . A . . .
type Layout struct {
	Board  *Board
	Walls  []Wall
	Tokens [2]Position
}

func ReadLayout(reader io.Reader) (*Layout, error) {
	var segV, segH [Size][Size]bool
	players := NewPlayers()
	l := &Layout{
		Board:  NewBoard(),
		Tokens: [2]Position{players[0].Position, players[1].Position},
	}
	var found [2]bool

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	lines := 0
	matrixRow := 0
	for scanner.Scan() {
		s := strings.TrimRight(scanner.Text(), " ")
		lines++
		if lines%2 == 1 {
			// real line
			if matrixRow >= Size {
				if s == "" {
					continue
				}
				return nil, fmt.Errorf("line %d: too many rows: %w", lines, ErrLayout)
			}
			if len(s) != 2*Size-1 {
				return nil, fmt.Errorf("line %d: want %d characters, got %d: %w", lines, 2*Size-1, len(s), ErrLayout)
			}
			for i, char := range s {
				matrixCol := i / 2
				if i%2 == 0 {
					switch char {
					case '.':
					case 'A', 'B':
						id := int(char - 'A')
						if found[id] {
							return nil, fmt.Errorf("line %d: player %c twice: %w", lines, char, ErrLayout)
						}
						found[id] = true
						l.Tokens[id] = Position{Row: matrixRow, Col: matrixCol}
					default:
						return nil, fmt.Errorf("line %d: unexpected cell %q: %w", lines, char, ErrLayout)
					}
					continue
				}
				switch char {
				case '|':
					segV[matrixRow][matrixCol+1] = true
				case ' ':
				default:
					return nil, fmt.Errorf("line %d: unexpected separator %q: %w", lines, char, ErrLayout)
				}
			}
			continue
		}
		// bottom wall
		for i, char := range s {
			if i%2 != 0 || char == ' ' {
				continue
			}
			if char != '-' || i/2 >= Size || matrixRow+1 >= Size {
				return nil, fmt.Errorf("line %d: unexpected edge %q: %w", lines, char, ErrLayout)
			}
			segH[matrixRow+1][i/2] = true
		}
		matrixRow++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if matrixRow < Size-1 || (matrixRow == Size-1 && lines%2 == 0) {
		return nil, fmt.Errorf("want %d rows, got %d: %w", Size, (lines+1)/2, ErrLayout)
	}

	// pair segments into walls, top to bottom and left to right
	for c := 1; c < Size; c++ {
		for r := 0; r < Size; r++ {
			if !segV[r][c] {
				continue
			}
			if r+1 >= Size || !segV[r+1][c] {
				return nil, fmt.Errorf("unpaired vertical segment at %s: %w", Position{r, c}, ErrLayout)
			}
			if err := l.add(Wall{Position: Position{Row: r + 1, Col: c}, Orientation: Vertical}); err != nil {
				return nil, err
			}
			r++
		}
	}
	for r := 1; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if !segH[r][c] {
				continue
			}
			if c+1 >= Size || !segH[r][c+1] {
				return nil, fmt.Errorf("unpaired horizontal segment at %s: %w", Position{r, c}, ErrLayout)
			}
			if err := l.add(Wall{Position: Position{Row: r, Col: c + 1}, Orientation: Horizontal}); err != nil {
				return nil, err
			}
			c++
		}
	}
	if len(l.Walls) > MaxWalls {
		return nil, fmt.Errorf("%d walls, at most %d: %w", len(l.Walls), MaxWalls, ErrLayout)
	}
	if l.Tokens[0] == l.Tokens[1] {
		return nil, fmt.Errorf("both players on %s: %w", l.Tokens[0], ErrLayout)
	}
	for _, t := range l.Tokens {
		l.Board.PlaceToken(Position{-1, -1}, t)
	}
	for id, p := range players {
		pos := l.Tokens[id]
		switch {
		case pos.Row == p.GoalRow:
			return nil, fmt.Errorf("player %c already on its goal row: %w", 'A'+id, ErrLayout)
		case !l.Board.Reachable(pos, p.GoalRow):
			return nil, fmt.Errorf("player %c cut off from its goal row: %w", 'A'+id, ErrLayout)
		}
	}
	return l, nil
}

func (l *Layout) add(w Wall) error {
	if !l.Board.WallFits(w) {
		return fmt.Errorf("wall %s crosses another: %w", w, ErrLayout)
	}
	l.Board.PlaceWall(w)
	l.Walls = append(l.Walls, w)
	return nil
}

func (l *Layout) String() string {
	return l.Board.format(func(p Position) byte {
		switch p {
		case l.Tokens[0]:
			return 'A'
		case l.Tokens[1]:
			return 'B'
		}
		return '.'
	})
}

func (b *Board) String() string {
	return b.format(func(p Position) byte {
		if b.Cell(p).Occupied {
			return 'o'
		}
		return '.'
	})
}

func (b *Board) format(token func(Position) byte) string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		line := make([]byte, 0, 2*Size-1)
		for c := 0; c < Size; c++ {
			if c > 0 {
				if b.Cells[r][c].WallV {
					line = append(line, '|')
				} else {
					line = append(line, ' ')
				}
			}
			line = append(line, token(Position{Row: r, Col: c}))
		}
		sb.Write(line)
		sb.WriteByte('\n')
		if r == Size-1 {
			break
		}
		edge := make([]byte, 2*Size-1)
		for i := range edge {
			edge[i] = ' '
		}
		for c := 0; c < Size; c++ {
			if b.Cells[r+1][c].WallH {
				edge[2*c] = '-'
			}
		}
		sb.WriteString(strings.TrimRight(string(edge), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LoadLayout reads a layout file.
func LoadLayout(path string) (*Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	l, err := ReadLayout(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
