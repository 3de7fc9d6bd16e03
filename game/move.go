package game

import "fmt"

// Move is a placement at (Row, Col). It is also the update token handed to
// search algorithms, so it must stay comparable.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) InBounds() bool {
	return inBounds(m.Row, m.Col)
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
