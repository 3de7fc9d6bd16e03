package game

import (
	"encoding/binary"
	"hash/fnv"
	"strings"
)

// Size is the fixed board width and height.
const Size = 8

// WinMargin is how many disks a player must lead by to have won. The game
// stops at this margin even with empty squares left.
const WinMargin = 10

// Offsets scanned from a placement. The order fixes the order of captures
// returned by MakeMove.
var directions = [8]Move{
	{Row: -1, Col: -1}, {Row: 0, Col: -1}, {Row: 1, Col: -1},
	{Row: -1, Col: 0}, {Row: 1, Col: 0},
	{Row: -1, Col: 1}, {Row: 0, Col: 1}, {Row: 1, Col: 1},
}

// Board is the grid of disks plus whose turn it is.
// It is not safe for concurrent use; Clone it for each goroutine.
type Board struct {
	rows          [Size][Size]Cell
	CurrentPlayer Player
}

// NewBoard returns the standard opening position with Black to move.
func NewBoard() *Board {
	b := EmptyBoard()
	b.rows[3][3] = CellWhite
	b.rows[4][4] = CellWhite
	b.rows[3][4] = CellBlack
	b.rows[4][3] = CellBlack
	return b
}

// EmptyBoard returns a board with no disks and Black to move.
func EmptyBoard() *Board {
	return &Board{CurrentPlayer: PlayerBlack}
}

func inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < Size && col < Size
}

// At returns the cell at (row, col), or CellEmpty off the board.
func (b *Board) At(row, col int) Cell {
	if !inBounds(row, col) {
		return CellEmpty
	}
	return b.rows[row][col]
}

// Set overwrites a single cell without applying any rules. Coordinates off
// the board are ignored.
func (b *Board) Set(row, col int, c Cell) {
	if !inBounds(row, col) {
		return
	}
	b.rows[row][col] = c
}

// CanMoveIn reports whether the current player may place a disk at (row, col).
func (b *Board) CanMoveIn(row, col int) bool {
	if !inBounds(row, col) {
		return false
	}
	if b.rows[row][col] != CellEmpty {
		return false
	}

	own := b.CurrentPlayer.Cell()
	enemy := b.CurrentPlayer.Opponent().Cell()
	for _, d := range directions {
		passedOpponent := false
		r, c := row+d.Row, col+d.Col
		for inBounds(r, c) {
			cell := b.rows[r][c]
			if cell == enemy {
				passedOpponent = true
			} else if cell == own && passedOpponent {
				return true
			} else {
				break
			}
			r += d.Row
			c += d.Col
		}
	}
	return false
}

// MakeMove places player's disk at (row, col) and flips every flanked run.
// Legality is not checked. The result lists the placed cell first followed by
// each flipped disk, and is exactly the set of cells that changed.
// CurrentPlayer is left untouched.
func (b *Board) MakeMove(player Player, row, col int) []Move {
	if !inBounds(row, col) {
		return nil
	}

	own := player.Cell()
	enemy := player.Opponent().Cell()

	b.rows[row][col] = own
	captured := []Move{{Row: row, Col: col}}

	for _, d := range directions {
		var run []Move
		r, c := row+d.Row, col+d.Col
		for inBounds(r, c) {
			cell := b.rows[r][c]
			if cell == enemy {
				run = append(run, Move{Row: r, Col: c})
			} else if cell == own {
				for _, m := range run {
					b.rows[m.Row][m.Col] = own
				}
				captured = append(captured, run...)
				break
			} else {
				break
			}
			r += d.Row
			c += d.Col
		}
	}

	return captured
}

// Scores counts the disks of each colour.
func (b *Board) Scores() (black, white int) {
	for _, row := range b.rows {
		for _, cell := range row {
			switch cell {
			case CellBlack:
				black++
			case CellWhite:
				white++
			}
		}
	}
	return black, white
}

// Count returns how many disks player has on the board.
func (b *Board) Count(player Player) int {
	black, white := b.Scores()
	if player == PlayerBlack {
		return black
	}
	return white
}

// IsWin reports whether player leads the opponent by more than WinMargin.
func (b *Board) IsWin(player Player) bool {
	black, white := b.Scores()
	if player == PlayerBlack {
		return black > white+WinMargin
	}
	return white > black+WinMargin
}

// LegalMoves lists every cell the current player may move in, row by row.
func (b *Board) LegalMoves() []Move {
	moves := []Move{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.CanMoveIn(row, col) {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Clone returns a deep copy. The grid is an array, so nothing is shared.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

func (b *Board) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(b.CurrentPlayer))
	for _, row := range b.rows {
		for _, cell := range row {
			hasher.Write([]byte{byte(cell)})
		}
	}

	return StateHash(hasher.Sum64())
}

// String draws the grid with row 0 on top: X is Black, O is White.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.rows {
		for _, cell := range row {
			switch cell {
			case CellBlack:
				sb.WriteByte('X')
			case CellWhite:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
