package game

// Cell is the content of one board square.
type Cell int8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Player is one of the two fixed identities. It's a value: two Players are
// the same identity iff they are equal, whichever board they came from.
type Player int8

const (
	PlayerBlack Player = iota
	PlayerWhite
)

var allPlayers = [2]Player{PlayerBlack, PlayerWhite}

var opponents = [2]Player{PlayerWhite, PlayerBlack}

var cells = [2]Cell{CellBlack, CellWhite}

// Players returns both identities, Black first.
func Players() []Player {
	return []Player{allPlayers[0], allPlayers[1]}
}

func (p Player) Opponent() Player {
	return opponents[p]
}

// Cell returns the disk colour this player places.
func (p Player) Cell() Cell {
	return cells[p]
}

func (p Player) String() string {
	return p.Cell().String()
}

// PlayerFromCell maps a disk back to its owner. Empty cells have no owner.
func PlayerFromCell(c Cell) (Player, bool) {
	switch c {
	case CellBlack:
		return PlayerBlack, true
	case CellWhite:
		return PlayerWhite, true
	default:
		return PlayerBlack, false
	}
}
