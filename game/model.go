package game

// GameModel exposes a Board through the Model contract. It holds no rules of
// its own; everything is delegated to the board.
type GameModel struct {
	board *Board
}

var (
	_ Model = (*GameModel)(nil)
	_ Judge  = (*GameModel)(nil)
	_ Hasher = (*GameModel)(nil)
)

// NewGameModel wraps board. The model and the caller share the board until
// one of them clones it.
func NewGameModel(board *Board) *GameModel {
	return &GameModel{board: board}
}

func (g *GameModel) Board() *Board {
	return g.board
}

func (g *GameModel) Players() []Player {
	return Players()
}

func (g *GameModel) ActivePlayer() Player {
	return g.board.CurrentPlayer
}

func (g *GameModel) UpdatesFor(player Player) []Move {
	if g.board.IsWin(player) || g.board.IsWin(player.Opponent()) {
		return nil
	}
	return g.board.LegalMoves()
}

func (g *GameModel) Apply(m Move) {
	g.board.MakeMove(g.board.CurrentPlayer, m.Row, m.Col)
	g.board.CurrentPlayer = g.board.CurrentPlayer.Opponent()
}

func (g *GameModel) CloneState() Model {
	return &GameModel{board: g.board.Clone()}
}

func (g *GameModel) IsWin(player Player) bool {
	return g.board.IsWin(player)
}

// IsTerminal reports whether the active player has nothing left to play,
// either because the margin was reached or because no move is legal.
func (g *GameModel) IsTerminal() bool {
	return len(g.UpdatesFor(g.ActivePlayer())) == 0
}

// Winner returns the player who reached the winning margin, if any.
func (g *GameModel) Winner() (Player, bool) {
	for _, p := range allPlayers {
		if g.board.IsWin(p) {
			return p, true
		}
	}
	return PlayerBlack, false
}

func (g *GameModel) Hash() StateHash {
	return g.board.Hash()
}
