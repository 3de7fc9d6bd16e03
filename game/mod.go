package game

type StateHash uint64

// Model is what a search algorithm needs from a game: who plays, whose turn
// it is, which updates are legal, how to apply one and how to branch off an
// independent copy. Implementations are not safe for concurrent use; search
// code must CloneState before handing a model to another goroutine.
type Model interface {
	Players() []Player
	ActivePlayer() Player
	// UpdatesFor returns nil once the game is decided.
	UpdatesFor(player Player) []Move
	// Apply plays m for the active player and passes the turn.
	Apply(m Move)
	CloneState() Model
}

// Judge is implemented by models that can tell when a player has won.
type Judge interface {
	IsWin(player Player) bool
}

// Hasher is implemented by models that can fingerprint their state.
type Hasher interface {
	Hash() StateHash
}

// Evaluate scores a non-terminal model between -1 and 1 from the active
// player's perspective (positive is favourable).
type Evaluate func(Model) float64
