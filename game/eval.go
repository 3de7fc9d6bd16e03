package game

var corners = [4]Move{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}}

// EvaluateDiscs compares disk counts, from the active player's perspective.
func EvaluateDiscs(m Model) float64 {
	b := boardOf(m)
	current := b.CurrentPlayer
	return normalize(float64(b.Count(current)), float64(b.Count(current.Opponent())))
}

// EvaluateMobility compares how many moves each side would have if it were
// to play next.
func EvaluateMobility(m Model) float64 {
	b := boardOf(m)
	mine := len(b.LegalMoves())

	swapped := b.Clone()
	swapped.CurrentPlayer = b.CurrentPlayer.Opponent()
	theirs := len(swapped.LegalMoves())

	return normalize(float64(mine), float64(theirs))
}

// EvaluateCorners blends disk count, mobility and corner ownership. Corners
// can never be flipped back, so they are weighted like the other two terms
// combined.
func EvaluateCorners(m Model) float64 {
	b := boardOf(m)
	current := b.CurrentPlayer.Cell()
	opponent := b.CurrentPlayer.Opponent().Cell()

	mine, theirs := 0.0, 0.0
	for _, c := range corners {
		switch b.At(c.Row, c.Col) {
		case current:
			mine++
		case opponent:
			theirs++
		}
	}
	cornerScore := normalize(mine, theirs)

	return (EvaluateDiscs(m) + EvaluateMobility(m) + 2*cornerScore) / 4
}

var evaluators = map[string]Evaluate{
	"discs":    EvaluateDiscs,
	"mobility": EvaluateMobility,
	"corners":  EvaluateCorners,
}

// EvaluatorByName looks up one of the evaluation functions above by its
// short name: discs, mobility or corners.
func EvaluatorByName(name string) (Evaluate, bool) {
	e, ok := evaluators[name]
	return e, ok
}

func boardOf(m Model) *Board {
	gm, ok := m.(*GameModel)
	if !ok {
		panic("unexpected model type")
	}
	return gm.board
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
