package searcher

import (
	"flipper/game"
	"math"
	"sort"
)

const CSquared = 2.0 // Exploration constant c^2 with c = sqrt(2)

const Win = 1.0   // Reward for a decided win
const Loss = -Win // Reward for a decided loss, also used as virtual loss

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// SortedMoves returns the moves of policy in row-major order.
func SortedMoves(policy map[game.Move]float64) []game.Move {
	moves := make([]game.Move, 0, len(policy))
	for m := range policy {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].Row != moves[j].Row {
			return moves[i].Row < moves[j].Row
		}
		return moves[i].Col < moves[j].Col
	})
	return moves
}

// MostVisited returns the move with the highest visit count, preferring the
// first in row-major order on ties. It reports false for an empty policy.
func MostVisited(policy map[game.Move]float64) (game.Move, bool) {
	var best game.Move
	found := false
	bestVisits := 0.0
	for _, m := range SortedMoves(policy) {
		if !found || policy[m] > bestVisits {
			best, bestVisits, found = m, policy[m], true
		}
	}
	return best, found
}
