package searcher

import (
	"flipper/game"
	"sync"
)

// decision is a tree node for one game state. Its statistics are kept from
// the perspective of mover, the player whose move led into this state, which
// is what the parent needs when picking among its children.
type decision struct {
	sync.RWMutex
	parent     *decision
	mover      game.Player
	hash       game.StateHash
	cSquared   float64
	unexplored []game.Move
	explored   []game.Move
	children   []*decision
	rewards    float64
	visits     float64
}

func newDecision(parent *decision, mover game.Player, model game.Model) *decision {
	cSquared := CSquared
	if parent != nil {
		cSquared = parent.cSquared
	}

	moves := model.UpdatesFor(model.ActivePlayer())
	unexplored := make([]game.Move, len(moves))
	copy(unexplored, moves)

	return &decision{
		parent:     parent,
		mover:      mover,
		hash:       hashOf(model),
		cSquared:   cSquared,
		unexplored: unexplored,
		explored:   make([]game.Move, 0, len(moves)),
		children:   make([]*decision, 0, len(moves)),
	}
}

func hashOf(model game.Model) game.StateHash {
	if h, ok := model.(game.Hasher); ok {
		return h.Hash()
	}
	return 0
}

// SelectOrExpand advances model (which the caller owns) by one move down the
// tree. It returns the child reached and whether it was an already explored
// child (selection) rather than a new one (expansion). A terminal node
// returns itself.
func (d *decision) SelectOrExpand(model game.Model) (*decision, game.Model, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.children) == 0 { // Terminal node
		return d, model, false
	}

	if len(d.unexplored) > 0 { // Expandable node
		child := d.expand(model)
		child.applyLoss()
		return child, model, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	model.Apply(d.explored[ith])
	child.applyLoss()
	return child, model, true
}

func (d *decision) expand(model game.Model) *decision {
	last := len(d.unexplored) - 1
	move := d.unexplored[last]
	d.unexplored = d.unexplored[:last]

	mover := model.ActivePlayer()
	model.Apply(move)
	child := newDecision(d, mover, model)

	d.explored = append(d.explored, move)
	d.children = append(d.children, child)
	return child
}

func (d *decision) pickChild() int {
	policy := newUCT(d.cSquared, max(d.visits, 1))

	maxIndex := -1
	maxScore := 0.0
	for i, child := range d.children {
		rewards, visits := child.stats()
		score := policy.evaluate(rewards, visits)
		if maxIndex < 0 || score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) stats() (rewards float64, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// Backup records an outcome worth score to player and returns the parent.
func (d *decision) Backup(player game.Player, score float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += computeReward(player, score, d.mover)
	d.visits++

	return d.parent
}

// Policy returns the visit count of every explored move.
func (d *decision) Policy() map[game.Move]float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make(map[game.Move]float64, len(d.children))
	for i, child := range d.children {
		_, visits := child.stats()
		policy[d.explored[i]] = visits
	}
	return policy
}

func (d *decision) child(move game.Move) (*decision, bool) {
	d.RLock()
	defer d.RUnlock()

	for i, m := range d.explored {
		if m == move {
			return d.children[i], true
		}
	}
	return nil, false
}

func computeReward(player game.Player, score float64, mover game.Player) float64 {
	if player == mover {
		return score
	}
	return -score
}
