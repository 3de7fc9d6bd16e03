package searcher

import (
	"context"
	"flipper/experiments/metrics"
	"flipper/game"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MaxCutoff never cuts a rollout short: every move fills a square, so no
// game lasts longer than the board has squares.
const MaxCutoff = game.Size * game.Size

type Option func(mcts *MCTS)

// Segment is one move played since the last search, with the hash of the
// state it produced.
type Segment struct {
	Move      game.Move
	StateHash game.StateHash
}

// MCTS is a tree-parallel Monte Carlo tree search. A single MCTS keeps its
// tree between calls to Simulate so it must not be shared across games or
// called concurrently.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	cSquared   float64
	seed       uint64
	evaluate   game.Evaluate
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

// WithExploration sets the exploration parameter c of the UCT formula.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.cSquared = c * c
		}
	}
}

// WithSeed makes rollouts reproducible for a single goroutine.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: goroutines,
		cutoff:     MaxCutoff,
		cSquared:   CSquared,
		seed:       uint64(time.Now().UnixNano()),
		evaluate:   game.EvaluateDiscs,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.goroutines <= 0 {
		panic("Must use at least one goroutine")
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from model and returns the visit count of each move
// available to the active player. path lists the moves played since the
// previous call; when they lead to a node of the old tree, that subtree is
// reused. model is never mutated. Cancelling ctx stops the search early.
func (m *MCTS) Simulate(ctx context.Context, model game.Model, path []Segment) (map[game.Move]float64, metrics.SearchMetric) {
	m.findRoot(path, model)

	// Each worker explores its own copy of the root state
	roots := make([]game.Model, m.goroutines)
	rngs := make([]*rand.Rand, m.goroutines)
	for i := range roots {
		roots[i] = model.CloneState()
		rngs[i] = rand.New(rand.NewSource(m.seed + uint64(i)))
	}
	m.seed += uint64(m.goroutines)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(ctx, roots, rngs)
	} else {
		m.countdown(ctx, roots, rngs)
	}
	metric := m.metrics.Complete()

	// Output move policy and move finding metrics
	policy := m.root.Policy()
	return policy, metric
}

func (m *MCTS) iterate(ctx context.Context, roots []game.Model, rngs []*rand.Rand) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(root game.Model, rng *rand.Rand) {
			defer wg.Done()

			for range task {
				if ctx.Err() != nil {
					return
				}
				m.simulate(root, rng)
				m.metrics.AddEpisode()
			}
		}(roots[i], rngs[i])
	}

	wg.Wait()
}

func (m *MCTS) countdown(ctx context.Context, roots []game.Model, rngs []*rand.Rand) {
	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(root game.Model, rng *rand.Rand) {
			defer wg.Done()

			for ctx.Err() == nil {
				m.simulate(root, rng)
				m.metrics.AddEpisode()
			}
		}(roots[i], rngs[i])
	}

	wg.Wait()
}

func (m *MCTS) findRoot(path []Segment, model game.Model) {
	root := traverse(m.root, path)
	if root == nil || root.hash != hashOf(model) {
		m.root = newDecision(nil, model.ActivePlayer().Opponent(), model)
		m.root.cSquared = m.cSquared
		m.metrics.SetTreeReset(true)
		return
	}

	root.Lock()
	root.parent = nil
	root.Unlock()
	m.root = root
	m.metrics.SetTreeReset(false)
}

func traverse(root *decision, path []Segment) *decision {
	if root == nil || len(path) == 0 {
		return nil
	}

	node := root
	for _, segment := range path {
		child, ok := node.child(segment.Move)
		if !ok { // Node has not expanded this move
			return nil
		}
		if child.hash != segment.StateHash {
			log.Warn().Msgf("node's state hash %d does not match segment's state hash %d", child.hash, segment.StateHash)
			return nil
		}
		node = child
	}
	return node
}

func (m *MCTS) simulate(root game.Model, rng *rand.Rand) {
	state := root.CloneState()
	newNode, state := selectThenExpand(m.root, state)
	player, score := rollout(state, m.cutoff, m.evaluate, rng, m.metrics)
	backup(newNode, player, score)
}

func selectThenExpand(root *decision, state game.Model) (*decision, game.Model) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

func rollout(state game.Model, cutoff int, evaluate game.Evaluate, rng *rand.Rand, metrics metrics.Collector) (game.Player, float64) {
	depth := 0
	moves := state.UpdatesFor(state.ActivePlayer())
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && (depth < cutoff) {
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		state.Apply(move)
		moves = state.UpdatesFor(state.ActivePlayer())
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		metrics.AddFullPlayout()
		if judge, ok := state.(game.Judge); ok {
			for _, p := range state.Players() {
				if judge.IsWin(p) {
					return p, Win
				}
			}
		}
	}

	// Undecided or cut off: score the position from the current player's perspective
	return state.ActivePlayer(), evaluate(state)
}

func backup(newNode *decision, player game.Player, score float64) {
	node := newNode
	for node != nil {
		parent := node.Backup(player, score)
		node = parent
	}
}
