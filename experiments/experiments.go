package experiments

import (
	"context"
	"flipper/engine"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
	"flipper/searcher/agent"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Experiment pairs agent configurations. Within a matchup both agents get
// the same number of games as Black.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

var experiments = map[string]func(budget time.Duration) Experiment{
	"throughput":      Throughput,
	"parallelization": Parallelization,
	"cutoff":          Cutoff,
	"evaluation":      Evaluation,
}

// Names lists the experiments ByName knows.
func Names() []string {
	names := make([]string, 0, len(experiments))
	for name := range experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ByName(name string, budget time.Duration) (Experiment, error) {
	build, ok := experiments[name]
	if !ok {
		return Experiment{}, fmt.Errorf("unknown experiment %q, want one of %s", name, strings.Join(Names(), ", "))
	}
	return build(budget), nil
}

func parallelConfigs(budget time.Duration) []metrics.AgentConfig {
	return []metrics.AgentConfig{
		{ID: 1, Goroutines: 1, Duration: budget},
		{ID: 2, Goroutines: 2, Duration: budget},
		{ID: 3, Goroutines: 4, Duration: budget},
		{ID: 4, Goroutines: 8, Duration: budget},
		{ID: 5, Goroutines: 16, Duration: budget},
	}
}

// Throughput plays each configuration against itself for the same playing
// strength and similar game length.
func Throughput(budget time.Duration) Experiment {
	configs := parallelConfigs(budget)
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}
	return Experiment{Name: "throughput", Configs: configs, MatchUps: matchUps}
}

// Parallelization pairs each configuration against the sequential baseline.
func Parallelization(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: budget}
	configs := parallelConfigs(budget)
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{Name: "parallelization", Configs: append(configs, baseline), MatchUps: matchUps}
}

// Cutoff pairs full playouts against rollouts cut short and scored by the
// evaluation function. A game lasts at most 60 moves.
func Cutoff(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 4, Duration: budget}
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Duration: budget, Cutoff: 5},
		{ID: 2, Goroutines: baseline.Goroutines, Duration: budget, Cutoff: 15},
		{ID: 3, Goroutines: baseline.Goroutines, Duration: budget, Cutoff: 30},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{Name: "cutoff", Configs: append(configs, baseline), MatchUps: matchUps}
}

// Evaluation compares the evaluation functions at a fixed rollout cutoff.
func Evaluation(budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 4, Duration: budget, Cutoff: 10, Evaluator: "discs"}
	configs := []metrics.AgentConfig{
		{ID: 1, Goroutines: baseline.Goroutines, Duration: budget, Cutoff: baseline.Cutoff, Evaluator: "mobility"},
		{ID: 2, Goroutines: baseline.Goroutines, Duration: budget, Cutoff: baseline.Cutoff, Evaluator: "corners"},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{Name: "evaluation", Configs: append(configs, baseline), MatchUps: matchUps}
}

type Runner struct {
	Games     int // Per matchup
	OutputDir string
	Seed      uint64
}

// Run plays every matchup and writes the records and a win chart under
// OutputDir. It returns the directory the reports were written to.
func (r Runner) Run(ctx context.Context, e Experiment) (string, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	results := []metrics.MatchupResult{}
	seed := r.Seed

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(e.MatchUps), matchup[0], matchup[1])
		result := metrics.MatchupResult{Agent1: matchup[0].ID, Agent2: matchup[1].ID}

		for i := 0; i < r.Games; i++ {
			// Alternate the starting agent
			black, white := matchup[0], matchup[1]
			if i%2 == 1 {
				black, white = white, black
			}

			winner, gameMetric, moveMetrics, err := runGame(ctx, black, white, seed)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			seed += 2

			switch {
			case winner == "":
				result.Draws++
			case (winner == game.PlayerBlack.String()) == (i%2 == 0):
				result.Wins1++
			default:
				result.Wins2++
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     black.ID,
				Agent2:     white.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(e.MatchUps), i+1, winner)
		}

		results = append(results, result)
		log.Info().Msgf("completed matchup %d of %d: %+v", mi+1, len(e.MatchUps), result)
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	return r.store(e, gameRecords, moveRecords, results)
}

func (r Runner) store(e Experiment, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord, results []metrics.MatchupResult) (string, error) {
	writer, err := metrics.NewWriter(r.OutputDir, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err = writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err = writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err = writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	if err = writer.WriteWinChart(e.Name, results); err != nil {
		return "", fmt.Errorf("failed to write win chart: %w", err)
	}
	log.Info().Msgf("stored %s experiment results in %s", e.Name, writer.Dir())

	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, black, white metrics.AgentConfig, seed uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := []agent.Agent{
		agent.NewEvaluationAgent(CreateMCTS(black, seed)),
		agent.NewEvaluationAgent(CreateMCTS(white, seed+1)),
	}
	e := engine.LocalEngine(nil, agents)

	return e.Run(ctx)
}

// CreateMCTS builds a search with metrics collection from config.
func CreateMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if evaluate, ok := game.EvaluatorByName(config.Evaluator); ok {
		options = append(options, searcher.WithEvaluationFn(evaluate))
	}
	if seed > 0 {
		options = append(options, searcher.WithSeed(seed))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(config.Goroutines, options...)
}
