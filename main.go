package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"flipper/config"
	"flipper/experiments"
	"flipper/gamemaster"
	"flipper/render"
	"flipper/searcher"
	"flipper/searcher/agent"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	experiment := flag.String("experiment", "", "Experiment to run, overrides the config")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [play|experiment]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mode := "play"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}

	var err error
	switch mode {
	case "play":
		err = play(ctx, cfg, os.Stdin, os.Stdout)
	case "experiment":
		if *experiment != "" {
			cfg.Experiment.Name = *experiment
		}
		err = runExperiment(ctx, cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", mode)
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func runExperiment(ctx context.Context, cfg *config.Config) error {
	e, err := experiments.ByName(cfg.Experiment.Name, cfg.Experiment.Budget)
	if err != nil {
		return err
	}
	runner := experiments.Runner{
		Games:     cfg.Experiment.Games,
		OutputDir: cfg.Experiment.OutputDir,
		Seed:      cfg.Search.Seed,
	}
	_, err = runner.Run(ctx, e)
	return err
}

func play(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	human, err := cfg.Play.HumanPlayer()
	if err != nil {
		return err
	}

	mcts := searcher.NewMCTS(cfg.Search.Goroutines, cfg.Search.Options()...)
	options := []gamemaster.Option{
		gamemaster.WithHumanPlayer(human),
		gamemaster.WithTimeCeiling(cfg.Play.TimeCeiling),
	}
	if cfg.Play.RevealDelay {
		options = append(options, gamemaster.WithRevealDelay())
	}
	session := gamemaster.NewSession(agent.NewEvaluationAgent(mcts), options...)
	r := render.NewRenderer(out, !cfg.Play.NoColor, true)
	scanner := bufio.NewScanner(in)

	for !session.IsOver() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !session.IsHumanTurn() {
			if err := agentTurn(ctx, session, r); err != nil {
				return err
			}
			showUpdates(r, session)
			continue
		}

		r.Board(session.Board(), nil)
		fmt.Fprint(out, "your move (row col, q to quit): ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			return nil
		}

		var row, col int
		if _, err := fmt.Sscanf(line, "%d %d", &row, &col); err != nil {
			r.Error(errors.New("enter a row and a column, e.g. 2 3"))
			continue
		}
		if _, err := session.Play(row, col); err != nil {
			r.Error(err)
			continue
		}
		showUpdates(r, session)
	}

	r.Board(session.Board(), nil)
	if winner, ok := session.Winner(); ok {
		fmt.Fprintf(out, "%s wins\n", winner)
	} else {
		fmt.Fprintln(out, "no moves left, nobody reached the winning margin")
	}
	return nil
}

// agentTurn waits for the agent's move, drawing its choice once it is known
// and before it is applied.
func agentTurn(ctx context.Context, session *gamemaster.Session, r *render.Renderer) error {
	done := make(chan error, 1)
	go func() {
		_, err := session.PlayAgent(ctx)
		done <- err
	}()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	shown := false
	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			if shown {
				continue
			}
			if move, ok := session.Pending(); ok {
				r.Board(session.Board(), &move)
				shown = true
			}
		}
	}
}

// showUpdates prints the moves published since the last call.
func showUpdates(r *render.Renderer, session *gamemaster.Session) {
	for {
		select {
		case u, ok := <-session.Updates():
			if !ok {
				return
			}
			r.Captured(u.Player, u.Captured)
		default:
			return
		}
	}
}
