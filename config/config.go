package config

import (
	"errors"
	"flipper/experiments/metrics"
	"flipper/game"
	"flipper/searcher"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"FLIPPER_LOG_LEVEL" env-default:"info"`
	Search     Search     `yaml:"search"`
	Play       Play       `yaml:"play"`
	Experiment Experiment `yaml:"experiment"`
}

type Search struct {
	Goroutines  int           `yaml:"goroutines" env:"FLIPPER_GOROUTINES" env-default:"4"`
	Episodes    int           `yaml:"episodes" env:"FLIPPER_EPISODES" env-default:"100"`
	Duration    time.Duration `yaml:"duration" env:"FLIPPER_DURATION" env-default:"0s"`
	Cutoff      int           `yaml:"cutoff" env:"FLIPPER_CUTOFF" env-default:"0"`
	Exploration float64       `yaml:"exploration" env:"FLIPPER_EXPLORATION" env-default:"1"`
	Seed        uint64        `yaml:"seed" env:"FLIPPER_SEED" env-default:"0"` // 0 seeds from the clock
	Evaluator   string        `yaml:"evaluator" env:"FLIPPER_EVALUATOR" env-default:"discs"`
}

type Play struct {
	Human       string        `yaml:"human" env:"FLIPPER_HUMAN" env-default:"black"`
	TimeCeiling time.Duration `yaml:"time-ceiling" env:"FLIPPER_TIME_CEILING" env-default:"3s"`
	RevealDelay bool          `yaml:"reveal-delay" env:"FLIPPER_REVEAL_DELAY" env-default:"false"`
	NoColor     bool          `yaml:"no-color" env:"NO_COLOR" env-default:"false"`
}

type Experiment struct {
	Name      string        `yaml:"name" env:"FLIPPER_EXPERIMENT" env-default:"parallelization"`
	Games     int           `yaml:"games" env:"FLIPPER_GAMES" env-default:"10"`
	Budget    time.Duration `yaml:"budget" env:"FLIPPER_BUDGET" env-default:"10ms"`
	OutputDir string        `yaml:"output-dir" env:"FLIPPER_OUTPUT_DIR" env-default:"experiments"`
}

// Load reads the config file at path with environment overrides. Without a
// file only the environment and defaults apply.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		err := cleanenv.ReadConfig(path, config)
		if err == nil {
			return config, config.validate()
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}
	return config, config.validate()
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) validate() error {
	if c.Search.Goroutines <= 0 {
		return fmt.Errorf("search goroutines must be positive, got %d", c.Search.Goroutines)
	}
	if c.Search.Episodes <= 0 && c.Search.Duration <= 0 {
		return errors.New("search needs episodes or a duration")
	}
	if _, ok := game.EvaluatorByName(c.Search.Evaluator); !ok {
		return fmt.Errorf("unknown evaluator %q", c.Search.Evaluator)
	}
	if _, err := c.Play.HumanPlayer(); err != nil {
		return err
	}
	return nil
}

// HumanPlayer parses the human's colour.
func (p Play) HumanPlayer() (game.Player, error) {
	switch strings.ToLower(p.Human) {
	case "black":
		return game.PlayerBlack, nil
	case "white":
		return game.PlayerWhite, nil
	default:
		return game.PlayerBlack, fmt.Errorf("unknown player colour %q", p.Human)
	}
}

// Options translates the search settings into MCTS options.
func (s Search) Options() []searcher.Option {
	options := []searcher.Option{}

	if s.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(s.Episodes))
	}
	if s.Duration > 0 {
		options = append(options, searcher.WithDuration(s.Duration))
	}
	if s.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(s.Cutoff))
	}
	if s.Exploration > 0 {
		options = append(options, searcher.WithExploration(s.Exploration))
	}
	if s.Seed > 0 {
		options = append(options, searcher.WithSeed(s.Seed))
	}
	if evaluate, ok := game.EvaluatorByName(s.Evaluator); ok {
		options = append(options, searcher.WithEvaluationFn(evaluate))
	}
	return options
}

// AgentConfig describes this search for experiment reports.
func (s Search) AgentConfig(id int) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          id,
		Goroutines:  s.Goroutines,
		Duration:    s.Duration,
		Episodes:    s.Episodes,
		Cutoff:      s.Cutoff,
		Exploration: s.Exploration,
		Evaluator:   s.Evaluator,
	}
}
