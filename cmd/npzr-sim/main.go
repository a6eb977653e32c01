// npzr-sim plays NPZR games against itself with a uniformly random legal
// policy, exercising the whole public engine API. It is both a demo of the
// AI-consumer contract and a soak test for cascade termination and card
// conservation.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/npzr-game/npzr-engine-go/internal/config"
	"github.com/npzr-game/npzr-engine-go/internal/game"
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	games      = flag.Int("games", 0, "number of games to simulate (overrides config)")
	seed       = flag.Int64("seed", 0, "base RNG seed (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.Sim.Games = *games
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	set := cards.DefaultSet()
	if cfg.Game.CardSetPath != "" {
		set, err = cards.LoadSet(cfg.Game.CardSetPath)
		if err != nil {
			logger.Fatal("failed to load card set", zap.Error(err))
		}
	}

	baseSeed := cfg.Game.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	logger.Info("starting self-play simulation",
		zap.Int("games", cfg.Sim.Games),
		zap.Int64("base_seed", baseSeed),
		zap.String("card_set", set.Name),
	)

	wins := make(map[string]int)
	unfinished := 0
	start := time.Now()
	for i := 0; i < cfg.Sim.Games; i++ {
		gameSeed := baseSeed + int64(i)
		winner, done, err := playOne(logger, cfg, set, gameSeed)
		if err != nil {
			logger.Fatal("simulation aborted", zap.Int("game", i), zap.Error(err))
		}
		if !done {
			unfinished++
			continue
		}
		wins[winner]++
	}

	logger.Info("simulation finished",
		zap.Int("games", cfg.Sim.Games),
		zap.Int("first_seat_wins", wins["p0"]),
		zap.Int("second_seat_wins", wins["p1"]),
		zap.Int("unfinished", unfinished),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// playOne runs a single game to completion (or the turn cap) with a random
// policy and reports the winning seat as "p0" or "p1".
func playOne(logger *zap.Logger, cfg *config.Config, set *cards.Set, gameSeed int64) (string, bool, error) {
	engine := game.NewEngine(logger,
		game.WithSeed(gameSeed),
		game.WithHandSize(cfg.Game.HandSize),
		game.WithCascadeLimit(cfg.Game.CascadeLimit),
		game.WithCardSet(set),
	)
	if err := engine.CreateGame(); err != nil {
		return "", false, err
	}
	p0, err := engine.AddPlayer("Alice")
	if err != nil {
		return "", false, err
	}
	p1, err := engine.AddPlayer("Bob")
	if err != nil {
		return "", false, err
	}

	rng := rand.New(rand.NewSource(gameSeed ^ 0x5eed))
	for turn := 0; turn < cfg.Sim.MaxTurns && !engine.IsGameFinished(); turn++ {
		playRandomTurn(engine, rng)
		if res := engine.ValidateGameState(); !res.Valid {
			return "", false, fmt.Errorf("invariant violation on turn %d: %v", turn, res.Errors)
		}
	}

	winnerID, ok := engine.GetWinner()
	if !ok {
		return "", false, nil
	}
	if winnerID == p0 {
		return "p0", true, nil
	}
	if winnerID == p1 {
		return "p1", true, nil
	}
	return "", false, fmt.Errorf("unknown winner %s", winnerID)
}

// playRandomTurn drives one full turn through the sequential API.
func playRandomTurn(engine *game.Engine, rng *rand.Rand) {
	if engine.StartTurn() == rules.SignalEndTurn {
		return
	}
	for steps := 0; steps < 100; steps++ {
		if engine.IsGameFinished() {
			return
		}
		if engine.IsAwaitingMove() {
			resolveAwaitedMove(engine, rng)
			continue
		}
		if _, active := engine.GetCurrentTurnState(); !active {
			return // turn ended
		}
		hand := engine.GetPlayerHand(engine.GetCurrentPlayer())
		if len(hand) == 0 {
			engine.EndTurn()
			return
		}
		sig := engine.PlayCard(randomPlay(engine, rng, hand))
		switch sig {
		case rules.SignalEndTurn:
			return
		case rules.SignalContinue:
			// Either a rejection or a fast-card continuation; half the time
			// decline the extra play.
			if engine.CanPlayAnotherCard() && rng.Intn(2) == 0 {
				engine.EndTurn()
				return
			}
		}
	}
	engine.EndTurn()
}

// randomPlay picks a random card, target, and (for wilds) legal nomination.
func randomPlay(engine *game.Engine, rng *rand.Rand, hand []game.CardView) rules.PlayAction {
	card := hand[rng.Intn(len(hand))]
	action := rules.PlayAction{CardID: card.ID}

	if card.Fast {
		noms := engine.GetPossibleNominations(card.ID)
		if len(noms) > 0 {
			nom := noms[rng.Intn(len(noms))]
			action.Nomination = &nom
		}
	}

	stacks := engine.GetStacks()
	if len(stacks) > 0 && rng.Intn(3) != 0 {
		action.TargetStackID = stacks[rng.Intn(len(stacks))].ID
	}
	return action
}

// resolveAwaitedMove spends or skips a banked relocation at random.
func resolveAwaitedMove(engine *game.Engine, rng *rand.Rand) {
	stacks := engine.GetStacks()
	if len(stacks) == 0 || rng.Intn(2) == 0 {
		engine.SkipMove()
		return
	}
	src := stacks[rng.Intn(len(stacks))]
	for _, pile := range src.Piles {
		if len(pile.Cards) == 0 {
			continue
		}
		top := pile.Cards[len(pile.Cards)-1]
		mv := rules.MoveAction{
			CardID:      top.ID,
			FromStackID: src.ID,
			FromPile:    pile.BodyPart,
			ToStackID:   rules.NewStackTarget,
			ToPile:      randomBodyPart(rng),
		}
		if len(stacks) > 1 && rng.Intn(2) == 0 {
			dest := stacks[rng.Intn(len(stacks))]
			if dest.ID != src.ID {
				mv.ToStackID = dest.ID
			}
		}
		if engine.ExecuteTurnMove(mv) != rules.SignalContinue || !engine.IsAwaitingMove() {
			return
		}
	}
	engine.SkipMove()
}

func randomBodyPart(rng *rand.Rand) cards.BodyPart {
	parts := cards.BodyParts()
	return parts[rng.Intn(len(parts))]
}

// initLogger builds the zap logger from configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
