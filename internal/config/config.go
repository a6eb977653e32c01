// Package config loads engine and simulator configuration from a YAML file
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Sim     SimConfig     `mapstructure:"sim"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// GameConfig controls engine construction.
type GameConfig struct {
	HandSize     int    `mapstructure:"hand_size"`
	CascadeLimit int    `mapstructure:"cascade_limit"`
	Seed         int64  `mapstructure:"seed"`          // 0 = time-based
	CardSetPath  string `mapstructure:"card_set_path"` // empty = embedded default set
}

// SimConfig controls the self-play simulator.
type SimConfig struct {
	Games    int `mapstructure:"games"`
	MaxTurns int `mapstructure:"max_turns"`
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults and NPZR_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.hand_size", 5)
	v.SetDefault("game.cascade_limit", 50)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.card_set_path", "")
	v.SetDefault("sim.games", 100)
	v.SetDefault("sim.max_turns", 2000)

	v.SetEnvPrefix("NPZR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, missing := err.(viper.ConfigFileNotFoundError); !missing && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if c.Game.HandSize < 1 {
		return fmt.Errorf("hand_size must be at least 1")
	}
	if c.Game.CascadeLimit < 1 {
		return fmt.Errorf("cascade_limit must be at least 1")
	}
	if c.Sim.Games < 1 {
		return fmt.Errorf("sim.games must be at least 1")
	}
	if c.Sim.MaxTurns < 1 {
		return fmt.Errorf("sim.max_turns must be at least 1")
	}
	return nil
}
