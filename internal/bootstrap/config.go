// Package bootstrap loads the tool's configuration: built-in defaults,
// optionally overridden by a config file.
package bootstrap

import (
	"time"

	"github.com/spf13/viper"
)

// Config collects engine and statistics settings.
type Config struct {
	EnginePath      string        `mapstructure:"ENGINE_PATH"`
	EngineDepth     int           `mapstructure:"ENGINE_DEPTH"`
	EngineThreads   int           `mapstructure:"ENGINE_THREADS"`
	EngineHashMB    int           `mapstructure:"ENGINE_HASH_MB"`
	ExplorerURL     string        `mapstructure:"EXPLORER_URL"`
	ExplorerSpeeds  string        `mapstructure:"EXPLORER_SPEEDS"`
	ExplorerRatings string        `mapstructure:"EXPLORER_RATINGS"`
	ExplorerMoves   int           `mapstructure:"EXPLORER_MOVES"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	Verbose         bool          `mapstructure:"VERBOSE"`
}

// Setup returns the configuration, reading cfgPath when it is non-empty.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("ENGINE_PATH", "stockfish")
	v.SetDefault("ENGINE_DEPTH", 15)
	v.SetDefault("ENGINE_THREADS", 4)
	v.SetDefault("ENGINE_HASH_MB", 256)
	v.SetDefault("EXPLORER_URL", "https://explorer.lichess.ovh/lichess")
	v.SetDefault("EXPLORER_SPEEDS", "blitz,rapid")
	v.SetDefault("EXPLORER_RATINGS", "1200,1400,1600,1800,2000")
	v.SetDefault("EXPLORER_MOVES", 20)
	v.SetDefault("REQUEST_TIMEOUT", 15*time.Second)
	v.SetDefault("VERBOSE", false)

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
