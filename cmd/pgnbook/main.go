package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pgnbook/internal/bootstrap"
	"pgnbook/internal/engine"
	"pgnbook/internal/explorer"
	"pgnbook/internal/repl"
	"pgnbook/internal/session"
)

var (
	startMoves string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "pgnbook",
	Short:        "Interactively build a chess opening tree and export it as PGN",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&startMoves, "start", "s", "", "comma-separated starting moves (SAN or UCI)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap.Setup(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := zerolog.InfoLevel
	if verbose || cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	eval := engine.New(engine.Config{
		Path:    cfg.EnginePath,
		Depth:   cfg.EngineDepth,
		Threads: cfg.EngineThreads,
		HashMB:  cfg.EngineHashMB,
		Logger:  log,
	})
	defer eval.Close()

	stats := explorer.New(explorer.Config{
		BaseURL: cfg.ExplorerURL,
		Speeds:  cfg.ExplorerSpeeds,
		Ratings: cfg.ExplorerRatings,
		Moves:   cfg.ExplorerMoves,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})

	sess, err := session.NewWithStart(splitStart(startMoves), eval, stats, log)
	if err != nil {
		return fmt.Errorf("bad starting moves: %w", err)
	}

	return repl.New(sess, os.Stdin, os.Stdout, log).Run(cmd.Context())
}

func splitStart(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	moves := make([]string, 0, len(raw))
	for _, m := range raw {
		if m = strings.TrimSpace(m); m != "" {
			moves = append(moves, m)
		}
	}
	return moves
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
