// Package engine drives a UCI chess engine process and scores positions
// for the session's top and eval commands.
package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"
)

// mateScore is the band mate results are folded into; faster mates score
// closer to the full band.
const mateScore = 100_000

// Config configures the engine process.
type Config struct {
	Path    string // engine binary, e.g. "stockfish"
	Depth   int    // search depth per evaluation
	HashMB  int    // hash table size
	Threads int    // engine threads
	Logger  zerolog.Logger
}

// Stockfish evaluates positions with a UCI engine. The process is started
// lazily on the first evaluation, so a missing binary only surfaces when a
// command actually needs the engine.
type Stockfish struct {
	cfg Config
	log zerolog.Logger

	mu  sync.Mutex
	eng *uci.Engine
}

// New returns an evaluator for the configured engine binary. No process is
// started yet.
func New(cfg Config) *Stockfish {
	if cfg.Path == "" {
		cfg.Path = "stockfish"
	}
	if cfg.Depth == 0 {
		cfg.Depth = 15
	}
	if cfg.HashMB == 0 {
		cfg.HashMB = 256
	}
	if cfg.Threads == 0 {
		cfg.Threads = 4
	}
	return &Stockfish{cfg: cfg, log: cfg.Logger}
}

// Evaluate scores the position in centipawns from white's perspective.
func (s *Stockfish) Evaluate(fen string) (int, error) {
	eng, err := s.ensure()
	if err != nil {
		return 0, err
	}
	if err := eng.SetFEN(fen); err != nil {
		return 0, fmt.Errorf("set FEN: %w", err)
	}
	results, err := eng.GoDepth(s.cfg.Depth, uci.HighestDepthOnly)
	if err != nil {
		return 0, fmt.Errorf("engine eval: %w", err)
	}
	if len(results.Results) == 0 {
		return 0, fmt.Errorf("no results from engine")
	}
	best := results.Results[0]
	for _, r := range results.Results {
		if r.Depth > best.Depth {
			best = r
		}
	}
	score := normalize(best.Score, fen, best.Mate)
	s.log.Debug().Str("fen", fen).Int("score", score).Bool("mate", best.Mate).
		Int("depth", best.Depth).Msg("position evaluated")
	return score, nil
}

// ensure starts the engine process once.
func (s *Stockfish) ensure() (*uci.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng != nil {
		return s.eng, nil
	}
	eng, err := uci.NewEngine(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("start engine %q: %w", s.cfg.Path, err)
	}
	opts := uci.Options{
		Hash:    s.cfg.HashMB,
		Threads: s.cfg.Threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := eng.SetOptions(opts); err != nil {
		eng.Close()
		return nil, fmt.Errorf("set engine options: %w", err)
	}
	s.log.Info().Str("path", s.cfg.Path).Int("depth", s.cfg.Depth).
		Int("threads", s.cfg.Threads).Msg("engine started")
	s.eng = eng
	return eng, nil
}

// Close stops the engine process if one was started.
func (s *Stockfish) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng != nil {
		s.eng.Close()
		s.eng = nil
	}
}

// normalize converts an engine score, reported from the side to move, to
// white's perspective; mates are folded into the mate band, nearer mates
// scoring higher.
func normalize(score int, fen string, mate bool) int {
	if strings.Contains(fen, " b ") {
		score = -score
	}
	if !mate {
		return score
	}
	if score >= 0 {
		return mateScore - score
	}
	return -mateScore - score
}
