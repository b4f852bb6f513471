// Package session is the command layer of the opening builder: it owns the
// move tree and its cursor for one interactive run and post-processes the
// results of the external engine and statistics services. The collaborators
// are injected as interfaces so the tree engine stays free of process and
// network code.
package session

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	chess "github.com/corentings/chess/v2"
	"github.com/rs/zerolog"

	"pgnbook/internal/explorer"
	"pgnbook/internal/tree"
)

// Evaluator scores a position in centipawns from white's perspective.
type Evaluator interface {
	Evaluate(fen string) (int, error)
}

// StatsProvider returns candidate moves with play counts for a position.
type StatsProvider interface {
	TopMoves(ctx context.Context, fen string) ([]explorer.MoveStats, error)
}

// CollaboratorError wraps a failure of an external service. The command
// that hit it is aborted; tree and cursor are left untouched.
type CollaboratorError struct {
	Name string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Name, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// RankedMove is a candidate move combined with its engine score.
type RankedMove struct {
	SAN   string
	UCI   string
	Games int
	Score int // centipawns, white's perspective
}

// Session holds the tree and cursor for one interactive run.
type Session struct {
	tree   *tree.Tree
	walker *tree.Walker
	eval   Evaluator
	stats  StatsProvider
	log    zerolog.Logger
}

// New returns a session over a fresh tree at the starting position.
func New(eval Evaluator, stats StatsProvider, log zerolog.Logger) *Session {
	t := tree.New()
	return &Session{
		tree:   t,
		walker: tree.NewWalker(t),
		eval:   eval,
		stats:  stats,
		log:    log,
	}
}

// NewWithStart seeds the tree's main line with the given moves and leaves
// the cursor at the end of that line. A bad seed move fails with the
// offending token.
func NewWithStart(startMoves []string, eval Evaluator, stats StatsProvider, log zerolog.Logger) (*Session, error) {
	s := New(eval, stats, log)
	if len(startMoves) == 0 {
		return s, nil
	}
	if _, err := s.tree.AddMoves(s.tree.Root(), startMoves); err != nil {
		return nil, err
	}
	// Walk to the seeded frontier so the first prompt shows the line's end.
	if _, err := s.walker.Advance(); err != nil {
		return nil, err
	}
	s.log.Debug().Int("moves", len(startMoves)).Str("fen", s.FEN()).Msg("seeded starting line")
	return s, nil
}

// Current returns the node the cursor is positioned at.
func (s *Session) Current() *tree.Node { return s.walker.Current() }

// FEN returns the FEN of the current position.
func (s *Session) FEN() string { return s.Current().FEN() }

// Add plays the tokens as a line from the current position and returns the
// last node reached. Moves added before a failing token are kept.
func (s *Session) Add(tokens []string) (*tree.Node, error) {
	last, err := s.tree.AddMoves(s.Current(), tokens)
	if err != nil {
		return last, err
	}
	s.log.Debug().Strs("moves", tokens).Str("fen", last.FEN()).Msg("line added")
	return last, nil
}

// Next advances the cursor to the next position that still needs work.
// tree.ErrExhausted signals that every line is closed.
func (s *Session) Next() (*tree.Node, error) {
	return s.walker.Advance()
}

// MarkTerminal closes the current position against further expansion.
func (s *Session) MarkTerminal() {
	s.tree.MarkTerminal(s.Current())
}

// RenderTree returns the indented tree listing and its line count.
func (s *Session) RenderTree() (string, int) {
	root := s.tree.Root()
	return s.tree.Render(root), s.tree.CountLines(root)
}

// Lines returns every complete line as its own numbered movetext.
func (s *Session) Lines() []string {
	return s.tree.FlattenedLines()
}

// Describe returns a human-readable view of the current node: FEN, board,
// and whether the node is closed.
func (s *Session) Describe() string {
	n := s.Current()
	status := "open"
	if n.IsTerminal() {
		status = "terminal"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "FEN: %s\n\n", n.FEN())
	sb.WriteString(n.Position().Board().Draw())
	fmt.Fprintf(&sb, "\nStatus: %s\n", status)
	return sb.String()
}

// AttachEval scores the current position with the engine and stores the
// result on the current node; the PGN export emits it as an eval comment.
func (s *Session) AttachEval() (tree.Eval, error) {
	score, err := s.eval.Evaluate(s.FEN())
	if err != nil {
		return tree.Eval{}, &CollaboratorError{Name: "engine", Err: err}
	}
	ev := evalFromScore(score)
	s.Current().SetEval(ev)
	return ev, nil
}

// Top fetches the candidate moves for the current position, scores each
// with the engine, and returns the best n by evaluation for the side to
// move. A negative n reverses the sort to show the worst-performing common
// moves; |n| bounds the result either way.
func (s *Session) Top(ctx context.Context, n int) ([]RankedMove, error) {
	if n == 0 {
		return nil, fmt.Errorf("top: n must be nonzero")
	}
	fen := s.FEN()
	stats, err := s.stats.TopMoves(ctx, fen)
	if err != nil {
		return nil, &CollaboratorError{Name: "statistics", Err: err}
	}

	pos := s.Current().Position()
	ranked := make([]RankedMove, 0, len(stats))
	for _, ms := range stats {
		move, err := tree.DecodeMove(pos, ms.UCI)
		if err != nil {
			continue // stale or illegal entry, skip it
		}
		score, err := s.eval.Evaluate(pos.Update(move).String())
		if err != nil {
			return nil, &CollaboratorError{Name: "engine", Err: err}
		}
		ranked = append(ranked, RankedMove{
			SAN:   ms.SAN,
			UCI:   ms.UCI,
			Games: ms.Games(),
			Score: score,
		})
	}

	sortRanked(ranked, n > 0, pos.Turn() == chess.White)
	limit := n
	if limit < 0 {
		limit = -limit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// sortRanked orders moves by evaluation for the side to move: best first,
// ties broken by popularity; or worst first, ties broken by the raw score.
func sortRanked(moves []RankedMove, best, whiteToMove bool) {
	side := func(m RankedMove) int {
		if whiteToMove {
			return m.Score
		}
		return -m.Score
	}
	slices.SortStableFunc(moves, func(a, b RankedMove) int {
		if best {
			if d := side(b) - side(a); d != 0 {
				return d
			}
			return b.Games - a.Games
		}
		if d := side(a) - side(b); d != 0 {
			return d
		}
		return b.Score - a.Score
	})
}

// Output renders the tree as PGN and writes it to path, returning the
// number of lines exported. Nothing is written when rendering fails.
func (s *Session) Output(path string) (int, error) {
	writer := tree.PGNWriter{
		Tags: tree.TagPairs{
			"Event": "Opening preparation",
			"Site":  "?",
			"Date":  time.Now().Format("2006.01.02"),
		},
		Outcome: tree.NoOutcome,
	}
	text, err := writer.Render(s.tree)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	lines := s.tree.CountLines(s.tree.Root())
	s.log.Info().Str("path", path).Int("lines", lines).Msg("PGN written")
	return lines, nil
}

func evalFromScore(score int) tree.Eval {
	const mateBand = 90_000
	switch {
	case score > mateBand:
		return tree.Eval{Mate: 100_000 - score}
	case score < -mateBand:
		return tree.Eval{Mate: -100_000 - score}
	default:
		return tree.Eval{CP: score}
	}
}
