package engine

import "testing"

const (
	whiteToMoveFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	blackToMoveFEN = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		score int
		fen   string
		mate  bool
		want  int
	}{
		{"white advantage stays", 35, whiteToMoveFEN, false, 35},
		{"black advantage flips sign", 35, blackToMoveFEN, false, -35},
		{"black disadvantage flips sign", -120, blackToMoveFEN, false, 120},
		{"mate in 3 for white", 3, whiteToMoveFEN, true, mateScore - 3},
		{"mated in 2, white to move", -2, whiteToMoveFEN, true, -mateScore + 2},
		{"mate in 3 for black", 3, blackToMoveFEN, true, -mateScore + 3},
	}
	for _, c := range cases {
		if got := normalize(c.score, c.fen, c.mate); got != c.want {
			t.Fatalf("%s: normalize(%d, mate=%v) = %d, want %d", c.name, c.score, c.mate, got, c.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(Config{})
	if s.cfg.Path != "stockfish" {
		t.Fatalf("default path = %q", s.cfg.Path)
	}
	if s.cfg.Depth != 15 || s.cfg.HashMB != 256 || s.cfg.Threads != 4 {
		t.Fatalf("unexpected defaults: %+v", s.cfg)
	}
	if s.eng != nil {
		t.Fatal("no engine process may start before the first evaluation")
	}
}
