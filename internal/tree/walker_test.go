package tree

import (
	"errors"
	"testing"
)

// drain advances the walker to exhaustion and returns the SANs of the
// visited nodes.
func drain(t *testing.T, w *Walker) []string {
	t.Helper()
	var visited []string
	for {
		node, err := w.Advance()
		if errors.Is(err, ErrExhausted) {
			return visited
		}
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		visited = append(visited, node.SAN())
	}
}

func TestAdvanceVisitsEveryLeafOnce(t *testing.T) {
	// root -> e4 -> {e5 -> Nf3, c5}, root -> d4
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, e4, "e5", "Nf3")
	mustAdd(t, tr, e4, "c5")
	mustAdd(t, tr, tr.Root(), "d4")

	got := drain(t, NewWalker(tr))
	want := []string{"Nf3", "c5", "d4"}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited %v, want %v", got, want)
		}
	}
	if len(got) != tr.CountLines(tr.Root()) {
		t.Fatalf("walker visited %d leaves but the tree has %d lines", len(got), tr.CountLines(tr.Root()))
	}
}

func TestAdvanceSkipsTerminalSubtrees(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, e4, "e5")
	d4 := mustAdd(t, tr, tr.Root(), "d4")
	tr.MarkTerminal(e4)

	got := drain(t, NewWalker(tr))
	if len(got) != 1 || got[0] != "d4" {
		t.Fatalf("expected only d4, visited %v", got)
	}
	_ = d4
}

func TestAdvanceStaysExhausted(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4")
	w := NewWalker(tr)
	drain(t, w)

	for i := 0; i < 3; i++ {
		if _, err := w.Advance(); !errors.Is(err, ErrExhausted) {
			t.Fatalf("call %d: expected ErrExhausted, got %v", i, err)
		}
	}
}

func TestAdvanceResumesAfterGrowth(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	w := NewWalker(tr)
	drain(t, w)

	if _, err := w.Advance(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted before growth, got %v", err)
	}
	mustAdd(t, tr, e4, "e5", "Nf3")
	node, err := w.Advance()
	if err != nil {
		t.Fatalf("expected the walk to resume after growth, got %v", err)
	}
	if node.SAN() != "Nf3" {
		t.Fatalf("expected the new tip Nf3, got %s", node.SAN())
	}
	if _, err := w.Advance(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected exhaustion after the new tip, got %v", err)
	}
}

func TestAdvancePicksUpGrowthBehindTheCursor(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, tr.Root(), "d4")

	w := NewWalker(tr)
	first, err := w.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if first != e4 {
		t.Fatalf("expected e4 first, got %s", first.SAN())
	}

	// Grow below the node the walker just surfaced; the live children
	// read must descend into it before moving on to d4.
	mustAdd(t, tr, e4, "e5")
	got := drain(t, w)
	want := []string{"e5", "d4"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("visited %v, want %v", got, want)
	}
}

func TestAdvanceReuseAddDoesNotResetExhaustion(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4")
	w := NewWalker(tr)
	drain(t, w)

	// Re-adding an existing move creates no node, so the walk stays done.
	mustAdd(t, tr, tr.Root(), "e4")
	if _, err := w.Advance(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}
