package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderSingleLine(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4", "e5", "Nf3", "Nc6")

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 e5 2. Nf3 Nc6 *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderWhiteVariation(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4", "e5", "Nf3", "Nc6")
	mustAdd(t, tr, tr.Root(), "d4")

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 (1. d4) 1... e5 2. Nf3 Nc6 *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderBlackVariation(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, e4, "e5", "Nf3")
	mustAdd(t, tr, e4, "c5")

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 e5 (1... c5) 2. Nf3 *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNestedVariation(t *testing.T) {
	// The d4 sideline carries its own reply, so the variation block holds
	// a two-move line of its own.
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4", "e5")
	d4 := mustAdd(t, tr, tr.Root(), "d4")
	mustAdd(t, tr, d4, "d5")

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 (1. d4 d5) 1... e5 *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderSiblingVariations(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, tr.Root(), "d4")
	mustAdd(t, tr, tr.Root(), "c4")

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 (1. d4) (1. c4) *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderEvalComments(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, e4, "e5")
	e4.SetEval(Eval{CP: 35})

	got, err := PGNWriter{}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "1. e4 {[%eval 0.35]} e5 *"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEvalString(t *testing.T) {
	cases := []struct {
		eval Eval
		want string
	}{
		{Eval{CP: 35}, "0.35"},
		{Eval{CP: -120}, "-1.20"},
		{Eval{}, "0.00"},
		{Eval{Mate: 3}, "#3"},
		{Eval{Mate: -2}, "#-2"},
	}
	for _, c := range cases {
		if got := c.eval.String(); got != c.want {
			t.Fatalf("Eval %+v: got %q, want %q", c.eval, got, c.want)
		}
	}
}

func TestRenderEmptyTree(t *testing.T) {
	tr := New()
	if _, err := (PGNWriter{}).Render(tr); !errors.Is(err, ErrEmptyTree) {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}
}

func TestRenderTagHeader(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4")

	w := PGNWriter{Tags: TagPairs{
		"White":   "?",
		"Event":   "Opening preparation",
		"Variant": "Standard",
	}}
	got, err := w.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Event \"Opening preparation\"]\n" +
		"[White \"?\"]\n" +
		"[Result \"*\"]\n" +
		"[Variant \"Standard\"]\n" +
		"\n" +
		"1. e4 *"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderExplicitOutcome(t *testing.T) {
	tr := New()
	mustAdd(t, tr, tr.Root(), "e4")

	got, err := PGNWriter{Outcome: WhiteWon}.Render(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, " 1-0") {
		t.Fatalf("expected a 1-0 suffix, got %q", got)
	}
}

func TestFlattenedLines(t *testing.T) {
	tr := New()
	e4 := mustAdd(t, tr, tr.Root(), "e4")
	mustAdd(t, tr, e4, "e5", "Nf3")
	mustAdd(t, tr, e4, "c5")
	mustAdd(t, tr, tr.Root(), "d4")

	got := tr.FlattenedLines()
	want := []string{
		"1. e4 e5 2. Nf3",
		"1. e4 c5",
		"1. d4",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
