package tree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	chess "github.com/corentings/chess/v2"
	"golang.org/x/exp/maps"
)

// An Outcome is the result token appended after the movetext.
type Outcome string

const (
	// NoOutcome marks an unfinished or resultless game.
	NoOutcome Outcome = "*"
	// WhiteWon indicates that white won.
	WhiteWon Outcome = "1-0"
	// BlackWon indicates that black won.
	BlackWon Outcome = "0-1"
	// Draw indicates a drawn game.
	Draw Outcome = "1/2-1/2"
)

// TagPairs is a collection of PGN tag pairs.
type TagPairs map[string]string

// PGNWriter serializes a tree into PGN: an optional tag-pair header, the
// main line as the chain of first children, and a parenthesized variation
// block for every later child at each branch. Engine annotations on nodes
// are emitted as {[%eval ...]} comments.
type PGNWriter struct {
	// Tags are written as a sorted header before the movetext. The
	// seven-tag roster keys come first, then the rest alphabetically. A
	// Result tag matching the outcome is filled in when absent.
	Tags TagPairs
	// Outcome is the result token ending the movetext; empty means "*".
	Outcome Outcome
}

// Render returns the PGN text for the tree. It fails with ErrEmptyTree
// when the root has no children, before producing any output.
func (w PGNWriter) Render(t *Tree) (string, error) {
	if len(t.root.children) == 0 {
		return "", ErrEmptyTree
	}
	outcome := w.Outcome
	if outcome == "" {
		outcome = NoOutcome
	}

	var sb strings.Builder
	writeTagPairs(&sb, w.Tags, outcome)

	num, isWhite := moveContext(t.root)
	writeMainline(&sb, t.root, num, isWhite, false, true)
	sb.WriteString(" ")
	sb.WriteString(string(outcome))
	return sb.String(), nil
}

// FlattenedLines renders every complete line of the tree as its own
// numbered movetext, without variations.
func (t *Tree) FlattenedLines() []string {
	paths := t.Lines(t.root)
	lines := make([]string, 0, len(paths))
	for _, path := range paths {
		lines = append(lines, formatLine(t.root, path))
	}
	return lines
}

func formatLine(root *Node, path []*Node) string {
	var sb strings.Builder
	num, isWhite := moveContext(root)
	for i, n := range path {
		if i > 0 {
			sb.WriteString(" ")
		}
		writeMoveNumber(&sb, num, isWhite, i == 0, false, i == 0)
		sb.WriteString(n.SAN())
		num, isWhite = nextContext(num, isWhite)
	}
	return sb.String()
}

// writeMainline writes the first child of parent, its variations, and then
// recurses down the main line.
func writeMainline(sb *strings.Builder, parent *Node, moveNum int, isWhite, closedVariation, isRoot bool) {
	if len(parent.children) == 0 {
		return
	}
	current := parent.children[0]

	writeMoveNumber(sb, moveNum, isWhite, false, closedVariation, isRoot)
	sb.WriteString(current.SAN())
	writeEval(sb, current)

	if len(parent.children) > 1 || len(current.children) > 0 {
		sb.WriteString(" ")
	}

	// Variations are the later children, each in its own parentheses.
	closedVar := false
	for i := 1; i < len(parent.children); i++ {
		if closedVar {
			sb.WriteString(" ")
		}
		closedVar = true
		sb.WriteString("(")
		writeVariation(sb, parent.children[i], moveNum, isWhite)
		sb.WriteString(")")
	}

	if len(current.children) > 0 {
		nextNum, nextIsWhite := nextContext(moveNum, isWhite)
		writeMainline(sb, current, nextNum, nextIsWhite, closedVar, false)
	}
}

// writeVariation writes one alternative line starting at its first move.
func writeVariation(sb *strings.Builder, n *Node, moveNum int, isWhite bool) {
	writeMoveNumber(sb, moveNum, isWhite, true, false, false)
	sb.WriteString(n.SAN())
	writeEval(sb, n)
	if len(n.children) > 0 {
		sb.WriteString(" ")
		nextNum, nextIsWhite := nextContext(moveNum, isWhite)
		writeMainline(sb, n, nextNum, nextIsWhite, false, false)
	}
}

// writeMoveNumber prints "N. " before white's move, and "N... " before a
// black move that opens a line, follows a closed variation, or starts the
// movetext.
func writeMoveNumber(sb *strings.Builder, moveNum int, isWhite, subVariation, closedVariation, isRoot bool) {
	if closedVariation {
		sb.WriteString(" ")
	}
	if isWhite {
		fmt.Fprintf(sb, "%d. ", moveNum)
	} else if subVariation || closedVariation || isRoot {
		fmt.Fprintf(sb, "%d... ", moveNum)
	}
}

func writeEval(sb *strings.Builder, n *Node) {
	if n.eval == nil {
		return
	}
	sb.WriteString(" {[%eval ")
	sb.WriteString(n.eval.String())
	sb.WriteString("]}")
}

func nextContext(moveNum int, isWhite bool) (int, bool) {
	if isWhite {
		return moveNum, false
	}
	return moveNum + 1, true
}

// moveContext derives the first move number and side to move from the
// root position. The fullmove counter is the sixth FEN field.
func moveContext(root *Node) (int, bool) {
	num := 1
	if fields := strings.Fields(root.pos.String()); len(fields) == 6 {
		if v, err := strconv.Atoi(fields[5]); err == nil && v > 0 {
			num = v
		}
	}
	return num, root.pos.Turn() == chess.White
}

func writeTagPairs(sb *strings.Builder, tags TagPairs, outcome Outcome) {
	if len(tags) == 0 {
		return
	}
	all := make(TagPairs, len(tags)+1)
	maps.Copy(all, tags)
	if _, ok := all["Result"]; !ok {
		all["Result"] = string(outcome)
	}

	type tagPair struct {
		Key   string
		Value string
	}
	pairs := make([]tagPair, 0, len(all))
	for k, v := range all {
		pairs = append(pairs, tagPair{Key: k, Value: v})
	}
	slices.SortFunc(pairs, func(a, b tagPair) int {
		return cmpTagKeys(a.Key, b.Key)
	})

	for _, p := range pairs {
		fmt.Fprintf(sb, "[%s \"%s\"]\n", p.Key, p.Value)
	}
	sb.WriteString("\n")
}

// cmpTagKeys orders the seven-tag roster first, then the rest by key.
func cmpTagKeys(a, b string) int {
	if a == b {
		return 0
	}
	for _, req := range []string{
		"Event",
		"Site",
		"Date",
		"Round",
		"White",
		"Black",
		"Result",
	} {
		if a == req {
			return -1
		}
		if b == req {
			return +1
		}
	}
	if a < b {
		return -1
	}
	return +1
}
