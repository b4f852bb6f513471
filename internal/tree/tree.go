// Package tree implements the in-memory move tree behind the opening
// builder: ordered variations, terminal-node bookkeeping, a resumable
// depth-first cursor, and PGN serialization. Chess legality and FEN
// generation are delegated to the rules library; the tree never creates a
// node except by applying a validated move to its parent's position.
package tree

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// Tree owns the root node and, transitively, every node below it.
type Tree struct {
	root *Node
	gen  uint64
}

// New returns a tree rooted at the standard starting position.
func New() *Tree {
	return NewFromPosition(chess.StartingPosition())
}

// NewFromPosition returns a tree rooted at the given position.
func NewFromPosition(pos *chess.Position) *Tree {
	return &Tree{root: newRoot(pos)}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// DecodeMove resolves a SAN or UCI token against pos and returns the
// matching legal move. SAN is tried first, mirroring how users type moves;
// the returned move is the copy produced by move generation, so it carries
// the tags SAN encoding needs.
func DecodeMove(pos *chess.Position, token string) (*chess.Move, error) {
	move, err := chess.AlgebraicNotation{}.Decode(pos, token)
	if err != nil {
		move, err = chess.UCINotation{}.Decode(pos, token)
		if err != nil {
			return nil, fmt.Errorf("unrecognized move %q", token)
		}
	}
	for _, valid := range pos.ValidMoves() {
		if valid.S1() == move.S1() && valid.S2() == move.S2() && valid.Promo() == move.Promo() {
			m := valid
			return &m, nil
		}
	}
	return nil, fmt.Errorf("no matching legal move for %q", token)
}

// AddMoves plays tokens in order starting from the given node, creating one
// node per token, and returns the last node reached. The add is best
// effort: when a token fails to decode, nodes created by earlier tokens are
// kept and the returned IllegalMoveError names the token and its index.
// Adding a move that already exists as a child moves through the existing
// node instead of duplicating it. Adding below a terminal node fails with
// ErrNodeTerminal.
func (t *Tree) AddMoves(from *Node, tokens []string) (*Node, error) {
	cur := from
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if cur.terminal {
			return cur, ErrNodeTerminal
		}
		move, err := DecodeMove(cur.pos, token)
		if err != nil {
			return cur, &IllegalMoveError{Token: token, Index: i, FEN: cur.FEN()}
		}
		if existing := cur.findChild(move); existing != nil {
			cur = existing
			continue
		}
		child, err := cur.createChild(move, cur.pos.Update(move))
		if err != nil {
			return cur, err
		}
		t.gen++
		cur = child
	}
	return cur, nil
}

// MarkTerminal closes the node against further expansion. Marking an
// already-terminal node is a no-op.
func (t *Tree) MarkTerminal(n *Node) {
	n.terminal = true
}

// CountLines counts the distinct lines in the subtree rooted at from. A
// line ends at the first childless or terminal node on its path; a lone
// node counts as one line.
func (t *Tree) CountLines(from *Node) int {
	if from.terminal || len(from.children) == 0 {
		return 1
	}
	total := 0
	for _, child := range from.children {
		total += t.CountLines(child)
	}
	return total
}

// Render returns an indented pre-order listing of the subtree below from,
// children in insertion order, with closed nodes marked.
func (t *Tree) Render(from *Node) string {
	var sb strings.Builder
	writeSubtree(&sb, from, 0)
	return sb.String()
}

func writeSubtree(sb *strings.Builder, n *Node, depth int) {
	for _, child := range n.children {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(child.SAN())
		if child.terminal {
			sb.WriteString(" (terminal)")
		}
		sb.WriteString("\n")
		writeSubtree(sb, child, depth+1)
	}
}

// Lines returns every complete line below from, each as the node path from
// from's first move down to the line's end. Terminal marks end a line even
// when children exist below the mark.
func (t *Tree) Lines(from *Node) [][]*Node {
	var paths [][]*Node
	for _, child := range from.children {
		paths = append(paths, collectLines(child)...)
	}
	return paths
}

func collectLines(n *Node) [][]*Node {
	if n.terminal || len(n.children) == 0 {
		return [][]*Node{{n}}
	}
	var paths [][]*Node
	for _, child := range n.children {
		for _, p := range collectLines(child) {
			paths = append(paths, append([]*Node{n}, p...))
		}
	}
	return paths
}
