package tree

import (
	"fmt"

	chess "github.com/corentings/chess/v2"
)

// Eval is an engine score attached to a node, from white's perspective.
// Mate is the signed distance to mate when nonzero; CP is ignored then.
type Eval struct {
	CP   int
	Mate int
}

// String renders the score the way PGN eval annotations expect it:
// pawns with two decimals, or #n for forced mates.
func (e Eval) String() string {
	if e.Mate != 0 {
		return fmt.Sprintf("#%d", e.Mate)
	}
	return fmt.Sprintf("%.2f", float64(e.CP)/100)
}

// A Node is one position in the tree, reached by the move stored on it.
// The root node has no move and no parent. Children are kept in insertion
// order, which is also their variation order in the exported PGN.
type Node struct {
	move     *chess.Move
	pos      *chess.Position
	parent   *Node
	children []*Node
	eval     *Eval
	terminal bool
}

func newRoot(pos *chess.Position) *Node {
	return &Node{pos: pos, children: make([]*Node, 0)}
}

// createChild appends a child reached by move, whose resulting position is
// pos. It fails once the node has been marked terminal; children created
// before the mark stay valid.
func (n *Node) createChild(move *chess.Move, pos *chess.Position) (*Node, error) {
	if n.terminal {
		return nil, ErrNodeTerminal
	}
	child := &Node{
		move:     move,
		pos:      pos,
		parent:   n,
		children: make([]*Node, 0),
	}
	n.children = append(n.children, child)
	return child, nil
}

// findChild returns the existing child reached by the same move, if any.
func (n *Node) findChild(move *chess.Move) *Node {
	for _, child := range n.children {
		if child.move.S1() == move.S1() && child.move.S2() == move.S2() &&
			child.move.Promo() == move.Promo() {
			return child
		}
	}
	return nil
}

// Move returns the move that produced this node, or nil at the root.
func (n *Node) Move() *chess.Move { return n.move }

// Position returns the position reached at this node.
func (n *Node) Position() *chess.Position { return n.pos }

// Parent returns the parent node, or nil at the root. The pointer is a
// traversal aid only; ownership runs root to children.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node { return n.children }

// IsTerminal reports whether the node has been closed against expansion.
func (n *Node) IsTerminal() bool { return n.terminal }

// Eval returns the engine annotation, or nil if none was attached.
func (n *Node) Eval() *Eval { return n.eval }

// SetEval attaches an engine annotation, replacing any previous one.
func (n *Node) SetEval(e Eval) { n.eval = &e }

// FEN returns the position's FEN string.
func (n *Node) FEN() string { return n.pos.String() }

// SAN returns the node's move in standard algebraic notation, encoded
// against the parent position. The root returns an empty string.
func (n *Node) SAN() string {
	if n.move == nil || n.parent == nil {
		return ""
	}
	return chess.AlgebraicNotation{}.Encode(n.parent.pos, n.move)
}
