package tree

// A frame records how far the walk has progressed through one node's
// children. Children are read live, so moves added behind the cursor are
// still picked up.
type frame struct {
	node *Node
	next int
}

// Walker is a resumable depth-first cursor over a tree. Advance surfaces,
// in pre-order, every childless node that has not been marked terminal:
// the positions that still need expanding or closing. A terminal mark on a
// node means its whole subtree is done and is skipped.
type Walker struct {
	tree      *Tree
	frames    []frame
	current   *Node
	seenGen   uint64
	exhausted bool
}

// NewWalker returns a walker positioned at the tree's root.
func NewWalker(t *Tree) *Walker {
	return &Walker{
		tree:    t,
		frames:  []frame{{node: t.root}},
		current: t.root,
	}
}

// Current returns the node the walker is positioned at.
func (w *Walker) Current() *Node { return w.current }

// Advance moves to the next unclosed childless node in pre-order,
// descending before backtracking, and returns it. When the whole tree has
// been walked it returns ErrExhausted; further calls keep returning
// ErrExhausted until new moves are added anywhere in the tree, at which
// point a fresh traversal starts from the root with terminal subtrees
// still skipped.
func (w *Walker) Advance() (*Node, error) {
	if w.exhausted {
		if w.tree.gen == w.seenGen {
			return nil, ErrExhausted
		}
		w.frames = []frame{{node: w.tree.root}}
		w.exhausted = false
	}
	for len(w.frames) > 0 {
		top := &w.frames[len(w.frames)-1]
		if top.next < len(top.node.children) {
			child := top.node.children[top.next]
			top.next++
			if child.terminal {
				continue
			}
			w.frames = append(w.frames, frame{node: child})
			if len(child.children) == 0 {
				w.current = child
				return child, nil
			}
			continue
		}
		w.frames = w.frames[:len(w.frames)-1]
	}
	w.exhausted = true
	w.seenGen = w.tree.gen
	return nil, ErrExhausted
}
