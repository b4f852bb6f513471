package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned by Walker.Advance once every line of the
	// tree has been visited or closed with a terminal mark.
	ErrExhausted = errors.New("tree: all lines closed")

	// ErrEmptyTree is returned when a tree with no moves is exported.
	ErrEmptyTree = errors.New("tree: no moves to export")

	// ErrNodeTerminal is returned when moves are added below a node that
	// has been marked terminal.
	ErrNodeTerminal = errors.New("tree: node is marked terminal")
)

// IllegalMoveError reports the token of a batch add that the rules library
// rejected. Nodes created by earlier tokens of the same batch are kept.
type IllegalMoveError struct {
	Token string
	FEN   string
	Index int
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("tree: illegal move %q (token %d) in position %q", e.Token, e.Index, e.FEN)
}
