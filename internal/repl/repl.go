// Package repl runs the interactive command loop over a session. Every
// command either completes or reports its error and the loop continues;
// no error leaves the tree or cursor in a broken state.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"pgnbook/internal/session"
	"pgnbook/internal/tree"
)

const usage = "commands: fen, print, add <m>[,<m>...], next, terminal, tree, lines, top [n], eval, output <file>, quit"

// REPL reads commands from one reader and writes responses to one writer.
type REPL struct {
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
	log  zerolog.Logger
}

// New returns a loop over the given session.
func New(sess *session.Session, in io.Reader, out io.Writer, log zerolog.Logger) *REPL {
	return &REPL{
		sess: sess,
		in:   bufio.NewScanner(in),
		out:  out,
		log:  log,
	}
}

// Run processes commands until quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Interactive opening builder.")
	fmt.Fprintln(r.out, usage)
	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		cmd, arg := splitCommand(line)
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := r.dispatch(ctx, cmd, arg); err != nil {
			fmt.Fprintln(r.out, "error:", err)
		}
	}
}

func (r *REPL) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "fen":
		fmt.Fprintln(r.out, r.sess.FEN())

	case "print":
		fmt.Fprint(r.out, r.sess.Describe())

	case "add":
		if arg == "" {
			return errors.New("usage: add <move>[,<move>...]")
		}
		last, err := r.sess.Add(splitMoves(arg))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Line ends at: %s\n", last.FEN())

	case "next":
		node, err := r.sess.Next()
		if errors.Is(err, tree.ErrExhausted) {
			fmt.Fprintln(r.out, "All lines are closed. Use 'output <file>' to export the tree.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Moved to next position.\nFEN: %s\n", node.FEN())

	case "terminal":
		r.sess.MarkTerminal()
		fmt.Fprintln(r.out, "Marked as terminal.")

	case "tree":
		text, lines := r.sess.RenderTree()
		fmt.Fprint(r.out, text)
		fmt.Fprintf(r.out, "Total lines: %d\n", lines)

	case "lines":
		for _, line := range r.sess.Lines() {
			fmt.Fprintln(r.out, line)
		}

	case "top":
		n := 5
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil {
				return errors.New("usage: top <n> (positive for best, negative for worst)")
			}
			n = v
		}
		moves, err := r.sess.Top(ctx, n)
		if err != nil {
			return err
		}
		heading := "Best"
		if n < 0 {
			heading = "Worst"
		}
		fmt.Fprintf(r.out, "%s %d moves:\n", heading, len(moves))
		for _, m := range moves {
			fmt.Fprintf(r.out, "%-6s | games=%7d | eval=%+.2f\n", m.SAN, m.Games, float64(m.Score)/100)
		}

	case "eval":
		ev, err := r.sess.AttachEval()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Eval attached: %s\n", ev)

	case "output":
		if arg == "" {
			return errors.New("usage: output <file>")
		}
		lines, err := r.sess.Output(arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Wrote %d line(s) to %s\n", lines, arg)

	case "help":
		fmt.Fprintln(r.out, usage)

	default:
		fmt.Fprintln(r.out, "unknown command;", usage)
	}
	return nil
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func splitMoves(arg string) []string {
	raw := strings.Split(arg, ",")
	moves := make([]string, 0, len(raw))
	for _, m := range raw {
		if m = strings.TrimSpace(m); m != "" {
			moves = append(moves, m)
		}
	}
	return moves
}
