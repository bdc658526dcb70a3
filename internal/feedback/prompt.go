package feedback

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// Prompt asks a human for each row on a terminal-like stream.
// Rows of the wrong length are asked again; unknown characters are passed
// through as Indeterminate for the solver to reject.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompt reads rows from r and writes prompts to w.
func NewPrompt(r io.Reader, w io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(r), out: w}
}

// Feedback blocks until a row of the right length is entered.
func (p *Prompt) Feedback(ctx context.Context, round int, guess string) (solver.Row, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(p.out, "round %d, guess %q. feedback (c=correct p=present a=absent): ", round, guess)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("input closed")
		}
		row := ParseRow(p.in.Text())
		if len(row) == len(guess) {
			return row, nil
		}
		fmt.Fprintf(p.out, "need %d characters, got %d\n", len(guess), len(row))
	}
}
