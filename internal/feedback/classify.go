// apps/solver/internal/feedback/classify.go
//
// Boundary classification: opaque external signals → solver.Status.
//
// Anything not explicitly mapped becomes Indeterminate. The solver treats
// that as fatal, so an unknown colour or mark can never be silently read
// as absent.

package feedback

import (
	"strings"

	"github.com/robalobadob/wordle/apps/solver/internal/solver"
)

// Palette maps raw signals (CSS colours, API marks, ...) to statuses.
// Keys are compared after trimming and lowercasing.
type Palette map[string]solver.Status

// NewPalette builds a palette from signal lists per status.
func NewPalette(correct, present, absent []string) Palette {
	p := Palette{}
	for _, s := range correct {
		p[normalize(s)] = solver.Correct
	}
	for _, s := range present {
		p[normalize(s)] = solver.Present
	}
	for _, s := range absent {
		p[normalize(s)] = solver.Absent
	}
	return p
}

// Classify maps one signal.
func (p Palette) Classify(signal string) solver.Status {
	if st, ok := p[normalize(signal)]; ok {
		return st
	}
	return solver.Indeterminate
}

// Row maps a full row of signals.
func (p Palette) Row(signals []string) solver.Row {
	row := make(solver.Row, len(signals))
	for i, s := range signals {
		row[i] = p.Classify(s)
	}
	return row
}

// MarkPalette understands the mark vocabulary of common Wordle game APIs
// ("hit"/"present"/"miss" and "correct"/"present"/"absent").
var MarkPalette = NewPalette(
	[]string{"hit", "correct", "2"},
	[]string{"present", "1"},
	[]string{"miss", "absent", "0"},
)

// ParseRow reads a compact row such as "cpaac" or "gy..g".
//
//	c, g, + : correct
//	p, y    : present
//	a, b, x, -, . : absent
//
// Unknown characters classify as Indeterminate.
func ParseRow(s string) solver.Row {
	s = strings.ToLower(strings.TrimSpace(s))
	row := make(solver.Row, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'c', 'g', '+':
			row = append(row, solver.Correct)
		case 'p', 'y':
			row = append(row, solver.Present)
		case 'a', 'b', 'x', '-', '.':
			row = append(row, solver.Absent)
		default:
			row = append(row, solver.Indeterminate)
		}
	}
	return row
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
