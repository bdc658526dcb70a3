// apps/solver/internal/words/words.go
//
// Dictionary loading for the solver.
//
// Responsibilities:
//   - Load the answer dictionary and extra allowed guesses from files, or fall
//     back to the embedded defaults in the assets package.
//   - Normalise (trim, lowercase), keep only words of exactly the configured
//     length made of a–z, drop `#` comments and blank lines.
//   - De-duplicate, keeping the first occurrence so file order is preserved
//     (order is the solver's tie-break).
//
// Word Lists:
//   - "answers": the candidate dictionary the solver narrows.
//   - "allowed": valid guesses (always includes answers).

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/solver/assets"
)

// DefaultLength is the classic word length.
const DefaultLength = 5

// Lists is a loaded dictionary.
type Lists struct {
	Length     int
	Answers    []string            // ordered, unique
	allowedSet map[string]struct{} // answers ∪ extra guesses
}

// Load reads the lists.
//
//  1. answersPath and allowedPath both set: answers from the first,
//     extra guesses from the second.
//  2. only allowedPath set: that file serves as both.
//  3. only answersPath set: answers from it, no extra guesses.
//  4. neither: embedded defaults.
//
// An empty answer list is an error.
func Load(answersPath, allowedPath string, length int) (*Lists, error) {
	if length <= 0 {
		length = DefaultLength
	}
	var ansList, allowList []string
	var err error

	switch {
	case answersPath != "" && allowedPath != "":
		if ansList, err = readWordFile(answersPath, length); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(allowedPath, length); err != nil {
			return nil, err
		}
	case answersPath == "" && allowedPath != "":
		if allowList, err = readWordFile(allowedPath, length); err != nil {
			return nil, err
		}
		ansList = allowList
	case answersPath != "":
		if ansList, err = readWordFile(answersPath, length); err != nil {
			return nil, err
		}
	default:
		raw, err := assets.AnswersList()
		if err != nil {
			return nil, err
		}
		ansList = normalize(raw, length)
		raw, err = assets.AllowedList()
		if err != nil {
			return nil, err
		}
		allowList = normalize(raw, length)
	}

	if len(ansList) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	l := New(ansList, allowList, length)
	a, g := l.Stats()
	log.Debug().Int("answers", a).Int("allowed", g).Int("length", length).Msg("word lists loaded")
	return l, nil
}

// New builds Lists from already-normalised slices.
func New(answers, allowed []string, length int) *Lists {
	ans := lo.Uniq(answers)
	set := lo.Keyify(append(append([]string(nil), ans...), allowed...))
	return &Lists{Length: length, Answers: ans, allowedSet: set}
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.Answers), len(l.allowedSet)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string, length int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := readWords(f, length)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

func readWords(r io.Reader, length int) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	return normalize(raw, length), sc.Err()
}

// normalize lowercases, trims, and keeps valid words of the given length.
func normalize(lines []string, length int) []string {
	var out []string
	for _, line := range lines {
		w := strings.TrimSpace(strings.ToLower(line))
		if strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) == length && isAlpha(w) {
			out = append(out, w)
		}
	}
	return lo.Uniq(out)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
