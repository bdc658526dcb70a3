package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

//go:embed allowed.txt answers.txt freq.json
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// AnswersList returns the embedded answer dictionary in file order.
func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

// AllowedList returns the embedded extra guesses.
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}

// Frequencies opens the embedded JSON frequency table.
func Frequencies() (io.ReadCloser, error) {
	return FS.Open("freq.json")
}
