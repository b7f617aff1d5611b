// Package wordlist loads sample corpora from files.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best-effort close for a read-only corpus.
		_ = file.Close()
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Builtin returns the common words of a language.
func Builtin(l lang.Language) ([]string, error) {
	p, ok := lang.ProfileFor(l)
	if !ok {
		return nil, fmt.Errorf("no built-in words for %q", l)
	}
	return Filter(p.Words(), FilterForLang(l)), nil
}

// Load reads the corpus at path for l and filters it. A missing file falls
// back to the built-in words; an empty path always does.
func Load(path string, l lang.Language) ([]string, error) {
	if path == "" {
		return Builtin(l)
	}
	words, err := LoadWords(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Builtin(l)
		}
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	words = Filter(words, FilterForLang(l))
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s has no usable %s words", path, l)
	}
	return words, nil
}
