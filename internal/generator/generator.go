// Package generator builds sample plaintexts and random keys.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/stats"
)

// Style controls capitalization and punctuation of generated words.
type Style struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// SentenceStyle is used by Sentence for words after the first.
var SentenceStyle = Style{PunctPct: 0.08, PunctSet: []rune{','}}

// Generator produces randomized sample text and keys.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Words selects count words uniformly and applies the style rules.
func (g *Generator) Words(words []string, count int, style Style) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, style.CapsPct)
		word = applyPunct(g.rnd, word, style.PunctPct, style.PunctSet)
		result = append(result, word)
	}
	return result
}

// Sentence joins count random words into one sentence with a capitalized
// first word and a final period.
func (g *Generator) Sentence(words []string, count int) string {
	picked := g.Words(words, count, SentenceStyle)
	if len(picked) == 0 {
		return ""
	}
	picked[0] = applyCaps(g.rnd, picked[0], 1)
	last := strings.TrimRight(picked[len(picked)-1], ",")
	picked[len(picked)-1] = last + "."
	return strings.Join(picked, " ")
}

// RandomShift returns a Caesar shift in [1, 25].
func (g *Generator) RandomShift() int {
	return 1 + g.rnd.Intn(len(stats.Alphabet)-1)
}

// RandomKey returns a substitution key where no letter maps to itself.
func (g *Generator) RandomKey() cipher.Mapping {
	letters := []byte(stats.Alphabet)
	for {
		g.rnd.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
		if derangement(letters) {
			break
		}
	}
	key := make(cipher.Mapping, len(letters))
	for i, c := range letters {
		key[stats.Alphabet[i]] = string(c)
	}
	return key
}

func derangement(letters []byte) bool {
	for i, c := range letters {
		if c == stats.Alphabet[i] {
			return false
		}
	}
	return true
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if capsPct < 1 && rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
