package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestSentence(t *testing.T) {
	g := NewSeeded(1)
	words := []string{"le", "chat", "dort", "sur", "la", "table"}
	s := g.Sentence(words, 12)
	if !strings.HasSuffix(s, ".") {
		t.Fatalf("expected final period, got %q", s)
	}
	if !unicode.IsUpper([]rune(s)[0]) {
		t.Fatalf("expected capitalized first word, got %q", s)
	}
	if n := len(strings.Fields(s)); n != 12 {
		t.Fatalf("expected 12 words, got %d", n)
	}
	if g.Sentence(nil, 5) != "" || g.Sentence(words, 0) != "" {
		t.Fatalf("expected empty sentence without words")
	}
}

func TestSentenceDeterministic(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	a := NewSeeded(42).Sentence(words, 8)
	b := NewSeeded(42).Sentence(words, 8)
	if a != b {
		t.Fatalf("expected same output for same seed: %q vs %q", a, b)
	}
}

func TestWordsStyle(t *testing.T) {
	g := NewSeeded(3)
	out := g.Words([]string{"word"}, 20, Style{CapsPct: 1, PunctPct: 1, PunctSet: []rune{'!'}})
	for _, w := range out {
		if w != "Word!" {
			t.Fatalf("expected styled word, got %q", w)
		}
	}
}

func TestRandomShift(t *testing.T) {
	g := NewSeeded(7)
	for i := 0; i < 200; i++ {
		k := g.RandomShift()
		if k < 1 || k > 25 {
			t.Fatalf("shift out of range: %d", k)
		}
	}
}

func TestRandomKey(t *testing.T) {
	g := NewSeeded(9)
	key := g.RandomKey()
	if len(key) != 26 {
		t.Fatalf("expected 26 letters, got %d", len(key))
	}
	seen := map[string]bool{}
	for k, v := range key {
		if string(k) == v {
			t.Fatalf("letter %q maps to itself", k)
		}
		if seen[v] {
			t.Fatalf("duplicate image %q", v)
		}
		seen[v] = true
	}
	plain := "Bonjour le monde"
	inv, err := key.Invert()
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if got := inv.Apply(key.Apply(plain)); got != plain {
		t.Fatalf("round trip failed: %q", got)
	}
}
