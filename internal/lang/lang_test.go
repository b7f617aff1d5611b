package lang

import (
	"math"
	"testing"
)

func TestProfilesSumNearHundred(t *testing.T) {
	for _, p := range Profiles() {
		var sum float64
		seen := map[byte]bool{}
		for _, f := range p.Frequencies() {
			sum += f.Percent
			seen[f.Letter] = true
		}
		if len(seen) != 26 {
			t.Fatalf("%s: expected 26 letters, got %d", p.Language(), len(seen))
		}
		if math.Abs(sum-100) > 5 {
			t.Fatalf("%s: frequencies sum to %.2f", p.Language(), sum)
		}
	}
}

func TestProfilesOrder(t *testing.T) {
	ps := Profiles()
	if len(ps) != 2 || ps[0].Language() != English || ps[1].Language() != French {
		t.Fatalf("unexpected profile order: %v, %v", ps[0].Language(), ps[1].Language())
	}
}

func TestProfileCopiesDoNotLeak(t *testing.T) {
	words := EnglishProfile().Words()
	words[0] = "zzz"
	if EnglishProfile().Words()[0] != "the" {
		t.Fatalf("word list mutated through returned slice")
	}
	freqs := FrenchProfile().Frequencies()
	freqs[0].Percent = 0
	if FrenchProfile().Expected('e') != 14.7 {
		t.Fatalf("frequency table mutated through returned slice")
	}
}

func TestParseLanguage(t *testing.T) {
	for input, want := range map[string]Language{"en": English, "English": English, " fr ": French, "french": French} {
		got, err := ParseLanguage(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseLanguage("klingon"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestCommonWordsUnion(t *testing.T) {
	if !IsCommonWord("the") || !IsCommonWord("avec") {
		t.Fatalf("expected words from both lists")
	}
	if IsCommonWord("zebra") {
		t.Fatalf("unexpected common word")
	}
	if French.Title() != "French" {
		t.Fatalf("unexpected title %q", French.Title())
	}
}
