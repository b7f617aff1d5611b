// Package lang holds the reference letter frequencies and common words for
// the supported languages.
package lang

import (
	"fmt"
	"strings"
)

// Language identifies a supported natural language.
type Language string

const (
	English Language = "english"
	French  Language = "french"
)

// Title returns the capitalized language name.
func (l Language) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// LetterFrequency is one entry of a reference frequency table.
type LetterFrequency struct {
	Letter  byte
	Percent float64
}

// Profile is the immutable reference data for one language.
type Profile struct {
	language    Language
	frequencies []LetterFrequency
	expected    [26]float64
	words       []string
	wordSet     map[string]struct{}
}

func newProfile(language Language, frequencies []LetterFrequency, words []string) *Profile {
	p := &Profile{
		language:    language,
		frequencies: frequencies,
		words:       words,
		wordSet:     make(map[string]struct{}, len(words)),
	}
	for _, f := range frequencies {
		p.expected[f.Letter-'a'] = f.Percent
	}
	for _, w := range words {
		p.wordSet[w] = struct{}{}
	}
	return p
}

// Language returns the profile's language.
func (p *Profile) Language() Language {
	return p.language
}

// Expected returns the expected percentage for a lowercase letter.
func (p *Profile) Expected(letter byte) float64 {
	if letter < 'a' || letter > 'z' {
		return 0
	}
	return p.expected[letter-'a']
}

// Frequencies returns a copy of the table in declaration order.
func (p *Profile) Frequencies() []LetterFrequency {
	out := make([]LetterFrequency, len(p.frequencies))
	copy(out, p.frequencies)
	return out
}

// Words returns a copy of the common-word list, duplicates included.
func (p *Profile) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// HasWord reports whether w is an exact member of the word list.
func (p *Profile) HasWord(w string) bool {
	_, ok := p.wordSet[w]
	return ok
}

var (
	englishProfile = newProfile(English, englishFrequencies, englishWords)
	frenchProfile  = newProfile(French, frenchFrequencies, frenchWords)
	profiles       = []*Profile{englishProfile, frenchProfile}
	commonWords    = buildCommonWords()
)

// Profiles returns the supported profiles in their fixed order.
func Profiles() []*Profile {
	out := make([]*Profile, len(profiles))
	copy(out, profiles)
	return out
}

// EnglishProfile returns the English reference profile.
func EnglishProfile() *Profile { return englishProfile }

// FrenchProfile returns the French reference profile.
func FrenchProfile() *Profile { return frenchProfile }

// ProfileFor returns the profile of a language.
func ProfileFor(l Language) (*Profile, bool) {
	for _, p := range profiles {
		if p.language == l {
			return p, true
		}
	}
	return nil, false
}

// ParseLanguage accepts a language name or its two-letter code.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "french", "fr":
		return French, nil
	default:
		return "", fmt.Errorf("unsupported language %q (use english or french)", s)
	}
}

// IsCommonWord reports whether w is in either language's word list.
func IsCommonWord(w string) bool {
	_, ok := commonWords[w]
	return ok
}

func buildCommonWords() map[string]struct{} {
	set := make(map[string]struct{}, len(englishWords)+len(frenchWords))
	for _, w := range englishWords {
		set[w] = struct{}{}
	}
	for _, w := range frenchWords {
		set[w] = struct{}{}
	}
	return set
}
