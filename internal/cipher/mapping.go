package cipher

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

// Mapping maps lower-case cipher letters to plaintext. Values are usually a
// single letter but may be a digraph such as "qu".
type Mapping map[byte]string

// expertTable was derived by hand from one known French sample.
var expertTable = Mapping{
	'a': "b", 'b': "t", 'c': "a", 'd': "f", 'e': "p", 'f': "i", 'g': "p",
	'h': "h", 'i': "j", 'j': "l", 'k': "k", 'l': "y", 'm': "m", 'n': "d",
	'o': "o", 'p': "u", 'q': "r", 'r': "x", 's': "g", 't': "z", 'u': "e",
	'v': "c", 'w': "n", 'x': "v", 'y': "q", 'z': "s",
}

// ExpertMapping returns a copy of the hand-curated French mapping.
func ExpertMapping() Mapping {
	return expertTable.Clone()
}

// ExpertDigraphMapping is the expert mapping with y and k read as "qu".
func ExpertDigraphMapping() Mapping {
	m := expertTable.Clone()
	m['y'] = "qu"
	m['k'] = "qu"
	return m
}

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Apply substitutes every mapped ASCII letter of text, keeping the case of
// the cipher letter. Unmapped letters and other characters pass through.
func (m Mapping) Apply(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 0x80 {
			b.WriteRune(r)
			continue
		}
		c := byte(r)
		upper := c >= 'A' && c <= 'Z'
		lower := c
		if upper {
			lower = c + ('a' - 'A')
		}
		v, ok := m[lower]
		if !ok || v == "" {
			b.WriteByte(c)
			continue
		}
		if upper {
			v = strings.ToUpper(v)
		}
		b.WriteString(v)
	}
	return b.String()
}

// Keys returns the mapped cipher letters in alphabetical order.
func (m Mapping) Keys() []byte {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// String renders the mapping as sorted "k→v" pairs.
func (m Mapping) String() string {
	parts := make([]string, 0, len(m))
	for _, k := range m.Keys() {
		parts = append(parts, string(k)+"→"+m[k])
	}
	return strings.Join(parts, " ")
}

// Strings converts the mapping to string keys for encoding.
func (m Mapping) Strings() map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

// MappingFromStrings is the inverse of Strings. Keys that are not a single
// ASCII letter are ignored.
func MappingFromStrings(in map[string]string) Mapping {
	out := make(Mapping, len(in))
	for k, v := range in {
		if len(k) != 1 {
			continue
		}
		c := strings.ToLower(k)[0]
		if c < 'a' || c > 'z' {
			continue
		}
		out[c] = strings.ToLower(v)
	}
	return out
}

// MarshalJSON encodes the mapping as an object keyed by letter.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Strings())
}

// MarshalYAML encodes the mapping as a map keyed by letter.
func (m Mapping) MarshalYAML() (interface{}, error) {
	return m.Strings(), nil
}

// FrequencyRankMapping pairs the text's letters, ranked by count, with the
// profile's letters ranked by expected frequency. Letters absent from the
// text stay unmapped.
func FrequencyRankMapping(st stats.LetterStatistics, profile *lang.Profile) Mapping {
	target := rankedProfileLetters(profile)
	m := Mapping{}
	for i, lc := range st.Ranked() {
		if i >= len(target) || lc.Count == 0 {
			break
		}
		m[lc.Letter] = string(target[i])
	}
	return m
}

func rankedProfileLetters(profile *lang.Profile) []byte {
	freqs := profile.Frequencies()
	sort.SliceStable(freqs, func(i, j int) bool { return freqs[i].Percent > freqs[j].Percent })
	out := make([]byte, len(freqs))
	for i, f := range freqs {
		out[i] = f.Letter
	}
	return out
}

// Invert swaps keys and values. The mapping must be one-to-one over single
// letters; digraph values or two keys sharing an image are rejected.
func (m Mapping) Invert() (Mapping, error) {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make(Mapping, len(m))
	for _, k := range keys {
		v := m[k]
		if len(v) != 1 {
			return nil, fmt.Errorf("cannot invert %q -> %q: not a single letter", string(k), v)
		}
		if prev, ok := out[v[0]]; ok {
			return nil, fmt.Errorf("cannot invert: %q and %q both map to %q", prev, string(k), v)
		}
		out[v[0]] = string(k)
	}
	return out, nil
}

// ParseKey reads a 26-letter substitution alphabet where the i-th letter is
// the image of the i-th letter of a–z. Every letter must appear exactly once.
func ParseKey(s string) (Mapping, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 26 {
		return nil, fmt.Errorf("key must have 26 letters, got %d", len(s))
	}
	seen := [26]bool{}
	m := make(Mapping, 26)
	for i := 0; i < 26; i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return nil, fmt.Errorf("key contains non-letter %q", c)
		}
		if seen[c-'a'] {
			return nil, fmt.Errorf("key repeats letter %q", c)
		}
		seen[c-'a'] = true
		m['a'+byte(i)] = string(c)
	}
	return m, nil
}

// Alphabet renders a full single-letter mapping as a 26-letter key, using
// '?' for unmapped letters.
func (m Mapping) Alphabet() string {
	b := make([]byte, 26)
	for i := range b {
		v := m['a'+byte(i)]
		if len(v) == 1 {
			b[i] = v[0]
		} else {
			b[i] = '?'
		}
	}
	return string(b)
}
