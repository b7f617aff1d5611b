package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/refine"
)

const (
	demoPlain = "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG"
	plainEN   = "We need to meet the team at ten and then get the rest of the gear to the tent"
	plainFR   = "le chat et le chien sont dans la maison avec une femme qui mange du pain"
	expertIn  = "ju bumgz ubcfb dqofn ub vjcfqu uw cxqfj mcfz wopz zommuz ncwz jc mcfzow cxuv ju xfupr bcgfz"
	expertOut = "le temps etait froid et claire en avril mais nous sommes dans la maison avec le vieux tapis"
)

type fixedRefiner struct {
	out string
}

func (f fixedRefiner) Refine(context.Context, string, lang.Language) (string, error) {
	return f.out, nil
}

func TestAnalyzeDemo(t *testing.T) {
	r, err := New(refine.Disabled{}).Analyze(context.Background(), DemoCiphertext, Options{})
	require.NoError(t, err)
	require.True(t, r.Encrypted)
	require.Equal(t, 35, r.TotalLetters)
	require.NotNil(t, r.Best)
	require.Equal(t, demoPlain, r.Best.Text)
	require.Equal(t, cipher.StrategyCaesar, r.Best.Strategy)
	require.Equal(t, "Caesar Cipher (English)", r.Best.Method)
	require.NotNil(t, r.Best.Shift)
	require.Equal(t, 3, *r.Best.Shift)
	require.InDelta(t, 180, r.Best.LexicalBonus, 1e-9)
	require.InDelta(t, -171.7548+180, r.Best.Score, 1e-3)

	require.NotNil(t, r.Alternative)
	require.Equal(t, "Frequency Analysis (English)", r.Alternative.Method)
	require.Nil(t, r.Alternative.Shift)
	require.Empty(t, r.Refinement)
}

func TestAnalyzeCaesarShift(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), cipher.Shift(plainEN, 11), Options{})
	require.NoError(t, err)
	require.Equal(t, plainEN, r.Best.Text)
	require.Equal(t, 11, *r.Best.Shift)
	require.Equal(t, lang.English, r.Language)
}

func TestAnalyzeExpertSample(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), expertIn, Options{})
	require.NoError(t, err)
	require.Equal(t, cipher.StrategyExpert, r.Best.Strategy)
	require.Equal(t, expertOut, r.Best.Text)
	require.Equal(t, lang.French, r.Language)
	require.Len(t, r.Best.Mapping, 26)
	require.Equal(t, cipher.StrategyCaesar, r.Alternative.Strategy)
}

func TestAnalyzePlainText(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), plainFR, Options{})
	require.NoError(t, err)
	require.False(t, r.Encrypted)
	require.Nil(t, r.Best)
	require.Equal(t, lang.French, r.Language)

	r, err = New(nil).Analyze(context.Background(), plainEN, Options{})
	require.NoError(t, err)
	require.False(t, r.Encrypted)
	require.Equal(t, lang.English, r.Language)
}

func TestAnalyzeNoLetters(t *testing.T) {
	_, err := New(nil).Analyze(context.Background(), "1234 ?!", Options{})
	require.True(t, errors.Is(err, cipher.ErrNoLetters))
}

func TestAnalyzeRefinementFlag(t *testing.T) {
	r, err := New(refine.Disabled{}).Analyze(context.Background(), DemoCiphertext, Options{Refine: true})
	require.NoError(t, err)
	require.Equal(t, "unavailable", r.Refinement)

	r, err = New(fixedRefiner{out: demoPlain}).Analyze(context.Background(), DemoCiphertext, Options{Refine: true})
	require.NoError(t, err)
	require.Equal(t, "enabled", r.Refinement)
	require.Equal(t, demoPlain, r.Best.Text)
	require.Equal(t, "Frequency Analysis (English) + AI Refinement", r.Best.Method)
	require.True(t, r.Best.Refined)
}

func TestFrequency(t *testing.T) {
	r, err := Frequency(plainFR)
	require.NoError(t, err)
	require.Equal(t, "french", r.Closest)
	require.Len(t, r.Similarity, 2)
	require.Equal(t, "e", r.TopLetters[0].Letter)
	require.Equal(t, r.TotalLetters, sumCounts(r.Letters))

	_, err = Frequency("")
	require.True(t, errors.Is(err, cipher.ErrNoLetters))

	require.Equal(t, Ambiguous, closest([]Similarity{{Language: lang.English, Score: -1}, {Language: lang.French, Score: -1}}))
}

func sumCounts(letters []Letter) int {
	n := 0
	for _, l := range letters {
		n += l.Count
	}
	return n
}

func TestRenderText(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), DemoCiphertext, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r, RenderOptions{}))
	out := buf.String()
	for _, want := range []string{
		"Encryption detected: Yes",
		"BEST TRANSLATION (Caesar Cipher (English)):",
		demoPlain,
		"Caesar Shift: 3",
		"Alternative (Frequency Analysis (English)):",
		"Detected Language: English",
	} {
		require.Contains(t, out, want)
	}

	expert, err := New(nil).Analyze(context.Background(), expertIn, Options{})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, RenderText(&buf, expert, RenderOptions{}))
	require.Contains(t, buf.String(), "Substitution mapping (top 10):")
	require.Contains(t, buf.String(), "a→b | b→t")

	plain, err := New(nil).Analyze(context.Background(), plainEN, Options{})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, RenderText(&buf, plain, RenderOptions{Graph: true, Width: 60, Height: 4}))
	require.Contains(t, buf.String(), "Text appears to be in plain text already.")
	require.Contains(t, buf.String(), "Plain Text - Letter Frequencies")
}

func TestRenderFrequency(t *testing.T) {
	r, err := Frequency(plainEN)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, RenderFrequency(&buf, r, RenderOptions{Table: true}))
	out := buf.String()
	require.Contains(t, out, "English Expected")
	require.Contains(t, out, "-> Text appears more similar to English patterns")
	require.Contains(t, out, "Top 5 most frequent letters:")
	require.Contains(t, out, "Largest deviations from English:")
}

func TestEncode(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), DemoCiphertext, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, r))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	best := decoded["best"].(map[string]any)
	require.Equal(t, demoPlain, best["text"])
	require.EqualValues(t, 3, best["shift"])

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatYAML, r))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	require.Equal(t, true, y["encrypted"])

	require.Error(t, Encode(&buf, FormatText, r))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"": FormatText, "JSON": FormatJSON, "yml": FormatYAML, "text": FormatText} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestRecord(t *testing.T) {
	r, err := New(nil).Analyze(context.Background(), DemoCiphertext, Options{})
	require.NoError(t, err)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := Record(r, at)
	require.Equal(t, at, rec.CreatedAt)
	require.Equal(t, "caesar", rec.Strategy)
	require.Equal(t, 3, rec.Shift)
	require.Equal(t, demoPlain, rec.Decoded)
	require.Equal(t, "Frequency Analysis (English)", rec.AltMethod)
	require.Empty(t, rec.Mapping)

	plain, err := New(nil).Analyze(context.Background(), plainEN, Options{})
	require.NoError(t, err)
	require.Equal(t, StrategyPlain, Record(plain, at).Strategy)

	totals := LetterTotals(r.Statistics)
	require.Len(t, totals, 26)
	sum := 0
	for _, lt := range totals {
		sum += lt.Count
	}
	require.Equal(t, 35, sum)
	require.True(t, strings.HasPrefix(totals[0].Letter, "a"))
}
