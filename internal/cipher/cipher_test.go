package cipher

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/stats"
)

const (
	demoCipher = "WKH TXLFN EURZQ IRA MXPSV RYHU WKH ODCB GRJ"
	demoPlain  = "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG"
	plainEN    = "We need to meet the team at ten and then get the rest of the gear to the tent"
	expertIn   = "ju bumgz ubcfb dqofn ub vjcfqu uw cxqfj mcfz wopz zommuz ncwz jc mcfzow cxuv ju xfupr bcgfz"
	expertOut  = "le temps etait froid et claire en avril mais nous sommes dans la maison avec le vieux tapis"
)

type stubRefiner struct {
	out   string
	err   error
	calls int
}

func (s *stubRefiner) Refine(_ context.Context, _ string, _ lang.Language) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestScoreEmptyIsUnscorable(t *testing.T) {
	for _, text := range []string{"", "123 !? ...", "éàü"} {
		for _, p := range lang.Profiles() {
			require.True(t, math.IsInf(Score(text, p), -1), "text %q", text)
		}
	}
}

func TestScorePrefersMatchingLanguage(t *testing.T) {
	en := lang.EnglishProfile()
	require.Greater(t, Score(demoPlain, en), Score(demoCipher, en))
	require.LessOrEqual(t, Score(plainEN, en), 0.0)
}

func TestShiftRoundTrip(t *testing.T) {
	for s := 0; s < 26; s++ {
		enc := Shift(demoPlain+" and lower case", s)
		require.Equal(t, demoPlain+" and lower case", Unshift(enc, s), "shift %d", s)
	}
	require.Equal(t, "Khoor, Zruog! 42", Shift("Hello, World! 42", 3))
	require.Equal(t, Shift("abc", 29), Shift("abc", 3))
	require.Equal(t, "zab", Shift("abc", -1))
}

func TestSolveCaesarDemo(t *testing.T) {
	got, err := SolveCaesar(demoCipher)
	require.NoError(t, err)
	require.Equal(t, 3, got.Shift)
	require.Equal(t, demoPlain, got.Text)
	require.Equal(t, lang.English, got.Language)
	require.Equal(t, "Caesar Cipher (English)", got.Method)
	require.Equal(t, StrategyCaesar, got.Strategy)
	require.InDelta(t, -171.7548, got.Score, 1e-3)
}

func TestSolveCaesarRecoversShift(t *testing.T) {
	got, err := SolveCaesar(Shift(plainEN, 11))
	require.NoError(t, err)
	require.Equal(t, 11, got.Shift)
	require.Equal(t, plainEN, got.Text)
	require.Equal(t, lang.English, got.Language)
}

func TestSolveCaesarNoLetters(t *testing.T) {
	_, err := SolveCaesar("1234 !!")
	require.True(t, errors.Is(err, ErrNoLetters))
}

func TestCaesarCandidatesPerLanguage(t *testing.T) {
	cands, err := CaesarCandidates(demoCipher)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	require.Equal(t, lang.English, cands[0].Language)
	require.Equal(t, lang.French, cands[1].Language)
	require.Equal(t, "Caesar Cipher (French)", cands[1].Method)
	require.GreaterOrEqual(t, cands[0].Score, cands[1].Score)
}

func TestLooksEncrypted(t *testing.T) {
	require.False(t, LooksEncrypted(plainEN))
	for s := 1; s < 26; s++ {
		require.True(t, LooksEncrypted(Shift(plainEN, s)), "shift %d", s)
	}
	require.False(t, LooksEncrypted("xqz zzq"), "short texts are never judged")
}

func TestInspectVerdict(t *testing.T) {
	v := Inspect(plainEN)
	require.Equal(t, []byte{'e', 't', 'h'}, v.TopLetters)
	require.Zero(t, v.FrequencyFlags)
	require.InDelta(t, 0.578, v.Readability, 1e-3)
	require.False(t, v.Encrypted)

	short := Inspect("abc")
	require.True(t, short.TooShort)
	require.False(t, short.Encrypted)
}

func TestDetectLanguage(t *testing.T) {
	fr := DetectLanguage("le chat et le chien sont dans la maison avec une femme qui mange du pain")
	require.Equal(t, lang.French, fr.Language)
	require.Equal(t, lang.French, fr.Profile.Language())
	require.Len(t, fr.Scores, 2)

	en := DetectLanguage(strings.Join(lang.EnglishProfile().Words(), " "))
	require.Equal(t, lang.English, en.Language)

	frWords := DetectLanguage(strings.Join(lang.FrenchProfile().Words(), " "))
	require.Equal(t, lang.French, frWords.Language)
}

func TestMappingApplyKeepsCase(t *testing.T) {
	m := Mapping{'a': "x", 'b': "qu"}
	require.Equal(t, "Xx QUqu c-9 é", m.Apply("Aa Bb c-9 é"))
	require.Equal(t, "a→x b→qu", m.String())
	require.Equal(t, map[string]string{"a": "x", "b": "qu"}, m.Strings())
	require.Equal(t, m, MappingFromStrings(map[string]string{"A": "X", "b": "qu", "ab": "z", "1": "y"}))
}

func TestExpertMappingCopies(t *testing.T) {
	m := ExpertMapping()
	m['j'] = "z"
	require.Equal(t, "l", ExpertMapping()['j'])
	require.Equal(t, "qu", ExpertDigraphMapping()['y'])
	require.Len(t, ExpertMapping(), 26)
}

func TestExpertCandidateDecodesSample(t *testing.T) {
	c := ExpertCandidate(expertIn)
	require.Equal(t, expertOut, c.Text)
	require.Equal(t, StrategyExpert, c.Strategy)
	require.Equal(t, lang.French, c.Language)
	require.InDelta(t, 3096.44, c.Score, 1e-2)
}

func TestFrequencyRankMapping(t *testing.T) {
	st := stats.Compute("zzzz yyy xx w")
	m := FrequencyRankMapping(st, lang.EnglishProfile())
	require.Equal(t, Mapping{'z': "e", 'y': "t", 'x': "a", 'w': "o"}, m)
}

func TestSubstitutionSolveDemo(t *testing.T) {
	got, err := NewSubstitutionSolver(nil).Solve(context.Background(), demoCipher, true)
	require.NoError(t, err)
	require.Equal(t, "Frequency Analysis (English)", got.Method)
	require.Equal(t, "IAT JNFCY LOEZV MES GNBKX EQTO IAT PDRH UEW", got.Text)
	require.InDelta(t, -92.8977, got.Score, 1e-3)
	require.False(t, got.Refined)
}

func TestSubstitutionSolveExpertSample(t *testing.T) {
	got, err := NewSubstitutionSolver(nil).Solve(context.Background(), expertIn, false)
	require.NoError(t, err)
	require.Equal(t, StrategyExpert, got.Strategy)
	require.Equal(t, expertOut, got.Text)
}

func TestSubstitutionPoolOrder(t *testing.T) {
	pool, err := NewSubstitutionSolver(nil).Candidates(context.Background(), demoCipher, false)
	require.NoError(t, err)
	require.Len(t, pool, 3)
	require.Equal(t, StrategyExpert, pool[0].Strategy)
	require.Equal(t, "Frequency Analysis (English)", pool[1].Method)
	require.Equal(t, "Frequency Analysis (French)", pool[2].Method)
}

func TestSubstitutionRefinementAccepted(t *testing.T) {
	r := &stubRefiner{out: demoPlain}
	s := NewSubstitutionSolver(r)

	got, err := s.Solve(context.Background(), demoCipher, true)
	require.NoError(t, err)
	require.Equal(t, 3, r.calls)
	require.True(t, got.Refined)
	require.Equal(t, "Frequency Analysis (English) + AI Refinement", got.Method)
	require.Equal(t, demoPlain, got.Text)
	require.InDelta(t, -171.7548+9*50, got.Score, 1e-3)
}

func TestSubstitutionRefinementRejected(t *testing.T) {
	tests := []struct {
		name string
		r    *stubRefiner
	}{
		{name: "unavailable", r: &stubRefiner{err: errors.New("offline")}},
		{name: "empty", r: &stubRefiner{out: ""}},
		{name: "no letters", r: &stubRefiner{out: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewSubstitutionSolver(tt.r).Candidates(context.Background(), demoCipher, true)
			require.NoError(t, err)
			require.Len(t, pool, 3)
		})
	}

	r := &stubRefiner{out: demoPlain}
	pool, err := NewSubstitutionSolver(r).Candidates(context.Background(), demoCipher, false)
	require.NoError(t, err)
	require.Len(t, pool, 3)
	require.Zero(t, r.calls)
}

func TestSubstitutionUnchangedRefinementIgnored(t *testing.T) {
	expert := ExpertCandidate(demoCipher)
	r := &stubRefiner{out: expert.Text}
	pool, err := NewSubstitutionSolver(r).Candidates(context.Background(), demoCipher, true)
	require.NoError(t, err)
	for _, c := range pool {
		require.False(t, c.Refined && c.Strategy == StrategyExpert, "unchanged expert text must not be added")
	}
}

func TestRefinedScore(t *testing.T) {
	en := lang.EnglishProfile()
	base := "IAT JNFCY LOEZV MES GNBKX EQTO IAT PDRH UEW"
	got, ok := RefinedScore(-92.8977, base, demoPlain, en)
	require.True(t, ok)
	require.InDelta(t, -171.7548+450, got, 1e-3)

	_, ok = RefinedScore(0, base, "...", en)
	require.False(t, ok)
}

func TestCountReadableWords(t *testing.T) {
	en := lang.EnglishProfile()
	require.Equal(t, 9, CountReadableWords(demoPlain, en))
	require.Equal(t, 1, CountReadableWords("zq xy", en))
	require.Equal(t, 0, CountReadableWords("a b c", en))
}

func TestRecognizableWords(t *testing.T) {
	require.Equal(t, 9, RecognizableWords(demoPlain, lang.EnglishProfile()))
	require.Equal(t, 2, RecognizableWords("manger lettre x", lang.FrenchProfile()))
}

func TestArbitrate(t *testing.T) {
	caesar := Candidate{Score: -100, Strategy: StrategyCaesar, Method: "Caesar Cipher (English)"}

	sub := Candidate{Score: -49, Strategy: StrategyFrequency}
	w, alt := Arbitrate(caesar, sub)
	require.Equal(t, StrategyFrequency, w.Strategy)
	require.Equal(t, StrategyCaesar, alt.Strategy)

	sub.Score = -50
	w, _ = Arbitrate(caesar, sub)
	require.Equal(t, StrategyCaesar, w.Strategy, "a margin of exactly 50 is not enough")

	expert := Candidate{Score: -1000, Strategy: StrategyExpert}
	w, alt = Arbitrate(caesar, expert)
	require.Equal(t, StrategyExpert, w.Strategy)
	require.Equal(t, StrategyCaesar, alt.Strategy)

	expert.Refined = true
	w, _ = Arbitrate(caesar, expert)
	require.Equal(t, StrategyExpert, w.Strategy)
}

func TestParseKeyAndInvert(t *testing.T) {
	key, err := ParseKey("QWERTYUIOPASDFGHJKLZXCVBNM")
	require.NoError(t, err)
	require.Equal(t, "q", key['a'])
	require.Equal(t, "qwertyuiopasdfghjklzxcvbnm", key.Alphabet())

	plain := "Hello, World!"
	enc := key.Apply(plain)
	require.Equal(t, "Itssg, Vgksr!", enc)
	inv, err := key.Invert()
	require.NoError(t, err)
	require.Equal(t, plain, inv.Apply(enc))

	for _, bad := range []string{"abc", "aacdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrstuvwxy1"} {
		_, err := ParseKey(bad)
		require.Error(t, err, bad)
	}
	require.Equal(t, "?", ExpertDigraphMapping().Alphabet()[24:25])
}

func TestInvertRejectsNonBijective(t *testing.T) {
	_, err := ExpertMapping().Invert()
	require.EqualError(t, err, `cannot invert: "e" and "g" both map to "p"`)

	_, err = Mapping{'a': "qu"}.Invert()
	require.Error(t, err)

	inv, err := Mapping{'a': "x", 'b': "y"}.Invert()
	require.NoError(t, err)
	require.Equal(t, Mapping{'x': "a", 'y': "b"}, inv)
}
