package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/config"
	"github.com/lukinkon/lukin/internal/generator"
	"github.com/lukinkon/lukin/internal/historyui"
	"github.com/lukinkon/lukin/internal/lang"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/refine"
	"github.com/lukinkon/lukin/internal/server"
	"github.com/lukinkon/lukin/internal/stats"
	"github.com/lukinkon/lukin/internal/store"
	"github.com/lukinkon/lukin/internal/tui"
	"github.com/lukinkon/lukin/internal/wordlist"
)

const (
	serverDefaultAddr = server.DefaultAddr
	defaultShift      = 3
	dateLayout        = "2006-01-02"
)

var (
	freqFile    string
	freqNoGraph bool
	freqNoTable bool
	freqOutput  string

	encryptFile      string
	encryptShift     int
	encryptRandom    bool
	encryptKey       string
	encryptRandomKey bool
	encryptDecrypt   bool

	sampleLang         string
	sampleWords        int
	sampleWordlist     string
	sampleShift        int
	sampleRandom       bool
	sampleSubstitution bool
	sampleSeed         int64

	historyLang        string
	historyMethod      string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyLetters     string
	historyPlain       bool

	workbenchFile      string
	workbenchLang      string
	workbenchPreset    string
	workbenchNoHistory bool

	serveAddr      string
	serveNoHistory bool

	wordlistLang  string
	wordlistFrom  string
	wordlistForce bool
)

func newFreqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freq [text]",
		Short: "Show letter frequencies and compare with language patterns",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFreqCmd,
	}
	cmd.Flags().StringVarP(&freqFile, "file", "f", "", "read text from file")
	cmd.Flags().BoolVar(&freqNoGraph, "no-graph", false, "skip the comparison graph")
	cmd.Flags().BoolVar(&freqNoTable, "no-table", false, "skip the frequency table")
	cmd.Flags().StringVarP(&freqOutput, "output", "o", defaultOutput, "output format: text, json or yaml")
	return cmd
}

func runFreqCmd(cmd *cobra.Command, args []string) error {
	format, err := analyzer.ParseFormat(freqOutput)
	if err != nil {
		return fmt.Errorf("invalid --output value: %w", err)
	}
	text, err := readText(cmd, args, freqFile)
	if err != nil {
		return err
	}
	return printFrequency(cmd.OutOrStdout(), text, format, analyzer.RenderOptions{
		Graph: !freqNoGraph,
		Table: !freqNoTable,
	})
}

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [text]",
		Short: "Encrypt text with a Caesar shift or a substitution key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncryptCmd,
	}
	cmd.Flags().StringVarP(&encryptFile, "file", "f", "", "read text from file")
	cmd.Flags().IntVar(&encryptShift, "shift", defaultShift, "Caesar shift")
	cmd.Flags().BoolVar(&encryptRandom, "random", false, "use a random Caesar shift")
	cmd.Flags().StringVar(&encryptKey, "key", "", "26-letter substitution alphabet")
	cmd.Flags().BoolVar(&encryptRandomKey, "random-key", false, "use a random substitution key")
	cmd.Flags().BoolVarP(&encryptDecrypt, "decrypt", "d", false, "reverse a known --shift or --key")
	cmd.MarkFlagsMutuallyExclusive("shift", "random", "key", "random-key")
	cmd.MarkFlagsMutuallyExclusive("decrypt", "random")
	cmd.MarkFlagsMutuallyExclusive("decrypt", "random-key")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args, encryptFile)
	if err != nil {
		return err
	}
	gen := generator.New()

	var out string
	switch {
	case encryptKey != "":
		key, err := cipher.ParseKey(encryptKey)
		if err != nil {
			return fmt.Errorf("invalid --key value: %w", err)
		}
		if encryptDecrypt {
			if key, err = key.Invert(); err != nil {
				return fmt.Errorf("invalid --key value: %w", err)
			}
		}
		out = key.Apply(text)
	case encryptRandomKey:
		key := gen.RandomKey()
		logErrf("Key: %s\n", key.Alphabet())
		out = key.Apply(text)
	default:
		shift := encryptShift
		if encryptRandom {
			shift = gen.RandomShift()
		}
		if encryptDecrypt {
			out = cipher.Unshift(text, shift)
			break
		}
		logErrf("Shift: %d\n", shift)
		out = cipher.Shift(text, shift)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate an encrypted sample sentence",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVar(&sampleLang, "lang", string(lang.English), "sample language (english or french)")
	cmd.Flags().IntVar(&sampleWords, "words", defaultSampleWords, "words per sentence")
	cmd.Flags().StringVar(&sampleWordlist, "wordlist", "", "word list file (default: imported corpus or built-in words)")
	cmd.Flags().IntVar(&sampleShift, "shift", defaultShift, "Caesar shift (0 prints the plain sentence)")
	cmd.Flags().BoolVar(&sampleRandom, "random", false, "use a random Caesar shift")
	cmd.Flags().BoolVar(&sampleSubstitution, "substitution", false, "encrypt with a random substitution key")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 picks one)")
	cmd.MarkFlagsMutuallyExclusive("shift", "random", "substitution")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if sampleWords <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	l, err := lang.ParseLanguage(sampleLang)
	if err != nil {
		return fmt.Errorf("invalid --lang value: %w", err)
	}
	path := sampleWordlist
	if path == "" {
		path = config.DefaultWordListPath(string(l))
	}
	words, err := wordlist.Load(path, l)
	if err != nil {
		return err
	}

	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	plain := gen.Sentence(words, sampleWords)
	logErrf("Plain: %s\n", plain)

	out := plain
	switch {
	case sampleSubstitution:
		key := gen.RandomKey()
		logErrf("Key: %s\n", key.Alphabet())
		out = key.Apply(plain)
	case sampleRandom:
		shift := gen.RandomShift()
		logErrf("Shift: %d\n", shift)
		out = cipher.Shift(plain, shift)
	case sampleShift != 0:
		logErrf("Shift: %d\n", sampleShift)
		out = cipher.Shift(plain, sampleShift)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter (english or french)")
	cmd.Flags().StringVar(&historyMethod, "method", "", "strategy filter (caesar, expert, frequency, plain, manual)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N analyses")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&historyLetters, "letters", "", "letters for per-letter curves")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &historyCurveWindow, fileCfg.History.CurveWindow)

	filter, err := historyFilter()
	if err != nil {
		return err
	}
	letters := lettersArg(historyLetters)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if historyPlain {
		return printHistory(cmd, st, filter, letters)
	}
	program := tea.NewProgram(historyui.NewModel(st, filter, letters), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyFilter() (model.HistoryFilter, error) {
	filter := model.HistoryFilter{
		Method:      strings.ToLower(strings.TrimSpace(historyMethod)),
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}
	if historyLang != "" {
		l, err := lang.ParseLanguage(historyLang)
		if err != nil {
			return filter, fmt.Errorf("invalid --lang value: %w", err)
		}
		filter.Lang = string(l)
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation(dateLayout, historySince, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if filter.Last < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	if filter.CurveWindow < 1 {
		return filter, fmt.Errorf("--curve-window must be >= 1")
	}
	return filter, nil
}

// lettersArg keeps the distinct letters a-z of s in order.
func lettersArg(s string) []string {
	var out []string
	seen := map[rune]bool{}
	for _, r := range strings.ToLower(s) {
		if r < 'a' || r > 'z' || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

func printHistory(cmd *cobra.Command, st *store.Store, filter model.HistoryFilter, letters []string) error {
	report, err := stats.BuildReport(cmd.Context(), st, filter)
	if err != nil {
		return fmt.Errorf("failed to build history report: %w", err)
	}
	counts := report.LetterCounts
	if len(letters) == 0 {
		letters = report.CurveLetters
	} else {
		counts, err = st.ListLetterCounts(cmd.Context(), idsOf(report.Analyses), letters)
		if err != nil {
			return fmt.Errorf("failed to load letter counts: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Analyses); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Analyses) == 0 {
		return nil
	}
	if err := stats.RenderLetterTable(out, report.LettersAll); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderScoreCurve(out, report.Analyses, filter.CurveWindow, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderLetterCurves(out, report.Analyses, counts, letters, filter.CurveWindow, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func idsOf(records []model.AnalysisRecord) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func newWorkbenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workbench [text]",
		Short: "Decode a substitution cipher by hand",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWorkbenchCmd,
	}
	cmd.Flags().StringVarP(&workbenchFile, "file", "f", "", "read text from file")
	cmd.Flags().StringVar(&workbenchLang, "lang", string(lang.French), "scoring language (english or french)")
	cmd.Flags().StringVar(&workbenchPreset, "preset", string(tui.PresetNone), "initial mapping: none, frequency, expert or digraph")
	cmd.Flags().BoolVar(&workbenchNoHistory, "no-history", false, "disable saving to history")
	return cmd
}

func runWorkbenchCmd(cmd *cobra.Command, args []string) error {
	l, err := lang.ParseLanguage(workbenchLang)
	if err != nil {
		return fmt.Errorf("invalid --lang value: %w", err)
	}
	preset, err := tui.ParsePreset(workbenchPreset)
	if err != nil {
		return fmt.Errorf("invalid --preset value: %w", err)
	}
	text, err := readText(cmd, args, workbenchFile)
	if err != nil {
		return err
	}
	if stats.Compute(text).Total == 0 {
		return fmt.Errorf("no letters found to decode")
	}

	opts := tui.Options{Text: text, Language: l, Preset: preset}
	if !workbenchNoHistory {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
		opts.Store = st
	}

	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run workbench: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), m.Decoded()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", serverDefaultAddr, "listen address")
	cmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "do not record analyses in history")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyNegatedBoolConfig(cmd, "no-history", &serveNoHistory, fileCfg.Server.SaveHistory)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	logger := log.New(os.Stderr, "lukin ", log.LstdFlags)
	a := analyzer.New(refine.New(refineConfig(fileCfg)))
	srv := server.New(server.Config{Addr: serveAddr, SaveHistory: !serveNoHistory}, a, st, logger)
	return srv.Start(cmd.Context())
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Import a sample corpus for a language",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", string(lang.English), "corpus language (english or french)")
	cmd.Flags().StringVar(&wordlistFrom, "from", "", "source file with one word per line (default: built-in words)")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(_ *cobra.Command, _ []string) error {
	l, err := lang.ParseLanguage(wordlistLang)
	if err != nil {
		return fmt.Errorf("invalid --lang value: %w", err)
	}
	outPath := config.DefaultWordListPath(string(l))
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	var words []string
	if wordlistFrom == "" {
		words, err = wordlist.Builtin(l)
		if err != nil {
			return err
		}
	} else {
		raw, err := wordlist.LoadWords(wordlistFrom)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", wordlistFrom, err)
		}
		words = wordlist.Filter(raw, wordlist.FilterForLang(l))
		if dropped := len(raw) - len(words); dropped > 0 {
			logErrf("Skipped %d words that are not plain %s\n", dropped, l)
		}
		if len(words) == 0 {
			return fmt.Errorf("no usable %s words in %s", l, wordlistFrom)
		}
	}

	if err := writeWordList(outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %s (%d words)\n", outPath, len(words))
	return nil
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List supported languages and their sample corpora",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	for _, p := range lang.Profiles() {
		l := p.Language()
		source := "built-in"
		path := config.DefaultWordListPath(string(l))
		if _, err := os.Stat(path); err == nil {
			source = path
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l, source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
