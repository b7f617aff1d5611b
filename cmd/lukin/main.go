// Package main provides the CLI entrypoint for lukin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/cipher"
	"github.com/lukinkon/lukin/internal/config"
	"github.com/lukinkon/lukin/internal/input"
	"github.com/lukinkon/lukin/internal/model"
	"github.com/lukinkon/lukin/internal/refine"
	"github.com/lukinkon/lukin/internal/store"
)

const version = "lukin e nimi kon v1.0.0"

const (
	defaultOutput      = analyzer.FormatText
	defaultCurveWindow = 5
	defaultSampleWords = 12
)

var (
	analyzeFile      string
	analyzeGraph     bool
	analyzeDemo      bool
	analyzeFreqOnly  bool
	analyzeAI        bool
	analyzeOutput    string
	analyzeNoHistory bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lukin [text]",
		Short: "Automatic cipher detection and decryption",
		Long: `lukin e nimi kon detects whether a text is encrypted and recovers Caesar
and monoalphabetic substitution ciphers in English and French.`,
		Example: `  lukin "WKH TXLFN EURZQ IRA"
  lukin -f cipher.txt -g
  lukin --demo
  echo "encrypted text" | lukin -o json`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read text from file (.txt, .pdf, .docx)")
	rootCmd.Flags().BoolVarP(&analyzeGraph, "graph", "g", false, "show frequency graph")
	rootCmd.Flags().BoolVar(&analyzeDemo, "demo", false, "run with the demo Caesar cipher")
	rootCmd.Flags().BoolVar(&analyzeFreqOnly, "freq-only", false, "show only frequency analysis (no decryption)")
	rootCmd.Flags().BoolVar(&analyzeAI, "ai", false, "enable AI refinement of decoded text")
	rootCmd.Flags().StringVarP(&analyzeOutput, "output", "o", defaultOutput, "output format: text, json or yaml")
	rootCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record the analysis in history")

	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWorkbenchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWordlistCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "output", &analyzeOutput, fileCfg.Analyze.Output)
	applyBoolConfig(cmd, "graph", &analyzeGraph, fileCfg.Analyze.Graph)
	applyBoolConfig(cmd, "ai", &analyzeAI, fileCfg.Analyze.AI)
	applyNegatedBoolConfig(cmd, "no-history", &analyzeNoHistory, fileCfg.Analyze.SaveHistory)

	format, err := analyzer.ParseFormat(analyzeOutput)
	if err != nil {
		return fmt.Errorf("invalid --output value: %w", err)
	}
	cfg := model.Config{
		Refine:      analyzeAI,
		Output:      format,
		Graph:       analyzeGraph,
		SaveHistory: !analyzeNoHistory,
	}

	text, err := analyzeInput(cmd, args)
	if err != nil {
		return err
	}

	if analyzeFreqOnly {
		return printFrequency(cmd.OutOrStdout(), text, cfg.Output, analyzer.RenderOptions{Graph: cfg.Graph})
	}

	a := analyzer.New(refine.New(refineConfig(fileCfg)))
	if cfg.Refine && !a.Refining(true) {
		logErrf("AI refinement requested but %s is not set\n", refineAPIKeyEnv(fileCfg))
	}
	report, err := a.Analyze(cmd.Context(), text, analyzer.Options{Refine: cfg.Refine})
	if err != nil {
		if errors.Is(err, cipher.ErrNoLetters) {
			return fmt.Errorf("no letters found to analyze")
		}
		return fmt.Errorf("failed to analyze text: %w", err)
	}

	out := cmd.OutOrStdout()
	if cfg.Output == analyzer.FormatText {
		err = analyzer.RenderText(out, report, analyzer.RenderOptions{Graph: cfg.Graph})
	} else {
		err = analyzer.Encode(out, cfg.Output, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if cfg.SaveHistory {
		saveReport(cmd.Context(), report)
	}
	return nil
}

// analyzeInput resolves the text for the root command. An empty
// interactive answer falls back to the demo cipher.
func analyzeInput(cmd *cobra.Command, args []string) (string, error) {
	if analyzeDemo {
		logErrln("Demo mode: using sample Caesar cipher")
		return analyzer.DemoCiphertext, nil
	}
	text, err := readText(cmd, args, analyzeFile)
	prompted := analyzeFile == "" && len(args) == 0 && isInteractive(cmd.InOrStdin())
	if errors.Is(err, input.ErrEmpty) && prompted && !analyzeFreqOnly {
		logErrln("Using demo Caesar cipher...")
		return analyzer.DemoCiphertext, nil
	}
	return text, err
}

// readText picks the text from --file, the positional argument, piped
// stdin or an interactive prompt, in that order.
func readText(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file != "":
		doc, err := input.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("file %q not found", file)
			}
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		if doc.SkippedPages > 0 {
			logErrf("Warning: skipped %d unreadable page(s) in %s\n", doc.SkippedPages, file)
		}
		return doc.Text, nil
	case len(args) > 0:
		text := strings.TrimSpace(args[0])
		if text == "" {
			return "", input.ErrEmpty
		}
		return text, nil
	}

	in := cmd.InOrStdin()
	if !isInteractive(in) {
		return input.ReadStdin(in)
	}
	logErrln("LUKIN E NIMI KON")
	logErrln("Enter text to analyze (or use -h for help):")
	logErrf("> ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", input.ErrEmpty
	}
	return line, nil
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func printFrequency(out io.Writer, text, format string, opts analyzer.RenderOptions) error {
	report, err := analyzer.Frequency(text)
	if err != nil {
		if errors.Is(err, cipher.ErrNoLetters) {
			return fmt.Errorf("no letters found to analyze")
		}
		return fmt.Errorf("failed to analyze frequencies: %w", err)
	}
	if format == analyzer.FormatText {
		err = analyzer.RenderFrequency(out, report, opts)
	} else {
		err = analyzer.Encode(out, format, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// saveReport records report in the history database. Failures are logged
// and never abort the command.
func saveReport(ctx context.Context, report analyzer.Report) {
	st, err := openStore()
	if err != nil {
		logErrf("failed to open history: %v\n", err)
		return
	}
	defer closeStore(st)
	rec := analyzer.Record(report, time.Now())
	if _, err := st.InsertAnalysis(ctx, rec, analyzer.LetterTotals(report.Statistics)); err != nil {
		logErrf("failed to save history: %v\n", err)
	}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func refineConfig(fileCfg config.FileConfig) refine.Config {
	rc := model.RefineConfig{}
	applyValue(&rc.Endpoint, fileCfg.Refine.Endpoint)
	applyValue(&rc.Model, fileCfg.Refine.Model)
	applyValue(&rc.APIKeyEnv, fileCfg.Refine.APIKeyEnv)
	if fileCfg.Refine.Timeout != nil {
		rc.Timeout = fileCfg.Refine.Timeout.Duration
	}
	return refine.Config{
		Endpoint:  rc.Endpoint,
		Model:     rc.Model,
		APIKeyEnv: rc.APIKeyEnv,
		Timeout:   rc.Timeout,
	}
}

func refineAPIKeyEnv(fileCfg config.FileConfig) string {
	if fileCfg.Refine.APIKeyEnv != nil && *fileCfg.Refine.APIKeyEnv != "" {
		return *fileCfg.Refine.APIKeyEnv
	}
	return refine.DefaultAPIKeyEnv
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lukin configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# output = %q            # Output format: text, json or yaml
# graph = false             # Show frequency graphs
# ai = false                # Refine decoded text with the AI service
# history = true            # Record analyses in the history database

[refine]
# endpoint = %q
# model = %q
# api-key-env = %q   # Environment variable holding the API key
# timeout = %q                # Request timeout

[history]
# curve-window = %d          # Moving average window for history curves

[server]
# addr = %q     # Listen address for lukin serve
# history = true            # Record API analyses in the history database
`,
		defaultOutput,
		refine.DefaultEndpoint,
		refine.DefaultModel,
		refine.DefaultAPIKeyEnv,
		refine.DefaultTimeout.String(),
		defaultCurveWindow,
		serverDefaultAddr,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyNegatedBoolConfig maps a positive config switch onto a --no-* flag.
func applyNegatedBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func applyValue[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
