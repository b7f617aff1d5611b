package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/config"
	"github.com/lukinkon/lukin/internal/refine"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))
	t.Setenv(refine.DefaultAPIKeyEnv, "")
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	var cfg config.FileConfig
	if _, err := toml.Decode(strings.Join(lines, "\n"), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Analyze.Output == nil || *cfg.Analyze.Output != defaultOutput {
		t.Fatalf("unexpected output: %v", cfg.Analyze.Output)
	}
	if cfg.Refine.Timeout == nil || cfg.Refine.Timeout.Duration != refine.DefaultTimeout {
		t.Fatalf("unexpected timeout: %v", cfg.Refine.Timeout)
	}
	if cfg.History.CurveWindow == nil || *cfg.History.CurveWindow != defaultCurveWindow {
		t.Fatalf("unexpected curve window: %v", cfg.History.CurveWindow)
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != serverDefaultAddr {
		t.Fatalf("unexpected addr: %v", cfg.Server.Addr)
	}

	var empty config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &empty); err != nil {
		t.Fatalf("decode commented template: %v", err)
	}
	if empty.Analyze.Output != nil || empty.Server.Addr != nil {
		t.Fatalf("commented template should leave values unset")
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--output", "yaml"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	output := "yaml"
	fromFile := "json"
	applyStringConfig(cmd, "output", &output, &fromFile)
	if output != "yaml" {
		t.Fatalf("flag should win, got %q", output)
	}

	graph := false
	on := true
	applyBoolConfig(cmd, "graph", &graph, &on)
	if !graph {
		t.Fatalf("config should apply when flag is unset")
	}

	noHistory := false
	save := false
	applyNegatedBoolConfig(cmd, "no-history", &noHistory, &save)
	if !noHistory {
		t.Fatalf("history = false should disable history")
	}
	applyBoolConfig(cmd, "graph", &graph, nil)
	if !graph {
		t.Fatalf("nil config value must not change target")
	}
}

func TestEncryptCommand(t *testing.T) {
	isolate(t)
	if got := execute(t, "encrypt", "THE QUICK BROWN FOX"); got != "WKH TXLFN EURZQ IRA\n" {
		t.Fatalf("unexpected caesar output %q", got)
	}
	if got := execute(t, "encrypt", "--key", "QWERTYUIOPASDFGHJKLZXCVBNM", "Hello, World!"); got != "Itssg, Vgksr!\n" {
		t.Fatalf("unexpected key output %q", got)
	}
	if got := execute(t, "encrypt", "-d", "WKH TXLFN EURZQ IRA"); got != "THE QUICK BROWN FOX\n" {
		t.Fatalf("unexpected caesar decryption %q", got)
	}
	if got := execute(t, "encrypt", "--decrypt", "--key", "QWERTYUIOPASDFGHJKLZXCVBNM", "Itssg, Vgksr!"); got != "Hello, World!\n" {
		t.Fatalf("unexpected key decryption %q", got)
	}
}

func TestFreqCommandJSON(t *testing.T) {
	isolate(t)
	out := execute(t, "freq", "-o", "json", "the cat sat on the mat")
	var report analyzer.FrequencyReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.TotalLetters != 17 {
		t.Fatalf("expected 17 letters, got %d", report.TotalLetters)
	}
	if report.TopLetters[0].Letter != "t" {
		t.Fatalf("expected t on top, got %q", report.TopLetters[0].Letter)
	}
}

func TestAnalyzeSavesHistory(t *testing.T) {
	isolate(t)
	out := execute(t, "--demo")
	if !strings.Contains(out, "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG") {
		t.Fatalf("missing decryption:\n%s", out)
	}
	if _, err := os.Stat(config.DefaultDBPath()); err != nil {
		t.Fatalf("history db not created: %v", err)
	}

	execute(t, "--no-history", "--demo")
	plain := execute(t, "history", "--plain", "--method", "caesar")
	if !strings.Contains(plain, "Analyses: 1") {
		t.Fatalf("expected one saved analysis:\n%s", plain)
	}
}

func TestSampleCommandSeeded(t *testing.T) {
	isolate(t)
	first := execute(t, "sample", "--seed", "7", "--shift", "0", "--words", "6")
	second := execute(t, "sample", "--seed", "7", "--shift", "0", "--words", "6")
	if first != second {
		t.Fatalf("seeded samples differ: %q vs %q", first, second)
	}
	if !strings.HasSuffix(strings.TrimSpace(first), ".") {
		t.Fatalf("sentence should end with a period: %q", first)
	}
}

func TestWordlistImport(t *testing.T) {
	isolate(t)
	src := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(src, []byte("Bonjour\nété\nmaison\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	execute(t, "wordlist", "--lang", "fr", "--from", src)
	got, err := os.ReadFile(config.DefaultWordListPath("french"))
	if err != nil {
		t.Fatalf("read imported list: %v", err)
	}
	if string(got) != "bonjour\nmaison\n" {
		t.Fatalf("unexpected word list %q", got)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"wordlist", "--lang", "fr", "--from", src})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error when the list exists without --force")
	}

	langs := execute(t, "langs")
	if !strings.Contains(langs, "english\tbuilt-in") || !strings.Contains(langs, "french\t"+config.DefaultWordListPath("french")) {
		t.Fatalf("unexpected langs output:\n%s", langs)
	}
}

func TestLettersArg(t *testing.T) {
	got := strings.Join(lettersArg("E, a; e Z9"), "")
	if got != "eaz" {
		t.Fatalf("expected eaz, got %q", got)
	}
}
