package tui

import (
	"testing"

	"github.com/lukinkon/lukin/internal/cipher"
)

func plainRunes(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestBuildStyledRunesMapping(t *testing.T) {
	runes := buildStyledRunes([]rune("Ab c!"), cipher.Mapping{'a': "x"}, 'b')
	if len(runes) != 5 {
		t.Fatalf("expected 5 runes, got %d", len(runes))
	}
	if runes[0].s != mappedStyle.Render("X") {
		t.Fatalf("expected mapped upper-case letter")
	}
	if runes[1].s != unmappedStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined unmapped selection")
	}
	if !runes[2].isSpace {
		t.Fatalf("expected space")
	}
	if runes[3].s != unmappedStyle.Render("c") {
		t.Fatalf("expected unmapped style")
	}
	if runes[4].s != otherStyle.Render("!") {
		t.Fatalf("expected punctuation style")
	}
}

func TestBuildStyledRunesDigraph(t *testing.T) {
	runes := buildStyledRunes([]rune("y"), cipher.Mapping{'y': "qu"}, 0)
	if runes[0].width != 2 {
		t.Fatalf("expected digraph width 2, got %d", runes[0].width)
	}
	if runes[0].s != mappedStyle.Render("qu") {
		t.Fatalf("expected digraph rendering")
	}
}

func TestBuildStyledRunesNewlineIsSpace(t *testing.T) {
	runes := buildStyledRunes([]rune("a\nb"), nil, 0)
	if !runes[1].isSpace || runes[1].s != " " {
		t.Fatalf("expected newline to render as space")
	}
}

func TestWrapStyledRunes(t *testing.T) {
	if got := wrapStyledRunes(plainRunes("aaa bbb ccc"), 7); got != "aaa\nbbb ccc" {
		t.Fatalf("unexpected wrap %q", got)
	}
	if got := wrapStyledRunes(plainRunes("abcdef"), 3); got != "abc\ndef" {
		t.Fatalf("unexpected hard wrap %q", got)
	}
	if got := wrapStyledRunes(plainRunes("ab cd"), 0); got != "ab cd" {
		t.Fatalf("expected no wrap for zero width, got %q", got)
	}
}
