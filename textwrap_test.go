package main

import (
	"testing"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

func TestWrapText(t *testing.T) {
	w1, _ := text.Measure("hello", glyphFace, 0)
	w2, _ := text.Measure("hello world", glyphFace, 0)
	maxWidth := (w1 + w2) / 2
	lines := wrapText("hello world", glyphFace, maxWidth)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "hello" || lines[1] != "world" {
		t.Fatalf("got lines %#v", lines)
	}
}

func TestWrapTextBreaksLongWord(t *testing.T) {
	w, _ := text.Measure("abc", glyphFace, 0)
	lines := wrapText("abcdefgh", glyphFace, w)
	if len(lines) != 3 || lines[0] != "abc" || lines[1] != "def" || lines[2] != "gh" {
		t.Fatalf("got lines %#v", lines)
	}
}
