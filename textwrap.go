package main

import (
	"strings"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// wrapText splits s into lines that do not exceed maxWidth when rendered
// with face. Words are kept intact when possible; a single word wider than
// maxWidth is broken across lines.
func wrapText(s string, face text.Face, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			cand := w
			if cur != "" {
				cand = cur + " " + w
			}
			if width, _ := text.Measure(cand, face, 0); width <= maxWidth {
				cur = cand
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = ""
			var runes []rune
			for _, r := range w {
				runes = append(runes, r)
				if wpart, _ := text.Measure(string(runes), face, 0); wpart > maxWidth && len(runes) > 1 {
					lines = append(lines, string(runes[:len(runes)-1]))
					runes = runes[len(runes)-1:]
				}
			}
			cur = string(runes)
		}
		lines = append(lines, cur)
	}
	return lines
}
