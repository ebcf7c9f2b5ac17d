// Package text breaks coupon texts into lines.
package text

import (
	"strings"
	"unicode"
)

// WidthFunc returns the rendered width of s in the caller's unit.
type WidthFunc func(s string) float64

// SplitLines breaks text into lines no wider than maxWidth, breaking at
// spaces. Explicit newlines always break. A word wider than maxWidth gets a
// line of its own. A non-positive maxWidth only splits at newlines.
func SplitLines(text string, maxWidth float64, width WidthFunc) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := splitIntoWords(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		if maxWidth <= 0 {
			lines = append(lines, strings.Join(words, " "))
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if width(candidate) > maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

// Measure returns the widest line and the total height of text wrapped at
// maxWidth with the given line height. Empty text measures zero.
func Measure(text string, maxWidth, lineHeight float64, width WidthFunc) (w, h float64) {
	if strings.TrimSpace(text) == "" {
		return 0, 0
	}
	lines := SplitLines(text, maxWidth, width)
	for _, l := range lines {
		w = max(w, width(l))
	}
	return w, float64(len(lines)) * lineHeight
}

// Truncate keeps the first n lines, marking the cut on the last one.
func Truncate(lines []string, n int) []string {
	if n <= 0 || len(lines) <= n {
		return lines
	}
	out := append([]string(nil), lines[:n]...)
	out[n-1] = strings.TrimRightFunc(out[n-1], unicode.IsSpace) + "..."
	return out
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
