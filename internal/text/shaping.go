package text

import (
	"strings"
	"unicode"
)

// WidthFunc returns the rendered width of s in points at the given font
type WidthFunc func(s string, font Font) float64

// Font represents a font used for line breaking
type Font struct {
	Family     string
	Style      string // "", "B", "I" or "BI"
	Size       float64
	LineHeight float64 // multiple of Size
}

// LinePitch returns the vertical advance of one line
func (f Font) LinePitch() float64 {
	lh := f.LineHeight
	if lh <= 0 {
		lh = 1.2
	}
	return f.Size * lh
}

// TextShaper breaks text into lines for a column width
type TextShaper struct {
	width WidthFunc
}

// NewTextShaper creates a shaper. A nil width function falls back to a
// monospace approximation.
func NewTextShaper(width WidthFunc) *TextShaper {
	if width == nil {
		width = approximateWidth
	}
	return &TextShaper{width: width}
}

// approximateWidth treats every rune as 0.6em wide
func approximateWidth(s string, font Font) float64 {
	return float64(len([]rune(s))) * font.Size * 0.6
}

// MeasureText returns the widest line and the total height of text once
// broken into lines no wider than maxWidth.
func (s *TextShaper) MeasureText(text string, font Font, maxWidth float64) (width, height float64) {
	lines := s.SplitTextToLines(text, font, maxWidth)
	for _, line := range lines {
		width = max(width, s.width(line, font))
	}
	return width, float64(len(lines)) * font.LinePitch()
}

// SplitTextToLines greedily breaks text into lines at word boundaries.
// Hard newlines always start a new line; a word wider than maxWidth is
// broken between runes.
func (s *TextShaper) SplitTextToLines(text string, font Font, maxWidth float64) []string {
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

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if s.width(candidate, font) <= maxWidth {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = word
			if s.width(word, font) > maxWidth {
				pieces := s.breakWord(word, font, maxWidth)
				lines = append(lines, pieces[:len(pieces)-1]...)
				current = pieces[len(pieces)-1]
			}
		}
		lines = append(lines, current)
	}
	// Trailing blank lines carry no content
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// breakWord cuts a word into pieces no wider than maxWidth. A piece holds
// at least one rune.
func (s *TextShaper) breakWord(word string, font Font, maxWidth float64) []string {
	runes := []rune(word)
	var pieces []string
	start := 0
	for end := start + 2; end <= len(runes); end++ {
		if s.width(string(runes[start:end]), font) > maxWidth {
			pieces = append(pieces, string(runes[start:end-1]))
			start = end - 1
		}
	}
	return append(pieces, string(runes[start:]))
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
