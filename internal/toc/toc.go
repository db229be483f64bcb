// Package toc builds tables of contents from numbered headings and the
// document layout.
package toc

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/numbering"
	"github.com/gompdf/doclayout/internal/pagination"
)

// Entry is one line of a table of contents
type Entry struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Title     string  `json:"title"`
	Level     int     `json:"level"`
	SectionID string  `json:"sectionId"`
	Page      *int    `json:"page"`
	Indent    float64 `json:"indent"`
	Column    int     `json:"column"`
}

// TOC is a generated table of contents
type TOC struct {
	Title   string  `json:"title,omitempty"`
	Entries []Entry `json:"entries"`
	// Breaks are the entry indexes where a continuation page starts
	Breaks []int `json:"breaks,omitempty"`

	config Config
}

// Continued reports whether the list runs past the display threshold
func (t *TOC) Continued() bool {
	return len(t.Breaks) > 0
}

// Generate lists the numbered headings selected by the configuration in
// document order. Page numbers come from the layout; headings of sections
// without a layout get a nil page.
func Generate(doc *model.SemanticDocument, reg *numbering.Registry, layout *pagination.DocumentLayout, cfg Config) *TOC {
	if reg == nil {
		reg = numbering.Resolve(doc)
	}
	listed := make(map[string]bool)
	if doc != nil {
		for _, s := range doc.Sections {
			listed[s.ID] = s.InTOC()
		}
	}

	t := &TOC{Title: cfg.Title, config: cfg}
	for _, h := range reg.Of(numbering.CategoryHeading) {
		if !listed[h.SectionID] || !cfg.includes(h.Level) {
			continue
		}
		e := Entry{
			ID:        h.ID,
			Number:    h.Number,
			Title:     h.Title,
			Level:     h.Level,
			SectionID: h.SectionID,
			Indent:    float64(h.Level-1) * cfg.IndentPerLevel,
		}
		if cfg.ShowPageNumbers {
			if page, ok := layout.PageOf(h.ID); ok {
				e.Page = &page
			}
		}
		t.Entries = append(t.Entries, e)
	}

	chunks := [][2]int{{0, len(t.Entries)}}
	if n := cfg.DisplayThreshold; n > 0 && len(t.Entries) > n {
		chunks = chunks[:0]
		for start := 0; start < len(t.Entries); start += n {
			if start > 0 {
				t.Breaks = append(t.Breaks, start)
			}
			chunks = append(chunks, [2]int{start, min(start+n, len(t.Entries))})
		}
	}
	if cfg.columns() == 2 {
		for _, c := range chunks {
			balance(t.Entries[c[0]:c[1]], cfg)
		}
	}
	return t
}

// balance splits entries into two contiguous columns of as equal a visual
// height as possible. Ties favor the left column.
func balance(entries []Entry, cfg Config) {
	heights := make([]float64, len(entries))
	total := 0.0
	for i, e := range entries {
		heights[i] = visualHeight(e, cfg)
		total += heights[i]
	}

	split, best, left := 0, math.Inf(1), 0.0
	for k := 0; k <= len(entries); k++ {
		if k > 0 {
			left += heights[k-1]
		}
		if tallest := math.Max(left, total-left); tallest <= best {
			split, best = k, tallest
		}
	}
	for i := range entries {
		if i >= split {
			entries[i].Column = 1
		} else {
			entries[i].Column = 0
		}
	}
}

// visualHeight estimates the rendered height of an entry in one column
func visualHeight(e Entry, cfg Config) float64 {
	width := max(cfg.LineWidth/cfg.columns(), 1)
	chars := 2*(e.Level-1) + utf8.RuneCountInString(label(e))
	if e.Page != nil {
		chars += len(strconv.Itoa(*e.Page)) + 2
	}
	lines := max((chars+width-1)/width, 1)
	return float64(lines)*cfg.LineHeight + cfg.ItemSpacing
}

func label(e Entry) string {
	return strings.TrimSpace(e.Number + " " + e.Title)
}

// FormatLine renders an entry as plain text with its leader and page number
func FormatLine(e Entry, cfg Config) string {
	text := strings.Repeat("  ", max(e.Level-1, 0)) + label(e)
	if !cfg.ShowPageNumbers || e.Page == nil {
		return text
	}
	page := strconv.Itoa(*e.Page)
	if cfg.PageNumberAlignment == AlignInline {
		return text + " " + page
	}

	fill := "."
	switch cfg.Leader {
	case LeaderDashes:
		fill = "-"
	case LeaderNone:
		fill = " "
	}
	gap := max(cfg.LineWidth-utf8.RuneCountInString(text)-len(page)-2, 1)
	return text + " " + strings.Repeat(fill, gap) + " " + page
}

// Lines renders the whole list, with a continued marker at every break
func (t *TOC) Lines() []string {
	var out []string
	next := 0
	for i, e := range t.Entries {
		if next < len(t.Breaks) && t.Breaks[next] == i {
			out = append(out, ContinuedMarker)
			next++
		}
		out = append(out, FormatLine(e, t.config))
	}
	return out
}
