// Package numbering assigns heading, figure, table, chart and footnote
// numbers in one pass over a document's reading order.
package numbering

import (
	"strconv"
	"strings"

	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/text"
)

// Category of a numbered element
type Category string

const (
	CategoryHeading  Category = "heading"
	CategoryFigure   Category = "figure"
	CategoryTable    Category = "table"
	CategoryChart    Category = "chart"
	CategoryFootnote Category = "footnote"
)

const headingLevels = 6

// Element is a numbered, referenceable piece of the document
type Element struct {
	ID        string   `json:"id"`
	Category  Category `json:"category"`
	Number    string   `json:"number"`
	Title     string   `json:"title,omitempty"`
	Level     int      `json:"level,omitempty"`
	SectionID string   `json:"sectionId"`
}

// Registry holds the elements of one numbering pass in document order
type Registry struct {
	elements []Element
	index    map[string]int
}

// Lookup returns the element with the given id
func (r *Registry) Lookup(id string) (Element, bool) {
	if r == nil {
		return Element{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return Element{}, false
	}
	return r.elements[i], true
}

// Elements returns every element in document order
func (r *Registry) Elements() []Element {
	if r == nil {
		return nil
	}
	out := make([]Element, len(r.elements))
	copy(out, r.elements)
	return out
}

// Of returns the elements of one category in document order
func (r *Registry) Of(category Category) []Element {
	if r == nil {
		return nil
	}
	var out []Element
	for _, e := range r.elements {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of elements
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.elements)
}

func (r *Registry) add(e Element) {
	if _, dup := r.index[e.ID]; dup || e.ID == "" {
		return
	}
	r.index[e.ID] = len(r.elements)
	r.elements = append(r.elements, e)
}

// counters is the accumulator threaded through the pass
type counters struct {
	headings [headingLevels]int
	figures  int
	tables   int
	charts   int
	// footnotes restarts per section; endnotes spans the document
	footnotes int
	endnotes  int
}

func (c *counters) heading(level int) string {
	level = min(max(level, 1), headingLevels)
	c.headings[level-1]++
	for i := level; i < headingLevels; i++ {
		c.headings[i] = 0
	}
	parts := make([]string, 0, level)
	for _, n := range c.headings[:level] {
		if n != 0 {
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, ".")
}

func (c *counters) footnote(endnotes bool) string {
	if endnotes {
		c.endnotes++
		return strconv.Itoa(c.endnotes)
	}
	c.footnotes++
	return strconv.Itoa(c.footnotes)
}

// Resolve numbers the document. Headings use six nested counters; figures,
// tables and charts each count independently across sections. Footnote
// blocks are numbered first, then the section's footnote collection, from 1
// in every section unless the section defers to document-wide endnotes.
func Resolve(doc *model.SemanticDocument) *Registry {
	r := &Registry{index: make(map[string]int)}
	if doc == nil {
		return r
	}

	var c counters
	for _, s := range doc.OrderedSections() {
		c.footnotes = 0
		for _, b := range s.Blocks() {
			e := Element{ID: b.ID, SectionID: s.ID}
			switch b.Type {
			case model.TypeHeading:
				e.Category = CategoryHeading
				e.Level = min(max(b.HeadingLevel(), 1), headingLevels)
				e.Number = c.heading(e.Level)
				if h, ok := b.Content.(model.HeadingContent); ok {
					e.Title = plain(h.Text)
				}
			case model.TypeFigure:
				c.figures++
				e.Category = CategoryFigure
				e.Number = strconv.Itoa(c.figures)
				e.Title = plain(b.Caption())
			case model.TypeTable:
				c.tables++
				e.Category = CategoryTable
				e.Number = strconv.Itoa(c.tables)
				e.Title = plain(b.Caption())
			case model.TypeChart:
				c.charts++
				e.Category = CategoryChart
				e.Number = strconv.Itoa(c.charts)
				e.Title = plain(b.Caption())
			case model.TypeFootnote:
				e.Category = CategoryFootnote
				e.Number = c.footnote(s.UseEndnotes)
				if f, ok := b.Content.(model.FootnoteContent); ok {
					e.Title = plain(f.Text)
				}
			default:
				continue
			}
			r.add(e)
		}
		for _, f := range s.Footnotes {
			r.add(Element{
				ID:        f.ID,
				Category:  CategoryFootnote,
				Number:    c.footnote(s.UseEndnotes),
				Title:     plain(f.Text),
				SectionID: s.ID,
			})
		}
	}
	return r
}

func plain(s string) string {
	return strings.Join(strings.Fields(text.StripMarkup(s)), " ")
}
