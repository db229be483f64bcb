package measure

import (
	"math"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/text"
)

// headingScale mirrors the h1-h6 font-size ratios of a browser stylesheet
var headingScale = [...]float64{2, 1.5, 1.17, 1, 0.83, 0.75}

const (
	cellPadding    = 4.0
	calloutPadding = 8.0
	listIndent     = 18.0
	quoteIndent    = 36.0
	dividerHeight  = 12.0
	footnoteScale  = 0.8
	// figures without an intrinsic size get a 5:3 box at column width
	defaultAspect = 0.6
)

// TextMeasurer measures blocks with core PDF font metrics. It is safe for
// concurrent use; measurement is serialized on one fpdf instance.
type TextMeasurer struct {
	theme  model.Theme
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	shaper *text.TextShaper
}

// NewTextMeasurer creates a measurer for the given theme (nil for defaults)
func NewTextMeasurer(theme *model.Theme) *TextMeasurer {
	m := &TextMeasurer{theme: resolveTheme(theme)}
	m.pdf = fpdf.New("P", "pt", "A4", "")
	m.pdf.SetFont("Helvetica", "", m.theme.BaseFontSize)
	m.shaper = text.NewTextShaper(m.stringWidth)
	return m
}

func resolveTheme(theme *model.Theme) model.Theme {
	t := model.Theme{BodyFont: "Helvetica", HeadingFont: "Helvetica", BaseFontSize: 11, LineHeight: 1.4}
	if theme == nil {
		return t
	}
	if theme.BodyFont != "" {
		t.BodyFont = theme.BodyFont
	}
	if theme.HeadingFont != "" {
		t.HeadingFont = theme.HeadingFont
	}
	if theme.BaseFontSize > 0 {
		t.BaseFontSize = theme.BaseFontSize
	}
	if theme.LineHeight > 0 {
		t.LineHeight = theme.LineHeight
	}
	return t
}

// stringWidth is called with mu held
func (m *TextMeasurer) stringWidth(s string, font text.Font) float64 {
	m.pdf.SetFont(coreFamily(font.Family), font.Style, font.Size)
	return m.pdf.GetStringWidth(s)
}

// coreFamily maps a theme font family onto one of the PDF core fonts
func coreFamily(family string) string {
	first := strings.Split(family, ",")[0]
	first = strings.TrimSpace(strings.Trim(first, "'\""))
	switch strings.ToLower(first) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	}
	return "Helvetica"
}

func (m *TextMeasurer) bodyFont() text.Font {
	return text.Font{Family: m.theme.BodyFont, Size: m.theme.BaseFontSize, LineHeight: m.theme.LineHeight}
}

// Measure returns the extent of a block at the given column width
func (m *TextMeasurer) Measure(b model.Block, columnWidth float64) Extent {
	m.mu.Lock()
	defer m.mu.Unlock()

	body := m.bodyFont()
	switch c := b.Content.(type) {
	case model.HeadingContent:
		level := min(max(b.HeadingLevel(), 1), len(headingScale))
		font := text.Font{
			Family:     m.theme.HeadingFont,
			Style:      "B",
			Size:       m.theme.BaseFontSize * headingScale[level-1],
			LineHeight: 1.2,
		}
		return m.lines(c.Text, font, columnWidth)
	case model.ParagraphContent:
		return m.lines(c.Text, body, columnWidth)
	case model.ListContent:
		var e Extent
		for _, item := range c.Items {
			indent := listIndent * float64(item.Level+1)
			e = appendExtent(e, m.lines(item.Text, body, columnWidth-indent), indent)
		}
		return e
	case model.QuoteContent:
		font := body
		font.Style = "I"
		e := m.lines(c.Text, font, columnWidth-quoteIndent)
		if c.Attribution != "" {
			e = appendExtent(e, m.lines(c.Attribution, body, columnWidth-quoteIndent), quoteIndent)
		}
		e.Width += quoteIndent
		return e
	case model.DividerContent:
		return Extent{Width: columnWidth, Height: dividerHeight}
	case model.SpacerContent:
		return Extent{Width: columnWidth, Height: c.Height}
	case model.FigureContent:
		return m.boxWithCaption(c.Width, c.Height, b.Caption(), columnWidth)
	case model.ChartContent:
		return m.boxWithCaption(c.Width, c.Height, b.Caption(), columnWidth)
	case model.TableContent:
		return m.table(c, columnWidth)
	case model.CalloutContent:
		inner := columnWidth - 2*calloutPadding
		var e Extent
		if c.Title != "" {
			title := body
			title.Style = "B"
			e = appendExtent(e, m.lines(c.Title, title, inner), 0)
		}
		e = appendExtent(e, m.lines(c.Text, body, inner), 0)
		e.Height += 2 * calloutPadding
		e.Width += 2 * calloutPadding
		e.Units = nil
		return e
	case model.FootnoteContent:
		font := body
		font.Size *= footnoteScale
		return m.lines(c.Text, font, columnWidth)
	case model.CrossReferenceContent:
		return Lines(1, body.LinePitch(), columnWidth)
	case model.TableOfContentsContent:
		var e Extent
		if c.Title != "" {
			title := body
			title.Style = "B"
			title.Size *= headingScale[1]
			e = m.lines(c.Title, title, columnWidth)
		}
		return e
	}
	return Extent{}
}

// lines wraps text and returns one unit per line
func (m *TextMeasurer) lines(s string, font text.Font, width float64) Extent {
	plain := text.StripMarkup(s)
	if strings.TrimSpace(plain) == "" {
		return Extent{}
	}
	lines := m.shaper.SplitTextToLines(plain, font, width)
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, m.stringWidth(line, font))
	}
	// a single glyph can still be wider than a very narrow column
	if width > 0 {
		widest = math.Min(widest, width)
	}
	return Lines(len(lines), font.LinePitch(), widest)
}

// appendExtent stacks next below e
func appendExtent(e, next Extent, indent float64) Extent {
	e.Width = math.Max(e.Width, next.Width+indent)
	e.Height += next.Height
	e.Units = append(e.Units, next.Units...)
	return e
}

func (m *TextMeasurer) boxWithCaption(width, height float64, caption string, columnWidth float64) Extent {
	if width <= 0 {
		width = columnWidth
	}
	if height <= 0 {
		height = width * defaultAspect
	}
	e := Extent{Width: width, Height: height}
	if plain := text.StripMarkup(caption); strings.TrimSpace(plain) != "" {
		font := m.bodyFont()
		font.Style = "I"
		_, h := m.shaper.MeasureText(plain, font, math.Min(width, columnWidth))
		e.Height += h
	}
	return e
}

// table measures rows with cells sharing the column width equally. Cells
// wrap, so the reported width is the natural (unwrapped) width capped at
// the column width.
func (m *TextMeasurer) table(t model.TableContent, columnWidth float64) Extent {
	cols := t.ColCount()
	if cols == 0 {
		return Extent{}
	}
	cellWidth := columnWidth/float64(cols) - 2*cellPadding
	natural := make([]float64, cols)

	body := m.bodyFont()
	rowHeight := func(cells []model.Cell, font text.Font) float64 {
		h := font.LinePitch()
		col := 0
		for _, cell := range cells {
			span := max(cell.ColSpan, 1)
			plain := text.StripMarkup(cell.Text)
			width := cellWidth*float64(span) + 2*cellPadding*float64(span-1)
			lines := m.shaper.SplitTextToLines(plain, font, width)
			h = math.Max(h, float64(len(lines))*font.LinePitch())
			if span == 1 && col < cols {
				natural[col] = math.Max(natural[col], m.stringWidth(plain, font))
			}
			col += span
		}
		return h + 2*cellPadding
	}

	var e Extent
	if len(t.Header) > 0 {
		header := body
		header.Style = "B"
		e.Header = rowHeight(t.Header, header)
	}
	e.Units = make([]float64, len(t.Rows))
	e.Height = e.Header
	for i, row := range t.Rows {
		e.Units[i] = rowHeight(row, body)
		e.Height += e.Units[i]
	}
	for _, w := range natural {
		e.Width += w + 2*cellPadding
	}
	e.Width = math.Min(e.Width, columnWidth)
	return e
}
