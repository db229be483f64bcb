package model

// Content is the variant payload of a Block. The set of implementations is
// closed: one per BlockType.
type Content interface {
	BlockType() BlockType
	isContent()
}

// HeadingContent is a section heading, levels 1-6
type HeadingContent struct {
	Text  string `json:"text" cbor:"text"`
	Level int    `json:"level" cbor:"level"`
}

// ParagraphContent is running text. Text may carry inline markup.
type ParagraphContent struct {
	Text string `json:"text" cbor:"text"`
}

// ListContent is the payload of ordered and unordered lists
type ListContent struct {
	Items   []ListItem `json:"items" cbor:"items"`
	Ordered bool       `json:"ordered,omitempty" cbor:"ordered,omitempty"`
}

// ListItem is a single list entry
type ListItem struct {
	Text  string `json:"text" cbor:"text"`
	Level int    `json:"level,omitempty" cbor:"level,omitempty"`
}

type QuoteContent struct {
	Text        string `json:"text" cbor:"text"`
	Attribution string `json:"attribution,omitempty" cbor:"attribution,omitempty"`
}

type DividerContent struct {
	Style string `json:"style,omitempty" cbor:"style,omitempty"`
}

// SpacerContent reserves vertical space, in points
type SpacerContent struct {
	Height float64 `json:"height" cbor:"height"`
}

// FigureContent is an image with its intrinsic size in points
type FigureContent struct {
	Src     string  `json:"src" cbor:"src"`
	Caption string  `json:"caption,omitempty" cbor:"caption,omitempty"`
	AltText string  `json:"altText,omitempty" cbor:"altText,omitempty"`
	Width   float64 `json:"width,omitempty" cbor:"width,omitempty"`
	Height  float64 `json:"height,omitempty" cbor:"height,omitempty"`
}

// TableContent is a table with an optional header row
type TableContent struct {
	Caption string   `json:"caption,omitempty" cbor:"caption,omitempty"`
	Header  []Cell   `json:"header,omitempty" cbor:"header,omitempty"`
	Rows    [][]Cell `json:"rows" cbor:"rows"`
	// KeepTogether lists row ranges that must be placed in one chunk
	KeepTogether []RowRange `json:"keepTogether,omitempty" cbor:"keepTogether,omitempty"`
}

// Cell is a table cell
type Cell struct {
	Text    string `json:"text" cbor:"text"`
	RowSpan int    `json:"rowSpan,omitempty" cbor:"rowSpan,omitempty"`
	ColSpan int    `json:"colSpan,omitempty" cbor:"colSpan,omitempty"`
}

// RowRange is an inclusive range of body row indexes
type RowRange struct {
	Start int `json:"start" cbor:"start"`
	End   int `json:"end" cbor:"end"`
}

// ColCount returns the widest row's column count, counting spans
func (t TableContent) ColCount() int {
	count := func(cells []Cell) int {
		n := 0
		for _, c := range cells {
			if c.ColSpan > 1 {
				n += c.ColSpan
			} else {
				n++
			}
		}
		return n
	}
	cols := count(t.Header)
	for _, row := range t.Rows {
		if n := count(row); n > cols {
			cols = n
		}
	}
	return cols
}

// RowGroups partitions the body rows into runs that must stay together.
// Rows covered by a rowspan, or by an explicit KeepTogether range, join the
// run of the row that starts them. Every other row is its own run.
func (t TableContent) RowGroups() []RowRange {
	n := len(t.Rows)
	if n == 0 {
		return nil
	}
	// reach[i] is the last row that must share a chunk with row i
	reach := make([]int, n)
	for i := range reach {
		reach[i] = i
	}
	extend := func(start, end int) {
		if start < 0 {
			start = 0
		}
		if end >= n {
			end = n - 1
		}
		if start >= n || end <= start {
			return
		}
		if end > reach[start] {
			reach[start] = end
		}
	}
	for i, row := range t.Rows {
		for _, c := range row {
			if c.RowSpan > 1 {
				extend(i, i+c.RowSpan-1)
			}
		}
	}
	for _, r := range t.KeepTogether {
		extend(r.Start, r.End)
	}

	var groups []RowRange
	for start := 0; start < n; {
		end := reach[start]
		for i := start; i <= end; i++ {
			if reach[i] > end {
				end = reach[i]
			}
		}
		groups = append(groups, RowRange{Start: start, End: end})
		start = end + 1
	}
	return groups
}

// ChartContent is a rendered chart; like a figure it is atomic
type ChartContent struct {
	Kind    string  `json:"kind,omitempty" cbor:"kind,omitempty"`
	Title   string  `json:"title,omitempty" cbor:"title,omitempty"`
	Caption string  `json:"caption,omitempty" cbor:"caption,omitempty"`
	AltText string  `json:"altText,omitempty" cbor:"altText,omitempty"`
	Width   float64 `json:"width,omitempty" cbor:"width,omitempty"`
	Height  float64 `json:"height,omitempty" cbor:"height,omitempty"`
}

type CalloutContent struct {
	Title string `json:"title,omitempty" cbor:"title,omitempty"`
	Text  string `json:"text" cbor:"text"`
	Tone  string `json:"tone,omitempty" cbor:"tone,omitempty"`
}

type FootnoteContent struct {
	Text string `json:"text" cbor:"text"`
}

// Cross-reference kinds
const (
	RefSee       = "see"
	RefReference = "reference"
	RefPage      = "page"
)

// Cross-reference formats
const (
	FormatFull       = "full"
	FormatNumberOnly = "number-only"
	FormatTitleOnly  = "title-only"
)

// CrossReferenceContent points at a referenceable element by id
type CrossReferenceContent struct {
	TargetID string `json:"targetId" cbor:"targetId"`
	RefType  string `json:"type" cbor:"type"`
	Format   string `json:"format" cbor:"format"`
}

// TableOfContentsContent places a generated TOC. Zero values fall back to
// the composer's TOC configuration.
type TableOfContentsContent struct {
	Title               string  `json:"title,omitempty" cbor:"title,omitempty"`
	IncludeLevels       []int   `json:"includeLevels,omitempty" cbor:"includeLevels,omitempty"`
	ShowPageNumbers     *bool   `json:"showPageNumbers,omitempty" cbor:"showPageNumbers,omitempty"`
	Leader              string  `json:"leader,omitempty" cbor:"leader,omitempty"`
	PageNumberAlignment string  `json:"pageNumberAlignment,omitempty" cbor:"pageNumberAlignment,omitempty"`
	IndentPerLevel      float64 `json:"indentPerLevel,omitempty" cbor:"indentPerLevel,omitempty"`
	Columns             int     `json:"columns,omitempty" cbor:"columns,omitempty"`
	ItemSpacing         float64 `json:"itemSpacing,omitempty" cbor:"itemSpacing,omitempty"`
}

func (HeadingContent) BlockType() BlockType   { return TypeHeading }
func (ParagraphContent) BlockType() BlockType { return TypeParagraph }
func (QuoteContent) BlockType() BlockType     { return TypeQuote }
func (DividerContent) BlockType() BlockType   { return TypeDivider }
func (SpacerContent) BlockType() BlockType    { return TypeSpacer }
func (FigureContent) BlockType() BlockType    { return TypeFigure }
func (TableContent) BlockType() BlockType     { return TypeTable }
func (ChartContent) BlockType() BlockType     { return TypeChart }
func (CalloutContent) BlockType() BlockType   { return TypeCallout }
func (FootnoteContent) BlockType() BlockType  { return TypeFootnote }

func (CrossReferenceContent) BlockType() BlockType  { return TypeCrossReference }
func (TableOfContentsContent) BlockType() BlockType { return TypeTableOfContents }

// BlockType of a list depends on whether it is ordered
func (l ListContent) BlockType() BlockType {
	if l.Ordered {
		return TypeOrderedList
	}
	return TypeUnorderedList
}

func (HeadingContent) isContent()         {}
func (ParagraphContent) isContent()       {}
func (ListContent) isContent()            {}
func (QuoteContent) isContent()           {}
func (DividerContent) isContent()         {}
func (SpacerContent) isContent()          {}
func (FigureContent) isContent()          {}
func (TableContent) isContent()           {}
func (ChartContent) isContent()           {}
func (CalloutContent) isContent()         {}
func (FootnoteContent) isContent()        {}
func (CrossReferenceContent) isContent()  {}
func (TableOfContentsContent) isContent() {}

// contentMatches reports whether content is a legal payload for t
func contentMatches(t BlockType, c Content) bool {
	if c == nil {
		return false
	}
	if _, ok := c.(ListContent); ok {
		return t == TypeOrderedList || t == TypeUnorderedList
	}
	return c.BlockType() == t
}
