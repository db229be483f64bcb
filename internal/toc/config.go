package toc

import "github.com/gompdf/doclayout/internal/model"

// Leader fills the gap between an entry title and its page number
type Leader string

const (
	LeaderDots   Leader = "dots"
	LeaderDashes Leader = "dashes"
	LeaderNone   Leader = "none"
)

// Alignment of page numbers
type Alignment string

const (
	AlignRight  Alignment = "right"
	AlignInline Alignment = "inline"
)

// ContinuedMarker is appended where the list breaks onto another page
const ContinuedMarker = "(continued on next page)"

// Config controls TOC generation and formatting
type Config struct {
	Title               string
	IncludeLevels       []int
	ShowPageNumbers     bool
	Leader              Leader
	PageNumberAlignment Alignment
	IndentPerLevel      float64
	// Columns is 1 or 2
	Columns     int
	ItemSpacing float64

	// DisplayThreshold is the number of entries shown before a continued
	// marker; zero disables it
	DisplayThreshold int
	// LineHeight and LineWidth (in characters, for the whole TOC width)
	// estimate the visual height of entries when balancing columns
	LineHeight float64
	LineWidth  int
}

// DefaultConfig returns a default TOC configuration
func DefaultConfig() Config {
	return Config{
		Title:               "Contents",
		IncludeLevels:       []int{1, 2, 3},
		ShowPageNumbers:     true,
		Leader:              LeaderDots,
		PageNumberAlignment: AlignRight,
		IndentPerLevel:      12,
		Columns:             1,
		ItemSpacing:         4,
		LineHeight:          14,
		LineWidth:           72,
	}
}

// Merge overlays the non-zero settings of a table-of-contents block
func (c Config) Merge(content model.TableOfContentsContent) Config {
	if content.Title != "" {
		c.Title = content.Title
	}
	if len(content.IncludeLevels) > 0 {
		c.IncludeLevels = append([]int(nil), content.IncludeLevels...)
	}
	if content.ShowPageNumbers != nil {
		c.ShowPageNumbers = *content.ShowPageNumbers
	}
	switch l := Leader(content.Leader); l {
	case LeaderDots, LeaderDashes, LeaderNone:
		c.Leader = l
	}
	switch a := Alignment(content.PageNumberAlignment); a {
	case AlignRight, AlignInline:
		c.PageNumberAlignment = a
	}
	if content.IndentPerLevel > 0 {
		c.IndentPerLevel = content.IndentPerLevel
	}
	if content.Columns > 0 {
		c.Columns = content.Columns
	}
	if content.ItemSpacing > 0 {
		c.ItemSpacing = content.ItemSpacing
	}
	return c
}

func (c Config) columns() int {
	if c.Columns == 2 {
		return 2
	}
	return 1
}

func (c Config) includes(level int) bool {
	if len(c.IncludeLevels) == 0 {
		return true
	}
	for _, l := range c.IncludeLevels {
		if l == level {
			return true
		}
	}
	return false
}
