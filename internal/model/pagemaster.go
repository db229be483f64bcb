package model

// Orientation of a page
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageSize is a named page size in points (1/72 inch)
type PageSize struct {
	Name   string  `json:"name,omitempty" cbor:"name,omitempty"`
	Width  float64 `json:"width" cbor:"width"`
	Height float64 `json:"height" cbor:"height"`
}

// IsZero reports whether no page size was given
func (p PageSize) IsZero() bool {
	return p.Width == 0 && p.Height == 0
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA3     = PageSize{Name: "A3", Width: 841.89, Height: 1190.55}
	PageSizeA4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	PageSizeA5     = PageSize{Name: "A5", Width: 419.53, Height: 595.28}
	PageSizeLetter = PageSize{Name: "Letter", Width: 612, Height: 792}
	PageSizeLegal  = PageSize{Name: "Legal", Width: 612, Height: 1008}
)

// Margins represents page margins
type Margins struct {
	Top    float64 `json:"top" cbor:"top"`
	Right  float64 `json:"right" cbor:"right"`
	Bottom float64 `json:"bottom" cbor:"bottom"`
	Left   float64 `json:"left" cbor:"left"`
}

// TableBreakRules controls how tables continue across columns and pages
type TableBreakRules struct {
	// RepeatHeader re-emits the header row at the top of every continuation
	RepeatHeader bool `json:"repeatHeader,omitempty" cbor:"repeatHeader,omitempty"`
	// AvoidRowSplit keeps rows whole. Rows are the smallest unit the engine
	// breaks at, so this is carried for the renderer.
	AvoidRowSplit bool `json:"avoidRowSplit,omitempty" cbor:"avoidRowSplit,omitempty"`
	// KeepTogetherRows honors rowspan runs and explicit row ranges
	KeepTogetherRows bool `json:"keepTogetherRows,omitempty" cbor:"keepTogetherRows,omitempty"`
}

// PageMaster is the geometric contract for a section's pages
type PageMaster struct {
	PageSize     PageSize    `json:"pageSize" cbor:"pageSize"`
	Orientation  Orientation `json:"orientation,omitempty" cbor:"orientation,omitempty"`
	Margins      Margins     `json:"margins" cbor:"margins"`
	Columns      int         `json:"columns,omitempty" cbor:"columns,omitempty"`
	ColumnGap    float64     `json:"columnGap,omitempty" cbor:"columnGap,omitempty"`
	Header       bool        `json:"header,omitempty" cbor:"header,omitempty"`
	Footer       bool        `json:"footer,omitempty" cbor:"footer,omitempty"`
	HeaderHeight float64     `json:"headerHeight,omitempty" cbor:"headerHeight,omitempty"`
	FooterHeight float64     `json:"footerHeight,omitempty" cbor:"footerHeight,omitempty"`

	BaselineGrid    bool    `json:"baselineGrid,omitempty" cbor:"baselineGrid,omitempty"`
	BaselineSpacing float64 `json:"baselineSpacing,omitempty" cbor:"baselineSpacing,omitempty"`

	AllowTableRotation bool            `json:"allowTableRotation,omitempty" cbor:"allowTableRotation,omitempty"`
	TableBreakRules    TableBreakRules `json:"tableBreakRules" cbor:"tableBreakRules"`
}

// DefaultPageMaster returns an A4 portrait single-column master with 1-inch
// margins and a repeating table header.
func DefaultPageMaster() PageMaster {
	return PageMaster{
		PageSize:    PageSizeA4,
		Orientation: OrientationPortrait,
		Margins:     Margins{Top: 72, Right: 72, Bottom: 72, Left: 72},
		Columns:     1,
		ColumnGap:   18,
		TableBreakRules: TableBreakRules{
			RepeatHeader:     true,
			AvoidRowSplit:    true,
			KeepTogetherRows: true,
		},
	}
}
