package pagination

import (
	"strconv"

	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/pagemaster"
)

// OversizedPolicy records how a block too large for any column was handled
type OversizedPolicy string

const (
	PolicyNone          OversizedPolicy = ""
	PolicyScaled        OversizedPolicy = "scaled"
	PolicyDedicatedPage OversizedPolicy = "dedicated-page"
	PolicyAutoLandscape OversizedPolicy = "auto-landscape"
)

// Page is one page produced for a section
type Page struct {
	Index       int               `json:"index"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Orientation model.Orientation `json:"orientation"`
	Columns     int               `json:"columns"`
	// Dedicated pages are sized to a single oversized block
	Dedicated bool `json:"dedicated,omitempty"`
}

// Fragment is the part of a block placed in one column
type Fragment struct {
	Page   int     `json:"page"`
	Column int     `json:"column"`
	Offset float64 `json:"offset"`
	Height float64 `json:"height"`
	// FirstUnit and LastUnit are the inclusive range of lines or rows
	// carried; both are -1 for unsplit blocks
	FirstUnit      int  `json:"firstUnit"`
	LastUnit       int  `json:"lastUnit"`
	HeaderRepeated bool `json:"headerRepeated,omitempty"`
}

// Placement is where a block landed. Page, Column and Offset locate its
// first fragment.
type Placement struct {
	BlockID    string          `json:"blockId"`
	Type       model.BlockType `json:"type"`
	Page       int             `json:"page"`
	Column     int             `json:"column"`
	Offset     float64         `json:"offset"`
	Height     float64         `json:"height"`
	Fragments  []Fragment      `json:"fragments"`
	Policy     OversizedPolicy `json:"oversizedPolicy,omitempty"`
	ScaleRatio float64         `json:"scaleRatio"`
	// Overflow marks a forced placement taller than its column
	Overflow bool `json:"overflow,omitempty"`
}

// Split reports whether the block spans more than one column
func (p Placement) Split() bool {
	return len(p.Fragments) > 1
}

// RowPlacement locates one table row. Header rows have Row -1.
type RowPlacement struct {
	Row    int     `json:"row"`
	Header bool    `json:"header,omitempty"`
	Page   int     `json:"page"`
	Column int     `json:"column"`
	Offset float64 `json:"offset"`
	Height float64 `json:"height"`
}

// LayoutResult is the outcome of paginating one section. It never aliases
// the document it was computed from.
type LayoutResult struct {
	SectionID    string              `json:"sectionId"`
	LayoutIntent model.LayoutIntent  `json:"layoutIntent,omitempty"`
	Geometry     pagemaster.Geometry `json:"-"`
	Pages        []Page              `json:"pages"`
	// Placements are in reading order
	Placements []Placement               `json:"placements"`
	Rows       map[string][]RowPlacement `json:"rows,omitempty"`

	index map[string]int
}

func newLayoutResult(geom pagemaster.Geometry) *LayoutResult {
	return &LayoutResult{
		Geometry: geom,
		Rows:     make(map[string][]RowPlacement),
		index:    make(map[string]int),
	}
}

// PageCount returns the number of pages in the section
func (r *LayoutResult) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// Placement returns where the block landed
func (r *LayoutResult) Placement(blockID string) (Placement, bool) {
	if r == nil {
		return Placement{}, false
	}
	i, ok := r.index[blockID]
	if !ok {
		return Placement{}, false
	}
	return r.Placements[i], true
}

// PageOf returns the section-local, 0-based page of a block's first fragment
func (r *LayoutResult) PageOf(blockID string) (int, bool) {
	p, ok := r.Placement(blockID)
	return p.Page, ok
}

// OnPage returns the ids of the blocks starting on a page, in reading order
func (r *LayoutResult) OnPage(page int) []string {
	if r == nil {
		return nil
	}
	var ids []string
	for _, p := range r.Placements {
		if p.Page == page {
			ids = append(ids, p.BlockID)
		}
	}
	return ids
}

// BlockMetadata returns the metadata the pagination pass writes back for a
// block: the oversized policy and, for scaled blocks, the scale ratio. The
// caller merges it into its own copy of the document when it wants to.
func (r *LayoutResult) BlockMetadata(blockID string) map[string]string {
	p, ok := r.Placement(blockID)
	if !ok || p.Policy == PolicyNone {
		return nil
	}
	meta := map[string]string{model.MetaOversizedPolicy: string(p.Policy)}
	if p.Policy == PolicyScaled {
		meta[model.MetaScaleRatio] = strconv.FormatFloat(p.ScaleRatio, 'f', 4, 64)
	}
	return meta
}

func (r *LayoutResult) add(p Placement) {
	r.index[p.BlockID] = len(r.Placements)
	r.Placements = append(r.Placements, p)
}
