package pagemaster

import (
	"math"

	"github.com/gompdf/doclayout/internal/model"
)

// DefaultHeaderHeight is reserved for a running header when the page master
// enables one without giving a height. Same for footers.
const (
	DefaultHeaderHeight = 36.0
	DefaultFooterHeight = 36.0
)

// Geometry is the usable content area of a page master
type Geometry struct {
	Orientation model.Orientation

	PageWidth  float64
	PageHeight float64
	Margins    model.Margins

	HeaderReserve float64
	FooterReserve float64

	Columns     int
	ColumnGap   float64
	ColumnWidth float64
	// ContentWidth and ContentHeight are the area inside margins, less
	// header and footer reservations
	ContentWidth  float64
	ContentHeight float64

	BaselineSpacing float64 // zero when the baseline grid is off

	master model.PageMaster
}

// Resolve computes the content area for a page master. Malformed margins
// (negative, or exceeding the page) clamp the usable area to zero.
func Resolve(pm model.PageMaster) Geometry {
	width, height := orient(pm.PageSize.Width, pm.PageSize.Height, pm.Orientation)

	orientation := pm.Orientation
	if orientation == "" {
		orientation = model.OrientationPortrait
	}

	g := Geometry{
		Orientation: orientation,
		PageWidth:   width,
		PageHeight:  height,
		Margins:     pm.Margins,
		Columns:     clampColumns(pm.Columns),
		ColumnGap:   math.Max(0, pm.ColumnGap),
		master:      pm,
	}
	if pm.Header {
		g.HeaderReserve = pm.HeaderHeight
		if g.HeaderReserve <= 0 {
			g.HeaderReserve = DefaultHeaderHeight
		}
	}
	if pm.Footer {
		g.FooterReserve = pm.FooterHeight
		if g.FooterReserve <= 0 {
			g.FooterReserve = DefaultFooterHeight
		}
	}
	if pm.BaselineGrid && pm.BaselineSpacing > 0 {
		g.BaselineSpacing = pm.BaselineSpacing
	}
	g.computeArea()
	return g
}

func (g *Geometry) computeArea() {
	m := g.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 || !finite(g.PageWidth) || !finite(g.PageHeight) {
		g.ContentWidth, g.ContentHeight, g.ColumnWidth = 0, 0, 0
		return
	}

	g.ContentWidth = clampZero(g.PageWidth - m.Left - m.Right)
	g.ContentHeight = clampZero(g.PageHeight - m.Top - m.Bottom - g.HeaderReserve - g.FooterReserve)
	if g.ContentWidth == 0 || g.ContentHeight == 0 {
		g.ContentWidth, g.ContentHeight = 0, 0
	}

	gutters := g.ColumnGap * float64(g.Columns-1)
	g.ColumnWidth = clampZero((g.ContentWidth - gutters) / float64(g.Columns))
	if g.ColumnWidth == 0 {
		g.ContentHeight = 0
	}
}

// Degenerate reports whether nothing with positive size can fit
func (g Geometry) Degenerate() bool {
	return g.ContentHeight <= 0 || g.ColumnWidth <= 0
}

// ColumnX returns the horizontal offset of a column from the left margin
func (g Geometry) ColumnX(column int) float64 {
	return float64(column) * (g.ColumnWidth + g.ColumnGap)
}

// Landscape returns the geometry of the same master rotated to landscape
func (g Geometry) Landscape() Geometry {
	pm := g.master
	pm.Orientation = model.OrientationLandscape
	return Resolve(pm)
}

// Snap rounds a height up to the baseline grid, when one is set
func (g Geometry) Snap(h float64) float64 {
	if g.BaselineSpacing <= 0 || h <= 0 {
		return h
	}
	return math.Ceil(h/g.BaselineSpacing-1e-9) * g.BaselineSpacing
}

// orient swaps the page dimensions so they match the orientation
func orient(width, height float64, o model.Orientation) (float64, float64) {
	switch o {
	case model.OrientationLandscape:
		if width < height {
			width, height = height, width
		}
	case model.OrientationPortrait, "":
		if width > height {
			width, height = height, width
		}
	}
	return width, height
}

func clampColumns(n int) int {
	if n < 1 {
		return 1
	}
	if n > model.MaxColumns {
		return model.MaxColumns
	}
	return n
}

func clampZero(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
