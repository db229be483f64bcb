// Package measure supplies intrinsic block sizes to the pagination engine.
// The engine treats a Measurer as an opaque oracle.
package measure

import (
	"strconv"

	"github.com/gompdf/doclayout/internal/model"
)

// Extent is the intrinsic size of a block laid out at a column width.
//
// Units holds the heights of the smallest pieces the block may be broken
// into: lines for paragraphs, body rows for tables. Header is the table
// header row height. For splittable blocks Height is Header plus the sum of
// Units.
type Extent struct {
	Width  float64
	Height float64
	Header float64
	Units  []float64
}

// Lines builds an extent of n equal lines
func Lines(n int, pitch, width float64) Extent {
	units := make([]float64, n)
	for i := range units {
		units[i] = pitch
	}
	return Extent{Width: width, Height: float64(n) * pitch, Units: units}
}

// Measurer returns the extent of a block at a column width. Implementations
// must be safe for concurrent use.
type Measurer interface {
	Measure(b model.Block, columnWidth float64) Extent
}

// Func adapts a function to a Measurer
type Func func(b model.Block, columnWidth float64) Extent

// Measure calls f
func (f Func) Measure(b model.Block, columnWidth float64) Extent {
	return f(b, columnWidth)
}

// Static returns pre-measured extents by block id and defers unknown blocks
// to Fallback (zero extent when nil).
type Static struct {
	Extents  map[string]Extent
	Fallback Measurer
}

// Measure returns the stored extent for the block
func (s Static) Measure(b model.Block, columnWidth float64) Extent {
	if e, ok := s.Extents[b.ID]; ok {
		return e
	}
	if s.Fallback != nil {
		return s.Fallback.Measure(b, columnWidth)
	}
	return Extent{}
}

// Metadata keys read by Hinted
const (
	HintHeight = "height"
	HintWidth  = "width"
	HintUnits  = "units"
)

// Hinted honors sizes the ingestion collaborator wrote into block metadata
// ("height", optional "width" and "units") and defers everything else.
// A hinted block with units is split into that many equal pieces.
type Hinted struct {
	Fallback Measurer
}

// Measure reads the metadata hints
func (h Hinted) Measure(b model.Block, columnWidth float64) Extent {
	raw, ok := b.Metadata[HintHeight]
	if !ok {
		if h.Fallback != nil {
			return h.Fallback.Measure(b, columnWidth)
		}
		return Extent{}
	}
	height, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Unparseable hints read as zero height; the engine places such
		// blocks without consuming space.
		return Extent{}
	}
	width := columnWidth
	if w, err := strconv.ParseFloat(b.Metadata[HintWidth], 64); err == nil {
		width = w
	}
	if n, err := strconv.Atoi(b.Metadata[HintUnits]); err == nil && n > 0 {
		e := Lines(n, height/float64(n), width)
		e.Height = height
		return e
	}
	return Extent{Width: width, Height: height}
}
