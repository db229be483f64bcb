package pagination

import (
	"github.com/rs/zerolog"

	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/pagemaster"
)

// DefaultLegibilityFloor is the smallest scale ratio an oversized block may
// be shrunk to before it gets a dedicated page instead
const DefaultLegibilityFloor = 0.5

// Options represents options for the pagination engine
type Options struct {
	LegibilityFloor float64
	Logger          zerolog.Logger
}

// Engine handles the pagination process
type Engine struct {
	options  Options
	measurer measure.Measurer
}

// NewEngine creates a new pagination engine around a measurement oracle
func NewEngine(measurer measure.Measurer) *Engine {
	if measurer == nil {
		measurer = measure.Static{}
	}
	return &Engine{
		options: Options{
			LegibilityFloor: DefaultLegibilityFloor,
			Logger:          zerolog.Nop(),
		},
		measurer: measurer,
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	if options.LegibilityFloor <= 0 || options.LegibilityFloor > 1 {
		options.LegibilityFloor = DefaultLegibilityFloor
	}
	e.options = options
}

// Paginate lays out a section with the geometry of its own page master
func (e *Engine) Paginate(section model.Section) *LayoutResult {
	return e.PaginateWithGeometry(section, pagemaster.Resolve(section.PageMaster))
}

// PaginateWithGeometry lays out every block of the section in reading order
// into pages and columns of the given geometry. Pages are numbered from 0
// within the section.
func (e *Engine) PaginateWithGeometry(section model.Section, geom pagemaster.Geometry) *LayoutResult {
	log := e.options.Logger.With().Str("section", section.ID).Logger()
	if geom.Degenerate() {
		log.Debug().
			Float64("content_width", geom.ContentWidth).
			Float64("content_height", geom.ContentHeight).
			Msg("degenerate page geometry, every block gets a dedicated page")
	}

	p := NewPaginator(geom, section.PageMaster, e.options.LegibilityFloor, log)
	result := p.Paginate(section.Blocks(), e.measurer)
	result.SectionID = section.ID
	result.LayoutIntent = section.LayoutIntent

	log.Debug().
		Int("blocks", len(result.Placements)).
		Int("pages", result.PageCount()).
		Msg("section paginated")
	return result
}
