package api

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/pagination"
	"github.com/gompdf/doclayout/internal/toc"
)

// Options represents configuration options for the document composer
type Options struct {
	// Page dimensions used by sections whose page master has no page size
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// Column layout
	Columns   int
	ColumnGap float64

	// Pagination options
	// Smallest scale ratio allowed before an oversized block gets its own page
	LegibilityFloor float64
	// Number of sections paginated concurrently
	Workers int

	// Measurer sizes blocks; nil measures text with the document theme
	Measurer measure.Measurer
	// MeasureHints honors height, width and units hints in block metadata
	// ahead of the measurer
	MeasureHints bool

	// Table of contents defaults, overridden per table-of-contents block
	TOC toc.Config

	Debug  bool
	Logger zerolog.Logger

	// Resource paths
	ResourcePaths []string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		// Default to A4 paper size (595.28 x 841.89 points)
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		// Default margins (1 inch = 72 points)
		MarginTop:    72,
		MarginRight:  72,
		MarginBottom: 72,
		MarginLeft:   72,

		Columns:   1,
		ColumnGap: 18,

		LegibilityFloor: pagination.DefaultLegibilityFloor,
		Workers:         runtime.NumCPU(),

		TOC: toc.DefaultConfig(),

		Debug:  false,
		Logger: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel),

		ResourcePaths: []string{},
	}
}

// pageMaster builds the default page master described by the options
func (o Options) pageMaster() model.PageMaster {
	pm := model.DefaultPageMaster()
	pm.PageSize = model.PageSize{Width: o.PageWidth, Height: o.PageHeight}
	pm.Orientation = model.Orientation(o.PageOrientation)
	pm.Margins = model.Margins{Top: o.MarginTop, Right: o.MarginRight, Bottom: o.MarginBottom, Left: o.MarginLeft}
	if o.Columns > 0 {
		pm.Columns = o.Columns
	}
	pm.ColumnGap = o.ColumnGap
	return pm
}

func (o Options) logger() zerolog.Logger {
	if o.Debug {
		return o.Logger.Level(zerolog.DebugLevel)
	}
	return o.Logger
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithColumns sets the default column count and gap
func WithColumns(columns int, gap float64) Option {
	return func(o *Options) {
		o.Columns = columns
		o.ColumnGap = gap
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMeasurer sets the block measurer
func WithMeasurer(m measure.Measurer) Option {
	return func(o *Options) {
		o.Measurer = m
	}
}

// WithMeasureHints makes block metadata size hints take precedence
func WithMeasureHints(enabled bool) Option {
	return func(o *Options) {
		o.MeasureHints = enabled
	}
}

// WithLegibilityFloor sets the smallest acceptable scale ratio
func WithLegibilityFloor(floor float64) Option {
	return func(o *Options) {
		o.LegibilityFloor = floor
	}
}

// WithWorkers sets how many sections are paginated at once
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithTOCConfig sets the table of contents defaults
func WithTOCConfig(cfg toc.Config) Option {
	return func(o *Options) {
		o.TOC = cfg
	}
}

// WithResourcePath adds a path to search for documents
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// Standard page sizes in points (1/72 inch)
const (
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}
