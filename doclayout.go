// Package doclayout paginates semantic documents into pages and columns,
// numbers their headings and figures, and builds tables of contents and
// cross-references from the result.
package doclayout

import (
	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/toc"
	"github.com/gompdf/doclayout/pkg/api"
)

type Composer = api.Composer
type Options = api.Options
type Option = api.Option
type Result = api.Result
type PageOrientation = api.PageOrientation

func New() *Composer                           { return api.New() }
func NewWithOptions(options Options) *Composer { return api.NewWithOptions(options) }
func DefaultOptions() Options                  { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithMargins         = api.WithMargins
	WithColumns         = api.WithColumns
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithMeasurer        = api.WithMeasurer
	WithMeasureHints    = api.WithMeasureHints
	WithLegibilityFloor = api.WithLegibilityFloor
	WithWorkers         = api.WithWorkers
	WithTOCConfig       = api.WithTOCConfig
	WithResourcePath    = api.WithResourcePath
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithPageOrientation = api.WithPageOrientation
)

const (
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)

// Document model
type (
	Document        = model.SemanticDocument
	Section         = model.Section
	Flow            = model.Flow
	Block           = model.Block
	PaginationRules = model.PaginationRules
	PageMaster      = model.PageMaster
	PageSize        = model.PageSize
	Margins         = model.Margins
	Theme           = model.Theme
	Footnote        = model.Footnote

	HeadingContent         = model.HeadingContent
	ParagraphContent       = model.ParagraphContent
	ListContent            = model.ListContent
	ListItem               = model.ListItem
	QuoteContent           = model.QuoteContent
	DividerContent         = model.DividerContent
	SpacerContent          = model.SpacerContent
	FigureContent          = model.FigureContent
	TableContent           = model.TableContent
	Cell                   = model.Cell
	RowRange               = model.RowRange
	ChartContent           = model.ChartContent
	CalloutContent         = model.CalloutContent
	FootnoteContent        = model.FootnoteContent
	CrossReferenceContent  = model.CrossReferenceContent
	TableOfContentsContent = model.TableOfContentsContent
)

type (
	Format      = model.Format
	Orientation = model.Orientation
)

const (
	FormatJSON = model.FormatJSON
	FormatCBOR = model.FormatCBOR
)

var (
	NewDocument       = model.NewDocument
	NewBlock          = model.NewBlock
	DefaultPageMaster = model.DefaultPageMaster
	DefaultRules      = model.DefaultRules
	EncodeDocument    = model.EncodeDocument
	DecodeDocument    = model.DecodeDocument
)

// Measurement
type (
	Measurer = measure.Measurer
	Extent   = measure.Extent
	Static   = measure.Static
	Hinted   = measure.Hinted
)

var NewTextMeasurer = measure.NewTextMeasurer

// TOCConfig configures table of contents generation
type TOCConfig = toc.Config

var DefaultTOCConfig = toc.DefaultConfig
