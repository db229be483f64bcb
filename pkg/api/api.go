package api

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/numbering"
	"github.com/gompdf/doclayout/internal/pagination"
	"github.com/gompdf/doclayout/internal/res"
	"github.com/gompdf/doclayout/internal/toc"
	"github.com/gompdf/doclayout/internal/xref"
)

// ErrNilDocument is returned when Compose is given no document
var ErrNilDocument = errors.New("document is nil")

// Composer is the main API for laying out semantic documents
type Composer struct {
	options Options
	loader  *res.Loader
}

// Result is everything computed for one document. The document itself is
// never modified.
type Result struct {
	Document  *model.SemanticDocument
	Numbering *numbering.Registry
	// Sections are the per-section layouts in reading order
	Sections []*pagination.LayoutResult
	Layout   *pagination.DocumentLayout
	// TOC is generated with the composer's configuration; BlockTOCs holds
	// one per table-of-contents block, keyed by block id
	TOC        *toc.TOC
	BlockTOCs  map[string]*toc.TOC
	References []xref.Result
}

// New creates a new composer with default options
func New() *Composer {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new composer with the specified options
func NewWithOptions(options Options) *Composer {
	loader := res.NewLoader("")
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return &Composer{
		options: options,
		loader:  loader,
	}
}

// WithOptions returns a new composer with the specified options
func (c *Composer) WithOptions(options Options) *Composer {
	return NewWithOptions(options)
}

// WithOption returns a new composer with the specified option set
func (c *Composer) WithOption(option Option) *Composer {
	newOptions := c.options
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// Options returns the composer's options
func (c *Composer) Options() Options {
	return c.options
}

// ComposeFile loads a document from a path or URL and composes it
func (c *Composer) ComposeFile(ctx context.Context, location string) (*Result, error) {
	doc, err := c.loader.LoadDocument(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return c.Compose(ctx, doc)
}

// Compose validates, numbers and paginates the document, then builds its
// tables of contents and resolves its cross-references. Only structural
// validation errors and cancellation are returned; layout problems are
// recovered inside the engines.
func (c *Composer) Compose(ctx context.Context, doc *model.SemanticDocument) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate document: %w", err)
	}
	log := c.options.logger().With().Str("document", doc.ID).Logger()

	reg := numbering.Resolve(doc)
	log.Debug().Int("elements", reg.Len()).Msg("document numbered")

	measurer := c.options.Measurer
	if measurer == nil {
		measurer = measure.NewTextMeasurer(doc.Theme)
	}
	if c.options.MeasureHints {
		measurer = measure.Hinted{Fallback: measurer}
	}
	measurer = c.tocMeasurer(doc, reg, measurer)

	sections, err := c.paginate(ctx, doc.OrderedSections(), measurer)
	if err != nil {
		return nil, err
	}
	layout := pagination.Assemble(sections)
	log.Debug().Int("pages", layout.TotalPages).Msg("document paginated")

	result := &Result{
		Document:  doc,
		Numbering: reg,
		Sections:  sections,
		Layout:    layout,
		TOC:       toc.Generate(doc, reg, layout, c.options.TOC),
		BlockTOCs: make(map[string]*toc.TOC),
	}
	for _, pos := range doc.ReadingOrder() {
		if content, ok := pos.Block.Content.(model.TableOfContentsContent); ok {
			result.BlockTOCs[pos.Block.ID] = toc.Generate(doc, reg, layout, c.options.TOC.Merge(content))
		}
	}
	result.References = xref.ResolveAll(doc, reg, layout, log)
	return result, nil
}

// paginate lays out sections concurrently, at most Workers at a time.
// Sections share no page-flow state.
func (c *Composer) paginate(ctx context.Context, sections []model.Section, measurer measure.Measurer) ([]*pagination.LayoutResult, error) {
	engine := pagination.NewEngine(measurer)
	engine.SetOptions(pagination.Options{
		LegibilityFloor: c.options.LegibilityFloor,
		Logger:          c.options.logger(),
	})

	workers := c.options.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]*pagination.LayoutResult, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range sections {
		if gctx.Err() != nil {
			break
		}
		if s.PageMaster.PageSize.IsZero() {
			s.PageMaster = c.options.pageMaster()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = engine.Paginate(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to paginate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to paginate: %w", err)
	}
	return results, nil
}

// tocMeasurer sizes table-of-contents blocks from the entries they will
// list. Pages are not known yet, so entries are estimated at full length.
func (c *Composer) tocMeasurer(doc *model.SemanticDocument, reg *numbering.Registry, inner measure.Measurer) measure.Measurer {
	heights := make(map[string]float64)
	for _, pos := range doc.ReadingOrder() {
		content, ok := pos.Block.Content.(model.TableOfContentsContent)
		if !ok {
			continue
		}
		cfg := c.options.TOC.Merge(content)
		t := toc.Generate(doc, reg, nil, cfg)
		rows := len(t.Entries) + len(t.Breaks)
		if cfg.Columns == 2 {
			rows = int(math.Ceil(float64(rows) / 2))
		}
		heights[pos.Block.ID] = float64(rows) * (cfg.LineHeight + cfg.ItemSpacing)
	}
	if len(heights) == 0 {
		return inner
	}

	return measure.Func(func(b model.Block, columnWidth float64) measure.Extent {
		e := inner.Measure(b, columnWidth)
		if h, ok := heights[b.ID]; ok {
			e.Height += h
			e.Width = columnWidth
			e.Units = nil
		}
		return e
	})
}
