package pagination

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/pagemaster"
)

const epsilon = 1e-6

// unitGroup is a run of lines or rows that is never broken
type unitGroup struct {
	first, last int
	height      float64
}

func (g unitGroup) size() int {
	return g.last - g.first + 1
}

// item is a block together with its measurement
type item struct {
	block  model.Block
	rules  model.PaginationRules
	extent measure.Extent
	height float64
	groups []unitGroup
}

func (it *item) splittable() bool {
	return len(it.groups) > 1 &&
		!it.rules.KeepTogether &&
		!it.rules.BreakAvoid &&
		!it.block.Type.Atomic()
}

// Paginator places measured blocks into the pages and columns of one
// geometry. A Paginator is used for a single section.
type Paginator struct {
	geom   pagemaster.Geometry
	master model.PageMaster
	floor  float64
	log    zerolog.Logger

	result       *LayoutResult
	page         int
	column       int
	y            float64
	pageItems    int
	pendingBreak bool
}

// NewPaginator creates a new paginator
func NewPaginator(geom pagemaster.Geometry, master model.PageMaster, floor float64, log zerolog.Logger) *Paginator {
	return &Paginator{
		geom:   geom,
		master: master,
		floor:  floor,
		log:    log,
	}
}

// prepare sanitizes a measurement. Non-finite or non-positive heights read
// as zero; such blocks are placed without consuming space.
func (p *Paginator) prepare(b model.Block, e measure.Extent) item {
	it := item{block: b, rules: b.EffectiveRules(), extent: e}
	it.extent.Width = sanitize(e.Width)
	if !intrinsicWidth(b.Type) && !p.geom.Degenerate() {
		// text reflows to the column; only its height can overflow
		it.extent.Width = math.Min(it.extent.Width, p.geom.ColumnWidth)
	}
	it.extent.Header = sanitize(e.Header)
	it.height = sanitize(e.Height)
	if it.height == 0 {
		p.log.Debug().Str("block", b.ID).Float64("height", e.Height).Msg("zero-height block")
		it.extent.Units = nil
		it.extent.Header = 0
		return it
	}

	units := make([]float64, len(e.Units))
	total := it.extent.Header
	for i, u := range e.Units {
		units[i] = sanitize(u)
		total += units[i]
	}
	it.extent.Units = units
	if len(units) > 0 && total > 0 {
		it.height = total
	}
	it.groups = p.group(b, units)
	return it
}

// group merges units that must travel together. Rows joined by a rowspan
// always do; explicit keep-together row ranges only when the page master
// asks for it.
func (p *Paginator) group(b model.Block, units []float64) []unitGroup {
	if len(units) == 0 {
		return nil
	}
	var ranges []model.RowRange
	if t, ok := b.Content.(model.TableContent); ok && len(t.Rows) == len(units) {
		if !p.master.TableBreakRules.KeepTogetherRows {
			t.KeepTogether = nil
		}
		ranges = t.RowGroups()
	} else {
		ranges = make([]model.RowRange, len(units))
		for i := range units {
			ranges[i] = model.RowRange{Start: i, End: i}
		}
	}

	groups := make([]unitGroup, len(ranges))
	for i, r := range ranges {
		g := unitGroup{first: r.Start, last: r.End}
		for u := r.Start; u <= r.End; u++ {
			g.height += units[u]
		}
		groups[i] = g
	}
	return groups
}

// Paginate measures the blocks at the column width and lays them out in
// order
func (p *Paginator) Paginate(blocks []model.Block, measurer measure.Measurer) *LayoutResult {
	items := make([]item, 0, len(blocks))
	for _, b := range blocks {
		items = append(items, p.prepare(b, measurer.Measure(b, p.geom.ColumnWidth)))
	}
	return p.layout(items)
}

func (p *Paginator) layout(items []item) *LayoutResult {
	p.result = newLayoutResult(p.geom)
	p.openPage(p.geom, false)

	for i := 0; i < len(items); {
		it := &items[i]
		if p.pendingBreak || it.rules.BreakBefore {
			p.pendingBreak = false
			if !p.columnEmpty() {
				p.advance()
			}
		}

		switch {
		case it.height == 0:
			p.place(it, 0)
		case p.geom.Degenerate():
			p.dedicated(it)
		case it.block.Type == model.TypeSpacer:
			p.spacer(it)
		case it.splittable() && it.extent.Width <= p.geom.ColumnWidth+epsilon:
			p.split(it)
		case p.fits(it):
			if p.keepWithNextBlocked(items, i) {
				p.advance()
				continue
			}
			p.place(it, it.height)
		case !p.columnEmpty() && it.extent.Width <= p.geom.ColumnWidth+epsilon:
			p.advance()
			continue
		default:
			p.oversized(it)
		}

		if it.rules.BreakAfter {
			p.pendingBreak = true
		}
		i++
	}

	// a break or an oversized block at the very end leaves a blank page
	if n := len(p.result.Pages); n > 1 && p.pageItems == 0 {
		p.result.Pages = p.result.Pages[:n-1]
	}
	return p.result
}

func (p *Paginator) remaining() float64 {
	return p.geom.ContentHeight - p.y
}

func (p *Paginator) columnEmpty() bool {
	return p.y <= epsilon
}

func (p *Paginator) fits(it *item) bool {
	return it.height <= p.remaining()+epsilon && it.extent.Width <= p.geom.ColumnWidth+epsilon
}

func (p *Paginator) openPage(geom pagemaster.Geometry, dedicated bool) {
	p.result.Pages = append(p.result.Pages, Page{
		Index:       len(p.result.Pages),
		Width:       geom.PageWidth,
		Height:      geom.PageHeight,
		Orientation: geom.Orientation,
		Columns:     geom.Columns,
		Dedicated:   dedicated,
	})
	p.page = len(p.result.Pages) - 1
	p.column = 0
	p.y = 0
	p.pageItems = 0
}

// advance moves to the next column, or the first column of a new page
func (p *Paginator) advance() {
	if p.column+1 < p.geom.Columns {
		p.column++
		p.y = 0
		return
	}
	p.openPage(p.geom, false)
}

// place puts a whole block at the cursor
func (p *Paginator) place(it *item, height float64) {
	consumed := p.geom.Snap(height)
	p.result.add(Placement{
		BlockID:    it.block.ID,
		Type:       it.block.Type,
		Page:       p.page,
		Column:     p.column,
		Offset:     p.y,
		Height:     consumed,
		Fragments:  []Fragment{{Page: p.page, Column: p.column, Offset: p.y, Height: consumed, FirstUnit: -1, LastUnit: -1}},
		ScaleRatio: 1,
		Overflow:   consumed > p.remaining()+epsilon,
	})
	if tableRows(it) != nil && it.height > 0 {
		p.placeRows(it, 0, len(it.extent.Units)-1, true, p.y, consumed/it.height)
	}
	p.y += consumed
	p.pageItems++
}

// spacer is clipped to the space left in the column
func (p *Paginator) spacer(it *item) {
	if p.remaining() <= epsilon {
		p.advance()
	}
	p.place(it, math.Min(it.height, p.remaining()))
}

// keepWithNextBlocked reports whether the block at i, together with the
// chain of blocks it must stay with, fails to fit the rest of the column
// but would fit an empty one.
func (p *Paginator) keepWithNextBlocked(items []item, i int) bool {
	if !items[i].rules.KeepWithNext || p.columnEmpty() {
		return false
	}
	chain := items[i].height
	for j := i + 1; ; j++ {
		if j >= len(items) || items[j-1].rules.BreakAfter || items[j].rules.BreakBefore {
			return false
		}
		next := &items[j]
		if next.height == 0 {
			continue
		}
		if next.rules.KeepWithNext && !next.splittable() {
			chain += next.height
			continue
		}
		chain += p.firstChunk(next)
		break
	}
	return chain > p.remaining()+epsilon && chain <= p.geom.ContentHeight+epsilon
}

// firstChunk is the smallest legal leading piece of a block
func (p *Paginator) firstChunk(it *item) float64 {
	if !it.splittable() {
		return it.height
	}
	need := max(1, it.rules.MinOrphans)
	h := it.extent.Header
	rows := 0
	for _, g := range it.groups {
		if rows >= need {
			break
		}
		h += g.height
		rows += g.size()
	}
	return h
}

// oversized handles a block that cannot fit an empty column
func (p *Paginator) oversized(it *item) {
	width := it.extent.Width
	if width <= 0 {
		width = p.geom.ColumnWidth
	}
	ratio := math.Min(1, math.Min(p.geom.ContentHeight/it.height, p.geom.ColumnWidth/width))
	if ratio >= p.floor {
		if it.height*ratio > p.remaining()+epsilon {
			p.advance()
		}
		p.log.Debug().Str("block", it.block.ID).Float64("ratio", ratio).Msg("scaling oversized block")
		p.place(it, it.height*ratio)
		pl := &p.result.Placements[len(p.result.Placements)-1]
		pl.Policy = PolicyScaled
		pl.ScaleRatio = ratio
		pl.Overflow = false
		return
	}

	if p.master.AllowTableRotation && width > it.height &&
		(it.block.Type == model.TypeTable || it.block.Type == model.TypeChart) {
		land := p.geom.Landscape()
		if width <= land.ColumnWidth+epsilon && it.height <= land.ContentHeight+epsilon {
			p.log.Debug().Str("block", it.block.ID).Msg("rotating oversized block onto a landscape page")
			p.isolate(it, land, false, PolicyAutoLandscape)
			return
		}
	}

	p.log.Debug().
		Str("block", it.block.ID).
		Float64("ratio", ratio).
		Msg("oversized block below legibility floor, using a dedicated page")
	p.dedicated(it)
}

// dedicated gives the block a page sized to its content plus margins
func (p *Paginator) dedicated(it *item) {
	width := it.extent.Width
	if width <= 0 {
		width = math.Max(p.geom.ColumnWidth, 0)
	}
	m := p.geom.Margins
	geom := pagemaster.Geometry{
		Orientation:   p.geom.Orientation,
		PageWidth:     width + math.Max(m.Left, 0) + math.Max(m.Right, 0),
		PageHeight:    it.height + math.Max(m.Top, 0) + math.Max(m.Bottom, 0),
		Margins:       m,
		Columns:       1,
		ColumnWidth:   width,
		ContentWidth:  width,
		ContentHeight: it.height,
	}
	p.isolate(it, geom, true, PolicyDedicatedPage)
}

// isolate places a block alone on a page of its own geometry and resumes
// the flow on a fresh page. The current page is reused when still empty.
func (p *Paginator) isolate(it *item, geom pagemaster.Geometry, dedicated bool, policy OversizedPolicy) {
	if p.pageItems == 0 {
		p.result.Pages = p.result.Pages[:p.page]
	}
	p.openPage(geom, dedicated)
	p.result.add(Placement{
		BlockID:    it.block.ID,
		Type:       it.block.Type,
		Page:       p.page,
		Height:     it.height,
		Fragments:  []Fragment{{Page: p.page, Height: it.height, FirstUnit: -1, LastUnit: -1}},
		Policy:     policy,
		ScaleRatio: 1,
	})
	if tableRows(it) != nil {
		p.placeRows(it, 0, len(it.extent.Units)-1, true, 0, 1)
	}
	p.openPage(p.geom, false)
}

// intrinsicWidth reports whether a block's measured width is fixed rather
// than taken from the column
func intrinsicWidth(t model.BlockType) bool {
	switch t {
	case model.TypeFigure, model.TypeChart, model.TypeTable:
		return true
	}
	return false
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
