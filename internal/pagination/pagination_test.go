package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/doclayout/internal/measure"
	"github.com/gompdf/doclayout/internal/model"
)

// testMaster has a 200x200 content area
func testMaster() model.PageMaster {
	pm := model.DefaultPageMaster()
	pm.PageSize = model.PageSize{Width: 300, Height: 300}
	pm.Margins = model.Margins{Top: 50, Right: 50, Bottom: 50, Left: 50}
	return pm
}

func section(id string, pm model.PageMaster, blocks ...model.Block) model.Section {
	return model.Section{
		ID:         id,
		Order:      1,
		PageMaster: pm,
		Flows:      []model.Flow{{ID: id + "-flow", Order: 1, Blocks: blocks}},
	}
}

func para(id string, order int) model.Block {
	return model.NewBlock(id, order, model.ParagraphContent{Text: id})
}

func figure(id string, order int) model.Block {
	return model.NewBlock(id, order, model.FigureContent{Src: id + ".png"})
}

func paginate(pm model.PageMaster, extents map[string]measure.Extent, blocks ...model.Block) *LayoutResult {
	return NewEngine(measure.Static{Extents: extents}).Paginate(section("s", pm, blocks...))
}

func placement(t *testing.T, r *LayoutResult, id string) Placement {
	t.Helper()
	p, ok := r.Placement(id)
	require.True(t, ok, "block %s not placed", id)
	return p
}

func TestReadingOrderIsPreserved(t *testing.T) {
	extents := map[string]measure.Extent{}
	var blocks []model.Block
	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10"}
	for i, id := range ids {
		extents[id] = measure.Lines(3, 20, 100)
		blocks = append(blocks, para(id, i+1))
	}
	r := paginate(testMaster(), extents, blocks...)

	require.Len(t, r.Placements, len(ids))
	for i, p := range r.Placements {
		assert.Equal(t, ids[i], p.BlockID)
		if i == 0 {
			continue
		}
		prev := r.Placements[i-1]
		assert.True(t, p.Page > prev.Page || (p.Page == prev.Page && p.Offset >= prev.Offset),
			"%s placed before %s", p.BlockID, prev.BlockID)
	}

	assert.Equal(t, []string{"p1", "p2", "p3"}, r.OnPage(0))
	assert.Empty(t, r.OnPage(99))
	assert.Nil(t, (*LayoutResult)(nil).OnPage(0))

	// two lines of p4 would fit after p3 but a two-line orphan needs 40pt
	p4 := placement(t, r, "p4")
	assert.Equal(t, 1, p4.Page)
	assert.False(t, p4.Split())
}

func TestParagraphSplitsAtLineBoundaries(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(8, 20, 100),
		"b": measure.Lines(5, 20, 100),
	}, para("a", 1), para("b", 2))

	b := placement(t, r, "b")
	require.Len(t, b.Fragments, 2)
	assert.Equal(t, Fragment{Page: 0, Offset: 160, Height: 40, FirstUnit: 0, LastUnit: 1}, b.Fragments[0])
	assert.Equal(t, Fragment{Page: 1, Offset: 0, Height: 60, FirstUnit: 2, LastUnit: 4}, b.Fragments[1])
	assert.Equal(t, 100.0, b.Height)
	assert.Equal(t, 2, r.PageCount())
}

func TestWideParagraphStillSplits(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(12, 20, 480),
	}, para("a", 1))

	a := placement(t, r, "a")
	assert.Equal(t, PolicyNone, a.Policy)
	require.Len(t, a.Fragments, 2)
	assert.Equal(t, 9, a.Fragments[0].LastUnit)
	assert.Equal(t, 11, a.Fragments[1].LastUnit)
	assert.False(t, a.Overflow)

	// a figure keeps its intrinsic width and is still oversized
	r = paginate(testMaster(), map[string]measure.Extent{
		"f": {Width: 480, Height: 100},
	}, figure("f", 1))
	assert.NotEqual(t, PolicyNone, placement(t, r, "f").Policy)
}

func TestParagraphWidowControl(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(7, 20, 100),
		"b": measure.Lines(4, 20, 100),
	}, para("a", 1), para("b", 2))

	// three lines fit but would leave a single widow
	b := placement(t, r, "b")
	require.Len(t, b.Fragments, 2)
	assert.Equal(t, 1, b.Fragments[0].LastUnit)
	assert.Equal(t, 2, b.Fragments[1].FirstUnit)
	assert.Equal(t, 3, b.Fragments[1].LastUnit)
}

func TestAtomicBlocksAreNeverSplit(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"p": measure.Lines(5, 20, 100),
		"f": {Width: 100, Height: 150},
		"l": measure.Lines(6, 20, 100),
	},
		para("p", 1),
		figure("f", 2),
		model.NewBlock("l", 3, model.ListContent{Items: []model.ListItem{{Text: "x"}}}),
	)

	f := placement(t, r, "f")
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0.0, f.Offset)
	assert.False(t, f.Split())

	l := placement(t, r, "l")
	assert.Equal(t, 2, l.Page)
	assert.False(t, l.Split())
}

func TestOversizedBelowFloorGetsDedicatedPage(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"p1": measure.Lines(2, 20, 100),
		"f":  {Width: 100, Height: 1000},
		"p2": measure.Lines(2, 20, 100),
	}, para("p1", 1), figure("f", 2), para("p2", 3))

	f := placement(t, r, "f")
	assert.Equal(t, PolicyDedicatedPage, f.Policy)
	assert.Equal(t, 1.0, f.ScaleRatio)
	assert.Equal(t, 1, f.Page)

	require.Equal(t, 3, r.PageCount())
	page := r.Pages[1]
	assert.True(t, page.Dedicated)
	assert.Equal(t, 200.0, page.Width)
	assert.Equal(t, 1100.0, page.Height)

	assert.Equal(t, 2, placement(t, r, "p2").Page)
	assert.Equal(t, map[string]string{model.MetaOversizedPolicy: "dedicated-page"}, r.BlockMetadata("f"))
}

func TestOversizedAboveFloorIsScaled(t *testing.T) {
	fig := figure("f", 1)
	r := paginate(testMaster(), map[string]measure.Extent{
		"f": {Width: 100, Height: 300},
	}, fig)

	f := placement(t, r, "f")
	assert.Equal(t, PolicyScaled, f.Policy)
	assert.InDelta(t, 2.0/3, f.ScaleRatio, 1e-9)
	assert.InDelta(t, 200, f.Height, 1e-9)
	assert.False(t, f.Overflow)
	assert.Equal(t, "0.6667", r.BlockMetadata("f")[model.MetaScaleRatio])

	// the document is left alone
	_, ok := fig.Metadata[model.MetaOversizedPolicy]
	assert.False(t, ok)
}

func TestOversizedWideChartRotatesToLandscape(t *testing.T) {
	pm := testMaster()
	pm.PageSize = model.PageSize{Width: 300, Height: 400}
	pm.AllowTableRotation = true
	chart := model.NewBlock("c", 2, model.ChartContent{Kind: "bar"})
	extents := map[string]measure.Extent{
		"p": measure.Lines(2, 20, 100),
		"c": {Width: 290, Height: 190},
	}

	e := NewEngine(measure.Static{Extents: extents})
	e.SetOptions(Options{LegibilityFloor: 0.9})
	r := e.Paginate(section("s", pm, para("p", 1), chart))

	c := placement(t, r, "c")
	assert.Equal(t, PolicyAutoLandscape, c.Policy)
	require.Equal(t, 2, r.PageCount())
	assert.Equal(t, model.OrientationLandscape, r.Pages[1].Orientation)
	assert.Equal(t, 400.0, r.Pages[1].Width)
	assert.Equal(t, 300.0, r.Pages[1].Height)

	pm.AllowTableRotation = false
	r = e.Paginate(section("s", pm, para("p", 1), chart))
	assert.Equal(t, PolicyDedicatedPage, placement(t, r, "c").Policy)
}

func TestZeroHeightBlocksConsumeNoSpace(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a":   measure.Lines(2, 20, 100),
		"nan": {Height: math.NaN()},
		"neg": {Height: -5},
		"b":   measure.Lines(2, 20, 100),
	}, para("a", 1), para("zero", 2), para("nan", 3), para("neg", 4), para("b", 5))

	require.Len(t, r.Placements, 5)
	for _, id := range []string{"zero", "nan", "neg"} {
		p := placement(t, r, id)
		assert.Equal(t, 0.0, p.Height, id)
		assert.Equal(t, 40.0, p.Offset, id)
	}
	assert.Equal(t, 40.0, placement(t, r, "b").Offset)
}

func TestKeepWithNextMovesHeading(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(8, 20, 100),
		"h": {Width: 100, Height: 30},
		"b": measure.Lines(5, 20, 100),
	},
		para("a", 1),
		model.NewBlock("h", 2, model.HeadingContent{Text: "Results", Level: 2}),
		para("b", 3),
	)

	h := placement(t, r, "h")
	assert.Equal(t, 1, h.Page)
	assert.Equal(t, 0.0, h.Offset)
	b := placement(t, r, "b")
	assert.Equal(t, 1, b.Page)
	assert.Equal(t, 30.0, b.Offset)
}

func TestKeepWithNextDoesNotPushWhenChainCannotFit(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(2, 20, 100),
		"h": {Width: 100, Height: 30},
		"f": {Width: 100, Height: 190},
	},
		para("a", 1),
		model.NewBlock("h", 2, model.HeadingContent{Text: "Figure", Level: 2}),
		figure("f", 3),
	)

	assert.Equal(t, 0, placement(t, r, "h").Page)
	assert.Equal(t, 1, placement(t, r, "f").Page)
}

func TestExplicitBreaks(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(2, 20, 100),
		"b": measure.Lines(2, 20, 100),
		"c": measure.Lines(2, 20, 100),
		"d": measure.Lines(2, 20, 100),
	},
		para("a", 1).WithRules(model.PaginationRules{BreakBefore: true}),
		para("b", 2).WithRules(model.PaginationRules{BreakAfter: true}),
		para("c", 3).WithRules(model.PaginationRules{BreakBefore: true}),
		para("d", 4).WithRules(model.PaginationRules{BreakBefore: true}),
	)

	assert.Equal(t, 0, placement(t, r, "a").Page)
	assert.Equal(t, 0, placement(t, r, "b").Page)
	assert.Equal(t, 1, placement(t, r, "c").Page)
	assert.Equal(t, 2, placement(t, r, "d").Page)
	assert.Equal(t, 3, r.PageCount())
}

func TestTrailingBreakLeavesNoBlankPage(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(2, 20, 100),
	}, para("a", 1).WithRules(model.PaginationRules{BreakAfter: true}))
	assert.Equal(t, 1, r.PageCount())
}

func TestMultiColumnFlow(t *testing.T) {
	pm := testMaster()
	pm.Columns = 2
	pm.ColumnGap = 0
	extents := map[string]measure.Extent{}
	for _, id := range []string{"f1", "f2", "f3"} {
		extents[id] = measure.Extent{Width: 50, Height: 150}
	}
	r := paginate(pm, extents, figure("f1", 1), figure("f2", 2), figure("f3", 3))

	assert.Equal(t, 2, r.Geometry.Columns)
	assert.Equal(t, 2, r.Pages[0].Columns)
	f1, f2, f3 := placement(t, r, "f1"), placement(t, r, "f2"), placement(t, r, "f3")
	assert.Equal(t, [2]int{0, 0}, [2]int{f1.Page, f1.Column})
	assert.Equal(t, [2]int{0, 1}, [2]int{f2.Page, f2.Column})
	assert.Equal(t, [2]int{1, 0}, [2]int{f3.Page, f3.Column})
}

func tableBlock(id string, order, rows int) model.Block {
	t := model.TableContent{Header: []model.Cell{{Text: "Region"}, {Text: "Total"}}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []model.Cell{{Text: "r"}, {Text: "1"}})
	}
	return model.NewBlock(id, order, t)
}

func tableExtent(rows int) measure.Extent {
	e := measure.Lines(rows, 40, 150)
	e.Header = 20
	e.Height += 20
	return e
}

func TestTableSplitRepeatsHeader(t *testing.T) {
	extents := map[string]measure.Extent{
		"p": measure.Lines(3, 20, 100),
		"t": tableExtent(6),
	}
	r := paginate(testMaster(), extents, para("p", 1), tableBlock("t", 2, 6))

	tb := placement(t, r, "t")
	require.Len(t, tb.Fragments, 2)
	assert.Equal(t, 2, tb.Fragments[0].LastUnit)
	assert.False(t, tb.Fragments[0].HeaderRepeated)
	assert.True(t, tb.Fragments[1].HeaderRepeated)
	assert.Equal(t, 140.0, tb.Fragments[1].Height)

	rows := r.Rows["t"]
	require.Len(t, rows, 8)
	assert.True(t, rows[4].Header)
	assert.Equal(t, 1, rows[4].Page)
	assert.Equal(t, RowPlacement{Row: 3, Page: 1, Offset: 20, Height: 40}, rows[5])

	pm := testMaster()
	pm.TableBreakRules.RepeatHeader = false
	r = paginate(pm, extents, para("p", 1), tableBlock("t", 2, 6))
	tb = placement(t, r, "t")
	require.Len(t, tb.Fragments, 2)
	assert.False(t, tb.Fragments[1].HeaderRepeated)
	assert.Equal(t, 120.0, tb.Fragments[1].Height)
	assert.Len(t, r.Rows["t"], 7)
}

func TestTableKeepsRowspanTogether(t *testing.T) {
	table := tableBlock("t", 2, 4)
	content := table.Content.(model.TableContent)
	content.Rows[1][0].RowSpan = 2
	table.Content = content

	r := paginate(testMaster(), map[string]measure.Extent{
		"p": measure.Lines(4, 20, 100),
		"t": tableExtent(4),
	}, para("p", 1), table)

	tb := placement(t, r, "t")
	require.Len(t, tb.Fragments, 2)
	assert.Equal(t, 0, tb.Fragments[0].LastUnit)
	assert.Equal(t, 1, tb.Fragments[1].FirstUnit)
	assert.Equal(t, 3, tb.Fragments[1].LastUnit)
}

func TestTableKeepTogetherRowsFollowsPageMaster(t *testing.T) {
	table := tableBlock("t", 2, 4)
	content := table.Content.(model.TableContent)
	content.KeepTogether = []model.RowRange{{Start: 1, End: 2}}
	table.Content = content
	extents := map[string]measure.Extent{
		"p": measure.Lines(4, 20, 100),
		"t": tableExtent(4),
	}

	r := paginate(testMaster(), extents, para("p", 1), table)
	assert.Equal(t, 0, placement(t, r, "t").Fragments[0].LastUnit)

	pm := testMaster()
	pm.TableBreakRules.KeepTogetherRows = false
	r = paginate(pm, extents, para("p", 1), table)
	assert.Equal(t, 1, placement(t, r, "t").Fragments[0].LastUnit)
}

func TestDegenerateGeometryUsesDedicatedPages(t *testing.T) {
	pm := testMaster()
	pm.Margins.Top = -10
	r := paginate(pm, map[string]measure.Extent{
		"f1": {Width: 100, Height: 80},
		"f2": {Width: 100, Height: 80},
	}, figure("f1", 1), para("empty", 2), figure("f2", 3))

	require.Len(t, r.Placements, 3)
	assert.Equal(t, PolicyDedicatedPage, placement(t, r, "f1").Policy)
	assert.Equal(t, PolicyDedicatedPage, placement(t, r, "f2").Policy)
	assert.Equal(t, PolicyNone, placement(t, r, "empty").Policy)
	for _, p := range r.Pages {
		if p.Index == placement(t, r, "f1").Page || p.Index == placement(t, r, "f2").Page {
			assert.True(t, p.Dedicated)
		}
	}
}

func TestSpacerIsClipped(t *testing.T) {
	r := paginate(testMaster(), map[string]measure.Extent{
		"a": measure.Lines(9, 20, 100),
		"s": {Height: 50},
		"b": measure.Lines(2, 20, 100),
	}, para("a", 1), model.NewBlock("s", 2, model.SpacerContent{Height: 50}), para("b", 3))

	s := placement(t, r, "s")
	assert.Equal(t, 0, s.Page)
	assert.Equal(t, 20.0, s.Height)
	assert.Equal(t, 1, placement(t, r, "b").Page)
}

func TestBaselineGridSnapsHeights(t *testing.T) {
	pm := testMaster()
	pm.BaselineGrid = true
	pm.BaselineSpacing = 12
	r := paginate(pm, map[string]measure.Extent{
		"f": {Width: 100, Height: 13},
		"g": {Width: 100, Height: 13},
	}, figure("f", 1), figure("g", 2))

	assert.Equal(t, 24.0, placement(t, r, "f").Height)
	assert.Equal(t, 24.0, placement(t, r, "g").Offset)
}

func TestAssembleNumbersPagesAcrossSections(t *testing.T) {
	extents := map[string]measure.Extent{
		"a": {Width: 100, Height: 150},
		"b": {Width: 100, Height: 150},
		"c": {Width: 100, Height: 50},
	}
	e := NewEngine(measure.Static{Extents: extents})
	first := e.Paginate(section("s1", testMaster(), figure("a", 1), figure("b", 2)))
	second := e.Paginate(section("s2", testMaster(), figure("c", 1)))

	d := Assemble([]*LayoutResult{first, nil, second})
	assert.Equal(t, 3, d.TotalPages)

	page, ok := d.PageOf("b")
	require.True(t, ok)
	assert.Equal(t, 2, page)
	page, ok = d.PageOf("c")
	require.True(t, ok)
	assert.Equal(t, 3, page)

	off, ok := d.Offset("s2")
	require.True(t, ok)
	assert.Equal(t, 2, off)
	assert.Same(t, second, d.Section("s2"))

	_, ok = d.PageOf("missing")
	assert.False(t, ok)
}
