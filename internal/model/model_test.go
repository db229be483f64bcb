package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Pagination rule defaults
// ============================================================================

func TestDefaultRules(t *testing.T) {
	tests := []struct {
		typ  BlockType
		want PaginationRules
	}{
		{TypeHeading, PaginationRules{KeepWithNext: true, BreakAvoid: true, MinOrphans: 1, MinWidows: 1}},
		{TypeParagraph, PaginationRules{MinOrphans: 2, MinWidows: 2}},
		{TypeOrderedList, PaginationRules{KeepTogether: true, BreakAvoid: true, MinOrphans: 2, MinWidows: 2}},
		{TypeUnorderedList, PaginationRules{KeepTogether: true, BreakAvoid: true, MinOrphans: 2, MinWidows: 2}},
		{TypeQuote, PaginationRules{BreakAvoid: true, MinOrphans: 2, MinWidows: 2}},
		{TypeFigure, PaginationRules{KeepTogether: true, BreakAvoid: true}},
		{TypeChart, PaginationRules{KeepTogether: true, BreakAvoid: true}},
		{TypeTable, PaginationRules{MinOrphans: 1, MinWidows: 1}},
		{TypeDivider, PaginationRules{KeepWithNext: true, BreakAvoid: true}},
		{TypeCallout, PaginationRules{KeepTogether: true, BreakAvoid: true, MinOrphans: 2, MinWidows: 2}},
		{TypeFootnote, PaginationRules{KeepTogether: true, BreakAvoid: true}},
		{TypeSpacer, PaginationRules{}},
		{TypeCrossReference, PaginationRules{BreakAvoid: true}},
		{TypeTableOfContents, PaginationRules{}},
	}

	require.Len(t, tests, len(BlockTypes))
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRules(tt.typ))
		})
	}
}

func TestEffectiveRulesOverride(t *testing.T) {
	b := NewBlock("p1", 1, ParagraphContent{Text: "x"})
	assert.Equal(t, DefaultRules(TypeParagraph), b.EffectiveRules())

	custom := b.WithRules(PaginationRules{BreakBefore: true})
	assert.True(t, custom.EffectiveRules().BreakBefore)
	assert.Nil(t, b.Rules, "WithRules must not touch the original")
}

func TestAtomicTypes(t *testing.T) {
	atomic := map[BlockType]bool{
		TypeFigure: true, TypeChart: true, TypeTableOfContents: true, TypeDivider: true,
		TypeFootnote: true, TypeCallout: true, TypeOrderedList: true, TypeUnorderedList: true,
		TypeQuote: true,
	}
	for _, typ := range BlockTypes {
		assert.Equal(t, atomic[typ], typ.Atomic(), "Atomic(%s)", typ)
	}
}

// ============================================================================
// Content
// ============================================================================

func TestListBlockType(t *testing.T) {
	assert.Equal(t, TypeOrderedList, ListContent{Ordered: true}.BlockType())
	assert.Equal(t, TypeUnorderedList, ListContent{}.BlockType())
}

func TestTableRowGroups(t *testing.T) {
	tests := []struct {
		name  string
		table TableContent
		want  []RowRange
	}{
		{"empty", TableContent{}, nil},
		{
			"plain rows",
			TableContent{Rows: [][]Cell{{{Text: "a"}}, {{Text: "b"}}, {{Text: "c"}}}},
			[]RowRange{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			"rowspan joins following rows",
			TableContent{Rows: [][]Cell{{{Text: "a"}}, {{Text: "b", RowSpan: 2}}, {{Text: "c"}}, {{Text: "d"}}}},
			[]RowRange{{0, 0}, {1, 2}, {3, 3}},
		},
		{
			"overlapping ranges merge",
			TableContent{
				Rows:         [][]Cell{{{Text: "a", RowSpan: 2}}, {{Text: "b", RowSpan: 2}}, {{Text: "c"}}, {{Text: "d"}}},
				KeepTogether: []RowRange{{Start: 3, End: 9}},
			},
			[]RowRange{{0, 2}, {3, 3}},
		},
		{
			"explicit range",
			TableContent{
				Rows:         [][]Cell{{{Text: "a"}}, {{Text: "b"}}, {{Text: "c"}}},
				KeepTogether: []RowRange{{Start: 0, End: 1}},
			},
			[]RowRange{{0, 1}, {2, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.RowGroups())
		})
	}
}

func TestTableColCount(t *testing.T) {
	table := TableContent{
		Header: []Cell{{Text: "a"}, {Text: "b"}},
		Rows:   [][]Cell{{{Text: "x", ColSpan: 3}}},
	}
	assert.Equal(t, 3, table.ColCount())
}

func TestCaptionPrefersMetadata(t *testing.T) {
	b := NewBlock("f1", 1, FigureContent{Caption: "From content"})
	assert.Equal(t, "From content", b.Caption())
	b.Metadata[MetaCaption] = "From metadata"
	assert.Equal(t, "From metadata", b.Caption())

	chart := NewBlock("c1", 2, ChartContent{Title: "Revenue"})
	assert.Equal(t, "Revenue", chart.Caption())
}

func TestHeadingLevelFallsBackToMetadata(t *testing.T) {
	h := NewBlock("h", 1, HeadingContent{Text: "Scope"})
	assert.Equal(t, 0, h.HeadingLevel())

	h.Metadata[MetaLevel] = "2"
	assert.Equal(t, 2, h.HeadingLevel())

	h.Content = HeadingContent{Text: "Scope", Level: 3}
	assert.Equal(t, 3, h.HeadingLevel())

	assert.Equal(t, 0, NewBlock("p", 2, ParagraphContent{Text: "x"}).HeadingLevel())

	doc := NewDocument("d", "Doc")
	meta := NewBlock("meta", 1, HeadingContent{Text: "Scope"})
	meta.Metadata[MetaLevel] = "2"
	doc.Sections = []Section{{ID: "s", Order: 1, Flows: []Flow{{ID: "f", Order: 1, Blocks: []Block{meta}}}}}
	assert.NoError(t, doc.Validate())
}

// ============================================================================
// Document
// ============================================================================

func sampleDocument() *SemanticDocument {
	doc := NewDocument("doc", "Annual Report")
	doc.Sections = []Section{
		{
			ID:    "body",
			Order: 2,
			Flows: []Flow{
				{ID: "f2", Order: 2, Blocks: []Block{NewBlock("p3", 1, ParagraphContent{Text: "later flow"})}},
				{ID: "f1", Order: 1, Blocks: []Block{
					NewBlock("p2", 5, ParagraphContent{Text: "second"}),
					NewBlock("h2", 1, HeadingContent{Text: "Body", Level: 1}),
				}},
			},
			PageMaster: DefaultPageMaster(),
		},
		{
			ID:    "cover",
			Order: 1,
			Flows: []Flow{
				{ID: "f0", Order: 1, Blocks: []Block{NewBlock("h1", 1, HeadingContent{Text: "Cover", Level: 1})}},
			},
			PageMaster: DefaultPageMaster(),
		},
	}
	return doc
}

func TestReadingOrder(t *testing.T) {
	doc := sampleDocument()
	var ids []string
	for _, pos := range doc.ReadingOrder() {
		ids = append(ids, pos.Block.ID)
	}
	assert.Equal(t, []string{"h1", "h2", "p2", "p3"}, ids)
	assert.Equal(t, "body", doc.Sections[0].ID, "ReadingOrder must not reorder the document")
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, sampleDocument().Validate())
	})

	tests := []struct {
		name   string
		mutate func(d *SemanticDocument)
		want   error
	}{
		{"duplicate section order", func(d *SemanticDocument) { d.Sections[1].Order = 2 }, ErrDuplicateOrder},
		{"duplicate flow order", func(d *SemanticDocument) { d.Sections[0].Flows[1].Order = 2 }, ErrDuplicateOrder},
		{"duplicate block order", func(d *SemanticDocument) { d.Sections[0].Flows[1].Blocks[0].Order = 1 }, ErrDuplicateOrder},
		{"duplicate id", func(d *SemanticDocument) { d.Sections[0].Flows[0].Blocks[0].ID = "h1" }, ErrDuplicateID},
		{"missing id", func(d *SemanticDocument) { d.Sections[0].Flows[0].Blocks[0].ID = "" }, ErrMissingID},
		{"heading level", func(d *SemanticDocument) {
			d.Sections[1].Flows[0].Blocks[0].Content = HeadingContent{Text: "x", Level: 7}
		}, ErrHeadingLevel},
		{"unknown type", func(d *SemanticDocument) { d.Sections[0].Flows[0].Blocks[0].Type = "sidebar" }, ErrUnknownBlockType},
		{"content mismatch", func(d *SemanticDocument) {
			d.Sections[0].Flows[0].Blocks[0].Content = FigureContent{}
		}, ErrContentMismatch},
		{"columns", func(d *SemanticDocument) { d.Sections[0].PageMaster.Columns = 4 }, ErrColumnCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(doc)
			err := doc.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Path)
		})
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	doc := sampleDocument()
	doc.Sections[1].Order = 2
	doc.Sections[0].PageMaster.Columns = 9
	err := doc.Validate()
	assert.ErrorIs(t, err, ErrDuplicateOrder)
	assert.ErrorIs(t, err, ErrColumnCount)
}

// ============================================================================
// Codec
// ============================================================================

func TestDocumentCodec(t *testing.T) {
	doc := sampleDocument()
	doc.Sections[0].Flows[0].Blocks = append(doc.Sections[0].Flows[0].Blocks,
		NewBlock("t1", 2, TableContent{
			Caption: "Quarterly",
			Header:  []Cell{{Text: "Q"}, {Text: "Revenue"}},
			Rows:    [][]Cell{{{Text: "Q1"}, {Text: "10"}}},
		}).WithRules(PaginationRules{MinOrphans: 3}),
		NewBlock("l1", 3, ListContent{Ordered: true, Items: []ListItem{{Text: "one"}}}),
		NewBlock("x1", 4, CrossReferenceContent{TargetID: "t1", RefType: RefSee, Format: FormatFull}),
	)

	for _, format := range []Format{FormatJSON, FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeDocument(doc, format)
			require.NoError(t, err)

			got, err := DecodeDocument(data, format)
			require.NoError(t, err)
			require.NoError(t, got.Validate())

			table, ok := got.FindBlock("t1")
			require.True(t, ok)
			assert.Equal(t, TypeTable, table.Type)
			assert.Equal(t, "Quarterly", table.Caption())
			require.NotNil(t, table.Rules)
			assert.Equal(t, 3, table.Rules.MinOrphans)

			list, _ := got.FindBlock("l1")
			assert.Equal(t, TypeOrderedList, list.Content.BlockType())

			ref, _ := got.FindBlock("x1")
			assert.Equal(t, CrossReferenceContent{TargetID: "t1", RefType: RefSee, Format: FormatFull}, ref.Content)
		})
	}
}

func TestDecodeUnknownBlockType(t *testing.T) {
	blob := []byte(`{"id":"d","sections":[{"id":"s","order":1,"flows":[{"id":"f","order":1,
		"blocks":[{"id":"b","type":"sidebar","order":1,"content":{}}]}]}]}`)
	_, err := DecodeDocument(blob, FormatJSON)
	assert.ErrorIs(t, err, ErrUnknownBlockType)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatCBOR, FormatFor("application/cbor"))
	assert.Equal(t, FormatCBOR, FormatFor("report.CBOR"))
	assert.Equal(t, FormatJSON, FormatFor("report.json"))
}

func TestSectionInTOC(t *testing.T) {
	excluded := false
	assert.True(t, Section{}.InTOC())
	assert.False(t, Section{IncludeInTOC: &excluded}.InTOC())
}
