// Package model defines the semantic document hierarchy consumed by the
// pagination, numbering, table-of-contents and cross-reference engines.
//
// A SemanticDocument holds ordered Sections; each Section holds ordered Flows
// with one PageMaster; each Flow holds ordered Blocks. The combined section,
// flow and block order is the single reading order of the document.
package model

import (
	"sort"
	"strconv"
)

// BlockType tags the content variant carried by a Block
type BlockType string

const (
	TypeHeading         BlockType = "heading"
	TypeParagraph       BlockType = "paragraph"
	TypeOrderedList     BlockType = "ordered-list"
	TypeUnorderedList   BlockType = "unordered-list"
	TypeQuote           BlockType = "quote"
	TypeDivider         BlockType = "divider"
	TypeSpacer          BlockType = "spacer"
	TypeFigure          BlockType = "figure"
	TypeTable           BlockType = "table"
	TypeChart           BlockType = "chart"
	TypeCallout         BlockType = "callout"
	TypeFootnote        BlockType = "footnote"
	TypeCrossReference  BlockType = "cross-reference"
	TypeTableOfContents BlockType = "table-of-contents"
)

// BlockTypes lists every known block type in declaration order
var BlockTypes = []BlockType{
	TypeHeading,
	TypeParagraph,
	TypeOrderedList,
	TypeUnorderedList,
	TypeQuote,
	TypeDivider,
	TypeSpacer,
	TypeFigure,
	TypeTable,
	TypeChart,
	TypeCallout,
	TypeFootnote,
	TypeCrossReference,
	TypeTableOfContents,
}

// Valid reports whether t is one of the known block types
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Atomic reports whether blocks of this type are never split across a
// column or page boundary.
func (t BlockType) Atomic() bool {
	switch t {
	case TypeFigure, TypeChart, TypeTableOfContents, TypeDivider, TypeFootnote,
		TypeCallout, TypeOrderedList, TypeUnorderedList, TypeQuote:
		return true
	}
	return false
}

// Metadata keys understood by the engines
const (
	MetaLevel           = "level"
	MetaCaption         = "caption"
	MetaAltText         = "altText"
	MetaOversizedPolicy = "oversizedPolicy"
	MetaScaleRatio      = "scaleRatio"
)

// Block is the atomic content unit of a Flow
type Block struct {
	ID       string
	Type     BlockType
	Content  Content
	Metadata map[string]string
	Order    int
	// Rules overrides the per-type defaults when non-nil
	Rules *PaginationRules
}

// NewBlock creates a block whose type is taken from its content
func NewBlock(id string, order int, content Content) Block {
	return Block{
		ID:       id,
		Type:     content.BlockType(),
		Content:  content,
		Metadata: map[string]string{},
		Order:    order,
	}
}

// WithRules returns a copy of the block carrying explicit pagination rules
func (b Block) WithRules(rules PaginationRules) Block {
	b.Rules = &rules
	return b
}

// EffectiveRules returns the per-instance rules, or the type defaults
func (b Block) EffectiveRules() PaginationRules {
	if b.Rules != nil {
		return *b.Rules
	}
	return DefaultRules(b.Type)
}

// HeadingLevel returns the heading level, or 0 for non-heading blocks.
// The content's level wins; a heading without one reads metadata "level".
func (b Block) HeadingLevel() int {
	h, ok := b.Content.(HeadingContent)
	if !ok {
		return 0
	}
	if h.Level != 0 {
		return h.Level
	}
	level, err := strconv.Atoi(b.Metadata[MetaLevel])
	if err != nil {
		return 0
	}
	return level
}

// Caption returns the caption of a figure, table or chart. A caption set in
// metadata wins over the one carried by the content.
func (b Block) Caption() string {
	if c := b.Metadata[MetaCaption]; c != "" {
		return c
	}
	switch c := b.Content.(type) {
	case FigureContent:
		return c.Caption
	case TableContent:
		return c.Caption
	case ChartContent:
		if c.Caption != "" {
			return c.Caption
		}
		return c.Title
	}
	return ""
}

// AltText returns the alternative text of a figure or chart
func (b Block) AltText() string {
	if a := b.Metadata[MetaAltText]; a != "" {
		return a
	}
	switch c := b.Content.(type) {
	case FigureContent:
		return c.AltText
	case ChartContent:
		return c.AltText
	}
	return ""
}

// sortBlocks returns blocks ordered by Order without touching the input
func sortBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
