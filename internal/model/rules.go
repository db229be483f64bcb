package model

// PaginationRules controls how a block may be broken and what must stay
// next to it.
type PaginationRules struct {
	KeepWithNext bool `json:"keepWithNext,omitempty" cbor:"keepWithNext,omitempty"`
	KeepTogether bool `json:"keepTogether,omitempty" cbor:"keepTogether,omitempty"`
	BreakBefore  bool `json:"breakBefore,omitempty" cbor:"breakBefore,omitempty"`
	BreakAfter   bool `json:"breakAfter,omitempty" cbor:"breakAfter,omitempty"`
	MinOrphans   int  `json:"minOrphans,omitempty" cbor:"minOrphans,omitempty"`
	MinWidows    int  `json:"minWidows,omitempty" cbor:"minWidows,omitempty"`
	BreakAvoid   bool `json:"breakAvoid,omitempty" cbor:"breakAvoid,omitempty"`
}

// DefaultRules returns the pagination defaults for a block type
func DefaultRules(t BlockType) PaginationRules {
	switch t {
	case TypeHeading:
		return PaginationRules{KeepWithNext: true, BreakAvoid: true, MinOrphans: 1, MinWidows: 1}
	case TypeParagraph:
		return PaginationRules{MinOrphans: 2, MinWidows: 2}
	case TypeOrderedList, TypeUnorderedList:
		return PaginationRules{KeepTogether: true, BreakAvoid: true, MinOrphans: 2, MinWidows: 2}
	case TypeQuote:
		return PaginationRules{BreakAvoid: true, MinOrphans: 2, MinWidows: 2}
	case TypeFigure, TypeChart:
		return PaginationRules{KeepTogether: true, BreakAvoid: true}
	case TypeTable:
		return PaginationRules{MinOrphans: 1, MinWidows: 1}
	case TypeDivider:
		return PaginationRules{KeepWithNext: true, BreakAvoid: true}
	case TypeCallout:
		return PaginationRules{KeepTogether: true, BreakAvoid: true, MinOrphans: 2, MinWidows: 2}
	case TypeFootnote:
		return PaginationRules{KeepTogether: true, BreakAvoid: true}
	case TypeCrossReference:
		return PaginationRules{BreakAvoid: true}
	case TypeSpacer, TypeTableOfContents:
		return PaginationRules{}
	}
	return PaginationRules{}
}
