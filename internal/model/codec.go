package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects the blob encoding of a persisted document
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// FormatFor picks a format from a mime type or a file name
func FormatFor(mimeTypeOrPath string) Format {
	v := strings.ToLower(mimeTypeOrPath)
	if strings.Contains(v, "cbor") {
		return FormatCBOR
	}
	return FormatJSON
}

// blockWire is the persisted shape of a Block. Content is decoded lazily
// once the type tag is known.
type blockWire[R any] struct {
	ID       string            `json:"id" cbor:"id"`
	Type     BlockType         `json:"type" cbor:"type"`
	Content  R                 `json:"content" cbor:"content"`
	Metadata map[string]string `json:"metadata,omitempty" cbor:"metadata,omitempty"`
	Order    int               `json:"order" cbor:"order"`
	Rules    *PaginationRules  `json:"paginationRules,omitempty" cbor:"paginationRules,omitempty"`
}

// MarshalJSON encodes the block with its content under the type tag
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockWire[Content]{
		ID:       b.ID,
		Type:     b.Type,
		Content:  b.Content,
		Metadata: b.Metadata,
		Order:    b.Order,
		Rules:    b.Rules,
	})
}

// UnmarshalJSON decodes a block, selecting the content variant by type
func (b *Block) UnmarshalJSON(data []byte) error {
	var w blockWire[json.RawMessage]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content, err := decodeContent(w.Type, func(v any) error {
		if len(w.Content) == 0 {
			return nil
		}
		return json.Unmarshal(w.Content, v)
	})
	if err != nil {
		return fmt.Errorf("block %q: %w", w.ID, err)
	}
	*b = Block{ID: w.ID, Type: w.Type, Content: content, Metadata: w.Metadata, Order: w.Order, Rules: w.Rules}
	return nil
}

// MarshalCBOR encodes the block with its content under the type tag
func (b Block) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(blockWire[Content]{
		ID:       b.ID,
		Type:     b.Type,
		Content:  b.Content,
		Metadata: b.Metadata,
		Order:    b.Order,
		Rules:    b.Rules,
	})
}

// UnmarshalCBOR decodes a block, selecting the content variant by type
func (b *Block) UnmarshalCBOR(data []byte) error {
	var w blockWire[cbor.RawMessage]
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	content, err := decodeContent(w.Type, func(v any) error {
		if len(w.Content) == 0 {
			return nil
		}
		return cbor.Unmarshal(w.Content, v)
	})
	if err != nil {
		return fmt.Errorf("block %q: %w", w.ID, err)
	}
	*b = Block{ID: w.ID, Type: w.Type, Content: content, Metadata: w.Metadata, Order: w.Order, Rules: w.Rules}
	return nil
}

func decodeContent(t BlockType, unmarshal func(v any) error) (Content, error) {
	switch t {
	case TypeHeading:
		return decodeVariant(HeadingContent{}, unmarshal)
	case TypeParagraph:
		return decodeVariant(ParagraphContent{}, unmarshal)
	case TypeOrderedList, TypeUnorderedList:
		var c ListContent
		if err := unmarshal(&c); err != nil {
			return nil, err
		}
		c.Ordered = t == TypeOrderedList
		return c, nil
	case TypeQuote:
		return decodeVariant(QuoteContent{}, unmarshal)
	case TypeDivider:
		return decodeVariant(DividerContent{}, unmarshal)
	case TypeSpacer:
		return decodeVariant(SpacerContent{}, unmarshal)
	case TypeFigure:
		return decodeVariant(FigureContent{}, unmarshal)
	case TypeTable:
		return decodeVariant(TableContent{}, unmarshal)
	case TypeChart:
		return decodeVariant(ChartContent{}, unmarshal)
	case TypeCallout:
		return decodeVariant(CalloutContent{}, unmarshal)
	case TypeFootnote:
		return decodeVariant(FootnoteContent{}, unmarshal)
	case TypeCrossReference:
		return decodeVariant(CrossReferenceContent{}, unmarshal)
	case TypeTableOfContents:
		return decodeVariant(TableOfContentsContent{}, unmarshal)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
}

func decodeVariant[C Content](zero C, unmarshal func(v any) error) (Content, error) {
	c := zero
	if err := unmarshal(&c); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeDocument serializes a document in the given format
func EncodeDocument(doc *SemanticDocument, format Format) ([]byte, error) {
	switch format {
	case FormatCBOR:
		return cbor.Marshal(doc)
	default:
		return json.MarshalIndent(doc, "", "  ")
	}
}

// DecodeDocument parses a document blob in the given format
func DecodeDocument(data []byte, format Format) (*SemanticDocument, error) {
	doc := &SemanticDocument{}
	var err error
	switch format {
	case FormatCBOR:
		err = cbor.Unmarshal(data, doc)
	default:
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	return doc, nil
}
