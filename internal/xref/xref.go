// Package xref turns cross-reference descriptors into display strings.
// A reference whose target is missing renders as BrokenMarker; resolution
// never fails.
package xref

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gompdf/doclayout/internal/model"
	"github.com/gompdf/doclayout/internal/numbering"
)

// BrokenMarker is shown in place of an unresolved reference
const BrokenMarker = "[??]"

// unknownPage stands in for a page number the layout does not have yet
const unknownPage = "?"

var labels = map[numbering.Category]string{
	numbering.CategoryHeading:  "Section",
	numbering.CategoryFigure:   "Figure",
	numbering.CategoryTable:    "Table",
	numbering.CategoryChart:    "Chart",
	numbering.CategoryFootnote: "Note",
}

// PageLookup returns the document page a block starts on.
// *pagination.DocumentLayout implements it.
type PageLookup interface {
	PageOf(blockID string) (int, bool)
}

// Descriptor describes one reference
type Descriptor struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	Format   string `json:"format"`
}

// FromContent builds a descriptor from a cross-reference block
func FromContent(c model.CrossReferenceContent) Descriptor {
	return Descriptor{TargetID: c.TargetID, Type: c.RefType, Format: c.Format}
}

// Result is a resolved reference
type Result struct {
	BlockID  string `json:"blockId,omitempty"`
	TargetID string `json:"targetId"`
	Text     string `json:"text"`
	Resolved bool   `json:"resolved"`
	Page     *int   `json:"page,omitempty"`
}

// Resolve formats a reference against the registry. pages may be nil when
// no layout exists.
func Resolve(d Descriptor, reg *numbering.Registry, pages PageLookup) Result {
	r := Result{TargetID: d.TargetID}
	el, ok := reg.Lookup(d.TargetID)
	if !ok {
		r.Text = BrokenMarker
		return r
	}
	r.Resolved = true
	if pages != nil {
		if page, ok := pages.PageOf(d.TargetID); ok {
			r.Page = &page
		}
	}

	if d.Type == model.RefPage {
		r.Text = unknownPage
		if r.Page != nil {
			r.Text = strconv.Itoa(*r.Page)
		}
		return r
	}

	switch d.Format {
	case model.FormatNumberOnly:
		r.Text = el.Number
	case model.FormatTitleOnly:
		r.Text = el.Title
		if r.Text == "" {
			r.Text = labelOf(el)
		}
	default:
		r.Text = labelOf(el)
		if r.Page != nil {
			r.Text += " (p. " + strconv.Itoa(*r.Page) + ")"
		}
	}
	if d.Type == model.RefSee {
		r.Text = "See " + r.Text
	}
	return r
}

func labelOf(el numbering.Element) string {
	return labels[el.Category] + " " + el.Number
}

// ResolveAll resolves every cross-reference block of the document in
// reading order. Unresolved targets are logged and rendered broken.
func ResolveAll(doc *model.SemanticDocument, reg *numbering.Registry, pages PageLookup, log zerolog.Logger) []Result {
	if doc == nil {
		return nil
	}
	var out []Result
	for _, pos := range doc.ReadingOrder() {
		c, ok := pos.Block.Content.(model.CrossReferenceContent)
		if !ok {
			continue
		}
		r := Resolve(FromContent(c), reg, pages)
		r.BlockID = pos.Block.ID
		if !r.Resolved {
			log.Warn().
				Str("block", pos.Block.ID).
				Str("target", c.TargetID).
				Msg("cross-reference target not found")
		}
		out = append(out, r)
	}
	return out
}
