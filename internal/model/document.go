package model

import (
	"sort"
	"time"
)

// FlowType is a structural hint for renderers. Pagination always walks a
// flow in linear reading order.
type FlowType string

const (
	FlowLinear    FlowType = "linear"
	FlowBranching FlowType = "branching"
	FlowGrid      FlowType = "grid"
)

// Flow is a named ordered sequence of blocks
type Flow struct {
	ID     string   `json:"id" cbor:"id"`
	Name   string   `json:"name,omitempty" cbor:"name,omitempty"`
	Type   FlowType `json:"type" cbor:"type"`
	Order  int      `json:"order" cbor:"order"`
	Blocks []Block  `json:"blocks" cbor:"blocks"`
}

// OrderedBlocks returns the flow's blocks in reading order
func (f Flow) OrderedBlocks() []Block {
	return sortBlocks(f.Blocks)
}

// LayoutIntent tags what a section is for. It is a hint, not a policy.
type LayoutIntent string

const (
	IntentCover            LayoutIntent = "cover"
	IntentExecutiveSummary LayoutIntent = "executive-summary"
	IntentBody             LayoutIntent = "body"
	IntentDataAppendix     LayoutIntent = "data-appendix"
	IntentCustom           LayoutIntent = "custom"
)

// Footnote is an entry in a section's footnote collection
type Footnote struct {
	ID   string `json:"id" cbor:"id"`
	Text string `json:"text" cbor:"text"`
}

// Section is an ordered sequence of flows sharing one page master
type Section struct {
	ID           string       `json:"id" cbor:"id"`
	Title        string       `json:"title,omitempty" cbor:"title,omitempty"`
	Order        int          `json:"order" cbor:"order"`
	Flows        []Flow       `json:"flows" cbor:"flows"`
	PageMaster   PageMaster   `json:"pageMaster" cbor:"pageMaster"`
	LayoutIntent LayoutIntent `json:"layoutIntent,omitempty" cbor:"layoutIntent,omitempty"`
	Footnotes    []Footnote   `json:"footnotes,omitempty" cbor:"footnotes,omitempty"`
	UseEndnotes  bool         `json:"useEndnotes,omitempty" cbor:"useEndnotes,omitempty"`
	IncludeInTOC *bool        `json:"includeInTOC,omitempty" cbor:"includeInTOC,omitempty"`
}

// InTOC reports whether the section's headings are listed in tables of
// contents. Sections are listed unless includeInTOC is explicitly false.
func (s Section) InTOC() bool {
	return s.IncludeInTOC == nil || *s.IncludeInTOC
}

// OrderedFlows returns the section's flows in reading order
func (s Section) OrderedFlows() []Flow {
	out := make([]Flow, len(s.Flows))
	copy(out, s.Flows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Blocks returns every block of the section in reading order
func (s Section) Blocks() []Block {
	var out []Block
	for _, f := range s.OrderedFlows() {
		out = append(out, f.OrderedBlocks()...)
	}
	return out
}

// Theme carries the typographic defaults used when measuring text
type Theme struct {
	Name         string            `json:"name,omitempty" cbor:"name,omitempty"`
	HeadingFont  string            `json:"headingFont,omitempty" cbor:"headingFont,omitempty"`
	BodyFont     string            `json:"bodyFont,omitempty" cbor:"bodyFont,omitempty"`
	BaseFontSize float64           `json:"baseFontSize,omitempty" cbor:"baseFontSize,omitempty"`
	LineHeight   float64           `json:"lineHeight,omitempty" cbor:"lineHeight,omitempty"`
	Colors       map[string]string `json:"colors,omitempty" cbor:"colors,omitempty"`
}

// SemanticDocument is the root of the hierarchy
type SemanticDocument struct {
	ID        string            `json:"id" cbor:"id"`
	Title     string            `json:"title,omitempty" cbor:"title,omitempty"`
	Sections  []Section         `json:"sections" cbor:"sections"`
	Theme     *Theme            `json:"theme,omitempty" cbor:"theme,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" cbor:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt,omitempty" cbor:"createdAt,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty" cbor:"updatedAt,omitempty"`
}

// NewDocument creates an empty document stamped with the current time
func NewDocument(id, title string) *SemanticDocument {
	now := time.Now().UTC()
	return &SemanticDocument{
		ID:        id,
		Title:     title,
		Metadata:  make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrderedSections returns the sections in reading order
func (d *SemanticDocument) OrderedSections() []Section {
	out := make([]Section, len(d.Sections))
	copy(out, d.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Position locates a block in the document's reading order
type Position struct {
	Index     int // position in the whole document
	SectionID string
	Section   int // index into OrderedSections
	Block     Block
}

// ReadingOrder flattens the document into its single total reading order
func (d *SemanticDocument) ReadingOrder() []Position {
	var out []Position
	for si, s := range d.OrderedSections() {
		for _, b := range s.Blocks() {
			out = append(out, Position{
				Index:     len(out),
				SectionID: s.ID,
				Section:   si,
				Block:     b,
			})
		}
	}
	return out
}

// FindBlock returns the block with the given id
func (d *SemanticDocument) FindBlock(id string) (Block, bool) {
	for _, s := range d.Sections {
		for _, f := range s.Flows {
			for _, b := range f.Blocks {
				if b.ID == id {
					return b, true
				}
			}
		}
	}
	return Block{}, false
}
