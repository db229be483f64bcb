package pagination

// DocumentLayout joins the per-section results into one page sequence
type DocumentLayout struct {
	Sections   []*LayoutResult
	TotalPages int

	offsets map[string]int
	owner   map[string]*LayoutResult
}

// Assemble concatenates section layouts in reading order. A nil entry is a
// section without a layout yet; it contributes no pages and its blocks have
// no page numbers.
func Assemble(results []*LayoutResult) *DocumentLayout {
	d := &DocumentLayout{
		offsets: make(map[string]int),
		owner:   make(map[string]*LayoutResult),
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		d.Sections = append(d.Sections, r)
		d.offsets[r.SectionID] = d.TotalPages
		for _, p := range r.Placements {
			d.owner[p.BlockID] = r
		}
		d.TotalPages += r.PageCount()
	}
	return d
}

// Offset returns the number of pages preceding a section
func (d *DocumentLayout) Offset(sectionID string) (int, bool) {
	if d == nil {
		return 0, false
	}
	off, ok := d.offsets[sectionID]
	return off, ok
}

// Section returns the layout of a section
func (d *DocumentLayout) Section(sectionID string) *LayoutResult {
	if d == nil {
		return nil
	}
	for _, r := range d.Sections {
		if r.SectionID == sectionID {
			return r
		}
	}
	return nil
}

// PageOf returns the 1-based document page on which a block starts
func (d *DocumentLayout) PageOf(blockID string) (int, bool) {
	if d == nil {
		return 0, false
	}
	r, ok := d.owner[blockID]
	if !ok {
		return 0, false
	}
	local, _ := r.PageOf(blockID)
	return d.offsets[r.SectionID] + local + 1, true
}
