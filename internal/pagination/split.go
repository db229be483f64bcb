package pagination

import "github.com/gompdf/doclayout/internal/model"

// tableRows returns the table when the block's units are its body rows
func tableRows(it *item) *model.TableContent {
	t, ok := it.block.Content.(model.TableContent)
	if !ok || len(t.Rows) == 0 || len(t.Rows) != len(it.extent.Units) {
		return nil
	}
	return &t
}

func unitsIn(groups []unitGroup) int {
	n := 0
	for _, g := range groups {
		n += g.size()
	}
	return n
}

func heightOf(groups []unitGroup) float64 {
	h := 0.0
	for _, g := range groups {
		h += g.height
	}
	return h
}

// split places a breakable block as a sequence of fragments, one per
// column. Breaks fall only between unit groups. A leading fragment carries
// at least MinOrphans units and the trailing one at least
// max(MinOrphans, MinWidows); the constraints are relaxed only when a
// fragment already starts an empty column.
func (p *Paginator) split(it *item) {
	minLead := max(1, it.rules.MinOrphans)
	minTail := max(minLead, it.rules.MinWidows)
	groups := it.groups

	var pl *Placement
	for next := 0; next < len(groups); {
		first := pl == nil
		header := 0.0
		if it.extent.Header > 0 && (first || p.master.TableBreakRules.RepeatHeader) {
			header = it.extent.Header
		}

		avail := p.remaining()
		k, used := next, header
		for k < len(groups) && used+groups[k].height <= avail+epsilon {
			used += groups[k].height
			k++
		}
		if k < len(groups) {
			for k > next && unitsIn(groups[k:]) < minTail {
				k--
			}
			if k == next || unitsIn(groups[next:k]) < minLead {
				if !p.columnEmpty() {
					p.advance()
					continue
				}
				k = p.forcedEnd(groups, next, header)
			}
			used = header + heightOf(groups[next:k])
		}

		consumed := p.geom.Snap(used)
		frag := Fragment{
			Page:           p.page,
			Column:         p.column,
			Offset:         p.y,
			Height:         consumed,
			FirstUnit:      groups[next].first,
			LastUnit:       groups[k-1].last,
			HeaderRepeated: !first && header > 0,
		}
		if first {
			p.result.add(Placement{
				BlockID:    it.block.ID,
				Type:       it.block.Type,
				Page:       p.page,
				Column:     p.column,
				Offset:     p.y,
				ScaleRatio: 1,
			})
			pl = &p.result.Placements[len(p.result.Placements)-1]
		}
		pl.Fragments = append(pl.Fragments, frag)
		pl.Height += consumed
		if used > avail+epsilon {
			pl.Overflow = true
		}
		if tableRows(it) != nil {
			p.placeRows(it, frag.FirstUnit, frag.LastUnit, header > 0, p.y, 1)
		}

		p.y += consumed
		p.pageItems++
		next = k
		if next < len(groups) {
			p.advance()
		}
	}
}

// forcedEnd takes as many groups as fit an empty column, and at least one
func (p *Paginator) forcedEnd(groups []unitGroup, next int, header float64) int {
	k, used := next, header
	for k < len(groups) && used+groups[k].height <= p.remaining()+epsilon {
		used += groups[k].height
		k++
	}
	if k == next {
		k++
	}
	return k
}

// placeRows records row positions for a table fragment starting at offset
func (p *Paginator) placeRows(it *item, first, last int, header bool, offset, scale float64) {
	rows := p.result.Rows[it.block.ID]
	y := offset
	if header && it.extent.Header > 0 {
		h := it.extent.Header * scale
		rows = append(rows, RowPlacement{Row: -1, Header: true, Page: p.page, Column: p.column, Offset: y, Height: h})
		y += h
	}
	for r := first; r <= last; r++ {
		h := it.extent.Units[r] * scale
		rows = append(rows, RowPlacement{Row: r, Page: p.page, Column: p.column, Offset: y, Height: h})
		y += h
	}
	p.result.Rows[it.block.ID] = rows
}
