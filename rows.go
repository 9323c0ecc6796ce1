package timetable

import (
	"math"
	"sort"
)

// floatSlack absorbs rounding error when comparing center distances
// against the row tolerance.
const floatSlack = 1e-9

// ClusterRows groups fragments into visual rows by vertical proximity.
//
// Fragments are scanned top to bottom (descending vertical center, ties
// broken by left edge). Each fragment joins the first existing row whose
// opening center lies within tolerance of its own center, otherwise it
// opens a new row. Rows keep the order in which they were opened, which is
// top to bottom because the scan is. Fragments inside a row are sorted
// left to right.
func ClusterRows(fragments []Fragment, tolerance float64) []Row {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Box.CenterY(), sorted[j].Box.CenterY()
		if ci != cj {
			return ci > cj // Higher Y first (top of image)
		}
		return sorted[i].Box.MinX < sorted[j].Box.MinX
	})

	var rows []Row
	for _, frag := range sorted {
		center := frag.Box.CenterY()
		placed := false
		for i := range rows {
			if math.Abs(rows[i].CenterY-center) <= tolerance+floatSlack {
				rows[i].Fragments = append(rows[i].Fragments, frag)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, Row{
				Index:     len(rows),
				Fragments: []Fragment{frag},
				CenterY:   center,
			})
		}
	}

	for i := range rows {
		sort.SliceStable(rows[i].Fragments, func(a, b int) bool {
			return rows[i].Fragments[a].Box.MinX < rows[i].Fragments[b].Box.MinX
		})
	}

	return rows
}
