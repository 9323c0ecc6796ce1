package timetable

// AnchorContext holds the fragments surrounding an anchor that may carry
// its title, teacher, room and other fields.
type AnchorContext struct {
	Above        []Fragment
	SameRowRight []Fragment
	Below        []Fragment
}

// All returns above, same-row-right and below fragments in that order.
func (c AnchorContext) All() []Fragment {
	all := make([]Fragment, 0, len(c.Above)+len(c.SameRowRight)+len(c.Below))
	all = append(all, c.Above...)
	all = append(all, c.SameRowRight...)
	return append(all, c.Below...)
}

// contextWindow bounds how far context collection may reach.
type contextWindow struct {
	sameRowEpsilon float64
	maxLookback    int
	maxLookahead   int
}

// collectContext gathers the fragments around anchors[idx]. Walking stops
// at rows that produced anchors themselves so content of a neighbouring
// time slot is never attributed to this one.
func collectContext(rows []Row, anchors []Anchor, idx int, anchorRows map[int]bool, win contextWindow) AnchorContext {
	a := anchors[idx]
	var ctx AnchorContext

	for _, f := range rows[a.Row].Fragments {
		if f == a.Fragment {
			continue
		}
		if f.Box.MinX >= a.Fragment.Box.MaxX-win.sameRowEpsilon {
			ctx.SameRowRight = append(ctx.SameRowRight, f)
		}
	}

	for r := a.Row - 1; r >= 0 && r >= a.Row-win.maxLookback; r-- {
		if anchorRows[r] {
			break
		}
		ctx.Above = append(ctx.Above, rows[r].Fragments...)
	}

	nextAnchorRow := len(rows)
	if idx+1 < len(anchors) {
		nextAnchorRow = anchors[idx+1].Row
	}
	limit := min(nextAnchorRow, a.Row+1+win.maxLookahead)
	for r := a.Row + 1; r < limit && r < len(rows); r++ {
		if anchorRows[r] {
			break
		}
		ctx.Below = append(ctx.Below, rows[r].Fragments...)
	}

	ctx.Above = uniqueFragments(ctx.Above)
	ctx.SameRowRight = uniqueFragments(ctx.SameRowRight)
	ctx.Below = uniqueFragments(ctx.Below)

	return ctx
}

// uniqueFragments removes repeated fragments, keeping first occurrences.
func uniqueFragments(fragments []Fragment) []Fragment {
	if len(fragments) <= 1 {
		return fragments
	}

	seen := make(map[Fragment]bool, len(fragments))
	unique := fragments[:0:0]
	for _, f := range fragments {
		if seen[f] {
			continue
		}
		seen[f] = true
		unique = append(unique, f)
	}
	return unique
}
