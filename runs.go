package timetable

import (
	"strings"
	"unicode/utf8"
)

// DefaultRunGapFactor is the largest horizontal gap, in median character
// widths, that still joins two words into the same run.
const DefaultRunGapFactor = 1.5

// MergeRuns joins word-level fragments that sit on the same visual line
// and are separated by less than gapFactor median character widths. OCR
// and PDF text layers report words individually, which would split
// "9:00 - 10:30" into three fragments; runs keep such cells intact while
// column gaps still separate cells.
func MergeRuns(words []Fragment, gapFactor float64) []Fragment {
	if len(words) <= 1 {
		return words
	}

	var heights, charWidths []float64
	for _, w := range words {
		heights = append(heights, w.Box.Height())
		if n := utf8.RuneCountInString(w.Text); n > 0 {
			charWidths = append(charWidths, w.Box.Width()/float64(n))
		}
	}
	lineTolerance := calculateMedian(heights) / 2
	maxGap := calculateMedian(charWidths) * gapFactor

	var runs []Fragment
	for _, line := range ClusterRows(words, lineTolerance) {
		var current Fragment
		started := false

		for _, w := range line.Fragments {
			if !started {
				current = w
				started = true
				continue
			}

			gap := w.Box.MinX - current.Box.MaxX
			if gap <= maxGap {
				current = Fragment{
					Text: strings.TrimSpace(current.Text + " " + w.Text),
					Box:  mergeRects(current.Box, w.Box),
				}
				continue
			}

			runs = append(runs, current)
			current = w
		}

		if started {
			runs = append(runs, current)
		}
	}

	return runs
}
