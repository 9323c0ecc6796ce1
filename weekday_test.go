package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropagateWeekdays(t *testing.T) {
	rows := []Row{
		{Index: 0, Fragments: []Fragment{frag("Gruppe 21", 0.1, 0.9, 0.3)}},
		{Index: 1, Fragments: []Fragment{frag("Montag", 0.1, 0.8, 0.3)}},
		{Index: 2, Fragments: []Fragment{frag("9:00-10:30", 0.1, 0.7, 0.3)}},
		// An anchor row naming a weekday is not a header
		{Index: 3, Fragments: []Fragment{frag("Dienstag 11:00-12:30", 0.1, 0.6, 0.4)}},
		{Index: 4, Fragments: []Fragment{frag("Среда", 0.1, 0.5, 0.3)}},
		{Index: 5, Fragments: []Fragment{frag("13:00-14:30", 0.1, 0.4, 0.3)}},
	}
	anchorRows := map[int]bool{2: true, 3: true, 5: true}

	days := propagateWeekdays(rows, anchorRows, DefaultLocale())
	assert.Equal(t, []Weekday{0, Monday, Monday, Monday, Wednesday, Wednesday}, days)
}

func TestPropagateWeekdays_NoHeaders(t *testing.T) {
	rows := []Row{{Index: 0, Fragments: []Fragment{frag("9:00-10:30", 0.1, 0.7, 0.3)}}}
	assert.Equal(t, []Weekday{0}, propagateWeekdays(rows, map[int]bool{0: true}, DefaultLocale()))
}

func TestPropagateWeekdays_SpacerRowInheritsHeader(t *testing.T) {
	rows := []Row{
		{Index: 0, Fragments: []Fragment{frag("Montag", 0.1, 0.8, 0.3)}},
		{Index: 1, Fragments: []Fragment{frag("Vorlesung", 0.1, 0.7, 0.3)}},
		{Index: 2, Fragments: []Fragment{frag("", 0.1, 0.6, 0.3)}},
		{Index: 3, Fragments: []Fragment{frag("9:00-10:30", 0.1, 0.5, 0.3)}},
	}

	days := propagateWeekdays(rows, map[int]bool{3: true}, DefaultLocale())
	assert.Equal(t, []Weekday{Monday, Monday, Monday, Monday}, days)
}
