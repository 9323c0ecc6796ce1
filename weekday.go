package timetable

// propagateWeekdays assigns a weekday to every row in a single top to
// bottom walk. Rows without anchors that name a weekday become day headers
// and update the current weekday; every other row inherits the current
// weekday, which stays zero until the first header is seen.
func propagateWeekdays(rows []Row, anchorRows map[int]bool, locale *Locale) []Weekday {
	days := make([]Weekday, len(rows))
	var current Weekday

	for i, row := range rows {
		if anchorRows[row.Index] {
			days[i] = current
			continue
		}

		for _, frag := range row.Fragments {
			if day, ok := locale.LookupWeekday(frag.Text); ok {
				current = day
				break
			}
		}
		days[i] = current
	}

	return days
}
