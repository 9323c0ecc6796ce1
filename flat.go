package timetable

import "time"

// ParseLines extracts schedule items from plain lines in reading order,
// for sources without geometry. Every line holding a time range opens a
// window over the following lines, which are classified with the same
// field rules as the positional parser.
func (p *Parser) ParseLines(lines []string) []ScheduleItem {
	startTime := time.Now()
	metrics := ParseMetrics{Fragments: len(lines), Rows: len(lines)}

	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = normalizeText(line)
	}

	var items []ScheduleItem
	var current Weekday

	for i, line := range normalized {
		m, ok := genericRange(line)
		if !ok {
			if day, found := p.config.Locale.LookupWeekday(line); found {
				current = day
			}
			continue
		}
		metrics.Anchors++

		window := normalized[i+1 : min(i+1+p.config.FlatWindow, len(normalized))]
		fields := p.extractor.Classify(window)

		title := ""
		for _, candidate := range window {
			if title != "" {
				break
			}
			if candidate == "" || p.extractor.IsMeta(candidate) || p.anchors.HasTimeRange(candidate) {
				continue
			}
			title = candidate
		}
		if title == "" {
			title = p.config.Locale.PlaceholderTitle
		}

		// The last day header acts as the row weekday, ahead of any
		// weekday named inside the window
		a := Anchor{Row: i, Start: m.start, End: m.end}
		item, ok := assembleItem(a, title, fields, current)
		if !ok {
			metrics.InvalidRanges++
			continue
		}
		items = append(items, item)
	}

	items, metrics.Duplicates = deduplicateItems(items)
	metrics.Items = len(items)
	metrics.TotalTime = time.Since(startTime)

	if p.config.EnableMetricsLogging {
		logParseMetrics("Flat", metrics)
	}

	return items
}
