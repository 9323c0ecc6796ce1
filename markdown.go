package timetable

import (
	"bytes"
	"sort"

	"github.com/ivanvanderbyl/markdown"
)

// weekOrder lists weekdays Monday first.
var weekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// RenderMarkdown renders items as one table per weekday, Monday first,
// followed by items without a weekday under "Unscheduled".
func RenderMarkdown(items []ScheduleItem) string {
	if len(items) == 0 {
		return ""
	}

	byDay := make(map[Weekday][]ScheduleItem)
	for _, item := range items {
		day := item.Weekday
		if !day.Valid() {
			day = 0
		}
		byDay[day] = append(byDay[day], item)
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	writeDay := func(heading string, dayItems []ScheduleItem) {
		if len(dayItems) == 0 {
			return
		}
		md.H2(heading)
		md.LF()
		convertItemsToTable(md, dayItems)
		md.LF()
	}

	for _, day := range weekOrder {
		writeDay(day.String(), byDay[day])
	}
	writeDay("Unscheduled", byDay[0])

	if err := md.Build(); err != nil {
		return ""
	}

	return buf.String()
}

// convertItemsToTable writes a day's items ordered by start time.
func convertItemsToTable(md *markdown.Markdown, items []ScheduleItem) {
	sorted := make([]ScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Minutes() < sorted[j].Start.Minutes()
	})

	rows := make([][]string, 0, len(sorted))
	for _, item := range sorted {
		rows = append(rows, []string{
			item.Start.String() + "-" + item.End.String(),
			item.Title,
			item.Teacher,
			item.Room,
			item.Subgroup.String(),
			item.WeekParity.String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Time", "Title", "Teacher", "Room", "Subgroup", "Week"},
		Rows:   rows,
	})
}
