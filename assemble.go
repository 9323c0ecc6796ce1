package timetable

import (
	"strings"
	"unicode/utf8"
)

// titleResolver picks an anchor's title from its context.
type titleResolver struct {
	extractor *FieldExtractor
	anchors   *AnchorDetector
}

// resolve returns the first non-empty candidate of: text trailing a plain
// time range in the anchor fragment, the longest eligible fragment above,
// the joined fragments to the right, the longest eligible fragment below,
// and finally the locale placeholder.
func (t titleResolver) resolve(a Anchor, ctx AnchorContext) string {
	if a.Trailing != "" {
		return a.Trailing
	}

	if title := t.longestCandidate(ctx.Above); title != "" {
		return title
	}

	parts := make([]string, 0, len(ctx.SameRowRight))
	for _, f := range ctx.SameRowRight {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	if joined := strings.TrimSpace(strings.Join(parts, " ")); joined != "" && !t.extractor.IsMeta(joined) {
		return joined
	}

	if title := t.longestCandidate(ctx.Below); title != "" {
		return title
	}

	return t.extractor.Locale().PlaceholderTitle
}

// longestCandidate returns the longest fragment text that is not a time
// range, teacher, room or table header. Ties keep the first fragment.
func (t titleResolver) longestCandidate(fragments []Fragment) string {
	best := ""
	bestLen := 0
	for _, f := range fragments {
		text := strings.TrimSpace(f.Text)
		if text == "" || !t.eligible(text) {
			continue
		}
		if n := utf8.RuneCountInString(text); n > bestLen {
			best, bestLen = text, n
		}
	}
	return best
}

func (t titleResolver) eligible(text string) bool {
	return !t.anchors.HasTimeRange(text) &&
		!t.extractor.Match(FieldTeacher, text) &&
		!t.extractor.Match(FieldRoom, text) &&
		!t.extractor.IsMeta(text)
}

// assembleItem builds the item for an anchor. The weekday comes from the
// anchor itself, then from the row's propagated weekday, then from the
// context. Anchors whose end does not follow their start yield no item.
func assembleItem(a Anchor, title string, fields Fields, rowWeekday Weekday) (ScheduleItem, bool) {
	if a.End.Minutes() <= a.Start.Minutes() {
		return ScheduleItem{}, false
	}

	weekday := a.WeekdayHint
	if weekday == 0 {
		weekday = rowWeekday
	}
	if weekday == 0 {
		weekday = fields.Weekday
	}

	return ScheduleItem{
		Title:      title,
		Teacher:    fields.Teacher,
		Room:       fields.Room,
		Start:      a.Start,
		End:        a.End,
		Weekday:    weekday,
		Subgroup:   fields.Subgroup,
		WeekParity: fields.WeekParity,
	}, true
}

// itemKey is the identity used to collapse duplicate items.
type itemKey struct {
	title    string
	teacher  string
	room     string
	start    TimeOfDay
	end      TimeOfDay
	weekday  Weekday
	subgroup Subgroup
	parity   WeekParity
}

func keyOf(item ScheduleItem) itemKey {
	return itemKey{
		title:    strings.ToLower(item.Title),
		teacher:  item.Teacher,
		room:     item.Room,
		start:    item.Start,
		end:      item.End,
		weekday:  item.Weekday,
		subgroup: item.Subgroup,
		parity:   item.WeekParity,
	}
}

// DeduplicateItems drops items whose identity (lowercased title, teacher,
// room, times, weekday, subgroup and week parity) was already seen,
// preserving the order of first occurrences.
func DeduplicateItems(items []ScheduleItem) []ScheduleItem {
	unique, _ := deduplicateItems(items)
	return unique
}

func deduplicateItems(items []ScheduleItem) ([]ScheduleItem, int) {
	seen := make(map[itemKey]bool, len(items))
	unique := make([]ScheduleItem, 0, len(items))
	for _, item := range items {
		key := keyOf(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}
	return unique, len(items) - len(unique)
}
