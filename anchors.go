package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// genericRangePattern matches HH:MM-HH:MM with ':' or '.' separators and
// hyphen, en dash or em dash connectors. Digit boundaries and value
// ranges are validated by the caller since RE2 has no lookaround.
var genericRangePattern = regexp.MustCompile(`([0-2]?\d)[:.](\d{2})\s*[-–—]\s*([0-2]?\d)[:.](\d{2})`)

// AnchorDetector finds time ranges inside row fragments.
type AnchorDetector struct {
	coupled *regexp.Regexp
	days    map[string]Weekday
}

// NewAnchorDetector builds a detector for the locale's weekday
// abbreviations and range connectors.
func NewAnchorDetector(locale *Locale) *AnchorDetector {
	days := make(map[string]Weekday, len(locale.AnchorWeekdays))
	names := make([]string, 0, len(locale.AnchorWeekdays))
	for _, w := range locale.AnchorWeekdays {
		if _, ok := days[w.Name]; ok {
			continue
		}
		days[w.Name] = w.Day
		names = append(names, w.Name)
	}

	d := &AnchorDetector{days: days}
	if len(names) == 0 {
		return d
	}

	connectors := locale.RangeConnectors
	if len(connectors) == 0 {
		connectors = []string{"-", "–", "—"}
	}

	d.coupled = regexp.MustCompile(`(?i)(` + alternation(names) + `)(?:[^\p{L}\d][^\d]*?)?` +
		`(\d{1,2})[:.](\d{2})\s*(?:` + alternation(connectors) + `)\s*(\d{1,2})[:.](\d{2})`)
	return d
}

// alternation quotes words and joins them longest first so that longer
// alternatives win over their prefixes.
func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})
	return strings.Join(quoted, "|")
}

// Detect returns all anchors found in rows, ordered by row and then by
// the horizontal position of their source fragment.
func (d *AnchorDetector) Detect(rows []Row) []Anchor {
	var anchors []Anchor

	for _, row := range rows {
		for _, frag := range row.Fragments {
			coupled := d.coupledRanges(frag.Text)
			if len(coupled) > 0 {
				for _, m := range coupled {
					anchors = append(anchors, Anchor{
						Row:         row.Index,
						X:           frag.Box.MinX,
						Start:       m.start,
						End:         m.end,
						WeekdayHint: m.weekday,
						Fragment:    frag,
					})
				}
				continue
			}

			if m, ok := genericRange(frag.Text); ok {
				anchors = append(anchors, Anchor{
					Row:      row.Index,
					X:        frag.Box.MinX,
					Start:    m.start,
					End:      m.end,
					Fragment: frag,
					Trailing: trailingText(frag.Text[m.endOffset:]),
				})
			}
		}
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].Row != anchors[j].Row {
			return anchors[i].Row < anchors[j].Row
		}
		return anchors[i].X < anchors[j].X
	})

	return anchors
}

// HasTimeRange reports whether text contains anything the detector would
// turn into an anchor.
func (d *AnchorDetector) HasTimeRange(text string) bool {
	if len(d.coupledRanges(text)) > 0 {
		return true
	}
	_, ok := genericRange(text)
	return ok
}

type rangeMatch struct {
	start     TimeOfDay
	end       TimeOfDay
	weekday   Weekday
	endOffset int // Byte offset just past the matched range
}

// coupledRanges returns every non-overlapping weekday-coupled range in text.
func (d *AnchorDetector) coupledRanges(text string) []rangeMatch {
	if d.coupled == nil {
		return nil
	}

	var matches []rangeMatch
	offset := 0
	for offset < len(text) {
		loc := d.coupled.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += offset
			}
		}

		start, okStart := parseClock(text[loc[4]:loc[5]], text[loc[6]:loc[7]])
		end, okEnd := parseClock(text[loc[8]:loc[9]], text[loc[10]:loc[11]])
		valid := okStart && okEnd &&
			!letterBefore(text, loc[2]) &&
			!letterAfter(text, loc[3]) &&
			!digitBefore(text, loc[4]) &&
			!digitAfter(text, loc[11])

		if !valid {
			offset = nextRuneOffset(text, loc[0])
			continue
		}

		matches = append(matches, rangeMatch{
			start:     start,
			end:       end,
			weekday:   d.days[strings.ToLower(text[loc[2]:loc[3]])],
			endOffset: loc[11],
		})
		offset = loc[1]
	}

	return matches
}

// genericRange returns the first valid plain time range in text.
func genericRange(text string) (rangeMatch, bool) {
	offset := 0
	for offset < len(text) {
		loc := genericRangePattern.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += offset
			}
		}

		start, okStart := parseClock(text[loc[2]:loc[3]], text[loc[4]:loc[5]])
		end, okEnd := parseClock(text[loc[6]:loc[7]], text[loc[8]:loc[9]])
		if okStart && okEnd && !digitBefore(text, loc[0]) && !digitAfter(text, loc[1]) {
			return rangeMatch{start: start, end: end, endOffset: loc[1]}, true
		}

		offset = nextRuneOffset(text, loc[0])
	}

	return rangeMatch{}, false
}

// parseClock validates hour 0-23 and minute 0-59.
func parseClock(hour, minute string) (TimeOfDay, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: h, Minute: m}, true
}

// trailingText strips separators left between a time range and the text
// that follows it.
func trailingText(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), ",;:|–—-"))
}

func digitBefore(s string, i int) bool {
	return i > 0 && s[i-1] >= '0' && s[i-1] <= '9'
}

func digitAfter(s string, i int) bool {
	return i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func nextRuneOffset(s string, i int) int {
	_, size := utf8.DecodeRuneInString(s[i:])
	if size == 0 {
		return len(s)
	}
	return i + size
}
