package timetable

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldKind identifies a semantic field a fragment can be classified as.
type FieldKind int

const (
	FieldTeacher FieldKind = iota
	FieldRoom
	FieldSubgroup
	FieldWeekParity
	FieldWeekday
	FieldMeta
)

// String returns the field name.
func (k FieldKind) String() string {
	switch k {
	case FieldTeacher:
		return "teacher"
	case FieldRoom:
		return "room"
	case FieldSubgroup:
		return "subgroup"
	case FieldWeekParity:
		return "weekParity"
	case FieldWeekday:
		return "weekday"
	case FieldMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// Fields holds the values resolved from an anchor's context.
type Fields struct {
	Teacher    string
	Room       string
	Subgroup   Subgroup
	WeekParity WeekParity
	Weekday    Weekday
}

// fieldValue is the payload produced by a single matching rule.
type fieldValue struct {
	text     string
	subgroup Subgroup
	parity   WeekParity
	weekday  Weekday
}

// fieldRule pairs a field with its matcher. meta reports whether the text
// was flagged as a table header.
type fieldRule struct {
	kind  FieldKind
	match func(text string, meta bool) (fieldValue, bool)
}

// FieldExtractor classifies fragment texts into schedule fields using a
// table of independent rules. Rules are evaluated in priority order
// teacher, room, subgroup, week parity, weekday.
type FieldExtractor struct {
	locale *Locale
	rules  []fieldRule

	teacherInitials *regexp.Regexp
	initialsFirst   *regexp.Regexp
	academicTitle   *regexp.Regexp
	capitalized     *regexp.Regexp
	roomKeyword     *regexp.Regexp
	roomTrailing    *regexp.Regexp
	subgroupAfter   *regexp.Regexp
	subgroupBefore  *regexp.Regexp
}

// NewFieldExtractor compiles the classifiers for a locale.
func NewFieldExtractor(locale *Locale) *FieldExtractor {
	e := &FieldExtractor{
		locale:          locale,
		teacherInitials: regexp.MustCompile(`\p{Lu}\p{Ll}+(?:-\p{Lu}\p{Ll}+)?\s+\p{Lu}\.\s?\p{Lu}\.`),
		initialsFirst:   regexp.MustCompile(`\p{Lu}\.\s?\p{Lu}\.\s*\p{Lu}\p{Ll}+`),
		capitalized:     regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+)+`),
		roomTrailing:    regexp.MustCompile(`(\d{2,5})\s*$`),
	}

	if len(locale.AcademicTitles) > 0 {
		e.academicTitle = regexp.MustCompile(`(?i)\b(?:` + alternation(locale.AcademicTitles) + `)\b`)
	}
	if len(locale.RoomKeywords) > 0 {
		e.roomKeyword = regexp.MustCompile(`(?i)(` + alternation(locale.RoomKeywords) + `)(\p{L}*)([.:№#\s]*)([\p{L}\p{N}][\p{L}\p{N}/\-]*)`)
	}
	if len(locale.SubgroupKeywords) > 0 {
		kw := alternation(locale.SubgroupKeywords)
		e.subgroupAfter = regexp.MustCompile(`(?i)(?:` + kw + `)\s*[.:№#]?\s*([12])`)
		e.subgroupBefore = regexp.MustCompile(`(?i)([12])\s*[-.]?\s*(?:` + kw + `)`)
	}

	e.rules = []fieldRule{
		{kind: FieldTeacher, match: e.matchTeacher},
		{kind: FieldRoom, match: e.matchRoom},
		{kind: FieldSubgroup, match: e.matchSubgroup},
		{kind: FieldWeekParity, match: e.matchParity},
		{kind: FieldWeekday, match: e.matchWeekday},
	}

	return e
}

// Locale returns the dictionaries the extractor was built from.
func (e *FieldExtractor) Locale() *Locale {
	return e.locale
}

// Classify scans texts in order and fills every field with the first text
// matching that field's rule. A text may satisfy several fields at once;
// consumed texts stay eligible for the remaining fields.
func (e *FieldExtractor) Classify(texts []string) Fields {
	var fields Fields
	filled := make(map[FieldKind]bool, len(e.rules))

	for _, text := range texts {
		if len(filled) == len(e.rules) {
			break
		}
		meta := e.IsMeta(text)
		for _, rule := range e.rules {
			if filled[rule.kind] {
				continue
			}
			if v, ok := rule.match(text, meta); ok {
				fields.set(rule.kind, v)
				filled[rule.kind] = true
			}
		}
	}

	return fields
}

// Match reports whether text satisfies the rule for kind.
func (e *FieldExtractor) Match(kind FieldKind, text string) bool {
	meta := e.IsMeta(text)
	if kind == FieldMeta {
		return meta
	}
	for _, rule := range e.rules {
		if rule.kind == kind {
			_, ok := rule.match(text, meta)
			return ok
		}
	}
	return false
}

// IsMeta reports whether text contains a table header keyword.
func (e *FieldExtractor) IsMeta(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range e.locale.MetaKeywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (f *Fields) set(kind FieldKind, v fieldValue) {
	switch kind {
	case FieldTeacher:
		f.Teacher = v.text
	case FieldRoom:
		f.Room = v.text
	case FieldSubgroup:
		f.Subgroup = v.subgroup
	case FieldWeekParity:
		f.WeekParity = v.parity
	case FieldWeekday:
		f.Weekday = v.weekday
	}
}

func (e *FieldExtractor) matchTeacher(text string, meta bool) (fieldValue, bool) {
	if meta {
		return fieldValue{}, false
	}
	if e.teacherInitials.MatchString(text) ||
		e.initialsFirst.MatchString(text) ||
		(e.academicTitle != nil && e.academicTitle.MatchString(text)) ||
		e.capitalized.MatchString(text) {
		return fieldValue{text: strings.TrimSpace(text)}, true
	}
	return fieldValue{}, false
}

// matchRoom tries an explicit keyword first, then a bare number at the end
// of the text (which also covers texts that are only a number). Header
// cells may still name a room through a keyword but never through a bare
// number.
func (e *FieldExtractor) matchRoom(text string, meta bool) (fieldValue, bool) {
	if e.roomKeyword != nil {
		for _, loc := range e.roomKeyword.FindAllStringSubmatchIndex(text, -1) {
			if letterBefore(text, loc[2]) {
				continue
			}
			token := text[loc[8]:loc[9]]
			if loc[4] != loc[5] || loc[6] == loc[7] {
				// "аудитория 301" and "aud301" name rooms, "Audimax" and
				// "Audit Management" do not
				r, _ := utf8.DecodeRuneInString(token)
				if !unicode.IsDigit(r) {
					continue
				}
			}
			return fieldValue{text: token}, true
		}
	}

	if meta {
		return fieldValue{}, false
	}

	if loc := e.roomTrailing.FindStringSubmatchIndex(text); loc != nil {
		start := loc[2]
		if start > 0 && strings.ContainsRune("0123456789:.", rune(text[start-1])) {
			return fieldValue{}, false
		}
		return fieldValue{text: text[loc[2]:loc[3]]}, true
	}

	return fieldValue{}, false
}

func (e *FieldExtractor) matchSubgroup(text string, _ bool) (fieldValue, bool) {
	trimmed := strings.TrimSpace(text)
	switch trimmed {
	case "1":
		return fieldValue{subgroup: SubgroupOne}, true
	case "2":
		return fieldValue{subgroup: SubgroupTwo}, true
	}

	if e.subgroupAfter != nil {
		for _, loc := range e.subgroupAfter.FindAllStringSubmatchIndex(text, -1) {
			if digitAfter(text, loc[3]) {
				continue
			}
			return fieldValue{subgroup: subgroupFromDigit(text[loc[2]:loc[3]])}, true
		}
	}
	if e.subgroupBefore != nil {
		for _, loc := range e.subgroupBefore.FindAllStringSubmatchIndex(text, -1) {
			if digitBefore(text, loc[2]) {
				continue
			}
			return fieldValue{subgroup: subgroupFromDigit(text[loc[2]:loc[3]])}, true
		}
	}

	return fieldValue{}, false
}

func subgroupFromDigit(d string) Subgroup {
	if d == "2" {
		return SubgroupTwo
	}
	return SubgroupOne
}

// matchParity checks the odd keywords before the even ones because
// several odd forms contain an even form ("ungerade", "нечет").
// Weekday names are removed first so "четверг" is not read as "чет".
func (e *FieldExtractor) matchParity(text string, _ bool) (fieldValue, bool) {
	lower := e.locale.stripWeekdays(strings.ToLower(text))
	for _, kw := range e.locale.OddWeek {
		if kw != "" && strings.Contains(lower, kw) {
			return fieldValue{parity: ParityOdd}, true
		}
	}
	for _, kw := range e.locale.EvenWeek {
		if kw != "" && strings.Contains(lower, kw) {
			return fieldValue{parity: ParityEven}, true
		}
	}
	return fieldValue{}, false
}

func (e *FieldExtractor) matchWeekday(text string, _ bool) (fieldValue, bool) {
	if day, ok := e.locale.LookupWeekday(text); ok {
		return fieldValue{weekday: day}, true
	}
	return fieldValue{}, false
}
