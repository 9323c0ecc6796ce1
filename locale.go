package timetable

import (
	_ "embed"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed locale.yaml
var defaultLocaleYAML []byte

// WeekdayName maps a dictionary word to its weekday code.
type WeekdayName struct {
	Name string  `yaml:"name"`
	Day  Weekday `yaml:"day"`
}

// Locale holds the keyword dictionaries used by the field classifiers.
// A Locale is read-only once constructed; use Merge to derive extended
// dictionaries instead of modifying a shared value.
type Locale struct {
	PlaceholderTitle string        `yaml:"placeholder_title"`
	Weekdays         []WeekdayName `yaml:"weekdays"`
	AnchorWeekdays   []WeekdayName `yaml:"anchor_weekdays"`
	RangeConnectors  []string      `yaml:"range_connectors"`
	RoomKeywords     []string      `yaml:"room_keywords"`
	SubgroupKeywords []string      `yaml:"subgroup_keywords"`
	AcademicTitles   []string      `yaml:"academic_titles"`
	OddWeek          []string      `yaml:"odd_week"`
	EvenWeek         []string      `yaml:"even_week"`
	MetaKeywords     []string      `yaml:"meta_keywords"`
}

var (
	defaultLocaleOnce sync.Once
	defaultLocale     *Locale
)

// DefaultLocale returns the built-in Russian/English/German dictionaries.
// The returned value is shared and must not be modified.
func DefaultLocale() *Locale {
	defaultLocaleOnce.Do(func() {
		loc, err := parseLocale(defaultLocaleYAML)
		if err != nil {
			panic(errors.Wrap(err, "embedded locale is invalid"))
		}
		defaultLocale = loc
	})
	return defaultLocale
}

// LoadLocale reads a locale definition in YAML form.
func LoadLocale(r io.Reader) (*Locale, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read locale")
	}
	return parseLocale(data)
}

// LoadLocaleFile reads a locale definition from a YAML file.
func LoadLocaleFile(path string) (*Locale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open locale file")
	}
	defer f.Close()

	return LoadLocale(f)
}

func parseLocale(data []byte) (*Locale, error) {
	var loc Locale
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return nil, errors.Wrap(err, "failed to parse locale YAML")
	}
	if err := loc.validate(); err != nil {
		return nil, err
	}
	loc.lowercase()
	return &loc, nil
}

func (l *Locale) validate() error {
	for _, w := range append(append([]WeekdayName{}, l.Weekdays...), l.AnchorWeekdays...) {
		if strings.TrimSpace(w.Name) == "" {
			return errors.New("locale contains an empty weekday name")
		}
		if !w.Day.Valid() {
			return errors.Errorf("weekday %q has invalid day code %d", w.Name, w.Day)
		}
	}
	return nil
}

// lowercase folds every dictionary word so lookups only need to lowercase
// the input text.
func (l *Locale) lowercase() {
	for i := range l.Weekdays {
		l.Weekdays[i].Name = strings.ToLower(strings.TrimSpace(l.Weekdays[i].Name))
	}
	for i := range l.AnchorWeekdays {
		l.AnchorWeekdays[i].Name = strings.ToLower(strings.TrimSpace(l.AnchorWeekdays[i].Name))
	}
	for _, list := range [][]string{
		l.RangeConnectors, l.RoomKeywords, l.SubgroupKeywords,
		l.AcademicTitles, l.OddWeek, l.EvenWeek, l.MetaKeywords,
	} {
		for i := range list {
			list[i] = strings.ToLower(strings.TrimSpace(list[i]))
		}
	}
}

// Merge returns a new Locale containing the entries of l followed by the
// entries of other. Earlier entries keep their priority. The placeholder
// title of other wins when set.
func (l *Locale) Merge(other *Locale) *Locale {
	merged := &Locale{
		PlaceholderTitle: l.PlaceholderTitle,
		Weekdays:         concat(l.Weekdays, other.Weekdays),
		AnchorWeekdays:   concat(l.AnchorWeekdays, other.AnchorWeekdays),
		RangeConnectors:  concat(l.RangeConnectors, other.RangeConnectors),
		RoomKeywords:     concat(l.RoomKeywords, other.RoomKeywords),
		SubgroupKeywords: concat(l.SubgroupKeywords, other.SubgroupKeywords),
		AcademicTitles:   concat(l.AcademicTitles, other.AcademicTitles),
		OddWeek:          concat(l.OddWeek, other.OddWeek),
		EvenWeek:         concat(l.EvenWeek, other.EvenWeek),
		MetaKeywords:     concat(l.MetaKeywords, other.MetaKeywords),
	}
	if other.PlaceholderTitle != "" {
		merged.PlaceholderTitle = other.PlaceholderTitle
	}
	return merged
}

func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// LookupWeekday returns the first dictionary weekday found in text.
// Full names match anywhere in the text; short abbreviations (three runes
// or fewer) only match as whole words so "mo" does not fire inside "Modul".
func (l *Locale) LookupWeekday(text string) (Weekday, bool) {
	lower := strings.ToLower(text)
	for _, w := range l.Weekdays {
		if containsDictionaryWord(lower, w.Name) {
			return w.Day, true
		}
	}
	return 0, false
}

// stripWeekdays removes every full weekday name from lowercased text.
func (l *Locale) stripWeekdays(lower string) string {
	for _, w := range l.Weekdays {
		if isShortWord(w.Name) {
			continue
		}
		lower = strings.ReplaceAll(lower, w.Name, " ")
	}
	return lower
}

func isShortWord(word string) bool {
	return utf8.RuneCountInString(word) <= 3
}

// containsDictionaryWord reports whether word occurs in lower, requiring
// word boundaries for short words.
func containsDictionaryWord(lower, word string) bool {
	if !isShortWord(word) {
		return strings.Contains(lower, word)
	}
	offset := 0
	for {
		idx := strings.Index(lower[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if !letterBefore(lower, start) && !letterAfter(lower, end) {
			return true
		}
		offset = start + 1
	}
}
