package timetable

import (
	"fmt"
	"strings"
	"time"
)

// Rect represents a bounding box in normalized image coordinates.
// All values are in [0,1] with the origin at the bottom-left corner,
// so larger Y values are closer to the top of the page.
type Rect struct {
	MinX float64 `json:"minX"` // Left
	MinY float64 `json:"minY"` // Bottom
	MaxX float64 `json:"maxX"` // Right
	MaxY float64 `json:"maxY"` // Top
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.MinY + r.MaxY) / 2
}

// Fragment is a single piece of recognized text with its bounding box.
// Fragments are comparable; two fragments are the same fragment when both
// their text and their box match.
type Fragment struct {
	Text string `json:"text"`
	Box  Rect   `json:"box"`
}

// Row represents a visual line of fragments sharing an approximate vertical
// center, ordered left to right.
type Row struct {
	Index     int
	Fragments []Fragment
	CenterY   float64 // Center of the fragment that opened the row
}

// Text returns the row's fragments joined with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " ")
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Weekday is a day-of-week code in 1..7 with Sunday=1, Monday=2, ...,
// Saturday=7. The zero value means no weekday is known.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Valid reports whether w is one of the seven weekday codes.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// TimeWeekday converts the code to the standard library representation.
func (w Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(w - 1)
}

// WeekdayFromTime converts a standard library weekday to a weekday code.
func WeekdayFromTime(d time.Weekday) Weekday {
	return Weekday(d) + 1
}

// String returns the English name of the weekday, or "" when unset.
func (w Weekday) String() string {
	if !w.Valid() {
		return ""
	}
	return w.TimeWeekday().String()
}

// Subgroup is an optional split of a class into group one or two.
type Subgroup int

const (
	SubgroupUnspecified Subgroup = iota
	SubgroupOne
	SubgroupTwo
)

// String returns "1", "2" or "" when unspecified.
func (s Subgroup) String() string {
	switch s {
	case SubgroupOne:
		return "1"
	case SubgroupTwo:
		return "2"
	default:
		return ""
	}
}

// WeekParity distinguishes classes held only in odd or even weeks.
type WeekParity int

const (
	ParityUnspecified WeekParity = iota
	ParityOdd
	ParityEven
)

// String returns "odd", "even" or "" when unspecified.
func (p WeekParity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return ""
	}
}

// Anchor is a time range detected inside a fragment. Anchors drive item
// construction: every emitted item originates from exactly one anchor.
type Anchor struct {
	Row         int
	X           float64 // Left edge of the source fragment
	Start       TimeOfDay
	End         TimeOfDay
	WeekdayHint Weekday // Set only by weekday-coupled matches
	Fragment    Fragment

	// Trailing holds text following a generic time range inside the
	// source fragment, e.g. "Algebra" in "9:00-10:30 Algebra".
	Trailing string
}

// ScheduleItem is a single reconstructed class in a weekly schedule.
type ScheduleItem struct {
	Title      string     `json:"title"`
	Teacher    string     `json:"teacher,omitempty"`
	Room       string     `json:"room,omitempty"`
	Start      TimeOfDay  `json:"start"`
	End        TimeOfDay  `json:"end"`
	Weekday    Weekday    `json:"weekday,omitempty"`
	Subgroup   Subgroup   `json:"subgroup,omitempty"`
	WeekParity WeekParity `json:"weekParity,omitempty"`
}

// String renders the item on a single line.
func (s ScheduleItem) String() string {
	var b strings.Builder
	if s.Weekday.Valid() {
		b.WriteString(s.Weekday.String()[:3])
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%s-%s %s", s.Start, s.End, s.Title)
	if s.Teacher != "" {
		fmt.Fprintf(&b, " (%s)", s.Teacher)
	}
	if s.Room != "" {
		fmt.Fprintf(&b, " [%s]", s.Room)
	}
	if s.Subgroup != SubgroupUnspecified {
		fmt.Fprintf(&b, " subgroup %s", s.Subgroup)
	}
	if s.WeekParity != ParityUnspecified {
		fmt.Fprintf(&b, " %s weeks", s.WeekParity)
	}
	return b.String()
}
