package timetable

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImportMode selects how schedule items become calendar events.
type ImportMode int

const (
	// ImportWeekly creates one recurring event per item, starting in the
	// anchor week.
	ImportWeekly ImportMode = iota
	// ImportSingleDay creates one-off events for the anchor date only.
	ImportSingleDay
)

// ImportOptions configures calendar export.
type ImportOptions struct {
	Mode       ImportMode
	AnchorDate time.Time

	// AnchorWeekParity is the parity of the week containing AnchorDate.
	// When unspecified the anchor week counts as odd.
	AnchorWeekParity WeekParity

	// SubgroupFilter keeps only items for this subgroup plus items
	// without one. SubgroupUnspecified keeps everything.
	SubgroupFilter Subgroup

	// Until bounds recurring events. Zero means no end.
	Until time.Time

	// Location is the timezone for wall-clock times. Defaults to time.Local.
	Location *time.Location

	// Address is appended to the event location when set.
	Address string
}

// ImportResult reports how many items became events.
type ImportResult struct {
	Added   int
	Skipped int
}

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("timetable"))

// ExportICS writes items as an iCalendar document to w.
func ExportICS(items []ScheduleItem, opts ImportOptions, w io.Writer) (ImportResult, error) {
	var result ImportResult

	if opts.AnchorDate.IsZero() {
		return result, errors.New("anchor date is required")
	}
	if opts.Mode != ImportWeekly && opts.Mode != ImportSingleDay {
		return result, errors.Errorf("unknown import mode %d", opts.Mode)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	anchorParity := opts.AnchorWeekParity
	if anchorParity == ParityUnspecified {
		anchorParity = ParityOdd
	}

	anchor := opts.AnchorDate.In(loc)
	anchorDay := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	now := time.Now()

	for _, item := range items {
		if opts.SubgroupFilter != SubgroupUnspecified &&
			item.Subgroup != SubgroupUnspecified &&
			item.Subgroup != opts.SubgroupFilter {
			result.Skipped++
			continue
		}

		day, ok := eventDay(item, opts.Mode, anchorDay, anchorParity)
		if !ok {
			result.Skipped++
			continue
		}

		start := atTime(day, item.Start)
		end := atTime(day, item.End)

		event := cal.AddEvent(eventUID(item, day))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(item.Title)
		if location := eventLocation(item.Room, opts.Address); location != "" {
			event.SetLocation(location)
		}
		if description := eventDescription(item); description != "" {
			event.SetDescription(description)
		}
		if opts.Mode == ImportWeekly {
			event.AddRrule(recurrenceRule(item, opts.Until))
		}

		result.Added++
	}

	if err := cal.SerializeTo(w); err != nil {
		return result, errors.Wrap(err, "failed to write calendar")
	}
	return result, nil
}

// eventDay returns the date of the first occurrence of item, or false
// when the item does not belong in the export.
func eventDay(item ScheduleItem, mode ImportMode, anchorDay time.Time, anchorParity WeekParity) (time.Time, bool) {
	if mode == ImportSingleDay {
		if item.Weekday.Valid() && item.Weekday != WeekdayFromTime(anchorDay.Weekday()) {
			return time.Time{}, false
		}
		if item.WeekParity != ParityUnspecified && item.WeekParity != anchorParity {
			return time.Time{}, false
		}
		return anchorDay, true
	}

	if !item.Weekday.Valid() {
		return time.Time{}, false
	}

	monday := anchorDay.AddDate(0, 0, -mondayOffset(anchorDay.Weekday()))
	day := monday.AddDate(0, 0, mondayOffset(item.Weekday.TimeWeekday()))
	if item.WeekParity != ParityUnspecified && item.WeekParity != anchorParity {
		day = day.AddDate(0, 0, 7)
	}
	return day, true
}

// mondayOffset counts days since Monday.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func atTime(day time.Time, t TimeOfDay) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func recurrenceRule(item ScheduleItem, until time.Time) string {
	interval := 1
	if item.WeekParity != ParityUnspecified {
		interval = 2
	}
	rule := fmt.Sprintf("FREQ=WEEKLY;INTERVAL=%d", interval)
	if !until.IsZero() {
		rule += ";UNTIL=" + until.UTC().Format("20060102T150405Z")
	}
	return rule
}

func eventUID(item ScheduleItem, day time.Time) string {
	key := item.String() + "|" + day.Format("2006-01-02")
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}

func eventLocation(room, address string) string {
	switch {
	case room != "" && address != "":
		return room + ", " + address
	case room != "":
		return room
	default:
		return address
	}
}

func eventDescription(item ScheduleItem) string {
	var lines []string
	if item.Teacher != "" {
		lines = append(lines, "Teacher: "+item.Teacher)
	}
	if item.Subgroup != SubgroupUnspecified {
		lines = append(lines, "Subgroup: "+item.Subgroup.String())
	}
	if item.WeekParity != ParityUnspecified {
		lines = append(lines, "Week: "+item.WeekParity.String())
	}
	return strings.Join(lines, "\n")
}
