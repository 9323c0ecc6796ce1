package timetable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekday(t *testing.T) {
	assert.Equal(t, time.Monday, Monday.TimeWeekday())
	assert.Equal(t, time.Sunday, Sunday.TimeWeekday())
	assert.Equal(t, Saturday, WeekdayFromTime(time.Saturday))
	assert.Equal(t, "Wednesday", Wednesday.String())
	assert.Equal(t, "", Weekday(0).String())
	assert.False(t, Weekday(8).Valid())
	assert.Equal(t, 2, int(Monday), "Monday has code 2")
}

func TestScheduleItem_String(t *testing.T) {
	item := ScheduleItem{
		Title:      "Algebra",
		Teacher:    "Иванов И.И.",
		Room:       "301",
		Start:      TimeOfDay{Hour: 9},
		End:        TimeOfDay{Hour: 10, Minute: 30},
		Weekday:    Monday,
		Subgroup:   SubgroupTwo,
		WeekParity: ParityEven,
	}
	assert.Equal(t, "Mon 09:00-10:30 Algebra (Иванов И.И.) [301] subgroup 2 even weeks", item.String())

	bare := ScheduleItem{Title: "X", Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 9}}
	assert.Equal(t, "08:00-09:00 X", bare.String())
}

func TestFragment_JSON(t *testing.T) {
	var fragments []Fragment
	err := json.Unmarshal([]byte(`[{"text":"9:00-10:30","box":{"minX":0.1,"minY":0.4,"maxX":0.3,"maxY":0.45}}]`), &fragments)
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	assert.Equal(t, "9:00-10:30", fragments[0].Text)
	assert.InDelta(t, 0.425, fragments[0].Box.CenterY(), 1e-9)
	assert.InDelta(t, 0.2, fragments[0].Box.Width(), 1e-9)
}

func TestScheduleItem_JSONOmitsUnset(t *testing.T) {
	data, err := json.Marshal(ScheduleItem{Title: "X", Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 9}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"X","start":{"hour":8,"minute":0},"end":{"hour":9,"minute":0}}`, string(data))
}
