package timetable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	items := []ScheduleItem{
		{Title: "Late", Start: TimeOfDay{Hour: 14}, End: TimeOfDay{Hour: 15}, Weekday: Monday},
		{Title: "Sunday Seminar", Start: TimeOfDay{Hour: 10}, End: TimeOfDay{Hour: 11}, Weekday: Sunday},
		{Title: "Early", Teacher: "Dr. Weber", Room: "101", Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 9, Minute: 30}, Weekday: Monday, WeekParity: ParityOdd},
		{Title: "Floating", Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 10}},
	}

	output := RenderMarkdown(items)
	require.NotEmpty(t, output)

	monday := strings.Index(output, "## Monday")
	sunday := strings.Index(output, "## Sunday")
	unscheduled := strings.Index(output, "## Unscheduled")
	require.NotEqual(t, -1, monday)
	require.NotEqual(t, -1, sunday)
	require.NotEqual(t, -1, unscheduled)
	assert.Less(t, monday, sunday, "Monday comes before Sunday")
	assert.Less(t, sunday, unscheduled, "unscheduled items come last")

	assert.NotContains(t, output, "## Tuesday", "days without items are omitted")

	early := strings.Index(output, "Early")
	late := strings.Index(output, "Late")
	assert.Less(t, early, late, "items are ordered by start time")

	assert.Contains(t, output, "08:00-09:30")
	assert.Contains(t, output, "Dr. Weber")
	assert.Contains(t, output, "odd")
	assert.Contains(t, output, "Subgroup")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Empty(t, RenderMarkdown(nil))
}
