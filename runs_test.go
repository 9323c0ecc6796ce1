package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(text string, minX, maxX, minY float64) Fragment {
	return Fragment{Text: text, Box: Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: minY + 0.02}}
}

func TestMergeRuns_JoinsSplitTimeRange(t *testing.T) {
	words := []Fragment{
		word("Algebra", 0.5, 0.6, 0.5),
		word("9:00", 0.10, 0.14, 0.5),
		word("-", 0.145, 0.15, 0.5),
		word("10:30", 0.155, 0.205, 0.5),
	}

	runs := MergeRuns(words, DefaultRunGapFactor)
	require.Len(t, runs, 2)

	assert.Equal(t, "9:00 - 10:30", runs[0].Text)
	assert.InDelta(t, 0.10, runs[0].Box.MinX, 1e-9)
	assert.InDelta(t, 0.205, runs[0].Box.MaxX, 1e-9)
	assert.Equal(t, "Algebra", runs[1].Text, "column gap keeps cells apart")

	_, ok := genericRange(runs[0].Text)
	assert.True(t, ok)
}

func TestMergeRuns_SeparateLines(t *testing.T) {
	words := []Fragment{
		word("Иванов", 0.10, 0.16, 0.50),
		word("И.И.", 0.165, 0.205, 0.50),
		word("ауд.", 0.10, 0.14, 0.40),
		word("301", 0.145, 0.175, 0.40),
	}

	runs := MergeRuns(words, DefaultRunGapFactor)
	require.Len(t, runs, 2)
	assert.Equal(t, "Иванов И.И.", runs[0].Text)
	assert.Equal(t, "ауд. 301", runs[1].Text)
}

func TestMergeRuns_Trivial(t *testing.T) {
	assert.Empty(t, MergeRuns(nil, DefaultRunGapFactor))

	single := []Fragment{word("solo", 0.1, 0.2, 0.5)}
	assert.Equal(t, single, MergeRuns(single, DefaultRunGapFactor))
}
