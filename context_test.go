package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = contextWindow{sameRowEpsilon: 0.002, maxLookback: 2, maxLookahead: 6}

func contextTexts(fragments []Fragment) []string {
	return fragmentTexts(fragments)
}

func detectRows(t *testing.T, fragments []Fragment) ([]Row, []Anchor, map[int]bool) {
	t.Helper()

	rows := ClusterRows(fragments, 0.02)
	anchors := NewAnchorDetector(DefaultLocale()).Detect(rows)
	anchorRows := make(map[int]bool, len(anchors))
	for _, a := range anchors {
		anchorRows[a.Row] = true
	}
	return rows, anchors, anchorRows
}

func TestCollectContext(t *testing.T) {
	rows, anchors, anchorRows := detectRows(t, []Fragment{
		frag("Header text", 0.1, 0.9, 0.4),
		frag("Algebra", 0.1, 0.8, 0.4),
		frag("Note", 0.0, 0.7, 0.05),
		frag("8:00-9:30", 0.1, 0.7, 0.2),
		frag("Physik", 0.3, 0.7, 0.5),
		frag("Иванов И.И.", 0.1, 0.6, 0.4),
		frag("10:00-11:30", 0.1, 0.5, 0.2),
		frag("Петров П.П.", 0.1, 0.4, 0.4),
	})
	require.Len(t, anchors, 2)

	first := collectContext(rows, anchors, 0, anchorRows, testWindow)
	assert.Equal(t, []string{"Algebra", "Header text"}, contextTexts(first.Above), "above walks upwards")
	assert.Equal(t, []string{"Physik"}, contextTexts(first.SameRowRight), "fragments left of the anchor are ignored")
	assert.Equal(t, []string{"Иванов И.И."}, contextTexts(first.Below), "below stops at the next anchor row")

	second := collectContext(rows, anchors, 1, anchorRows, testWindow)
	assert.Equal(t, []string{"Иванов И.И."}, contextTexts(second.Above), "above stops at an anchor row")
	assert.Empty(t, second.SameRowRight)
	assert.Equal(t, []string{"Петров П.П."}, contextTexts(second.Below))

	assert.Equal(t, []string{"Algebra", "Header text", "Physik", "Иванов И.И."}, contextTexts(first.All()))
}

func TestCollectContext_WindowLimits(t *testing.T) {
	fragments := []Fragment{
		frag("above 3", 0.1, 0.95, 0.4),
		frag("above 2", 0.1, 0.90, 0.4),
		frag("above 1", 0.1, 0.85, 0.4),
		frag("9:00-10:00", 0.1, 0.80, 0.2),
	}
	for i, text := range []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7"} {
		fragments = append(fragments, frag(text, 0.1, 0.70-float64(i)*0.05, 0.4))
	}

	rows, anchors, anchorRows := detectRows(t, fragments)
	require.Len(t, anchors, 1)

	ctx := collectContext(rows, anchors, 0, anchorRows, testWindow)
	assert.Equal(t, []string{"above 1", "above 2"}, contextTexts(ctx.Above))
	assert.Equal(t, []string{"b1", "b2", "b3", "b4", "b5", "b6"}, contextTexts(ctx.Below))
}

func TestCollectContext_SameRowNextAnchor(t *testing.T) {
	rows, anchors, anchorRows := detectRows(t, []Fragment{
		frag("8:00-9:30", 0.1, 0.7, 0.2),
		frag("10:00-11:30", 0.5, 0.7, 0.6),
		frag("Below", 0.1, 0.6, 0.4),
	})
	require.Len(t, anchors, 2)

	first := collectContext(rows, anchors, 0, anchorRows, testWindow)
	assert.Equal(t, []string{"10:00-11:30"}, contextTexts(first.SameRowRight))
	assert.Empty(t, first.Below, "next anchor on the same row closes the window")

	second := collectContext(rows, anchors, 1, anchorRows, testWindow)
	assert.Equal(t, []string{"Below"}, contextTexts(second.Below))
}

func TestUniqueFragments(t *testing.T) {
	a := frag("a", 0.1, 0.5, 0.2)
	b := frag("b", 0.3, 0.5, 0.4)
	sameTextOtherBox := frag("a", 0.5, 0.5, 0.6)

	unique := uniqueFragments([]Fragment{a, b, a, sameTextOtherBox, b})
	assert.Equal(t, []Fragment{a, b, sameTextOtherBox}, unique)
	assert.Empty(t, uniqueFragments(nil))
}
