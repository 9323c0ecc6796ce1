package timetable

import (
	"math"
	"sort"
)

// calculateMedian calculates the median value of a float64 slice
func calculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mergeRects merges two rectangles into their bounding box
func mergeRects(r1, r2 Rect) Rect {
	return Rect{
		MinX: math.Min(r1.MinX, r2.MinX),
		MinY: math.Min(r1.MinY, r2.MinY),
		MaxX: math.Max(r1.MaxX, r2.MaxX),
		MaxY: math.Max(r1.MaxY, r2.MaxY),
	}
}

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// normalizeRect converts a box given in page units with a bottom-left
// origin into the unit square, clamping values that spill past the page.
func normalizeRect(left, bottom, right, top, width, height float64) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	return Rect{
		MinX: clamp(math.Min(left, right)/width, 0, 1),
		MinY: clamp(math.Min(bottom, top)/height, 0, 1),
		MaxX: clamp(math.Max(left, right)/width, 0, 1),
		MaxY: clamp(math.Max(bottom, top)/height, 0, 1),
	}
}
