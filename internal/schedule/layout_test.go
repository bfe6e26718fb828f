package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, start, end string) LayoutEntry {
	day := "2026-06-01T"
	s, _ := time.Parse(time.RFC3339, day+start+":00Z")
	e, _ := time.Parse(time.RFC3339, day+end+":00Z")
	return LayoutEntry{ID: id, Start: s, End: e}
}

func findPlaced(t *testing.T, placed []PlacedEntry, id string) PlacedEntry {
	t.Helper()
	for _, p := range placed {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("entry %s not in layout", id)
	return PlacedEntry{}
}

func TestComputeDayLayout(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, ComputeDayLayout(nil, 8, 12))
	})

	t.Run("single entry spans full width", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{entry("a", "10:00", "12:00")}, 8, 12)
		require.Len(t, placed, 1)
		r := placed[0].Rect
		assert.InDelta(t, 100.0/720*120, r.Top, 0.001)    // 2h into a 12h window
		assert.InDelta(t, 100.0/720*120, r.Height, 0.001) // 2h duration
		assert.Equal(t, 0.0, r.Left)
		assert.Equal(t, 99.0, r.Width)
	})

	t.Run("overlapping entries split into columns", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{
			entry("a", "10:00", "12:00"),
			entry("b", "11:00", "13:00"),
		}, 8, 12)
		require.Len(t, placed, 2)
		a, b := findPlaced(t, placed, "a"), findPlaced(t, placed, "b")
		assert.Equal(t, 49.0, a.Rect.Width)
		assert.Equal(t, 49.0, b.Rect.Width)
		// No horizontal overlap between the two rectangles.
		assert.True(t, a.Rect.Left+a.Rect.Width <= b.Rect.Left || b.Rect.Left+b.Rect.Width <= a.Rect.Left)
	})

	t.Run("disjoint entries form separate full width groups", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{
			entry("a", "09:00", "10:00"),
			entry("b", "10:00", "11:00"), // touching, no collision
		}, 8, 12)
		require.Len(t, placed, 2)
		assert.Equal(t, 99.0, findPlaced(t, placed, "a").Rect.Width)
		assert.Equal(t, 99.0, findPlaced(t, placed, "b").Rect.Width)
	})

	t.Run("entry chain reuses freed columns", func(t *testing.T) {
		// a overlaps b; c starts after a ends, so c fits in a's column.
		placed := ComputeDayLayout([]LayoutEntry{
			entry("a", "09:00", "10:00"),
			entry("b", "09:30", "11:00"),
			entry("c", "10:00", "10:30"),
		}, 8, 12)
		require.Len(t, placed, 3)
		a, c := findPlaced(t, placed, "a"), findPlaced(t, placed, "c")
		assert.Equal(t, a.Rect.Left, c.Rect.Left)
	})

	t.Run("very short entry gets floor height", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{entry("a", "10:00", "10:05")}, 8, 12)
		require.Len(t, placed, 1)
		assert.Equal(t, 3.0, placed[0].Rect.Height)
	})

	t.Run("entry before window clamps to top", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{entry("a", "06:00", "09:00")}, 8, 12)
		require.Len(t, placed, 1)
		assert.Equal(t, 0.0, placed[0].Rect.Top)
	})

	t.Run("entry after window is dropped", func(t *testing.T) {
		placed := ComputeDayLayout([]LayoutEntry{entry("a", "21:00", "22:00")}, 8, 12)
		assert.Empty(t, placed)
	})
}

// Same input must yield identical geometry on every run.
func TestComputeDayLayout_Deterministic(t *testing.T) {
	entries := []LayoutEntry{
		entry("a", "09:00", "11:00"),
		entry("b", "09:00", "10:00"),
		entry("c", "10:30", "12:00"),
		entry("d", "11:30", "13:00"),
		entry("e", "13:30", "14:00"),
	}
	first := ComputeDayLayout(entries, 8, 12)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeDayLayout(entries, 8, 12))
	}
}

// For every pair of time-overlapping entries the rectangles must not
// overlap horizontally.
func TestComputeDayLayout_NoHorizontalOverlap(t *testing.T) {
	entries := []LayoutEntry{
		entry("a", "09:00", "12:00"),
		entry("b", "09:30", "10:30"),
		entry("c", "10:00", "11:00"),
		entry("d", "10:15", "11:45"),
		entry("e", "11:00", "13:00"),
	}
	placed := ComputeDayLayout(entries, 8, 12)
	require.Len(t, placed, len(entries))

	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]
			timeOverlap := a.Start.Before(b.End) && b.Start.Before(a.End)
			if !timeOverlap {
				continue
			}
			horizontalOverlap := a.Rect.Left < b.Rect.Left+b.Rect.Width && b.Rect.Left < a.Rect.Left+a.Rect.Width
			assert.False(t, horizontalOverlap, "%s and %s overlap horizontally", a.ID, b.ID)
		}
	}
}
