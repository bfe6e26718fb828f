package schedule

import (
	"sort"
	"time"
)

// LayoutEntry is a booking expressed as its padded interval, ready for
// day-column placement.
type LayoutEntry struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Rect is a normalized rectangle for absolute positioning, all values
// in percent of the visible day window.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
}

// PlacedEntry is a layout entry with its computed geometry.
type PlacedEntry struct {
	LayoutEntry
	Rect Rect `json:"rect"`
}

const (
	columnMarginPct = 1 // gap between parallel columns
	minHeightPct    = 3 // floor keeps very short bookings visible
)

// ComputeDayLayout places one day's bookings into non-overlapping
// display columns. Overlapping entries are gathered into collision
// groups, each group is packed greedily into columns (first column
// whose last entry ends by this entry's start), and each column of a
// k-column group gets width 100/k. Entries entirely below the visible
// window are dropped. The algorithm is deterministic: same input, same
// geometry.
func ComputeDayLayout(entries []LayoutEntry, startHour, visibleHours int) []PlacedEntry {
	if len(entries) == 0 || visibleHours <= 0 {
		return nil
	}

	sorted := make([]LayoutEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	totalMinutes := float64(visibleHours * 60)
	windowStart := startHour * 60

	var placed []PlacedEntry
	for _, group := range collisionGroups(sorted) {
		cols := assignColumns(group)
		groupWidth := 100.0 / float64(len(cols))

		for colIdx, col := range cols {
			for _, idx := range col {
				e := group[idx]
				startMin := float64(minuteOfDay(e.Start) - windowStart)
				endMin := float64(minuteOfDay(e.End) - windowStart)

				top := startMin / totalMinutes * 100
				if top < 0 {
					top = 0
				}
				if top >= 100 {
					continue
				}
				height := (endMin - startMin) / totalMinutes * 100
				if height < minHeightPct {
					height = minHeightPct
				}

				placed = append(placed, PlacedEntry{
					LayoutEntry: e,
					Rect: Rect{
						Top:    top,
						Height: height,
						Left:   float64(colIdx) * groupWidth,
						Width:  groupWidth - columnMarginPct,
					},
				})
			}
		}
	}
	return placed
}

// collisionGroups partitions start-sorted entries into maximal runs of
// time-overlapping entries. A new group opens only when an entry
// starts at or after the running maximum end of the current group.
func collisionGroups(sorted []LayoutEntry) [][]LayoutEntry {
	var groups [][]LayoutEntry
	current := []LayoutEntry{sorted[0]}
	maxEnd := sorted[0].End

	for _, e := range sorted[1:] {
		if e.Start.Before(maxEnd) {
			current = append(current, e)
			if e.End.After(maxEnd) {
				maxEnd = e.End
			}
		} else {
			groups = append(groups, current)
			current = []LayoutEntry{e}
			maxEnd = e.End
		}
	}
	return append(groups, current)
}

// assignColumns packs a collision group into columns greedily,
// tracking only the last end time per column. Returns entry indices
// per column.
func assignColumns(group []LayoutEntry) [][]int {
	var cols [][]int
	var colEnds []time.Time

	for i, e := range group {
		placed := false
		for c := range cols {
			if !e.Start.Before(colEnds[c]) {
				cols[c] = append(cols[c], i)
				colEnds[c] = e.End
				placed = true
				break
			}
		}
		if !placed {
			cols = append(cols, []int{i})
			colEnds = append(colEnds, e.End)
		}
	}
	return cols
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
