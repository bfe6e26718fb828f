// Package schedule implements the resource-scheduling engine: buffered
// interval computation, availability checking, the booking status
// machine, calendar collision layout, recurrence expansion and staff
// ranking. All functions are pure over the snapshots they are given.
package schedule

import (
	"time"

	"velamar/internal/models"
)

// Catalogs bundles the read-only catalogs the engine consults.
type Catalogs struct {
	Equipment     []models.Equipment
	Docks         []models.Dock
	Professionals []models.Professional
	Skills        []models.Skill
}

// BufferedInterval is a booking's time window extended by preparation,
// cleanup and dock travel overhead.
type BufferedInterval struct {
	PaddedStart    time.Time
	PaddedEnd      time.Time
	PrepMinutes    int
	CleanupMinutes int
}

// Interval returns the padded window as an Interval.
func (bi BufferedInterval) Interval() Interval {
	return Interval{Start: bi.PaddedStart, End: bi.PaddedEnd}
}

// ComputeBufferedInterval pads a booking's window with resource
// overhead. Equipment setup runs in parallel, so preparation and
// cleanup take the maximum over the assigned items; dock travel cannot
// overlap with setup and is added on top.
func ComputeBufferedInterval(b models.Booking, equipment []models.Equipment, docks []models.Dock) BufferedInterval {
	byName := make(map[string]models.Equipment, len(equipment))
	for _, eq := range equipment {
		byName[eq.Name] = eq
	}
	byID := make(map[string]models.Dock, len(docks))
	for _, d := range docks {
		byID[d.ID] = d
	}

	var prep, cleanup int
	for _, assigned := range b.Equipment {
		eq, ok := byName[assigned.Name]
		if !ok {
			continue
		}
		if eq.PreparationTime > prep {
			prep = eq.PreparationTime
		}
		if eq.CleanupTime > cleanup {
			cleanup = eq.CleanupTime
		}
	}

	if dock, ok := byID[b.BoardingDockID]; ok {
		prep += dock.TravelTime
	}
	if dock, ok := byID[b.DisembarkDockID]; ok {
		cleanup += dock.TravelTime
	}

	return BufferedInterval{
		PaddedStart:    b.Start.Add(-time.Duration(prep) * time.Minute),
		PaddedEnd:      b.End.Add(time.Duration(cleanup) * time.Minute),
		PrepMinutes:    prep,
		CleanupMinutes: cleanup,
	}
}
