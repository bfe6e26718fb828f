package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"velamar/internal/models"
)

func bookingAt(start, end string) models.Booking {
	s, _ := time.Parse(time.RFC3339, start)
	e, _ := time.Parse(time.RFC3339, end)
	return models.Booking{Kind: models.KindStandard, Status: models.StatusStandby, Start: s, End: e}
}

func TestComputeBufferedInterval(t *testing.T) {
	equipment := []models.Equipment{
		{ID: "eq1", Name: "Boat A", PreparationTime: 30, CleanupTime: 15, Active: true},
		{ID: "eq2", Name: "Compressor", PreparationTime: 10, CleanupTime: 40, Active: true},
	}
	docks := []models.Dock{
		{ID: "d1", Name: "Pier 1", TravelTime: 20},
		{ID: "d2", Name: "Pier 2", TravelTime: 5},
	}

	t.Run("equipment overhead is max, dock travel is added", func(t *testing.T) {
		b := bookingAt("2026-06-01T10:00:00Z", "2026-06-01T12:00:00Z")
		b.Equipment = []models.ResourceAssignment{{Name: "Boat A"}, {Name: "Compressor"}}
		b.BoardingDockID = "d1"
		b.DisembarkDockID = "d2"

		bi := ComputeBufferedInterval(b, equipment, docks)
		// prep: max(30, 10) + 20; cleanup: max(15, 40) + 5
		assert.Equal(t, 50, bi.PrepMinutes)
		assert.Equal(t, 45, bi.CleanupMinutes)
		assert.Equal(t, "09:10", bi.PaddedStart.Format("15:04"))
		assert.Equal(t, "12:45", bi.PaddedEnd.Format("15:04"))
	})

	t.Run("boat A at pier 1 pads 10:00-12:00 to 09:10-12:35", func(t *testing.T) {
		b := bookingAt("2026-06-01T10:00:00Z", "2026-06-01T12:00:00Z")
		b.Equipment = []models.ResourceAssignment{{Name: "Boat A"}}
		b.BoardingDockID = "d1"
		b.DisembarkDockID = "d1"

		bi := ComputeBufferedInterval(b, equipment, docks)
		assert.Equal(t, "09:10", bi.PaddedStart.Format("15:04"))
		assert.Equal(t, "12:35", bi.PaddedEnd.Format("15:04"))
	})

	t.Run("no equipment or docks means no padding", func(t *testing.T) {
		b := bookingAt("2026-06-01T10:00:00Z", "2026-06-01T12:00:00Z")
		bi := ComputeBufferedInterval(b, equipment, docks)
		assert.True(t, bi.PaddedStart.Equal(b.Start))
		assert.True(t, bi.PaddedEnd.Equal(b.End))
		assert.Zero(t, bi.PrepMinutes)
		assert.Zero(t, bi.CleanupMinutes)
	})

	t.Run("unknown equipment names are skipped", func(t *testing.T) {
		b := bookingAt("2026-06-01T10:00:00Z", "2026-06-01T12:00:00Z")
		b.Equipment = []models.ResourceAssignment{{Name: "Ghost Boat"}}
		bi := ComputeBufferedInterval(b, equipment, docks)
		assert.Zero(t, bi.PrepMinutes)
	})
}
