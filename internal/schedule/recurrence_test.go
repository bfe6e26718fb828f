package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velamar/internal/models"
)

var recurrenceNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func product(rule models.RecurrenceRule) models.Product {
	return models.Product{
		ID:               "p1",
		Name:             "Sunset Tour",
		Department:       "Tourism",
		DefaultEquipment: []string{"Boat A"},
		DefaultStaff:     []string{"Ana"},
		DefaultStartTime: "17:30",
		DefaultEndTime:   "19:00",
		Recurrence:       rule,
	}
}

func TestGenerateRecurrence_Daily(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqDaily,
		Interval:     2,
		EndCondition: models.EndAfterOccurrences,
		Occurrences:  4,
	})

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// First occurrence is the start date itself, then every 2 days.
	assert.Equal(t, "2026-06-01", got[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-06-03", got[1].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-06-07", got[3].Start.Format("2006-01-02"))

	first := got[0]
	assert.Equal(t, models.StatusStandby, first.Status)
	assert.Equal(t, models.KindStandard, first.Kind)
	assert.Equal(t, "17:30", first.Start.Format("15:04"))
	assert.Equal(t, "19:00", first.End.Format("15:04"))
	assert.Equal(t, "Sunset Tour", first.Title)
	require.Len(t, first.Equipment, 1)
	assert.False(t, first.Equipment[0].Confirmed)
	require.Len(t, first.Staff, 1)
}

func TestGenerateRecurrence_Weekly(t *testing.T) {
	// 2026-06-01 is a Monday.
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqWeekly,
		DaysOfWeek:   []time.Weekday{time.Wednesday, time.Saturday},
		EndCondition: models.EndAfterOccurrences,
		Occurrences:  4,
	})

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var days []string
	for _, b := range got {
		days = append(days, b.Start.Format("Mon 2006-01-02"))
	}
	assert.Equal(t, []string{
		"Wed 2026-06-03",
		"Sat 2026-06-06",
		"Wed 2026-06-10",
		"Sat 2026-06-13",
	}, days)
}

func TestGenerateRecurrence_WeeklyStartsOnListedDay(t *testing.T) {
	// Start on a Wednesday with Wednesday listed: it counts.
	start := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqWeekly,
		DaysOfWeek:   []time.Weekday{time.Wednesday},
		EndCondition: models.EndAfterOccurrences,
		Occurrences:  2,
	})

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-06-03", got[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-06-10", got[1].Start.Format("2006-01-02"))
}

func TestGenerateRecurrence_Monthly(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqMonthly,
		Interval:     1,
		EndCondition: models.EndOnDate,
		EndDate:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-01-15", got[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-02-15", got[1].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-03-15", got[2].Start.Format("2006-01-02"))
}

func TestGenerateRecurrence_MonthlyClampsMonthEnd(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqMonthly,
		Interval:     1,
		EndCondition: models.EndAfterOccurrences,
		Occurrences:  4,
	})

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "2026-01-31", got[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-02-28", got[1].Start.Format("2006-01-02"))
	// Advancing from a clamped date stays on the clamped day.
	assert.Equal(t, "2026-03-28", got[2].Start.Format("2006-01-02"))
	assert.Equal(t, "2026-04-28", got[3].Start.Format("2006-01-02"))
}

func TestGenerateRecurrence_OvernightEndRollsToNextDay(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p := product(models.RecurrenceRule{
		Frequency:    models.FreqDaily,
		Interval:     1,
		EndCondition: models.EndAfterOccurrences,
		Occurrences:  2,
	})
	p.DefaultStartTime = "22:00"
	p.DefaultEndTime = "01:00"

	got, err := GenerateRecurrence(p, start, recurrenceNow)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, b := range got {
		assert.True(t, b.End.After(b.Start))
		require.NoError(t, b.Validate())
	}
	assert.Equal(t, "2026-06-01 22:00", got[0].Start.Format("2006-01-02 15:04"))
	assert.Equal(t, "2026-06-02 01:00", got[0].End.Format("2006-01-02 15:04"))
}

func TestGenerateRecurrence_Bounds(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("weekly with no weekdays fails safe", func(t *testing.T) {
		p := product(models.RecurrenceRule{
			Frequency:    models.FreqWeekly,
			EndCondition: models.EndNever,
		})
		got, err := GenerateRecurrence(p, start, recurrenceNow)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("open ended daily stops at default cap", func(t *testing.T) {
		p := product(models.RecurrenceRule{
			Frequency:    models.FreqDaily,
			Interval:     1,
			EndCondition: models.EndNever,
		})
		got, err := GenerateRecurrence(p, start, recurrenceNow)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 500)
		assert.NotEmpty(t, got)
	})

	t.Run("iteration guard bounds any rule", func(t *testing.T) {
		p := product(models.RecurrenceRule{
			Frequency:    models.FreqDaily,
			Interval:     1,
			EndCondition: models.EndAfterOccurrences,
			Occurrences:  100000,
		})
		got, err := GenerateRecurrence(p, start, recurrenceNow)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 1000)
	})

	t.Run("unparsable default time is an error", func(t *testing.T) {
		p := product(models.RecurrenceRule{Frequency: models.FreqDaily, EndCondition: models.EndNever})
		p.DefaultStartTime = "half past nine"
		_, err := GenerateRecurrence(p, start, recurrenceNow)
		assert.Error(t, err)
	})
}
