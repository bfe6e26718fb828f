package schedule

import (
	"fmt"
	"time"

	"velamar/internal/models"
)

const (
	// maxRecurrenceIterations bounds a misconfigured rule to a safe
	// early stop instead of an unbounded loop.
	maxRecurrenceIterations = 1000
	// defaultOccurrenceCap applies when the rule has no occurrence
	// count of its own.
	defaultOccurrenceCap = 500
	// defaultHorizonYears applies when the rule has no end date.
	defaultHorizonYears = 5
)

// dateSeq lazily yields candidate occurrence dates for a recurrence
// rule, starting at the given date. The first occurrence falls on the
// start date itself (for weekly rules: the first listed weekday at or
// after it).
type dateSeq struct {
	rule    models.RecurrenceRule
	current time.Time
	emitted int
}

// next returns the following occurrence date, or false when the rule
// cannot produce one (weekly with an empty weekday set).
func (s *dateSeq) next() (time.Time, bool) {
	interval := s.rule.Interval
	if interval < 1 {
		interval = 1
	}

	var candidate time.Time
	switch s.rule.Frequency {
	case models.FreqDaily:
		if s.emitted == 0 {
			candidate = s.current
		} else {
			candidate = s.current.AddDate(0, 0, interval)
		}
	case models.FreqMonthly:
		if s.emitted == 0 {
			candidate = s.current
		} else {
			candidate = addMonthsClamped(s.current, interval)
		}
	case models.FreqWeekly:
		if len(s.rule.DaysOfWeek) == 0 {
			return time.Time{}, false
		}
		search := s.current
		if s.emitted > 0 {
			search = search.AddDate(0, 0, 1)
		}
		// At most a week of scanning reaches the next listed weekday.
		for i := 0; i < 8; i++ {
			if weekdayListed(s.rule.DaysOfWeek, search.Weekday()) {
				break
			}
			search = search.AddDate(0, 0, 1)
		}
		candidate = search
	default:
		return time.Time{}, false
	}

	s.current = candidate
	s.emitted++
	return candidate, true
}

// addMonthsClamped advances by whole months, clamping the day to the
// target month's last day so a month-end date stays in the intended
// month (Jan 31 advances to Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func weekdayListed(days []time.Weekday, d time.Weekday) bool {
	for _, w := range days {
		if w == d {
			return true
		}
	}
	return false
}

// occurrenceDates expands a rule into a bounded, ordered list of
// occurrence dates. The termination predicate wraps the lazy sequence:
// occurrence cap, end date and the hard iteration guard.
func occurrenceDates(rule models.RecurrenceRule, startDate, now time.Time) []time.Time {
	limit := defaultOccurrenceCap
	if rule.EndCondition == models.EndAfterOccurrences && rule.Occurrences > 0 {
		limit = rule.Occurrences
	}
	horizon := now.AddDate(defaultHorizonYears, 0, 0)
	if rule.EndCondition == models.EndOnDate && !rule.EndDate.IsZero() {
		horizon = rule.EndDate
	}

	seq := &dateSeq{rule: rule, current: startDate}
	var dates []time.Time
	for i := 0; i < maxRecurrenceIterations && len(dates) < limit; i++ {
		d, ok := seq.next()
		if !ok || d.After(horizon) {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// GenerateRecurrence expands a product template into concrete standby
// booking instances starting at startDate. Expansion is bounded by the
// rule's end condition and a hard iteration guard; a pathological rule
// yields an early stop, never an unbounded loop. Instances copy the
// template's default resources and times; the caller assigns ids and
// commits the whole batch atomically.
func GenerateRecurrence(p models.Product, startDate, now time.Time) ([]models.Booking, error) {
	startHour, startMin, err := models.ParseTimeOfDay(p.DefaultStartTime)
	if err != nil {
		return nil, fmt.Errorf("product %q default start: %w", p.Name, err)
	}
	endHour, endMin, err := models.ParseTimeOfDay(p.DefaultEndTime)
	if err != nil {
		return nil, fmt.Errorf("product %q default end: %w", p.Name, err)
	}

	dates := occurrenceDates(p.Recurrence, startDate, now)
	instances := make([]models.Booking, 0, len(dates))
	for _, d := range dates {
		start := time.Date(d.Year(), d.Month(), d.Day(), startHour, startMin, 0, 0, d.Location())
		end := time.Date(d.Year(), d.Month(), d.Day(), endHour, endMin, 0, 0, d.Location())
		// A default end at or before the start is an overnight window
		// ending on the following day.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		b := models.Booking{
			Kind:       models.KindStandard,
			Title:      p.Name,
			Department: p.Department,
			Status:     models.StatusStandby,
			ProductID:  p.ID,
			Start:      start,
			End:        end,
		}
		for _, name := range p.DefaultEquipment {
			b.Equipment = append(b.Equipment, models.ResourceAssignment{Name: name})
		}
		for _, name := range p.DefaultStaff {
			b.Staff = append(b.Staff, models.StaffAssignment{
				ResourceAssignment: models.ResourceAssignment{Name: name},
			})
		}
		instances = append(instances, b)
	}
	return instances, nil
}
