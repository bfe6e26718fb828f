package schedule

import (
	"time"

	"velamar/internal/models"
)

// AutoCancelAfter is how long a booking may sit in standby past its
// start time before it is cancelled automatically.
const AutoCancelAfter = 48 * time.Hour

// AutoCancelNote is appended to a booking's note when the sweep
// cancels it.
const AutoCancelNote = "[system] cancelled automatically after 48 hours in standby past start"

// DeriveStatus computes a booking's lifecycle status from its resource
// confirmations. An explicit cancellation is terminal; it is never
// produced implicitly. The booking is confirmed only when it has at
// least one resource, every assignment is confirmed, the staffing
// requirement implied by its equipment is met, and prepayment (when
// required) has been made.
func DeriveStatus(b models.Booking, equipment []models.Equipment, explicitCancel bool) models.BookingStatus {
	if explicitCancel || b.Status == models.StatusCancelled {
		return models.StatusCancelled
	}
	// An unavailability record blocks its resource for the whole window
	// and carries no assignments to confirm.
	if b.Kind == models.KindUnavailability {
		return models.StatusConfirmed
	}
	if !b.HasResources() {
		return models.StatusStandby
	}

	if len(b.Staff) < requiredStaff(b, equipment) {
		return models.StatusStandby
	}
	for _, eq := range b.Equipment {
		if !eq.Confirmed {
			return models.StatusStandby
		}
	}
	for _, st := range b.Staff {
		if !st.Confirmed {
			return models.StatusStandby
		}
	}
	if b.Financial != nil && b.Financial.Prepaid && !b.Financial.Paid {
		return models.StatusStandby
	}
	return models.StatusConfirmed
}

// requiredStaff is the minimum professional count implied by the
// assigned equipment: the maximum MinStaff over the assigned items.
func requiredStaff(b models.Booking, equipment []models.Equipment) int {
	byName := make(map[string]models.Equipment, len(equipment))
	for _, eq := range equipment {
		byName[eq.Name] = eq
	}
	required := 0
	for _, assigned := range b.Equipment {
		if eq, ok := byName[assigned.Name]; ok && eq.MinStaff > required {
			required = eq.MinStaff
		}
	}
	return required
}

// SweepAutoCancel returns the bookings that should be force-cancelled:
// those still in standby whose start lies more than AutoCancelAfter
// before now. Unavailability records stay out of the sweep regardless
// of stored status. Cancelled bookings never transition further, so
// the sweep is idempotent.
func SweepAutoCancel(bookings []models.Booking, now time.Time) []models.Booking {
	var overdue []models.Booking
	for _, b := range bookings {
		if b.Status != models.StatusStandby || b.Kind == models.KindUnavailability {
			continue
		}
		if b.Start.Add(AutoCancelAfter).Before(now) {
			overdue = append(overdue, b)
		}
	}
	return overdue
}
