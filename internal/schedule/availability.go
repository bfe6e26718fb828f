package schedule

import (
	"fmt"
	"time"

	"velamar/internal/models"
)

// Interval is a half-bounded time window with End after Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps tests open-interval overlap: touching endpoints are not
// considered an overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// AvailabilityStatus classifies a resource's availability for an
// interval.
type AvailabilityStatus string

const (
	// Available: no overlap with any booking referencing the resource.
	Available AvailabilityStatus = "available"
	// Conflicting: overlaps a standby booking for the resource. The
	// resource may still be selected but cannot be confirmed.
	Conflicting AvailabilityStatus = "conflicting"
	// Unavailable: overlaps an unavailability record or a confirmed
	// booking for the resource. Blocks selection and confirmation.
	Unavailable AvailabilityStatus = "unavailable"
)

// Availability is the outcome of an availability check.
type Availability struct {
	Status AvailabilityStatus `json:"status"`
	Reason string             `json:"reason,omitempty"`
}

// CheckAvailability scans the given bookings for conflicts with a
// candidate interval for the named resource. The caller excludes the
// booking being edited from others. Cancelled bookings are ignored;
// every other booking is tested against its padded interval. A hard
// match (unavailability record or confirmed booking) short-circuits;
// otherwise a standby overlap is reported as a soft conflict.
func CheckAvailability(name string, kind models.ResourceKind, candidate Interval, others []models.Booking, cat Catalogs) Availability {
	var soft *Availability

	for i := range others {
		other := &others[i]
		if other.Status == models.StatusCancelled {
			continue
		}
		padded := ComputeBufferedInterval(*other, cat.Equipment, cat.Docks)
		if !candidate.Overlaps(padded.Interval()) {
			continue
		}

		if other.BlocksResource(kind, name) {
			reason := "resource marked unavailable"
			if other.Reason != "" {
				reason = fmt.Sprintf("resource marked unavailable: %s", other.Reason)
			}
			return Availability{Status: Unavailable, Reason: reason}
		}

		if !other.AssignsResource(kind, name) {
			continue
		}
		if other.Status == models.StatusConfirmed {
			return Availability{Status: Unavailable, Reason: fmt.Sprintf("conflict with confirmed booking %q", titleOf(other))}
		}
		if soft == nil {
			soft = &Availability{Status: Conflicting, Reason: fmt.Sprintf("conflict with standby booking %q", titleOf(other))}
		}
	}

	if soft != nil {
		return *soft
	}
	return Availability{Status: Available}
}

func titleOf(b *models.Booking) string {
	if b.Title != "" {
		return b.Title
	}
	return "untitled"
}

// ExcludeBooking returns bookings without the one carrying the given
// id. An empty id returns the list unchanged.
func ExcludeBooking(bookings []models.Booking, id string) []models.Booking {
	if id == "" {
		return bookings
	}
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
