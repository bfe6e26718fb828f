package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validBooking() Booking {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return Booking{
		ID:     "b1",
		Kind:   KindStandard,
		Title:  "Morning dive",
		Status: StatusStandby,
		Start:  start,
		End:    start.Add(2 * time.Hour),
	}
}

func TestBookingValidate(t *testing.T) {
	t.Run("valid standard booking", func(t *testing.T) {
		b := validBooking()
		assert.NoError(t, b.Validate())
	})

	t.Run("end must be after start", func(t *testing.T) {
		b := validBooking()
		b.End = b.Start
		err := b.Validate()
		assert.Error(t, err)
		assert.True(t, IsValidation(err))

		b.End = b.Start.Add(-time.Hour)
		assert.Error(t, b.Validate())
	})

	t.Run("duplicate equipment refused", func(t *testing.T) {
		b := validBooking()
		b.Equipment = []ResourceAssignment{{Name: "Boat A"}, {Name: "Boat A"}}
		assert.Error(t, b.Validate())
	})

	t.Run("duplicate staff refused", func(t *testing.T) {
		b := validBooking()
		b.Staff = []StaffAssignment{
			{ResourceAssignment: ResourceAssignment{Name: "Ana"}},
			{ResourceAssignment: ResourceAssignment{Name: "Ana"}},
		}
		assert.Error(t, b.Validate())
	})

	t.Run("task requires parent", func(t *testing.T) {
		b := validBooking()
		b.Kind = KindTask
		assert.Error(t, b.Validate())

		b.ParentID = "b0"
		assert.NoError(t, b.Validate())
	})

	t.Run("unavailability requires resource", func(t *testing.T) {
		b := validBooking()
		b.Kind = KindUnavailability
		assert.Error(t, b.Validate())

		b.ResourceKind = ResourceEquipment
		b.ResourceName = "Boat A"
		assert.NoError(t, b.Validate())
	})

	t.Run("unknown kind refused", func(t *testing.T) {
		b := validBooking()
		b.Kind = "holiday"
		assert.Error(t, b.Validate())
	})
}

func TestBookingResourceHelpers(t *testing.T) {
	b := validBooking()
	b.Equipment = []ResourceAssignment{{Name: "Boat A"}}
	b.Staff = []StaffAssignment{{ResourceAssignment: ResourceAssignment{Name: "Ana"}}}

	assert.True(t, b.AssignsResource(ResourceEquipment, "Boat A"))
	assert.False(t, b.AssignsResource(ResourceEquipment, "Ana"))
	assert.True(t, b.AssignsResource(ResourceProfessional, "Ana"))
	assert.True(t, b.HasResources())

	u := Booking{Kind: KindUnavailability, ResourceKind: ResourceEquipment, ResourceName: "Boat A"}
	assert.True(t, u.BlocksResource(ResourceEquipment, "Boat A"))
	assert.False(t, u.BlocksResource(ResourceProfessional, "Boat A"))
	assert.False(t, b.BlocksResource(ResourceEquipment, "Boat A"))
}

func TestParseTimeOfDay(t *testing.T) {
	h, m, err := ParseTimeOfDay("17:30")
	assert.NoError(t, err)
	assert.Equal(t, 17, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "17", "25:00", "10:75", "ab:cd"} {
		_, _, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("nope")))
	assert.False(t, IsValidation(errors.New("nope")))
	assert.False(t, IsValidation(nil))
}
