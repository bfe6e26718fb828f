package models

import (
	"fmt"
	"time"
)

// BookingKind distinguishes the booking variants. Each variant has its
// own required fields, validated in Validate.
type BookingKind string

const (
	KindStandard       BookingKind = "standard"
	KindTask           BookingKind = "task"
	KindUnavailability BookingKind = "unavailability"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	StatusStandby   BookingStatus = "standby"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ResourceKind identifies which catalog a resource name refers to.
type ResourceKind string

const (
	ResourceEquipment    ResourceKind = "equipment"
	ResourceProfessional ResourceKind = "professional"
)

// ResourceAssignment links a booking to a resource by its natural key
// (the resource name). Conflict marks a soft conflict recorded at the
// time the resource was added.
type ResourceAssignment struct {
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
	Conflict  bool   `json:"conflict"`
}

// StaffAssignment is a resource assignment for a professional, carrying
// the skill they are booked for.
type StaffAssignment struct {
	ResourceAssignment
	SkillID string `json:"skill_id,omitempty"`
}

// FinancialDetails holds optional billing data for commercial bookings.
type FinancialDetails struct {
	GrossValue      float64 `json:"gross_value"`
	CommissionType  string  `json:"commission_type"` // "%" or "fixed"
	CommissionValue float64 `json:"commission_value"`
	VATRate         float64 `json:"vat_rate"`
	Prepaid         bool    `json:"prepaid"`
	Paid            bool    `json:"paid"`
}

// Booking is the central entity: a time window holding resource
// assignments (standard bookings and tasks) or a blocked resource
// (unavailability records).
type Booking struct {
	ID         string        `json:"id"`
	Kind       BookingKind   `json:"kind"`
	Title      string        `json:"title"`
	Department string        `json:"department"`
	Status     BookingStatus `json:"status"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Note       string        `json:"note,omitempty"`

	Equipment []ResourceAssignment `json:"equipment,omitempty"`
	Staff     []StaffAssignment    `json:"staff,omitempty"`

	// Task variant: the booking this task is subordinate to.
	ParentID string `json:"parent_id,omitempty"`

	// Standard variant references.
	ClientID   string            `json:"client_id,omitempty"`
	ProductID  string            `json:"product_id,omitempty"`
	SeriesCode string            `json:"series_code,omitempty"`
	Financial  *FinancialDetails `json:"financial,omitempty"`

	BoardingDockID  string `json:"boarding_dock_id,omitempty"`
	DisembarkDockID string `json:"disembark_dock_id,omitempty"`

	// Unavailability variant: the blocked resource and the reason.
	ResourceKind ResourceKind `json:"resource_kind,omitempty"`
	ResourceName string       `json:"resource_name,omitempty"`
	Reason       string       `json:"reason,omitempty"`

	LastModifiedAt time.Time `json:"last_modified_at,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
}

// Validate checks the booking invariants. It returns a *ValidationError
// describing the first violation found, or nil.
func (b *Booking) Validate() error {
	if !b.End.After(b.Start) {
		return NewValidationError("end time must be after start time")
	}

	switch b.Kind {
	case KindStandard, KindTask:
		if b.Kind == KindTask && b.ParentID == "" {
			return NewValidationError("task requires a parent booking")
		}
		seen := make(map[string]bool, len(b.Equipment))
		for _, eq := range b.Equipment {
			if seen[eq.Name] {
				return NewValidationError(fmt.Sprintf("equipment %q assigned more than once", eq.Name))
			}
			seen[eq.Name] = true
		}
		seen = make(map[string]bool, len(b.Staff))
		for _, st := range b.Staff {
			if seen[st.Name] {
				return NewValidationError(fmt.Sprintf("professional %q assigned more than once", st.Name))
			}
			seen[st.Name] = true
		}
	case KindUnavailability:
		if b.ResourceName == "" || b.ResourceKind == "" {
			return NewValidationError("unavailability requires a resource kind and name")
		}
	default:
		return NewValidationError(fmt.Sprintf("unknown booking kind %q", b.Kind))
	}

	return nil
}

// AssignsResource reports whether the booking holds an assignment for
// the given resource. Unavailability records do not assign resources;
// they block them (see matching in the availability checker).
func (b *Booking) AssignsResource(kind ResourceKind, name string) bool {
	switch kind {
	case ResourceEquipment:
		for _, eq := range b.Equipment {
			if eq.Name == name {
				return true
			}
		}
	case ResourceProfessional:
		for _, st := range b.Staff {
			if st.Name == name {
				return true
			}
		}
	}
	return false
}

// BlocksResource reports whether the booking is an unavailability
// record for the given resource.
func (b *Booking) BlocksResource(kind ResourceKind, name string) bool {
	return b.Kind == KindUnavailability && b.ResourceKind == kind && b.ResourceName == name
}

// HasResources reports whether at least one resource is assigned.
func (b *Booking) HasResources() bool {
	return len(b.Equipment) > 0 || len(b.Staff) > 0
}
