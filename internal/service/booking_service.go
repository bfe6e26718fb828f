// Package service orchestrates the scheduling engine over the store:
// validation, status derivation, confirmation-time re-validation and
// atomic series generation.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"velamar/internal/metrics"
	"velamar/internal/models"
	"velamar/internal/schedule"
)

// BookingStore is the booking repository surface the service needs.
type BookingStore interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	SaveBooking(ctx context.Context, b models.Booking) error
	InsertBookingBatch(ctx context.Context, bookings []models.Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// CatalogStore is the read side of the catalogs.
type CatalogStore interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	ListDocks(ctx context.Context) ([]models.Dock, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// BookingService exposes the scheduling operations the application
// relies on. It never mutates its inputs; status is recomputed on
// every save.
type BookingService struct {
	bookings BookingStore
	catalogs CatalogStore
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a booking service. now defaults to time.Now.
func New(bookings BookingStore, catalogs CatalogStore, logger zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		catalogs: catalogs,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) loadCatalogs(ctx context.Context) (schedule.Catalogs, error) {
	equipment, err := s.catalogs.ListEquipment(ctx)
	if err != nil {
		return schedule.Catalogs{}, fmt.Errorf("load equipment: %w", err)
	}
	docks, err := s.catalogs.ListDocks(ctx)
	if err != nil {
		return schedule.Catalogs{}, fmt.Errorf("load docks: %w", err)
	}
	professionals, err := s.catalogs.ListProfessionals(ctx)
	if err != nil {
		return schedule.Catalogs{}, fmt.Errorf("load professionals: %w", err)
	}
	skills, err := s.catalogs.ListSkills(ctx)
	if err != nil {
		return schedule.Catalogs{}, fmt.Errorf("load skills: %w", err)
	}
	return schedule.Catalogs{
		Equipment:     equipment,
		Docks:         docks,
		Professionals: professionals,
		Skills:        skills,
	}, nil
}

// ListBookings returns the full booking snapshot.
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

// GetBooking returns one booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

// Catalogs returns the current resource catalogs.
func (s *BookingService) Catalogs(ctx context.Context) (schedule.Catalogs, error) {
	return s.loadCatalogs(ctx)
}

// CheckResourceAvailability runs an availability check for a resource
// over the current snapshot, excluding the booking being edited.
func (s *BookingService) CheckResourceAvailability(ctx context.Context, name string, kind models.ResourceKind, candidate schedule.Interval, excludeID string) (schedule.Availability, error) {
	cat, err := s.loadCatalogs(ctx)
	if err != nil {
		return schedule.Availability{}, err
	}
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return schedule.Availability{}, fmt.Errorf("load bookings: %w", err)
	}

	result := schedule.CheckAvailability(name, kind, candidate, schedule.ExcludeBooking(bookings, excludeID), cat)
	metrics.IncAvailabilityCheck(string(result.Status))
	return result, nil
}

// SaveBooking validates and persists a booking, recomputing its
// status. An empty id means a new booking. Explicit cancellation is
// terminal.
func (s *BookingService) SaveBooking(ctx context.Context, b models.Booking, actor string, explicitCancel bool) (models.Booking, error) {
	if err := b.Validate(); err != nil {
		return models.Booking{}, err
	}

	cat, err := s.loadCatalogs(ctx)
	if err != nil {
		return models.Booking{}, err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Status = schedule.DeriveStatus(b, cat.Equipment, explicitCancel)
	b.LastModifiedAt = s.now()
	b.LastModifiedBy = actor

	if err := s.bookings.SaveBooking(ctx, b); err != nil {
		return models.Booking{}, err
	}
	metrics.IncBookingSaved(string(b.Status))
	s.logger.Info().Str("booking", b.ID).Str("status", string(b.Status)).Msg("booking saved")
	return b, nil
}

// ConfirmAssignment re-validates availability at confirmation time and
// marks the assignment confirmed. Availability checks done earlier may
// be stale; the snapshot loaded here decides. A resource that is not
// available is refused with the reason.
func (s *BookingService) ConfirmAssignment(ctx context.Context, bookingID string, kind models.ResourceKind, name string, actor string) (models.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return models.Booking{}, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	cat, err := s.loadCatalogs(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	all, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return models.Booking{}, fmt.Errorf("load bookings: %w", err)
	}

	candidate := schedule.ComputeBufferedInterval(b, cat.Equipment, cat.Docks).Interval()
	avail := schedule.CheckAvailability(name, kind, candidate, schedule.ExcludeBooking(all, b.ID), cat)
	metrics.IncAvailabilityCheck(string(avail.Status))
	if avail.Status != schedule.Available {
		return models.Booking{}, models.NewValidationError(
			fmt.Sprintf("cannot confirm %s: %s", name, avail.Reason))
	}

	if !setConfirmed(&b, kind, name) {
		return models.Booking{}, models.NewValidationError(
			fmt.Sprintf("%s is not assigned to this booking", name))
	}

	b.Status = schedule.DeriveStatus(b, cat.Equipment, false)
	b.LastModifiedAt = s.now()
	b.LastModifiedBy = actor
	if err := s.bookings.SaveBooking(ctx, b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func setConfirmed(b *models.Booking, kind models.ResourceKind, name string) bool {
	switch kind {
	case models.ResourceEquipment:
		for i := range b.Equipment {
			if b.Equipment[i].Name == name {
				b.Equipment[i].Confirmed = true
				b.Equipment[i].Conflict = false
				return true
			}
		}
	case models.ResourceProfessional:
		for i := range b.Staff {
			if b.Staff[i].Name == name {
				b.Staff[i].Confirmed = true
				b.Staff[i].Conflict = false
				return true
			}
		}
	}
	return false
}

// DeleteBooking removes a booking permanently. Policy: only cancelled
// bookings may be deleted; everything else is soft-deleted by
// cancelling it first.
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("load booking %s: %w", id, err)
	}
	if b.Status != models.StatusCancelled {
		return models.NewValidationError("only cancelled bookings can be deleted")
	}
	return s.bookings.DeleteBooking(ctx, id)
}

// GenerateSeries expands a product's recurrence rule into booking
// instances and commits them as one atomic batch. Every instance is
// validated first; one invalid instance refuses the whole series.
// Returns the number of instances created.
func (s *BookingService) GenerateSeries(ctx context.Context, productID string, startDate time.Time, actor string) (int, error) {
	product, err := s.catalogs.GetProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("load product %s: %w", productID, err)
	}

	instances, err := schedule.GenerateRecurrence(product, startDate, s.now())
	if err != nil {
		return 0, err
	}
	if len(instances) == 0 {
		return 0, nil
	}

	seriesCode := strings.ToUpper(uuid.NewString()[:6])
	now := s.now()
	for i := range instances {
		if err := instances[i].Validate(); err != nil {
			return 0, fmt.Errorf("series instance %s: %w", instances[i].Start.Format("2006-01-02"), err)
		}
		instances[i].ID = uuid.NewString()
		instances[i].SeriesCode = seriesCode
		instances[i].LastModifiedAt = now
		instances[i].LastModifiedBy = actor
	}

	if err := s.bookings.InsertBookingBatch(ctx, instances); err != nil {
		return 0, err
	}
	metrics.AddSeriesGenerated(len(instances))
	s.logger.Info().Str("product", product.Name).Str("series", seriesCode).
		Int("count", len(instances)).Msg("recurrence series generated")
	return len(instances), nil
}

// CancelOverdue cancels bookings stuck in standby past the auto-cancel
// deadline, appending an audit note. Idempotent; safe to re-run.
func (s *BookingService) CancelOverdue(ctx context.Context, now time.Time) (int, error) {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load bookings: %w", err)
	}

	overdue := schedule.SweepAutoCancel(bookings, now)
	for _, b := range overdue {
		b.Status = models.StatusCancelled
		b.Note = strings.TrimSpace(b.Note + "\n" + schedule.AutoCancelNote)
		b.LastModifiedAt = now
		b.LastModifiedBy = "system"
		if err := s.bookings.SaveBooking(ctx, b); err != nil {
			return 0, fmt.Errorf("cancel overdue booking %s: %w", b.ID, err)
		}
		s.logger.Info().Str("booking", b.ID).Time("start", b.Start).Msg("booking auto-cancelled")
	}
	if len(overdue) > 0 {
		metrics.AddAutoCancelled(len(overdue))
	}
	return len(overdue), nil
}

// DayLayout computes render geometry for the given day's bookings,
// padded per their resource overhead. Cancelled bookings are omitted.
func (s *BookingService) DayLayout(ctx context.Context, day time.Time, startHour, visibleHours int) ([]schedule.PlacedEntry, error) {
	cat, err := s.loadCatalogs(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	window := schedule.Interval{Start: dayStart, End: dayEnd}

	var entries []schedule.LayoutEntry
	for _, b := range bookings {
		if b.Status == models.StatusCancelled {
			continue
		}
		padded := schedule.ComputeBufferedInterval(b, cat.Equipment, cat.Docks)
		if !window.Overlaps(padded.Interval()) {
			continue
		}
		entries = append(entries, schedule.LayoutEntry{
			ID:    b.ID,
			Start: padded.PaddedStart,
			End:   padded.PaddedEnd,
		})
	}
	return schedule.ComputeDayLayout(entries, startHour, visibleHours), nil
}

// RankStaffCandidates ranks staff against a query, annotating each
// candidate's availability when an interval is given.
func (s *BookingService) RankStaffCandidates(ctx context.Context, query string, interval *schedule.Interval, excludeID string) ([]schedule.StaffCandidate, error) {
	cat, err := s.loadCatalogs(ctx)
	if err != nil {
		return nil, err
	}

	var check schedule.AvailabilityFunc
	if interval != nil {
		bookings, err := s.bookings.ListBookings(ctx)
		if err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		others := schedule.ExcludeBooking(bookings, excludeID)
		check = func(name string, kind models.ResourceKind) schedule.Availability {
			return schedule.CheckAvailability(name, kind, *interval, others, cat)
		}
	}
	return schedule.RankStaff(query, cat.Professionals, cat.Skills, check), nil
}
