package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"velamar/internal/models"
)

const timeLayout = time.RFC3339

// ListBookings returns every booking. A row whose time columns cannot
// be parsed is logged and skipped: one corrupt record must not abort
// the scan.
func (s *Store) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, kind, title, department, status, start_time, end_time, note,
		       parent_id, client_id, product_id, series_code,
		       boarding_dock_id, disembark_dock_id,
		       resource_kind, resource_name, reason,
		       equipment, staff, financial,
		       last_modified_at, last_modified_by
		FROM bookings
		ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := s.scanBooking(rows)
		if err != nil {
			s.logger.Warn().Err(err).Msg("skipping malformed booking row")
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBooking returns a single booking; a missing id wraps
// models.ErrNotFound.
func (s *Store) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, kind, title, department, status, start_time, end_time, note,
		       parent_id, client_id, product_id, series_code,
		       boarding_dock_id, disembark_dock_id,
		       resource_kind, resource_name, reason,
		       equipment, staff, financial,
		       last_modified_at, last_modified_by
		FROM bookings WHERE id = ?`, id)
	b, err := s.scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	return b, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var startStr, endStr string
	var note, parentID, clientID, productID, seriesCode sql.NullString
	var boarding, disembark, resKind, resName, reason sql.NullString
	var equipmentJSON, staffJSON, financialJSON sql.NullString
	var modifiedAt, modifiedBy sql.NullString

	err := row.Scan(
		&b.ID, &b.Kind, &b.Title, &b.Department, &b.Status, &startStr, &endStr, &note,
		&parentID, &clientID, &productID, &seriesCode,
		&boarding, &disembark,
		&resKind, &resName, &reason,
		&equipmentJSON, &staffJSON, &financialJSON,
		&modifiedAt, &modifiedBy,
	)
	if err != nil {
		return models.Booking{}, err
	}

	b.Start, err = time.Parse(timeLayout, startStr)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s start: %w", b.ID, err)
	}
	b.End, err = time.Parse(timeLayout, endStr)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s end: %w", b.ID, err)
	}

	b.Note = note.String
	b.ParentID = parentID.String
	b.ClientID = clientID.String
	b.ProductID = productID.String
	b.SeriesCode = seriesCode.String
	b.BoardingDockID = boarding.String
	b.DisembarkDockID = disembark.String
	b.ResourceKind = models.ResourceKind(resKind.String)
	b.ResourceName = resName.String
	b.Reason = reason.String
	b.LastModifiedBy = modifiedBy.String
	if modifiedAt.Valid {
		if t, err := time.Parse(timeLayout, modifiedAt.String); err == nil {
			b.LastModifiedAt = t
		}
	}

	if equipmentJSON.Valid && equipmentJSON.String != "" {
		if err := json.Unmarshal([]byte(equipmentJSON.String), &b.Equipment); err != nil {
			return models.Booking{}, fmt.Errorf("booking %s equipment: %w", b.ID, err)
		}
	}
	if staffJSON.Valid && staffJSON.String != "" {
		if err := json.Unmarshal([]byte(staffJSON.String), &b.Staff); err != nil {
			return models.Booking{}, fmt.Errorf("booking %s staff: %w", b.ID, err)
		}
	}
	if financialJSON.Valid && financialJSON.String != "" {
		if err := json.Unmarshal([]byte(financialJSON.String), &b.Financial); err != nil {
			return models.Booking{}, fmt.Errorf("booking %s financial: %w", b.ID, err)
		}
	}
	return b, nil
}

// SaveBooking inserts or replaces a booking and publishes the new
// snapshot.
func (s *Store) SaveBooking(ctx context.Context, b models.Booking) error {
	if err := s.upsertBooking(ctx, s.DB, b); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertBooking(ctx context.Context, ex execer, b models.Booking) error {
	equipmentJSON, err := json.Marshal(b.Equipment)
	if err != nil {
		return fmt.Errorf("marshal equipment: %w", err)
	}
	staffJSON, err := json.Marshal(b.Staff)
	if err != nil {
		return fmt.Errorf("marshal staff: %w", err)
	}
	var financialJSON []byte
	if b.Financial != nil {
		financialJSON, err = json.Marshal(b.Financial)
		if err != nil {
			return fmt.Errorf("marshal financial: %w", err)
		}
	}

	_, err = ex.ExecContext(ctx, `
		INSERT OR REPLACE INTO bookings (
			id, kind, title, department, status, start_time, end_time, note,
			parent_id, client_id, product_id, series_code,
			boarding_dock_id, disembark_dock_id,
			resource_kind, resource_name, reason,
			equipment, staff, financial,
			last_modified_at, last_modified_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Kind, b.Title, b.Department, b.Status,
		b.Start.Format(timeLayout), b.End.Format(timeLayout), b.Note,
		b.ParentID, b.ClientID, b.ProductID, b.SeriesCode,
		b.BoardingDockID, b.DisembarkDockID,
		string(b.ResourceKind), b.ResourceName, b.Reason,
		string(equipmentJSON), string(staffJSON), string(financialJSON),
		b.LastModifiedAt.Format(timeLayout), b.LastModifiedBy,
	)
	if err != nil {
		return fmt.Errorf("save booking %s: %w", b.ID, err)
	}
	return nil
}

// InsertBookingBatch commits all bookings in a single transaction:
// either the whole series becomes visible or none of it.
func (s *Store) InsertBookingBatch(ctx context.Context, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bookings {
		if err := s.upsertBooking(ctx, tx, b); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.publish(ctx)
	return nil
}

// DeleteBooking removes a booking permanently.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	if _, err := s.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	s.publish(ctx)
	return nil
}

func (s *Store) publish(ctx context.Context) {
	if s.bus == nil {
		return
	}
	snapshot, err := s.ListBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load snapshot for change bus")
		return
	}
	s.bus.Publish(snapshot)
}
